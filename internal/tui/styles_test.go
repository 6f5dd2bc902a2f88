package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/skillswap/skillswap/pkg/domain"
)

func TestConnectionBadge(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{domain.StatusAccepted, "connected"},
		{domain.StatusPending, "pending"},
		{domain.StatusRejected, "declined"},
		{"", ""},
		{"SOMETHING_NEW", ""},
	}
	for _, tc := range tests {
		t.Run(tc.status, func(t *testing.T) {
			got := connectionBadge(tc.status)
			if tc.want == "" && got != "" {
				t.Errorf("connectionBadge(%q) = %q, want empty", tc.status, got)
			}
			if tc.want != "" && !strings.Contains(got, tc.want) {
				t.Errorf("connectionBadge(%q) = %q, want %q", tc.status, got, tc.want)
			}
		})
	}
}

func TestHelpBarPairs(t *testing.T) {
	got := helpBar("j/k", "move", "enter", "open", "dangling")
	for _, want := range []string{"j/k", "move", "enter", "open"} {
		if !strings.Contains(got, want) {
			t.Errorf("helpBar missing %q: %q", want, got)
		}
	}
	if strings.Contains(got, "dangling") {
		t.Errorf("expected unpaired key to be dropped: %q", got)
	}
}

func TestHelpViewUsesUnlockWindow(t *testing.T) {
	view := helpView(10 * time.Minute)
	if !strings.Contains(view, "Sessions unlock 10 minutes before they start.") {
		t.Errorf("expected configured window in help, got:\n%s", view)
	}
}
