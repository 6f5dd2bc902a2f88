package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestEditRune(t *testing.T) {
	tests := []struct {
		name  string
		start string
		key   string
		want  string
	}{
		{"append to empty", "", "a", "a"},
		{"append letter", "hel", "l", "hell"},
		{"space key", "hello", "space", "hello "},
		{"literal space", "hello", " ", "hello "},
		{"backspace", "hello", "backspace", "hell"},
		{"backspace on empty", "", "backspace", ""},
		{"backspace multibyte", "café", "backspace", "caf"},
		{"ignore enter", "abc", "enter", "abc"},
		{"ignore ctrl", "abc", "ctrl+a", "abc"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := editRune(tc.start, tc.key); got != tc.want {
				t.Errorf("editRune(%q, %q) = %q, want %q", tc.start, tc.key, got, tc.want)
			}
		})
	}
}

func TestEditRuneClampsLength(t *testing.T) {
	full := strings.Repeat("x", maxInputLen)
	if got := editRune(full, "y"); got != full {
		t.Errorf("expected input clamped at %d runes", maxInputLen)
	}
}

func TestUntil(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		d    time.Duration
		want string
	}{
		{45 * time.Minute, "45 minutes"},
		{3 * time.Hour, "3 hours"},
		{90 * time.Second, "1 minute"},
	}
	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			if got := until(now, now.Add(tc.d)); got != tc.want {
				t.Errorf("until(+%v) = %q, want %q", tc.d, got, tc.want)
			}
		})
	}
}

func TestFormatWindow(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{15 * time.Minute, "15 minutes"},
		{time.Minute, "1 minute"},
		{0, "at the moment"},
		{30 * time.Second, "30s"},
	}
	for _, tc := range tests {
		if got := formatWindow(tc.d); got != tc.want {
			t.Errorf("formatWindow(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestVisibleRange(t *testing.T) {
	tests := []struct {
		name               string
		cursor, n, height  int
		wantStart, wantEnd int
	}{
		{"fits", 0, 5, 10, 0, 5},
		{"top", 0, 20, 5, 0, 5},
		{"middle", 10, 20, 5, 8, 13},
		{"bottom", 19, 20, 5, 15, 20},
		{"no height", 3, 20, 0, 0, 20},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			start, end := visibleRange(tc.cursor, tc.n, tc.height)
			if start != tc.wantStart || end != tc.wantEnd {
				t.Errorf("visibleRange(%d, %d, %d) = [%d, %d), want [%d, %d)",
					tc.cursor, tc.n, tc.height, start, end, tc.wantStart, tc.wantEnd)
			}
		})
	}
}

func TestMoveCursor(t *testing.T) {
	tests := []struct {
		name   string
		msg    tea.KeyMsg
		cursor int
		want   int
		ok     bool
	}{
		{"down", runeKey("j"), 0, 1, true},
		{"down at end", runeKey("j"), 4, 4, true},
		{"up arrow", tea.KeyMsg{Type: tea.KeyUp}, 2, 1, true},
		{"up at top", runeKey("k"), 0, 0, true},
		{"top", runeKey("g"), 3, 0, true},
		{"bottom", runeKey("G"), 0, 4, true},
		{"not navigation", runeKey("x"), 2, 2, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := moveCursor(tc.msg, tc.cursor, 5)
			if got != tc.want || ok != tc.ok {
				t.Errorf("moveCursor = (%d, %v), want (%d, %v)", got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestTruncStr(t *testing.T) {
	if got := truncStr("hello world", 5); got != "hell…" {
		t.Errorf("truncStr = %q", got)
	}
	if got := truncStr("héllo", 10); got != "héllo" {
		t.Errorf("truncStr short = %q", got)
	}
	if got := truncStr("abc", 0); got != "" {
		t.Errorf("truncStr zero = %q", got)
	}
}

func TestTruncateToHeight(t *testing.T) {
	s := "a\nb\nc\nd\n"
	if got := truncateToHeight(s, 2); got != "a\nb\n" {
		t.Errorf("truncateToHeight = %q", got)
	}
	if got := truncateToHeight(s, 0); got != s {
		t.Errorf("expected unchanged for maxLines=0, got %q", got)
	}
}

func TestRenderShimmerLogoContainsLetters(t *testing.T) {
	logo := renderShimmerLogo(0)
	for _, r := range "SKILLSWAP" {
		if !strings.ContainsRune(logo, r) {
			t.Errorf("expected %q in logo", r)
		}
	}
}
