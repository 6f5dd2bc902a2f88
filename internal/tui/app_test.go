package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/skillswap/skillswap/pkg/domain"
)

var testNow = time.Date(2024, 1, 1, 10, 0, 0, 0, time.Local)

var testMe = domain.User{
	ID:    1,
	Name:  "Ada Lovelace",
	Email: "ada@example.com",
	Role:  domain.RoleMentor,
}

// testOptions pins the clock and stubs out the clipboard and browser.
func testOptions() Options {
	o := DefaultOptions()
	o.Now = func() time.Time { return testNow }
	o.Clipboard = func(string) error { return nil }
	o.OpenURL = func(string) error { return nil }
	return o
}

func newTestApp() App {
	a := NewApp(nil, testMe, testOptions())
	a.width = 100
	a.height = 30
	return a
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestAppStartsOnSessions(t *testing.T) {
	a := newTestApp()
	if a.view != viewSessions {
		t.Fatalf("expected initial view=sessions, got %d", a.view)
	}
	if !a.sessions.active {
		t.Error("expected sessions view to be active on start")
	}
}

func TestAppTabSwitching(t *testing.T) {
	tests := []struct {
		key      string
		wantView view
	}{
		{"1", viewSessions},
		{"2", viewMentors},
		{"3", viewRequests},
		{"4", viewChat},
		{"5", viewSkills},
		{"6", viewProfile},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			app := newTestApp()
			model, _ := app.Update(runeKey(tc.key))
			a := model.(App)
			if a.view != tc.wantView {
				t.Errorf("after key %q: expected view=%d, got %d", tc.key, tc.wantView, a.view)
			}
		})
	}
}

func TestAppLeavingSessionsStopsTimers(t *testing.T) {
	a := newTestApp()
	oldGen := a.sessions.gen

	model, _ := a.Update(runeKey("2"))
	a = model.(App)
	if a.sessions.active {
		t.Fatal("expected sessions to be inactive after leaving the tab")
	}
	if a.sessions.gen == oldGen {
		t.Fatal("expected sessions generation to change after leaving the tab")
	}

	// A tick issued before the switch must not re-arm the clock.
	model, cmd := a.Update(sessionsClockMsg{gen: oldGen, now: testNow.Add(time.Hour)})
	a = model.(App)
	if cmd != nil {
		t.Error("expected stale clock tick to produce no command")
	}
	if !a.sessions.now.Equal(testNow) {
		t.Errorf("expected clock to stay at %v, got %v", testNow, a.sessions.now)
	}

	// Coming back starts a fresh generation.
	model, cmd = a.Update(runeKey("1"))
	a = model.(App)
	if !a.sessions.active || cmd == nil {
		t.Error("expected sessions to reactivate with commands")
	}
}

func TestAppLeavingRequestsStopsPolling(t *testing.T) {
	a := newTestApp()
	model, _ := a.Update(runeKey("3"))
	a = model.(App)
	gen := a.requests.gen

	model, _ = a.Update(runeKey("4"))
	a = model.(App)
	_, cmd := a.Update(requestsTickMsg{gen: gen})
	if cmd != nil {
		t.Error("expected stale requests tick to produce no command")
	}
}

func TestAppGlobalQuitOnQ(t *testing.T) {
	a := newTestApp()
	_, cmd := a.Update(runeKey("q"))
	if cmd == nil {
		t.Fatal("expected quit command on 'q', got nil")
	}
}

func TestAppHelpOverlay(t *testing.T) {
	a := newTestApp()
	model, _ := a.Update(runeKey("h"))
	a = model.(App)
	if !a.helpOpen {
		t.Fatal("expected helpOpen=true after 'h'")
	}
	view := a.View()
	if !strings.Contains(view, "15 minutes") {
		t.Errorf("expected unlock window in help overlay, got:\n%s", view)
	}

	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	a = model.(App)
	if a.helpOpen {
		t.Error("expected helpOpen=false after Esc")
	}
}

func TestAppCardOverlayOpenAndClose(t *testing.T) {
	a := newTestApp()
	grace := domain.User{ID: 2, Name: "Grace Hopper", Bio: "COBOL and compilers"}

	model, _ := a.Update(showCardMsg{user: grace, status: domain.StatusAccepted})
	a = model.(App)
	if !a.cardOpen {
		t.Fatal("expected cardOpen=true after showCardMsg")
	}
	view := a.View()
	if !strings.Contains(view, "Grace Hopper") || !strings.Contains(view, "COBOL and compilers") {
		t.Errorf("expected card contents in view, got:\n%s", view)
	}

	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	a = model.(App)
	if a.cardOpen {
		t.Error("expected cardOpen=false after Esc")
	}
}

func TestAppHeaderShowsUserAndRequestBadge(t *testing.T) {
	a := newTestApp()
	conns := []domain.Connection{
		{ID: 10, Requester: domain.User{ID: 2, Name: "Grace"}, Receiver: testMe, Status: domain.StatusPending},
		{ID: 11, Requester: domain.User{ID: 3, Name: "Linus"}, Receiver: testMe, Status: domain.StatusPending},
	}
	model, _ := a.Update(requestsLoadedMsg{gen: a.requests.gen, conns: conns})
	a = model.(App)

	view := a.View()
	if !strings.Contains(view, "Ada Lovelace") {
		t.Errorf("expected signed-in user in header, got:\n%s", view)
	}
	if !strings.Contains(view, " 2 ") {
		t.Errorf("expected pending badge with 2, got:\n%s", view)
	}
}

func TestAppEditingBlocksGlobalKeys(t *testing.T) {
	a := newTestApp()
	model, _ := a.Update(runeKey("6"))
	a = model.(App)
	model, _ = a.Update(runeKey("e"))
	a = model.(App)
	if !a.profile.editing {
		t.Fatal("expected profile edit mode after 'e'")
	}

	model, _ = a.Update(runeKey("1"))
	a = model.(App)
	if a.view != viewProfile {
		t.Errorf("expected to stay on profile while editing, got view=%d", a.view)
	}
}

func TestAppMeUpdatedPropagates(t *testing.T) {
	var saved domain.User
	opts := testOptions()
	opts.OnUserUpdated = func(u domain.User) error {
		saved = u
		return nil
	}
	a := NewApp(nil, testMe, opts)

	updated := testMe
	updated.Name = "Augusta Ada King"
	model, _ := a.Update(meUpdatedMsg{user: updated})
	a = model.(App)

	if saved.Name != "Augusta Ada King" {
		t.Errorf("expected OnUserUpdated to receive new name, got %q", saved.Name)
	}
	if a.profile.me.Name != "Augusta Ada King" || a.sessions.me.Name != "Augusta Ada King" {
		t.Error("expected tabs to receive the updated user")
	}
}

func TestOptionsWithDefaults(t *testing.T) {
	o := Options{}.withDefaults()
	if o.ClockTick != time.Second {
		t.Errorf("ClockTick = %v, want 1s", o.ClockTick)
	}
	if o.SessionRefresh != 10*time.Second {
		t.Errorf("SessionRefresh = %v, want 10s", o.SessionRefresh)
	}
	if o.ChatPoll != 3*time.Second {
		t.Errorf("ChatPoll = %v, want 3s", o.ChatPoll)
	}
	if o.RequestsPoll != 5*time.Second {
		t.Errorf("RequestsPoll = %v, want 5s", o.RequestsPoll)
	}
	if o.Policy.UnlockWindow != 15*time.Minute {
		t.Errorf("UnlockWindow = %v, want 15m", o.Policy.UnlockWindow)
	}
}
