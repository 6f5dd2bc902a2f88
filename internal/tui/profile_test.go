package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/skillswap/skillswap/pkg/domain"
)

func newTestProfileModel() profileModel {
	me := testMe
	me.Bio = "Analytical engines"
	m := newProfileModel(nil, me)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 24})
	return m
}

func TestProfileViewShowsFields(t *testing.T) {
	m := newTestProfileModel()
	view := m.View()
	for _, want := range []string{"Ada Lovelace", "ada@example.com", "Analytical engines", "not set"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in profile view, got:\n%s", want, view)
		}
	}
}

func TestProfileEditCycleAndCancel(t *testing.T) {
	m := newTestProfileModel()
	m, _ = m.Update(runeKey("e"))
	if !m.editing || m.focus != fieldName {
		t.Fatal("expected edit mode focused on name")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != fieldBio {
		t.Errorf("focus = %d, want bio", m.focus)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focus != fieldAvatar {
		t.Errorf("focus = %d, want avatar after wrapping", m.focus)
	}

	m, _ = m.Update(runeKey("x"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.editing {
		t.Error("expected esc to leave edit mode")
	}
	if m.inputs[fieldAvatar].Value() != "" {
		t.Errorf("expected edits discarded, got %q", m.inputs[fieldAvatar].Value())
	}
}

func TestProfileChangesOnlyDiff(t *testing.T) {
	m := newTestProfileModel()
	m.inputs[fieldBio].SetValue("Poetical science")

	upd, err := m.changes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if upd.Name != nil || upd.AvatarURL != nil {
		t.Errorf("expected only bio in update, got %+v", upd)
	}
	if upd.Bio == nil || *upd.Bio != "Poetical science" {
		t.Errorf("bio = %v", upd.Bio)
	}
}

func TestProfileChangesValidation(t *testing.T) {
	tests := []struct {
		name   string
		field  int
		value  string
		errMsg string
	}{
		{"empty name", fieldName, "  ", "name cannot be empty"},
		{"bad avatar", fieldAvatar, "ftp://example.com/a.png", "http(s)"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := newTestProfileModel()
			m.inputs[tc.field].SetValue(tc.value)
			_, err := m.changes()
			if err == nil || !strings.Contains(err.Error(), tc.errMsg) {
				t.Errorf("err = %v, want %q", err, tc.errMsg)
			}
		})
	}
}

func TestProfileSaveWithoutChanges(t *testing.T) {
	m := newTestProfileModel()
	m, _ = m.Update(runeKey("e"))
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Error("expected no request when nothing changed")
	}
	if m.editing || !strings.Contains(m.flash, "nothing to save") {
		t.Errorf("editing=%v flash=%q", m.editing, m.flash)
	}
}

func TestProfileSavedBroadcastsUser(t *testing.T) {
	m := newTestProfileModel()
	m, _ = m.Update(runeKey("e"))
	m.inputs[fieldName].SetValue("Ada King")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil || !m.saving {
		t.Fatal("expected save request")
	}

	saved := testMe
	saved.Name = "Ada King"
	m, cmd = m.Update(profileSavedMsg{user: &saved})
	if m.editing || m.saving {
		t.Error("expected edit mode to end after save")
	}
	msg, ok := cmd().(meUpdatedMsg)
	if !ok || msg.user.Name != "Ada King" {
		t.Errorf("expected meUpdatedMsg, got %#v", cmd())
	}

	m, _ = m.Update(msg)
	if !strings.Contains(m.View(), "Ada King") {
		t.Errorf("expected new name in view, got:\n%s", m.View())
	}
}

func TestProfileShowsSkills(t *testing.T) {
	m := newTestProfileModel()
	me := testMe
	me.Skills = []domain.Skill{{ID: 1, Name: "Mathematics"}}
	m, _ = m.Update(meUpdatedMsg{user: me})
	if !strings.Contains(m.View(), "Mathematics") {
		t.Errorf("expected skill in profile, got:\n%s", m.View())
	}
}
