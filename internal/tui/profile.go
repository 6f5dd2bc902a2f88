package tui

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/skillswap/skillswap/pkg/client"
	"github.com/skillswap/skillswap/pkg/domain"
)

const (
	fieldName = iota
	fieldBio
	fieldAvatar
	fieldCount
)

var fieldLabels = [fieldCount]string{"Name", "Bio", "Avatar URL"}

type profileSavedMsg struct {
	user *domain.User
	err  error
}

type profileModel struct {
	client  *client.Client
	me      domain.User
	inputs  [fieldCount]textinput.Model
	focus   int
	editing bool
	saving  bool
	flash   string
	width   int
}

func newProfileModel(c *client.Client, me domain.User) profileModel {
	m := profileModel{client: c, me: me}
	limits := [fieldCount]int{80, 500, 300}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = limits[i]
		ti.PlaceholderStyle = inputPlaceholderStyle
		m.inputs[i] = ti
	}
	m.inputs[fieldBio].Placeholder = "what you teach, what you want to learn"
	m.inputs[fieldAvatar].Placeholder = "https://…"
	return m.reset()
}

// reset leaves edit mode and loads the fields from the current user.
func (m profileModel) reset() profileModel {
	m.editing = false
	m.focus = fieldName
	m.inputs[fieldName].SetValue(m.me.Name)
	m.inputs[fieldBio].SetValue(m.me.Bio)
	m.inputs[fieldAvatar].SetValue(m.me.AvatarURL)
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	return m
}

func (m profileModel) focusField(i int) (profileModel, tea.Cmd) {
	for j := range m.inputs {
		m.inputs[j].Blur()
	}
	m.focus = i
	cmd := m.inputs[i].Focus()
	return m, cmd
}

// changes builds an update with only the fields that differ from the current user.
func (m profileModel) changes() (client.ProfileUpdate, error) {
	var upd client.ProfileUpdate
	name := strings.TrimSpace(m.inputs[fieldName].Value())
	bio := strings.TrimSpace(m.inputs[fieldBio].Value())
	avatar := strings.TrimSpace(m.inputs[fieldAvatar].Value())

	if name == "" {
		return upd, errors.New("name cannot be empty")
	}
	if avatar != "" {
		if u, err := url.Parse(avatar); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return upd, errors.New("avatar must be an http(s) URL")
		}
	}
	if name != m.me.Name {
		upd.Name = &name
	}
	if bio != m.me.Bio {
		upd.Bio = &bio
	}
	if avatar != m.me.AvatarURL {
		upd.AvatarURL = &avatar
	}
	return upd, nil
}

func (m profileModel) Update(msg tea.Msg) (profileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		for i := range m.inputs {
			m.inputs[i].Width = max(msg.Width-20, 20)
		}
		return m, nil

	case meUpdatedMsg:
		m.me = msg.user
		if !m.editing {
			m = m.reset()
		}
		return m, nil

	case profileSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.flash = errorStyle.Render("save failed: " + client.Reason(msg.err))
			return m, nil
		}
		m.editing = false
		m.flash = "profile saved"
		user := *msg.user
		return m, func() tea.Msg { return meUpdatedMsg{user: user} }

	case tea.KeyMsg:
		if m.editing {
			return m.handleEdit(msg)
		}
		if msg.String() == "e" || msg.String() == "enter" {
			m.editing = true
			m.flash = ""
			return m.focusField(fieldName)
		}
		return m, nil
	}

	if m.editing {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m profileModel) handleEdit(msg tea.KeyMsg) (profileModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.flash = ""
		return m.reset(), nil
	case "tab", "down":
		return m.focusField((m.focus + 1) % fieldCount)
	case "shift+tab", "up":
		return m.focusField((m.focus + fieldCount - 1) % fieldCount)
	case "ctrl+s":
		if m.saving {
			return m, nil
		}
		upd, err := m.changes()
		if err != nil {
			m.flash = errorStyle.Render(err.Error())
			return m, nil
		}
		if upd == (client.ProfileUpdate{}) {
			m.flash = "nothing to save"
			return m.reset(), nil
		}
		m.saving = true
		m.flash = "saving…"
		c, id := m.client, m.me.ID
		return m, func() tea.Msg {
			user, err := c.UpdateProfile(context.Background(), id, upd)
			return profileSavedMsg{user: user, err: err}
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m profileModel) helpKeys() string {
	if m.editing {
		return helpBar("tab", "next field", "ctrl+s", "save", "esc", "cancel")
	}
	return helpBar("e", "edit profile")
}

func (m profileModel) View() string {
	var b strings.Builder
	b.WriteString("\n")

	b.WriteString(" " + titleStyle.Render(m.me.DisplayName()))
	if m.me.Role != "" {
		b.WriteString("  " + accentStyle.Render(strings.ToLower(m.me.Role)))
	}
	b.WriteString("\n")
	if m.me.Email != "" {
		b.WriteString(" " + metaStyle.Render(m.me.Email) + "\n")
	}
	b.WriteString(separator(m.width))

	for i, label := range fieldLabels {
		labelStyle := dimStyle
		if m.editing && i == m.focus {
			labelStyle = accentStyle
		}
		b.WriteString(" " + labelStyle.Render(label) + "\n")
		if m.editing {
			b.WriteString("   " + m.inputs[i].View() + "\n\n")
			continue
		}
		value := m.inputs[i].Value()
		if value == "" {
			b.WriteString("   " + dimStyle.Render("not set") + "\n\n")
		} else {
			b.WriteString("   " + normalStyle.Render(value) + "\n\n")
		}
	}

	b.WriteString(" " + dimStyle.Render("Skills") + "\n")
	if names := m.me.SkillNames(); len(names) > 0 {
		tags := make([]string, len(names))
		for i, n := range names {
			tags[i] = skillStyle.Render(n)
		}
		b.WriteString("   " + strings.Join(tags, " ") + "\n")
	} else {
		b.WriteString("   " + dimStyle.Render("none yet · add some on the Skills tab (5)") + "\n")
	}

	if m.flash != "" {
		b.WriteString("\n  " + m.flash + "\n")
	}
	return b.String()
}
