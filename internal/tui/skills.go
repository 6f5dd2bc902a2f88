package tui

import (
	"context"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/skillswap/skillswap/pkg/client"
	"github.com/skillswap/skillswap/pkg/domain"
)

type skillsLoadedMsg struct {
	skills []domain.Skill
	err    error
}

type skillCreatedMsg struct {
	skill *domain.Skill
	err   error
}

type skillAddedMsg struct {
	skill domain.Skill
	user  *domain.User
	err   error
}

type skillsModel struct {
	client *client.Client
	me     domain.User

	skills []domain.Skill
	cursor int
	loaded bool
	err    error
	flash  string
	adding bool
	input  textinput.Model
	height int
}

func newSkillsModel(c *client.Client, me domain.User) skillsModel {
	ti := textinput.New()
	ti.Prompt = "new skill › "
	ti.Placeholder = "e.g. Go, Spanish, Watercolour"
	ti.PromptStyle = inputPromptStyle
	ti.PlaceholderStyle = inputPlaceholderStyle
	ti.CharLimit = 60
	return skillsModel{client: c, me: me, input: ti}
}

func (m skillsModel) Init() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		skills, err := c.ListSkills(context.Background())
		return skillsLoadedMsg{skills: skills, err: err}
	}
}

func (m skillsModel) Update(msg tea.Msg) (skillsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil

	case meUpdatedMsg:
		m.me = msg.user
		return m, nil

	case skillsLoadedMsg:
		m.loaded = true
		m.err = msg.err
		if msg.err == nil {
			m.skills = sortSkills(msg.skills)
		}
		m.cursor = clampCursor(m.cursor, len(m.skills))
		return m, nil

	case skillCreatedMsg:
		if msg.err != nil {
			m.flash = errorStyle.Render(client.Reason(msg.err))
			return m, nil
		}
		m.skills = sortSkills(append(m.skills, *msg.skill))
		for i, s := range m.skills {
			if s.ID == msg.skill.ID {
				m.cursor = i
			}
		}
		m.flash = "created " + msg.skill.Name + " · enter to add it to your profile"
		return m, nil

	case skillAddedMsg:
		if msg.err != nil {
			m.flash = errorStyle.Render(client.Reason(msg.err))
			return m, nil
		}
		m.flash = msg.skill.Name + " added to your profile"
		user := *msg.user
		return m, func() tea.Msg { return meUpdatedMsg{user: user} }

	case tea.KeyMsg:
		if m.adding {
			return m.handleInput(msg)
		}
		return m.handleKey(msg)
	}

	if m.adding {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func sortSkills(skills []domain.Skill) []domain.Skill {
	out := make([]domain.Skill, len(skills))
	copy(out, skills)
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

func (m skillsModel) handleKey(msg tea.KeyMsg) (skillsModel, tea.Cmd) {
	if cursor, ok := moveCursor(msg, m.cursor, len(m.skills)); ok {
		m.cursor = cursor
		m.flash = ""
		return m, nil
	}
	if key.Matches(msg, keys.Refresh) {
		return m, m.Init()
	}

	switch msg.String() {
	case "a":
		m.adding = true
		m.flash = ""
		m.input.Reset()
		cmd := m.input.Focus()
		return m, cmd

	case "enter":
		if m.cursor >= len(m.skills) {
			return m, nil
		}
		skill := m.skills[m.cursor]
		if m.me.HasSkill(skill.ID) {
			m.flash = "you already list " + skill.Name
			return m, nil
		}
		c, me := m.client, m.me.ID
		m.flash = "adding…"
		return m, func() tea.Msg {
			user, err := c.AddSkillToUser(context.Background(), me, skill.ID)
			return skillAddedMsg{skill: skill, user: user, err: err}
		}
	}
	return m, nil
}

func (m skillsModel) handleInput(msg tea.KeyMsg) (skillsModel, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.adding = false
		m.input.Blur()
		return m, nil

	case tea.KeyEnter:
		name := strings.TrimSpace(m.input.Value())
		m.adding = false
		m.input.Blur()
		if name == "" {
			return m, nil
		}
		for i, s := range m.skills {
			if strings.EqualFold(s.Name, name) {
				m.cursor = i
				m.flash = s.Name + " already exists"
				return m, nil
			}
		}
		c := m.client
		m.flash = "creating…"
		return m, func() tea.Msg {
			skill, err := c.CreateSkill(context.Background(), name)
			return skillCreatedMsg{skill: skill, err: err}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m skillsModel) helpKeys() string {
	if m.adding {
		return helpBar("enter", "create", "esc", "cancel")
	}
	return helpBar("j/k", "move", "enter", "add to profile", "a", "new skill", "ctrl+r", "refresh")
}

func (m skillsModel) View() string {
	var b strings.Builder
	b.WriteString("\n")

	if m.adding {
		b.WriteString(" " + m.input.View() + "\n\n")
	}

	switch {
	case !m.loaded && m.err == nil:
		b.WriteString(dimStyle.Render("  loading skills…") + "\n")
		return b.String()
	case m.err != nil && len(m.skills) == 0:
		b.WriteString(errorStyle.Render("  "+client.Reason(m.err)) + "\n")
		return b.String()
	case len(m.skills) == 0:
		b.WriteString(dimStyle.Render("  no skills yet · press a to create one") + "\n")
		return b.String()
	}

	start, end := visibleRange(m.cursor, len(m.skills), max(m.height-4, 1))
	for i := start; i < end; i++ {
		s := m.skills[i]
		pointer := "  "
		name := normalStyle.Render(s.Name)
		if i == m.cursor {
			pointer = accentStyle.Render("▸ ")
			name = selectedStyle.Render(s.Name)
		}
		line := " " + pointer + name
		if m.me.HasSkill(s.ID) {
			line += "  " + connectedStyle.Render("✓ yours")
		}
		b.WriteString(line + "\n")
	}

	if m.flash != "" {
		b.WriteString("\n  " + m.flash + "\n")
	}
	return b.String()
}
