package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/skillswap/skillswap/pkg/domain"
)

// cardModel is the profile card overlay opened from the mentor directory.
type cardModel struct {
	user   domain.User
	status string // connection status with the signed-in user
	closed bool
	width  int
}

func newCardModel() cardModel {
	return cardModel{closed: true}
}

func (m cardModel) show(u domain.User, status string) cardModel {
	m.user = u
	m.status = status
	m.closed = false
	return m
}

func (m cardModel) Update(msg tea.Msg) (cardModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc", "q", "enter", "p":
			m.closed = true
		}
	}
	return m, nil
}

func (m cardModel) View() string {
	u := m.user
	cardWidth := max(min(56, m.width-4), 30)
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Background(surfaceColor).
		Padding(1, 2).
		Width(cardWidth)

	var sb strings.Builder
	sb.WriteString(selectedStyle.Render(u.DisplayName()))
	if u.IsMentor() {
		sb.WriteString("  " + accentStyle.Render("mentor"))
	}
	sb.WriteString("\n")
	if u.Email != "" {
		sb.WriteString(metaStyle.Render(u.Email) + "\n")
	}
	if badge := connectionBadge(m.status); badge != "" {
		sb.WriteString(badge + "\n")
	}

	sb.WriteString(metaStyle.Render("---") + "\n")
	if u.Bio != "" {
		sb.WriteString(normalStyle.Render(u.Bio) + "\n")
	} else {
		sb.WriteString(dimStyle.Render("no bio yet") + "\n")
	}

	if names := u.SkillNames(); len(names) > 0 {
		sb.WriteString("\n")
		tags := make([]string, len(names))
		for i, n := range names {
			tags[i] = skillStyle.Render(n)
		}
		sb.WriteString(strings.Join(tags, " ") + "\n")
	}
	if u.AvatarURL != "" {
		sb.WriteString("\n" + dimStyle.Render(u.AvatarURL) + "\n")
	}

	sb.WriteString("\n" + helpKeyStyle.Render("esc") + " " + helpLabelStyle.Render("close"))
	return "\n" + border.Render(sb.String())
}
