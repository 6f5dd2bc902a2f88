package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/skillswap/skillswap/pkg/domain"
)

// Shimmer animation for the SKILLSWAP logo.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// renderShimmerLogo renders "S K I L L S W A P" as a wave of pink light
// running from deep plum (#3b1030) to bright rose (#f472b6).
func renderShimmerLogo(frame int) string {
	const text = "SKILLSWAP"
	n := len(text)

	var out strings.Builder
	t := float64(frame)

	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)

		phase := t*0.1 - x*3.0
		phase += math.Sin(t*0.023) * 2.0

		b := math.Sin(phase)*0.5 + 0.5
		b = math.Pow(b, 1.3)

		// Slow breathing tide
		tide := math.Sin(t*0.035) * 0.12
		b = b*0.75 + tide + 0.18
		b = math.Max(0.05, math.Min(1.0, b))

		r := clampByte(59 + b*(244-59))
		g := clampByte(16 + b*(114-16))
		bl := clampByte(48 + b*(182-48))

		s := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", r, g, bl)))
		out.WriteString(s.Render(string(text[i])))

		if i < n-1 {
			out.WriteString(" ")
		}
	}

	return out.String()
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	// Base styles
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f472b6"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#b45555"))

	// Session gate states
	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#34d474")).
			Bold(true)

	lockedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4a844"))

	expiredStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868")).
			Strikethrough(true)

	todayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f472b6")).
			Bold(true)

	// Connection statuses
	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#facc15"))

	connectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#34d474"))

	skillStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3ecce4"))

	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#ef4444")).
			Bold(true)

	// Surface colors
	borderColor  = lipgloss.Color("#1e1e2a")
	surfaceColor = lipgloss.Color("#111118")

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#f472b6")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#343c4a"))

	// Chat
	chatSelfNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#e4e4ec"))

	chatOtherNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#f472b6")).
				Bold(true)

	chatSelfTextStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#c0c4d0"))

	chatTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	chatSepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#404858"))
)

// connectionBadge renders a short label for a connection status.
func connectionBadge(status string) string {
	switch status {
	case domain.StatusAccepted:
		return connectedStyle.Render("connected")
	case domain.StatusPending:
		return pendingStyle.Render("pending")
	case domain.StatusRejected:
		return metaStyle.Render("declined")
	default:
		return ""
	}
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpBar joins help entries given as alternating key, label pairs.
func helpBar(pairs ...string) string {
	entries := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		entries = append(entries, helpEntry(pairs[i], pairs[i+1]))
	}
	return strings.Join(entries, "  ")
}

// helpView renders the help overlay: commands and key bindings per tab.
func helpView(unlockWindow time.Duration) string {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f472b6")).
		Bold(true).
		Render("S K I L L S W A P")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("Teach what you know. Learn what you don't.")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)

	commands := []struct{ cmd, desc string }{
		{"skillswap", "Open the dashboard (interactive TUI)"},
		{"skillswap login", "Sign in with e-mail and password"},
		{"skillswap register", "Create an account"},
		{"skillswap sessions", "List sessions (--watch to follow)"},
		{"skillswap logout", "Forget the saved identity"},
	}
	bindings := []struct{ key, desc string }{
		{"1-6", "switch tabs"},
		{"j/k", "move"},
		{"/", "search mentors"},
		{"c / b", "connect / book a session"},
		{"enter", "join an ACTIVE session"},
		{"y", "copy meeting link or e-mail"},
		{"x", "cancel a session"},
		{"a / r", "accept / reject a request"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n  %s\n\n", title, tagline)

	fmt.Fprintf(&b, "  %s\n", sectionStyle.Render("Commands"))
	for _, c := range commands {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), descStyle.Render(c.desc))
	}
	fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Keys"))
	for _, k := range bindings {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", k.key)), descStyle.Render(k.desc))
	}
	fmt.Fprintf(&b, "\n  %s\n", descStyle.Render(fmt.Sprintf("Sessions unlock %s before they start.", formatWindow(unlockWindow))))
	return b.String()
}
