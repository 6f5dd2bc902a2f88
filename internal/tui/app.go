// Package tui is the interactive SkillSwap dashboard.
package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/skillswap/skillswap/internal/browser"
	"github.com/skillswap/skillswap/pkg/client"
	"github.com/skillswap/skillswap/pkg/domain"
	"github.com/skillswap/skillswap/pkg/gate"
)

type view int

const (
	viewSessions view = iota
	viewMentors
	viewRequests
	viewChat
	viewSkills
	viewProfile
)

// Options tunes the dashboard. Zero fields fall back to DefaultOptions.
type Options struct {
	Policy         gate.Policy
	ClockTick      time.Duration
	SessionRefresh time.Duration
	ChatPoll       time.Duration
	RequestsPoll   time.Duration
	Logger         *slog.Logger

	// OnUserUpdated is called after the signed-in user's profile or skills change.
	OnUserUpdated func(domain.User) error

	// Clipboard, OpenURL and Now are replaced in tests.
	Clipboard func(string) error
	OpenURL   func(string) error
	Now       func() time.Time
}

// DefaultOptions returns the intervals the web client polled at.
func DefaultOptions() Options {
	return Options{
		Policy:         gate.DefaultPolicy,
		ClockTick:      time.Second,
		SessionRefresh: 10 * time.Second,
		ChatPoll:       3 * time.Second,
		RequestsPoll:   5 * time.Second,
		Logger:         slog.New(slog.DiscardHandler),
		Clipboard:      clipboard.WriteAll,
		OpenURL:        browser.Open,
		Now:            time.Now,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Policy == (gate.Policy{}) {
		o.Policy = d.Policy
	}
	if o.ClockTick <= 0 {
		o.ClockTick = d.ClockTick
	}
	if o.SessionRefresh <= 0 {
		o.SessionRefresh = d.SessionRefresh
	}
	if o.ChatPoll <= 0 {
		o.ChatPoll = d.ChatPoll
	}
	if o.RequestsPoll <= 0 {
		o.RequestsPoll = d.RequestsPoll
	}
	if o.Logger == nil {
		o.Logger = d.Logger
	}
	if o.Clipboard == nil {
		o.Clipboard = d.Clipboard
	}
	if o.OpenURL == nil {
		o.OpenURL = d.OpenURL
	}
	if o.Now == nil {
		o.Now = d.Now
	}
	return o
}

// meUpdatedMsg carries a fresh copy of the signed-in user.
type meUpdatedMsg struct {
	user domain.User
}

// showCardMsg opens the profile card overlay for a user.
type showCardMsg struct {
	user   domain.User
	status string
}

// App is the root Bubbletea model.
type App struct {
	opts     Options
	me       domain.User
	view     view
	sessions sessionsModel
	mentors  mentorsModel
	requests requestsModel
	chat     chatModel
	skills   skillsModel
	profile  profileModel
	card     cardModel
	cardOpen bool
	helpOpen bool
	width    int
	height   int
	frame    int // logo shimmer animation frame
}

// NewApp creates the dashboard for the signed-in user me.
func NewApp(c *client.Client, me domain.User, opts Options) App {
	opts = opts.withDefaults()
	a := App{
		opts:     opts,
		me:       me,
		view:     viewSessions,
		sessions: newSessionsModel(c, me, opts),
		mentors:  newMentorsModel(c, me, opts),
		requests: newRequestsModel(c, me, opts),
		chat:     newChatModel(c, me, opts),
		skills:   newSkillsModel(c, me),
		profile:  newProfileModel(c, me),
		card:     newCardModel(),
	}
	// Sessions is the landing tab; Init starts its loops.
	a.sessions, _ = a.sessions.activate()
	return a
}

func (a App) Init() tea.Cmd {
	// One-shot load so the Requests badge is populated before the tab is opened.
	return tea.Batch(a.sessions.fetch(true), a.sessions.clockCmd(), a.requests.load(), shimmerTickCmd())
}

// switchTo leaves the current tab, stopping its timers, and enters v.
func (a App) switchTo(v view) (App, tea.Cmd) {
	if a.view == v {
		return a, nil
	}
	switch a.view {
	case viewSessions:
		a.sessions = a.sessions.deactivate()
	case viewRequests:
		a.requests = a.requests.deactivate()
	case viewChat:
		a.chat = a.chat.deactivate()
	}
	a.view = v

	var cmd tea.Cmd
	switch v {
	case viewSessions:
		a.sessions, cmd = a.sessions.activate()
	case viewMentors:
		cmd = a.mentors.Init()
	case viewRequests:
		a.requests, cmd = a.requests.activate()
	case viewChat:
		a.chat, cmd = a.chat.activate()
	case viewSkills:
		cmd = a.skills.Init()
	case viewProfile:
		a.profile = a.profile.reset()
	}
	return a, cmd
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + tabs(1) + help(1) = 4 lines
		msg.Height -= 4
		return a.broadcast(msg)

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case meUpdatedMsg:
		a.me = msg.user
		if a.opts.OnUserUpdated != nil {
			if err := a.opts.OnUserUpdated(msg.user); err != nil {
				a.opts.Logger.Warn("save identity failed", "error", err)
			}
		}
		return a.broadcast(msg)

	case showCardMsg:
		a.cardOpen = true
		a.card = a.card.show(msg.user, msg.status)
		return a, nil

	case tea.KeyMsg:
		if a.helpOpen {
			switch msg.String() {
			case "h", "?", "esc":
				a.helpOpen = false
			case "q", "ctrl+c":
				return a, tea.Quit
			}
			return a, nil
		}

		if a.cardOpen {
			var cmd tea.Cmd
			a.card, cmd = a.card.Update(msg)
			if a.card.closed {
				a.cardOpen = false
			}
			return a, cmd
		}

		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		// Global keys (only when not editing)
		if !a.isEditing() {
			switch {
			case key.Matches(msg, keys.Help):
				a.helpOpen = true
				return a, nil
			case key.Matches(msg, keys.Quit):
				return a, tea.Quit
			}
			if v, ok := tabForKey(msg.String()); ok {
				return a.switchTo(v)
			}
		}
		return a.updateCurrent(msg)
	}

	return a.broadcast(msg)
}

// updateCurrent routes a key to the visible tab.
func (a App) updateCurrent(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.view {
	case viewSessions:
		a.sessions, cmd = a.sessions.Update(msg)
	case viewMentors:
		a.mentors, cmd = a.mentors.Update(msg)
	case viewRequests:
		a.requests, cmd = a.requests.Update(msg)
	case viewChat:
		a.chat, cmd = a.chat.Update(msg)
	case viewSkills:
		a.skills, cmd = a.skills.Update(msg)
	case viewProfile:
		a.profile, cmd = a.profile.Update(msg)
	}
	return a, cmd
}

// broadcast hands a non-key message to every tab. Each tab ignores messages
// it does not own; timer messages from a stopped tab are dropped by the tab.
func (a App) broadcast(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 6)
	a.sessions, cmds[0] = a.sessions.Update(msg)
	a.mentors, cmds[1] = a.mentors.Update(msg)
	a.requests, cmds[2] = a.requests.Update(msg)
	a.chat, cmds[3] = a.chat.Update(msg)
	a.skills, cmds[4] = a.skills.Update(msg)
	a.profile, cmds[5] = a.profile.Update(msg)
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		a.card.width = size.Width
	}
	return a, tea.Batch(cmds...)
}

func tabForKey(k string) (view, bool) {
	switch k {
	case "1":
		return viewSessions, true
	case "2":
		return viewMentors, true
	case "3":
		return viewRequests, true
	case "4":
		return viewChat, true
	case "5":
		return viewSkills, true
	case "6":
		return viewProfile, true
	}
	return 0, false
}

func (a App) isEditing() bool {
	switch a.view {
	case viewSessions:
		return a.sessions.confirming
	case viewMentors:
		return a.mentors.mode != mentorsBrowse
	case viewRequests:
		return a.requests.confirming
	case viewChat:
		return a.chat.inputFocused
	case viewSkills:
		return a.skills.adding
	case viewProfile:
		return a.profile.editing
	}
	return false
}

func (a App) View() string {
	logo := renderShimmerLogo(a.frame)

	parts := []string{selectedStyle.Render(a.me.DisplayName())}
	if a.me.Role != "" {
		parts = append(parts, accentStyle.Render(strings.ToLower(a.me.Role)))
	}
	if n := len(a.me.Skills); n > 0 {
		parts = append(parts, fmt.Sprintf("%d skills", n))
	}
	statsLine := metaStyle.Render(strings.Join(parts, " · "))

	header := center(logo, a.width) + "\n" + center(statsLine, a.width)

	type tabEntry struct {
		key  string
		name string
		v    view
	}
	tabs := []tabEntry{
		{"1", "Sessions", viewSessions},
		{"2", "Mentors", viewMentors},
		{"3", "Requests", viewRequests},
		{"4", "Chat", viewChat},
		{"5", "Skills", viewSkills},
		{"6", "Profile", viewProfile},
	}

	colWidth := a.width / len(tabs)
	var tabBar strings.Builder
	for _, t := range tabs {
		var label string
		if t.v == a.view {
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		} else {
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		}
		if t.v == viewRequests {
			if n := a.requests.count(); n > 0 {
				label += " " + badgeStyle.Render(fmt.Sprintf(" %d ", n))
			}
		}
		labelWidth := lipgloss.Width(label)
		leftPad := max((colWidth-labelWidth)/2, 0)
		rightPad := max(colWidth-labelWidth-leftPad, 0)
		tabBar.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
	}

	var body, help string
	switch a.view {
	case viewSessions:
		body, help = a.sessions.View(), a.sessions.helpKeys()
	case viewMentors:
		body, help = a.mentors.View(), a.mentors.helpKeys()
	case viewRequests:
		body, help = a.requests.View(), a.requests.helpKeys()
	case viewChat:
		body, help = a.chat.View(), a.chat.helpKeys()
	case viewSkills:
		body, help = a.skills.View(), a.skills.helpKeys()
	case viewProfile:
		body, help = a.profile.View(), a.profile.helpKeys()
	}
	if !a.isEditing() {
		help = helpEntry("1-6", "tabs") + "  " + help + "  " + helpBar("h", "help", "q", "quit")
	}

	if a.cardOpen {
		body = a.card.View()
		help = helpBar("esc", "close")
	}
	if a.helpOpen {
		body = helpView(a.opts.Policy.UnlockWindow)
		help = helpBar("esc", "close")
	}

	body = strings.TrimRight(truncateToHeight(body, a.height-4), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n %s", header, tabBar.String(), body, help)
}

// center pads s on the left so it sits in the middle of width columns.
func center(s string, width int) string {
	pad := max((width-lipgloss.Width(s))/2, 0)
	return strings.Repeat(" ", pad) + s
}
