package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/skillswap/skillswap/pkg/client"
	"github.com/skillswap/skillswap/pkg/domain"
	"github.com/skillswap/skillswap/pkg/gate"
)

// Messages for the sessions view. Timer and load messages carry the view
// generation they were issued under.
type sessionsLoadedMsg struct {
	gen      int
	poll     bool // part of the refresh chain, schedules the next refresh
	sessions []domain.Session
	err      error
}

type sessionsClockMsg struct {
	gen int
	now time.Time
}

type sessionsRefreshMsg struct {
	gen int
}

type sessionCancelledMsg struct {
	id  int64
	err error
}

type sessionsFlashMsg struct {
	text string
	err  error
}

type sessionsModel struct {
	client  *client.Client
	me      domain.User
	policy  gate.Policy
	clock   func() time.Time
	tick    time.Duration
	refresh time.Duration
	copy    func(string) error
	open    func(string) error

	sessions   []domain.Session
	now        time.Time
	cursor     int
	loaded     bool
	err        error
	flash      string
	confirming bool
	confirmID  int64
	active     bool
	gen        int
	height     int
	width      int
}

func newSessionsModel(c *client.Client, me domain.User, opts Options) sessionsModel {
	return sessionsModel{
		client:  c,
		me:      me,
		policy:  opts.Policy,
		clock:   opts.Now,
		tick:    opts.ClockTick,
		refresh: opts.SessionRefresh,
		copy:    opts.Clipboard,
		open:    opts.OpenURL,
		now:     opts.Now(),
	}
}

// activate starts the clock and refresh loops under a fresh generation.
func (m sessionsModel) activate() (sessionsModel, tea.Cmd) {
	m.gen++
	m.active = true
	m.now = m.clock()
	return m, tea.Batch(m.fetch(true), m.clockCmd())
}

// deactivate stops both loops; their pending messages become stale.
func (m sessionsModel) deactivate() sessionsModel {
	m.gen++
	m.active = false
	m.confirming = false
	return m
}

// load fetches once without touching the refresh chain.
func (m sessionsModel) load() tea.Cmd {
	return m.fetch(false)
}

func (m sessionsModel) fetch(poll bool) tea.Cmd {
	c, id, gen := m.client, m.me.ID, m.gen
	return func() tea.Msg {
		sessions, err := c.ListSessions(context.Background(), id)
		return sessionsLoadedMsg{gen: gen, poll: poll, sessions: sessions, err: err}
	}
}

func (m sessionsModel) clockCmd() tea.Cmd {
	gen, clock := m.gen, m.clock
	return tea.Tick(m.tick, func(time.Time) tea.Msg {
		return sessionsClockMsg{gen: gen, now: clock()}
	})
}

func (m sessionsModel) refreshCmd() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.refresh, func(time.Time) tea.Msg {
		return sessionsRefreshMsg{gen: gen}
	})
}

func (m sessionsModel) current() (domain.Session, bool) {
	if m.cursor < 0 || m.cursor >= len(m.sessions) {
		return domain.Session{}, false
	}
	return m.sessions[m.cursor], true
}

func (m sessionsModel) has(id int64) bool {
	for _, s := range m.sessions {
		if s.ID == id {
			return true
		}
	}
	return false
}

func (m sessionsModel) Update(msg tea.Msg) (sessionsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case meUpdatedMsg:
		m.me = msg.user
		return m, nil

	case sessionsClockMsg:
		if msg.gen != m.gen || !m.active {
			return m, nil
		}
		m.now = msg.now
		return m, m.clockCmd()

	case sessionsRefreshMsg:
		if msg.gen != m.gen || !m.active {
			return m, nil
		}
		return m, m.fetch(true)

	case sessionsLoadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.loaded = true
		m.err = msg.err
		if msg.err == nil {
			m.setSessions(msg.sessions)
			if m.confirming && !m.has(m.confirmID) {
				m.confirming = false
				m.flash = "that session is no longer listed"
			}
		}
		if !msg.poll || !m.active {
			return m, nil
		}
		return m, m.refreshCmd()

	case sessionCancelledMsg:
		if msg.err != nil {
			m.flash = errorStyle.Render("cancel failed: " + client.Reason(msg.err))
			return m, nil
		}
		m.flash = "session cancelled"
		return m, m.load()

	case sessionsFlashMsg:
		if msg.err != nil {
			m.flash = errorStyle.Render(msg.err.Error())
		} else {
			m.flash = msg.text
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// setSessions replaces the list, keeping the cursor on the same session.
func (m *sessionsModel) setSessions(sessions []domain.Session) {
	var selected int64
	if s, ok := m.current(); ok {
		selected = s.ID
	}
	sorted := make([]domain.Session, len(sessions))
	copy(sorted, sessions)
	m.policy.Sort(sorted, m.now)
	m.sessions = sorted
	m.cursor = clampCursor(m.cursor, len(sorted))
	for i, s := range sorted {
		if s.ID == selected {
			m.cursor = i
			break
		}
	}
}

func (m sessionsModel) handleKey(msg tea.KeyMsg) (sessionsModel, tea.Cmd) {
	if m.confirming {
		m.confirming = false
		if msg.String() != "y" {
			m.flash = ""
			return m, nil
		}
		if !m.has(m.confirmID) {
			m.flash = ""
			return m, nil
		}
		m.flash = "cancelling…"
		c, id := m.client, m.confirmID
		return m, func() tea.Msg {
			return sessionCancelledMsg{id: id, err: c.CancelSession(context.Background(), id)}
		}
	}

	if cursor, ok := moveCursor(msg, m.cursor, len(m.sessions)); ok {
		m.cursor = cursor
		m.flash = ""
		return m, nil
	}
	if key.Matches(msg, keys.Refresh) {
		m.flash = "refreshing…"
		return m, m.load()
	}

	s, ok := m.current()
	if !ok {
		return m, nil
	}
	state := m.policy.ClassifySession(s, m.now)

	switch msg.String() {
	case "enter":
		if state.Action() != gate.JoinEnabled {
			m.flash = lockedReason(state.Action(), m.policy)
			return m, nil
		}
		if s.MeetingLink == "" {
			m.flash = errorStyle.Render("no meeting link for this session")
			return m, nil
		}
		open, link := m.open, s.MeetingLink
		return m, func() tea.Msg {
			if err := open(link); err != nil {
				return sessionsFlashMsg{err: fmt.Errorf("open link: %w", err)}
			}
			return sessionsFlashMsg{text: "opening " + link}
		}

	case "y":
		if state == gate.Expired {
			m.flash = "session has ended"
			return m, nil
		}
		if s.MeetingLink == "" {
			m.flash = errorStyle.Render("no meeting link for this session")
			return m, nil
		}
		cp, link := m.copy, s.MeetingLink
		return m, func() tea.Msg {
			if err := cp(link); err != nil {
				return sessionsFlashMsg{err: fmt.Errorf("copy failed: %w", err)}
			}
			return sessionsFlashMsg{text: "link copied"}
		}

	case "x":
		m.confirming = true
		m.confirmID = s.ID
		m.flash = fmt.Sprintf("cancel session with %s? (y/n)", s.Counterpart(m.me.ID).DisplayName())
		return m, nil
	}
	return m, nil
}

// lockedReason explains why the join action is disabled.
func lockedReason(a gate.Action, p gate.Policy) string {
	if a == gate.DisabledExpired {
		return "session has ended"
	}
	return fmt.Sprintf("join unlocks %s before the start", formatWindow(p.UnlockWindow))
}

func (m sessionsModel) helpKeys() string {
	if m.confirming {
		return helpBar("y", "confirm", "n", "keep")
	}
	return helpBar("j/k", "move", "enter", "join", "y", "copy link", "x", "cancel", "ctrl+r", "refresh")
}

func (m sessionsModel) View() string {
	var b strings.Builder
	b.WriteString("\n")

	switch {
	case !m.loaded && m.err == nil:
		b.WriteString(dimStyle.Render("  loading sessions…") + "\n")
		return b.String()
	case m.err != nil && len(m.sessions) == 0:
		b.WriteString(errorStyle.Render("  "+client.Reason(m.err)) + "\n")
		b.WriteString(dimStyle.Render("  retrying…") + "\n")
		return b.String()
	case len(m.sessions) == 0:
		b.WriteString(dimStyle.Render("  no sessions yet") + "\n")
		b.WriteString(dimStyle.Render("  book one from the Mentors tab (2, then b)") + "\n")
		return b.String()
	}

	// Each row is two lines; reserve the status line and the spacer.
	rows := max((m.height-3)/2, 1)
	start, end := visibleRange(m.cursor, len(m.sessions), rows)
	for i := start; i < end; i++ {
		b.WriteString(m.renderRow(m.sessions[i], i == m.cursor))
	}

	b.WriteString("\n")
	switch {
	case m.flash != "":
		b.WriteString("  " + m.flash + "\n")
	case m.err != nil:
		b.WriteString(errorStyle.Render("  "+client.Reason(m.err)) + "\n")
	}
	return b.String()
}

func (m sessionsModel) renderRow(s domain.Session, selected bool) string {
	state := m.policy.ClassifySession(s, m.now)
	unlock, end := m.policy.Window(s.StartTime.Time, s.DurationMinutes)

	pointer := "  "
	nameStyle := normalStyle
	if selected {
		pointer = accentStyle.Render("▸ ")
		nameStyle = selectedStyle
	}

	var badge string
	switch state {
	case gate.Active:
		badge = activeStyle.Render(fmt.Sprintf("%-7s", state))
	case gate.Locked:
		badge = lockedStyle.Render(fmt.Sprintf("%-7s", state))
	default:
		badge = expiredStyle.Render(fmt.Sprintf("%-7s", state))
	}

	other := s.Counterpart(m.me.ID)
	role := "mentor"
	if s.Mentor.ID == m.me.ID {
		role = "mentee"
	}

	when := "time unknown"
	if s.StartTime.Valid() {
		when = s.StartTime.Local().Format("Mon Jan 02 15:04")
	}
	line1 := fmt.Sprintf(" %s%s %s  %s", pointer, badge,
		nameStyle.Render(truncStr(other.DisplayName(), 28)), dimStyle.Render(role))
	if s.StartTime.Valid() && sameDay(s.StartTime.Time, m.now) && state != gate.Expired {
		line1 += " " + todayStyle.Render("TODAY")
	}

	var countdown string
	switch state {
	case gate.Locked:
		countdown = "opens in " + until(m.now, unlock)
	case gate.Active:
		countdown = "ends in " + until(m.now, end)
	default:
		if s.StartTime.Valid() && end.Before(m.now) {
			countdown = "ended " + until(m.now, end) + " ago"
		} else {
			countdown = "ended"
		}
	}

	meta := fmt.Sprintf("%s · %d min · %s", when, s.Minutes(), countdown)
	if state.Action() == gate.JoinEnabled {
		meta += " · " + accentStyle.Render("enter to join")
	}
	line2 := "           " + metaStyle.Render(meta)
	return line1 + "\n" + line2 + "\n"
}
