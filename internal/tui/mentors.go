package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/skillswap/skillswap/pkg/client"
	"github.com/skillswap/skillswap/pkg/domain"
)

type mentorsMode int

const (
	mentorsBrowse mentorsMode = iota
	mentorsSearch
	mentorsNote
	mentorsBook
)

// bookingLayout is the date-time format the booking prompt asks for.
const bookingLayout = "2006-01-02 15:04"

type mentorsLoadedMsg struct {
	users []domain.User
	conns []domain.Connection
	err   error
}

type mentorsSearchMsg struct {
	term  string
	users []domain.User
	err   error
}

type connectionRequestedMsg struct {
	user domain.User
	err  error
}

type sessionBookedMsg struct {
	user    domain.User
	session *domain.Session
	err     error
}

type mentorsFlashMsg struct {
	text string
	err  error
}

type mentorsModel struct {
	client *client.Client
	me     domain.User
	clock  func() time.Time
	copy   func(string) error

	users   []domain.User
	conns   []domain.Connection
	results []domain.User // server-side search results, nil when not searching
	term    string        // term results were fetched for
	cursor  int
	loaded  bool
	err     error
	flash   string
	mode    mentorsMode
	input   textinput.Model
	target  domain.User // user the note or booking prompt is for
	height  int
}

func newMentorsModel(c *client.Client, me domain.User, opts Options) mentorsModel {
	ti := textinput.New()
	ti.PromptStyle = inputPromptStyle
	ti.PlaceholderStyle = inputPlaceholderStyle
	ti.CharLimit = 280
	return mentorsModel{
		client: c,
		me:     me,
		clock:  opts.Now,
		copy:   opts.Clipboard,
		input:  ti,
	}
}

func (m mentorsModel) Init() tea.Cmd {
	c, me := m.client, m.me.ID
	return func() tea.Msg {
		ctx := context.Background()
		users, err := c.ListUsers(ctx)
		if err != nil {
			return mentorsLoadedMsg{err: err}
		}
		conns, err := c.ListConnections(ctx, me)
		return mentorsLoadedMsg{users: users, conns: conns, err: err}
	}
}

// visible returns the directory rows after filtering, without the signed-in user.
func (m mentorsModel) visible() []domain.User {
	source := m.users
	term := m.input.Value()
	if m.mode != mentorsSearch {
		term = m.term
	}
	if m.results != nil {
		source = m.results
	}
	out := make([]domain.User, 0, len(source))
	for _, u := range source {
		if u.ID == m.me.ID {
			continue
		}
		if m.results == nil && !u.Matches(term) {
			continue
		}
		out = append(out, u)
	}
	return out
}

func (m mentorsModel) current() (domain.User, bool) {
	rows := m.visible()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return domain.User{}, false
	}
	return rows[m.cursor], true
}

func (m mentorsModel) Update(msg tea.Msg) (mentorsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.input.Width = max(msg.Width-20, 10)
		return m, nil

	case meUpdatedMsg:
		m.me = msg.user
		return m, nil

	case mentorsLoadedMsg:
		m.loaded = true
		m.err = msg.err
		if msg.err == nil {
			m.users = msg.users
			m.conns = msg.conns
		}
		m.cursor = clampCursor(m.cursor, len(m.visible()))
		return m, nil

	case mentorsSearchMsg:
		if msg.term != m.term {
			return m, nil
		}
		if msg.err != nil {
			m.flash = errorStyle.Render("search failed: " + client.Reason(msg.err))
			return m, nil
		}
		m.results = msg.users
		if m.results == nil {
			m.results = []domain.User{}
		}
		m.cursor = 0
		return m, nil

	case connectionRequestedMsg:
		if msg.err != nil {
			m.flash = errorStyle.Render(client.Reason(msg.err))
			return m, nil
		}
		m.flash = "request sent to " + msg.user.DisplayName()
		return m, m.Init()

	case sessionBookedMsg:
		if msg.err != nil {
			m.flash = errorStyle.Render(client.Reason(msg.err))
			return m, nil
		}
		m.flash = fmt.Sprintf("session booked with %s for %s",
			msg.user.DisplayName(), msg.session.StartTime.Local().Format("Mon Jan 02 15:04"))
		return m, nil

	case mentorsFlashMsg:
		if msg.err != nil {
			m.flash = errorStyle.Render(msg.err.Error())
		} else {
			m.flash = msg.text
		}
		return m, nil

	case tea.KeyMsg:
		if m.mode != mentorsBrowse {
			return m.handleInput(msg)
		}
		return m.handleKey(msg)
	}

	if m.mode != mentorsBrowse {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m mentorsModel) startInput(mode mentorsMode, prompt, placeholder string) (mentorsModel, tea.Cmd) {
	m.mode = mode
	m.input.Reset()
	m.input.Prompt = prompt
	m.input.Placeholder = placeholder
	m.flash = ""
	cmd := m.input.Focus()
	return m, cmd
}

func (m mentorsModel) stopInput() mentorsModel {
	m.mode = mentorsBrowse
	m.input.Blur()
	return m
}

func (m mentorsModel) handleKey(msg tea.KeyMsg) (mentorsModel, tea.Cmd) {
	rows := m.visible()
	if cursor, ok := moveCursor(msg, m.cursor, len(rows)); ok {
		m.cursor = cursor
		m.flash = ""
		return m, nil
	}
	if key.Matches(msg, keys.Refresh) {
		m.flash = "refreshing…"
		return m, m.Init()
	}

	switch msg.String() {
	case "/":
		m.results = nil
		return m.startInput(mentorsSearch, "/ ", "name or skill")
	case "esc":
		if m.term != "" || m.results != nil {
			m.term = ""
			m.results = nil
			m.cursor = 0
			m.flash = ""
		}
		return m, nil
	}

	u, ok := m.current()
	if !ok {
		return m, nil
	}
	status := domain.StatusWith(m.conns, m.me.ID, u.ID)

	switch msg.String() {
	case "enter", "p":
		return m, func() tea.Msg { return showCardMsg{user: u, status: status} }

	case "c":
		switch status {
		case domain.StatusAccepted:
			m.flash = "already connected with " + u.DisplayName()
			return m, nil
		case domain.StatusPending:
			m.flash = "request to " + u.DisplayName() + " is pending"
			return m, nil
		}
		m.target = u
		return m.startInput(mentorsNote, "note › ", "optional message, enter to send")

	case "b":
		switch status {
		case domain.StatusAccepted:
		case domain.StatusPending:
			m.flash = "waiting for " + u.DisplayName() + " to accept your connection"
			return m, nil
		default:
			m.flash = "connect with " + u.DisplayName() + " first (c)"
			return m, nil
		}
		m.target = u
		return m.startInput(mentorsBook, "when › ", bookingLayout)

	case "y":
		if u.Email == "" {
			return m, nil
		}
		cp, email := m.copy, u.Email
		return m, func() tea.Msg {
			if err := cp(email); err != nil {
				return mentorsFlashMsg{err: fmt.Errorf("copy failed: %w", err)}
			}
			return mentorsFlashMsg{text: "copied " + email}
		}
	}
	return m, nil
}

func (m mentorsModel) handleInput(msg tea.KeyMsg) (mentorsModel, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		if m.mode == mentorsSearch {
			m.term = ""
		}
		m.cursor = 0
		return m.stopInput(), nil

	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		mode := m.mode
		m = m.stopInput()
		switch mode {
		case mentorsSearch:
			return m.submitSearch(value)
		case mentorsNote:
			return m.submitConnect(value)
		case mentorsBook:
			return m.submitBooking(value)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.mode == mentorsSearch {
		m.cursor = 0
	}
	return m, cmd
}

func (m mentorsModel) submitSearch(term string) (mentorsModel, tea.Cmd) {
	m.term = term
	m.cursor = 0
	if term == "" {
		m.results = nil
		return m, nil
	}
	c := m.client
	return m, func() tea.Msg {
		users, err := c.SearchUsers(context.Background(), term)
		return mentorsSearchMsg{term: term, users: users, err: err}
	}
}

func (m mentorsModel) submitConnect(note string) (mentorsModel, tea.Cmd) {
	c, me, target := m.client, m.me.ID, m.target
	m.flash = "sending request…"
	return m, func() tea.Msg {
		_, err := c.RequestConnection(context.Background(), me, target.ID, note)
		return connectionRequestedMsg{user: target, err: err}
	}
}

func (m mentorsModel) submitBooking(value string) (mentorsModel, tea.Cmd) {
	start, err := parseBookingTime(value, m.clock())
	if err != nil {
		m.flash = errorStyle.Render(err.Error())
		return m, nil
	}
	c, me, target := m.client, m.me.ID, m.target
	m.flash = "booking…"
	return m, func() tea.Msg {
		s, err := c.ScheduleSession(context.Background(), target.ID, me, start)
		return sessionBookedMsg{user: target, session: s, err: err}
	}
}

// parseBookingTime reads a local date-time and requires it to be in the future.
func parseBookingTime(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("enter a date and time as %s", bookingLayout)
	}
	start, err := domain.ParseTime(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("could not read %q, use %s", value, bookingLayout)
	}
	if !start.After(now) {
		return time.Time{}, errors.New("pick a time in the future")
	}
	return start, nil
}

func (m mentorsModel) helpKeys() string {
	switch m.mode {
	case mentorsSearch:
		return helpBar("enter", "search skills", "esc", "clear")
	case mentorsNote:
		return helpBar("enter", "send", "esc", "cancel")
	case mentorsBook:
		return helpBar("enter", "book", "esc", "cancel")
	}
	return helpBar("/", "search", "enter", "card", "c", "connect", "b", "book", "y", "copy e-mail")
}

func (m mentorsModel) View() string {
	var b strings.Builder
	b.WriteString("\n")

	if !m.loaded && m.err == nil {
		b.WriteString(dimStyle.Render("  loading mentors…") + "\n")
		return b.String()
	}

	switch {
	case m.mode != mentorsBrowse:
		b.WriteString(" " + m.input.View() + "\n")
		if m.mode != mentorsSearch {
			b.WriteString(dimStyle.Render("  for "+m.target.DisplayName()) + "\n")
		}
	case m.results != nil:
		b.WriteString(dimStyle.Render(fmt.Sprintf("  users with skill %q · esc to clear", m.term)) + "\n")
	case m.term != "":
		b.WriteString(dimStyle.Render(fmt.Sprintf("  filter %q · esc to clear", m.term)) + "\n")
	}

	rows := m.visible()
	if len(rows) == 0 {
		if m.err != nil {
			b.WriteString(errorStyle.Render("  "+client.Reason(m.err)) + "\n")
		} else {
			b.WriteString(dimStyle.Render("  nobody matches") + "\n")
		}
		return b.String()
	}

	start, end := visibleRange(m.cursor, len(rows), max(m.height-4, 1))
	for i := start; i < end; i++ {
		u := rows[i]
		pointer := "  "
		nameStyle := normalStyle
		if i == m.cursor {
			pointer = accentStyle.Render("▸ ")
			nameStyle = selectedStyle
		}
		line := fmt.Sprintf(" %s%s", pointer, nameStyle.Render(fmt.Sprintf("%-24s", truncStr(u.DisplayName(), 24))))
		if u.IsMentor() {
			line += " " + accentStyle.Render("mentor")
		} else {
			line += "       "
		}
		if badge := connectionBadge(domain.StatusWith(m.conns, m.me.ID, u.ID)); badge != "" {
			line += "  " + badge
		}
		if names := u.SkillNames(); len(names) > 0 {
			line += "  " + metaStyle.Render(truncStr(strings.Join(names, ", "), 40))
		}
		b.WriteString(line + "\n")
	}

	if m.flash != "" {
		b.WriteString("\n  " + m.flash + "\n")
	}
	return b.String()
}
