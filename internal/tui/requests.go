package tui

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/skillswap/skillswap/pkg/client"
	"github.com/skillswap/skillswap/pkg/domain"
)

// meetingBaseURL prefixes generated meeting room links.
const meetingBaseURL = "https://meet.jit.si/SkillSwap-"

func newMeetingLink() string {
	return meetingBaseURL + uuid.NewString()
}

type requestsLoadedMsg struct {
	gen   int
	poll  bool // part of the poll chain, schedules the next tick
	conns []domain.Connection
	reqs  []domain.SessionRequest
	// unsupported is set when the backend has no session request endpoints.
	unsupported bool
	err         error
}

type requestsTickMsg struct {
	gen int
}

type requestHandledMsg struct {
	text string
	err  error
}

// requestRow is either a connection request or a session request.
type requestRow struct {
	conn *domain.Connection
	req  *domain.SessionRequest
}

type requestsModel struct {
	client   *client.Client
	me       domain.User
	interval time.Duration

	conns       []domain.Connection
	reqs        []domain.SessionRequest
	unsupported bool
	cursor      int
	loaded      bool
	err         error
	flash       string
	confirming  bool
	declining   domain.SessionRequest
	active      bool
	gen         int
	height      int
}

func newRequestsModel(c *client.Client, me domain.User, opts Options) requestsModel {
	return requestsModel{client: c, me: me, interval: opts.RequestsPoll}
}

func (m requestsModel) activate() (requestsModel, tea.Cmd) {
	m.gen++
	m.active = true
	return m, m.fetch(true)
}

func (m requestsModel) deactivate() requestsModel {
	m.gen++
	m.active = false
	m.confirming = false
	return m
}

// load fetches once without touching the poll chain.
func (m requestsModel) load() tea.Cmd {
	return m.fetch(false)
}

func (m requestsModel) fetch(poll bool) tea.Cmd {
	c, me, gen, skipReqs := m.client, m.me.ID, m.gen, m.unsupported
	return func() tea.Msg {
		ctx := context.Background()
		conns, err := c.PendingConnections(ctx, me)
		if err != nil {
			return requestsLoadedMsg{gen: gen, poll: poll, err: err, unsupported: skipReqs}
		}
		msg := requestsLoadedMsg{gen: gen, poll: poll, conns: conns, unsupported: skipReqs}
		if skipReqs {
			return msg
		}
		reqs, err := c.ListSessionRequests(ctx, me)
		switch {
		case client.IsStatus(err, http.StatusNotFound):
			msg.unsupported = true
		case err != nil:
			msg.err = err
		default:
			msg.reqs = reqs
		}
		return msg
	}
}

func (m requestsModel) tickCmd() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return requestsTickMsg{gen: gen}
	})
}

// rows lists connection requests first, then pending session requests.
func (m requestsModel) rows() []requestRow {
	rows := make([]requestRow, 0, len(m.conns)+len(m.reqs))
	for i := range m.conns {
		rows = append(rows, requestRow{conn: &m.conns[i]})
	}
	for i := range m.reqs {
		rows = append(rows, requestRow{req: &m.reqs[i]})
	}
	return rows
}

// count is the number shown on the Requests tab badge.
func (m requestsModel) count() int {
	return len(m.conns) + len(m.reqs)
}

func pendingOnly(reqs []domain.SessionRequest) []domain.SessionRequest {
	out := reqs[:0:0]
	for _, r := range reqs {
		if r.Status == "" || strings.EqualFold(r.Status, domain.StatusPending) {
			out = append(out, r)
		}
	}
	return out
}

func (m requestsModel) hasRequest(id int64) bool {
	for _, r := range m.reqs {
		if r.ID == id {
			return true
		}
	}
	return false
}

func (m requestsModel) Update(msg tea.Msg) (requestsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil

	case meUpdatedMsg:
		m.me = msg.user
		return m, nil

	case requestsLoadedMsg:
		m.loaded = true
		m.err = msg.err
		m.unsupported = m.unsupported || msg.unsupported
		if msg.err == nil {
			m.conns = msg.conns
			m.reqs = pendingOnly(msg.reqs)
		}
		m.cursor = clampCursor(m.cursor, len(m.rows()))
		if m.confirming && !m.hasRequest(m.declining.ID) {
			m.confirming = false
			m.flash = "request from " + m.declining.Mentee.DisplayName() + " is no longer pending"
		}
		if !msg.poll || msg.gen != m.gen || !m.active {
			return m, nil
		}
		return m, m.tickCmd()

	case requestsTickMsg:
		if msg.gen != m.gen || !m.active {
			return m, nil
		}
		return m, m.fetch(true)

	case requestHandledMsg:
		if msg.err != nil {
			m.flash = errorStyle.Render(client.Reason(msg.err))
			return m, nil
		}
		m.flash = msg.text
		return m, m.load()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m requestsModel) handleKey(msg tea.KeyMsg) (requestsModel, tea.Cmd) {
	rows := m.rows()
	if m.confirming {
		m.confirming = false
		if msg.String() != "y" {
			m.flash = ""
			return m, nil
		}
		req, c := m.declining, m.client
		m.flash = "declining…"
		return m, func() tea.Msg {
			if err := c.DeclineSessionRequest(context.Background(), req.ID); err != nil {
				return requestHandledMsg{err: err}
			}
			return requestHandledMsg{text: "declined request from " + req.Mentee.DisplayName()}
		}
	}

	if cursor, ok := moveCursor(msg, m.cursor, len(rows)); ok {
		m.cursor = cursor
		m.flash = ""
		return m, nil
	}
	if key.Matches(msg, keys.Refresh) {
		m.flash = "refreshing…"
		return m, m.load()
	}
	if m.cursor >= len(rows) {
		return m, nil
	}
	row := rows[m.cursor]
	c := m.client

	switch {
	case row.conn != nil:
		conn := *row.conn
		var status, verb string
		switch msg.String() {
		case "a":
			status, verb = domain.StatusAccepted, "connected with "
		case "r":
			status, verb = domain.StatusRejected, "declined "
		default:
			return m, nil
		}
		m.flash = "updating…"
		return m, func() tea.Msg {
			if _, err := c.SetConnectionStatus(context.Background(), conn.ID, status); err != nil {
				return requestHandledMsg{err: err}
			}
			return requestHandledMsg{text: verb + conn.Requester.DisplayName()}
		}

	case row.req != nil:
		req := *row.req
		switch msg.String() {
		case "A", "a":
			link := newMeetingLink()
			m.flash = "accepting…"
			return m, func() tea.Msg {
				if err := c.AcceptSessionRequest(context.Background(), req.ID, link, req.StartTime.Time); err != nil {
					return requestHandledMsg{err: err}
				}
				return requestHandledMsg{text: "session confirmed · " + link}
			}
		case "D", "r":
			m.confirming = true
			m.declining = req
			m.flash = fmt.Sprintf("decline session request from %s? (y/n)", req.Mentee.DisplayName())
		}
	}
	return m, nil
}

func (m requestsModel) helpKeys() string {
	if m.confirming {
		return helpBar("y", "decline", "n", "keep")
	}
	rows := m.rows()
	if m.cursor < len(rows) && rows[m.cursor].req != nil {
		return helpBar("j/k", "move", "A", "accept session", "D", "decline", "ctrl+r", "refresh")
	}
	return helpBar("j/k", "move", "a", "accept", "r", "reject", "ctrl+r", "refresh")
}

func (m requestsModel) View() string {
	var b strings.Builder
	b.WriteString("\n")

	if !m.loaded && m.err == nil {
		b.WriteString(dimStyle.Render("  loading requests…") + "\n")
		return b.String()
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render("  "+client.Reason(m.err)) + "\n\n")
	}

	rows := m.rows()
	if len(rows) == 0 {
		b.WriteString(dimStyle.Render("  no pending requests") + "\n")
	}

	wroteConnHeader, wroteReqHeader := false, false
	for i, row := range rows {
		pointer := "  "
		nameStyle := normalStyle
		if i == m.cursor {
			pointer = accentStyle.Render("▸ ")
			nameStyle = selectedStyle
		}
		switch {
		case row.conn != nil:
			if !wroteConnHeader {
				b.WriteString(" " + titleStyle.Render("Connection requests") + "\n")
				wroteConnHeader = true
			}
			from := row.conn.Requester
			line := fmt.Sprintf(" %s%s", pointer, nameStyle.Render(from.DisplayName()))
			if names := from.SkillNames(); len(names) > 0 {
				line += "  " + metaStyle.Render(truncStr(strings.Join(names, ", "), 30))
			}
			if ago := formatTime(row.conn.CreatedAt.Time); ago != "" {
				line += "  " + dimStyle.Render(ago)
			}
			b.WriteString(line + "\n")
			if row.conn.Message != "" {
				b.WriteString("     " + dimStyle.Render("“"+truncStr(oneLine(row.conn.Message), 60)+"”") + "\n")
			}

		case row.req != nil:
			if !wroteReqHeader {
				if wroteConnHeader {
					b.WriteString("\n")
				}
				b.WriteString(" " + titleStyle.Render("Session requests") + "\n")
				wroteReqHeader = true
			}
			r := row.req
			line := fmt.Sprintf(" %s%s", pointer, nameStyle.Render(r.Mentee.DisplayName()))
			if r.StartTime.Valid() {
				line += "  " + metaStyle.Render(r.StartTime.Local().Format("Mon Jan 02 15:04"))
			}
			if r.Topic != "" {
				line += "  " + accentStyle.Render(truncStr(r.Topic, 30))
			}
			b.WriteString(line + "\n")
			if r.Message != "" {
				b.WriteString("     " + dimStyle.Render("“"+truncStr(oneLine(r.Message), 60)+"”") + "\n")
			}
		}
	}

	if m.flash != "" {
		b.WriteString("\n  " + m.flash + "\n")
	}
	return b.String()
}
