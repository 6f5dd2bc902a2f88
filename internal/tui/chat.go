package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/skillswap/skillswap/pkg/client"
	"github.com/skillswap/skillswap/pkg/domain"
)

// chatState distinguishes between the contact list and an open conversation.
type chatState int

const (
	chatListState  chatState = iota
	chatConvoState           // viewing a single conversation
)

// -- messages --

type chatContactsLoadedMsg struct {
	contacts []domain.User
	err      error
}

type chatConvoLoadedMsg struct {
	gen      int
	peerID   int64
	poll     bool
	messages []domain.Message
	err      error
}

type chatPollMsg struct {
	gen int
}

type chatSentMsg struct {
	localID string
	message *domain.Message
	err     error
}

// -- model --

type chatModel struct {
	client   *client.Client
	me       domain.User
	interval time.Duration
	clock    func() time.Time

	state    chatState
	contacts []domain.User
	cursor   int
	loaded   bool
	err      error
	width    int
	height   int

	// convo state
	peer         domain.User
	messages     []domain.Message
	pending      []domain.Message // optimistic sends not yet confirmed
	failed       map[string]bool  // LocalIDs whose send failed
	input        string
	inputFocused bool
	status       string
	viewport     viewport.Model

	active bool
	gen    int
}

func newChatModel(c *client.Client, me domain.User, opts Options) chatModel {
	return chatModel{
		client:   c,
		me:       me,
		interval: opts.ChatPoll,
		clock:    opts.Now,
		failed:   make(map[string]bool),
		viewport: viewport.New(0, 0),
	}
}

// activate reloads contacts and resumes polling an open conversation.
func (m chatModel) activate() (chatModel, tea.Cmd) {
	m.gen++
	m.active = true
	if m.state == chatConvoState {
		return m, tea.Batch(m.loadContacts(), m.fetchConvo(true))
	}
	return m, m.loadContacts()
}

func (m chatModel) deactivate() chatModel {
	m.gen++
	m.active = false
	m.inputFocused = false
	return m
}

func (m chatModel) loadContacts() tea.Cmd {
	c, me := m.client, m.me.ID
	return func() tea.Msg {
		conns, err := c.ListConnections(context.Background(), me)
		if err != nil {
			return chatContactsLoadedMsg{err: err}
		}
		return chatContactsLoadedMsg{contacts: domain.ContactsFrom(conns, me)}
	}
}

func (m chatModel) fetchConvo(poll bool) tea.Cmd {
	c, me, peer, gen := m.client, m.me.ID, m.peer.ID, m.gen
	return func() tea.Msg {
		msgs, err := c.Conversation(context.Background(), me, peer)
		return chatConvoLoadedMsg{gen: gen, peerID: peer, poll: poll, messages: msgs, err: err}
	}
}

func (m chatModel) pollCmd() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return chatPollMsg{gen: gen}
	})
}

func (m chatModel) send(local domain.Message) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		sent, err := c.SendMessage(context.Background(), local.Sender.ID, local.Receiver.ID, local.Text)
		return chatSentMsg{localID: local.LocalID, message: sent, err: err}
	}
}

// visibleMessages is the server history followed by unconfirmed sends.
func (m chatModel) visibleMessages() []domain.Message {
	out := make([]domain.Message, 0, len(m.messages)+len(m.pending))
	out = append(out, m.messages...)
	return append(out, m.pending...)
}

func (m chatModel) Update(msg tea.Msg) (chatModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = m.convoHeight()
		m = m.syncViewport(false)
		return m, nil

	case meUpdatedMsg:
		m.me = msg.user
		return m, nil

	case chatContactsLoadedMsg:
		m.loaded = true
		m.err = msg.err
		if msg.err == nil {
			m.contacts = msg.contacts
		}
		m.cursor = clampCursor(m.cursor, len(m.contacts))
		return m, nil

	case chatConvoLoadedMsg:
		if msg.gen != m.gen || msg.peerID != m.peer.ID {
			return m, nil
		}
		if msg.err != nil {
			m.status = "error loading messages: " + client.Reason(msg.err)
		} else {
			atBottom := m.viewport.AtBottom()
			m.messages = msg.messages
			m = m.syncViewport(atBottom)
		}
		if !msg.poll || !m.active || m.state != chatConvoState {
			return m, nil
		}
		return m, m.pollCmd()

	case chatPollMsg:
		if msg.gen != m.gen || !m.active || m.state != chatConvoState {
			return m, nil
		}
		return m, m.fetchConvo(true)

	case chatSentMsg:
		if msg.err != nil {
			m.failed[msg.localID] = true
			m.status = "send failed: " + client.Reason(msg.err)
			return m.syncViewport(true), nil
		}
		kept := make([]domain.Message, 0, len(m.pending))
		for _, p := range m.pending {
			if p.LocalID != msg.localID {
				kept = append(kept, p)
			}
		}
		m.pending = kept
		if msg.message != nil && msg.message.Receiver.ID == m.peer.ID && (msg.message.ID == 0 || !m.hasMessage(msg.message.ID)) {
			m.messages = append(m.messages, *msg.message)
		}
		m.status = ""
		return m.syncViewport(true), nil

	case tea.KeyMsg:
		switch m.state {
		case chatListState:
			return m.updateList(msg)
		case chatConvoState:
			return m.updateConvo(msg)
		}
	}
	return m, nil
}

// hasMessage reports whether a poll already delivered the server copy.
func (m chatModel) hasMessage(id int64) bool {
	for _, msg := range m.messages {
		if msg.ID == id {
			return true
		}
	}
	return false
}

func (m chatModel) updateList(msg tea.KeyMsg) (chatModel, tea.Cmd) {
	if cursor, ok := moveCursor(msg, m.cursor, len(m.contacts)); ok {
		m.cursor = cursor
		return m, nil
	}
	if key.Matches(msg, keys.Refresh) {
		return m, m.loadContacts()
	}
	switch msg.String() {
	case "enter":
		if m.cursor < len(m.contacts) {
			return m.open(m.contacts[m.cursor])
		}
	case "p":
		if m.cursor < len(m.contacts) {
			u := m.contacts[m.cursor]
			return m, func() tea.Msg { return showCardMsg{user: u, status: domain.StatusAccepted} }
		}
	}
	return m, nil
}

// open switches to a conversation and starts polling it.
func (m chatModel) open(peer domain.User) (chatModel, tea.Cmd) {
	m.gen++
	m.state = chatConvoState
	m.peer = peer
	m.messages = nil
	m.pending = nil
	m.failed = make(map[string]bool)
	m.input = ""
	m.inputFocused = true
	m.status = ""
	m = m.syncViewport(true)
	return m, m.fetchConvo(true)
}

func (m chatModel) updateConvo(msg tea.KeyMsg) (chatModel, tea.Cmd) {
	k := msg.String()

	if m.inputFocused {
		switch k {
		case "esc":
			m.inputFocused = false
			return m, nil
		case "enter":
			text := strings.TrimSpace(m.input)
			if text == "" {
				return m, nil
			}
			m.input = ""
			local := domain.Message{
				Sender:    m.me,
				Receiver:  m.peer,
				Text:      text,
				Timestamp: domain.NewTimestamp(m.clock()),
				LocalID:   uuid.NewString(),
			}
			m.pending = append(m.pending, local)
			m = m.syncViewport(true)
			return m, m.send(local)
		default:
			m.input = editRune(m.input, k)
			return m, nil
		}
	}

	// Nav mode
	switch k {
	case "esc":
		m.gen++
		m.state = chatListState
		m.peer = domain.User{}
		m.messages = nil
		m.pending = nil
		m.input = ""
		m.status = ""
		return m, m.loadContacts()
	case "enter", "i":
		m.inputFocused = true
		return m, nil
	case "r":
		// Retry failed sends.
		var cmds []tea.Cmd
		for _, p := range m.pending {
			if m.failed[p.LocalID] {
				delete(m.failed, p.LocalID)
				cmds = append(cmds, m.send(p))
			}
		}
		m.status = ""
		return m.syncViewport(false), tea.Batch(cmds...)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// convoHeight is the number of rows left for messages in a conversation.
func (m chatModel) convoHeight() int {
	// title + separator + blank + input + status
	return max(m.height-5, 2)
}

// syncViewport re-renders the message history into the viewport.
func (m chatModel) syncViewport(toBottom bool) chatModel {
	msgs := m.visibleMessages()
	if len(msgs) == 0 {
		m.viewport.SetContent(" " + dimStyle.Render("no messages yet · say hello"))
		return m
	}
	lines := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		lines = append(lines, m.renderMessage(msg))
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
	if toBottom {
		m.viewport.GotoBottom()
	}
	return m
}

func (m chatModel) View() string {
	switch m.state {
	case chatConvoState:
		return m.viewConvo()
	default:
		return m.viewList()
	}
}

func (m chatModel) viewList() string {
	var b strings.Builder

	b.WriteString("\n " + titleStyle.Render("Contacts") + "\n")
	b.WriteString(separator(m.width))

	if !m.loaded && m.err == nil {
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	if m.err != nil {
		b.WriteString(" " + errorStyle.Render(client.Reason(m.err)) + "\n")
		return b.String()
	}
	if len(m.contacts) == 0 {
		b.WriteString("\n " + dimStyle.Render("no contacts yet · connect with someone on the Mentors tab") + "\n")
		return b.String()
	}

	start, end := visibleRange(m.cursor, len(m.contacts), max(m.height-3, 1))
	for i := start; i < end; i++ {
		u := m.contacts[i]
		cursor := "  "
		name := normalStyle.Render(u.DisplayName())
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
			name = selectedStyle.Render(u.DisplayName())
		}
		line := " " + cursor + name
		if names := u.SkillNames(); len(names) > 0 {
			line += "  " + metaStyle.Render(truncStr(strings.Join(names, ", "), 40))
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m chatModel) viewConvo() string {
	var b strings.Builder

	b.WriteString("\n " + titleStyle.Render("Chat with ") + chatOtherNameStyle.Render(m.peer.DisplayName()) + "\n")
	b.WriteString(separator(m.width))

	view := m.viewport.View()
	if n := lipgloss.Height(view); n < m.convoHeight() {
		padLines(m.convoHeight()-n, &b)
	}
	b.WriteString(view + "\n")

	b.WriteString(m.renderInput() + "\n")
	if m.status != "" {
		b.WriteString(" " + errorStyle.Render(m.status))
	}
	return b.String()
}

func (m chatModel) renderMessage(msg domain.Message) string {
	timeStr := fmt.Sprintf("%8s", formatChatTime(msg.Timestamp.Time))
	timePart := metaStyle.Render(timeStr)
	sep := chatSepStyle.Render(" · ")

	isSelf := msg.Sender.ID == m.me.ID
	var namePart string
	if isSelf {
		namePart = chatSelfNameStyle.Render("you")
	} else {
		namePart = chatOtherNameStyle.Render(msg.Sender.DisplayName())
	}

	bodyWidth := max(m.width-26, 20)
	wrapped := lipgloss.NewStyle().Width(bodyWidth).Render(msg.Text)
	lines := strings.Split(wrapped, "\n")

	bodyStyle := chatTextStyle
	if isSelf {
		bodyStyle = chatSelfTextStyle
	}

	result := " " + timePart + "  " + namePart + sep + bodyStyle.Render(lines[0])
	switch {
	case m.failed[msg.LocalID]:
		result += "  " + errorStyle.Render("not sent")
	case msg.Pending():
		result += "  " + dimStyle.Render("sending…")
	}
	if len(lines) > 1 {
		indent := strings.Repeat(" ", 15)
		for _, line := range lines[1:] {
			result += "\n" + indent + bodyStyle.Render(line)
		}
	}
	return result
}

func (m chatModel) renderInput() string {
	const timeIndent = "           " // " " + 8-char timestamp + "  "

	sep := chatSepStyle.Render(" · ")
	namePart := chatSelfNameStyle.Render("you")
	if !m.inputFocused {
		if m.input == "" {
			return timeIndent + namePart + sep + inputPlaceholderStyle.Render("press i to type")
		}
		return timeIndent + namePart + sep + dimStyle.Render(m.input)
	}
	cursor := accentStyle.Render("█")
	return timeIndent + namePart + sep + chatSelfTextStyle.Render(m.input) + cursor
}

func (m chatModel) helpKeys() string {
	switch m.state {
	case chatConvoState:
		if m.inputFocused {
			return helpBar("enter", "send", "esc", "stop typing")
		}
		if len(m.failed) > 0 {
			return helpBar("i", "type", "r", "retry", "pgup/pgdn", "scroll", "esc", "back")
		}
		return helpBar("i", "type", "pgup/pgdn", "scroll", "esc", "back")
	default:
		return helpBar("j/k", "move", "enter", "open", "p", "profile")
	}
}
