package domain

// Message is a single direct chat message.
type Message struct {
	ID        int64     `json:"id"`
	Sender    User      `json:"sender"`
	Receiver  User      `json:"receiver"`
	Text      string    `json:"text"`
	Timestamp Timestamp `json:"timestamp"`

	// LocalID marks an optimistic message not yet confirmed by the server.
	LocalID string `json:"-"`
}

// Pending reports whether the message was appended locally and has not been
// returned by the server yet.
func (m Message) Pending() bool {
	return m.LocalID != ""
}
