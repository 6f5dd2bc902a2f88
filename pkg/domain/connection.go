package domain

// Connection statuses.
const (
	StatusPending  = "PENDING"
	StatusAccepted = "ACCEPTED"
	StatusRejected = "REJECTED"
)

// Connection is a request from one user to connect with another.
type Connection struct {
	ID        int64     `json:"id"`
	Requester User      `json:"requester"`
	Receiver  User      `json:"receiver"`
	Status    string    `json:"status"`
	Message   string    `json:"message,omitempty"`
	CreatedAt Timestamp `json:"createdAt"`
}

// Involves reports whether the connection links users a and b in either direction.
func (c Connection) Involves(a, b int64) bool {
	return (c.Requester.ID == a && c.Receiver.ID == b) ||
		(c.Requester.ID == b && c.Receiver.ID == a)
}

// Other returns the party on the far side of the connection from me.
func (c Connection) Other(me int64) User {
	if c.Requester.ID == me {
		return c.Receiver
	}
	return c.Requester
}

// StatusWith returns the status of the first connection between me and other,
// or "" if none exists.
func StatusWith(conns []Connection, me, other int64) string {
	for _, c := range conns {
		if c.Involves(me, other) {
			return c.Status
		}
	}
	return ""
}

// ContactsFrom returns the unique counterparts of me's accepted connections,
// in the order they first appear.
func ContactsFrom(conns []Connection, me int64) []User {
	seen := make(map[int64]bool)
	var contacts []User
	for _, c := range conns {
		if c.Status != StatusAccepted {
			continue
		}
		other := c.Other(me)
		if other.ID == me || seen[other.ID] {
			continue
		}
		seen[other.ID] = true
		contacts = append(contacts, other)
	}
	return contacts
}
