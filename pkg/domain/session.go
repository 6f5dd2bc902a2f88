package domain

// DefaultDurationMinutes applies when a session omits its duration.
const DefaultDurationMinutes = 60

// Session is a scheduled one-on-one meeting between a mentor and a mentee.
type Session struct {
	ID              int64     `json:"id"`
	StartTime       Timestamp `json:"startTime"`
	DurationMinutes int       `json:"durationMinutes,omitempty"` // 0 means absent
	Status          string    `json:"status,omitempty"`
	Mentor          User      `json:"mentor"`
	Mentee          User      `json:"mentee"`
	MeetingLink     string    `json:"meetingLink,omitempty"`
	CreatedAt       Timestamp `json:"createdAt"`
}

// Minutes returns the session length, substituting the default for an
// absent or non-positive duration.
func (s Session) Minutes() int {
	if s.DurationMinutes <= 0 {
		return DefaultDurationMinutes
	}
	return s.DurationMinutes
}

// Counterpart returns the participant who is not me.
func (s Session) Counterpart(me int64) User {
	if s.Mentor.ID == me {
		return s.Mentee
	}
	return s.Mentor
}

// SessionRequest is a mentee's pending request for a session with a mentor.
type SessionRequest struct {
	ID        int64     `json:"id"`
	Mentor    User      `json:"mentor"`
	Mentee    User      `json:"mentee"`
	StartTime Timestamp `json:"startTime"`
	Topic     string    `json:"topic,omitempty"`
	Message   string    `json:"message,omitempty"`
	Status    string    `json:"status,omitempty"`
}
