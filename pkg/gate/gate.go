// Package gate decides whether a scheduled session can be joined.
//
// Classification is a pure function of the session's start time, its
// duration and the caller's clock. Nothing is stored between calls, so
// callers re-evaluate on every clock tick.
package gate

import (
	"sort"
	"time"

	"github.com/skillswap/skillswap/pkg/domain"
)

// State is the access state of a session relative to now.
type State int

const (
	// Locked means the unlock window has not opened yet.
	Locked State = iota
	// Active means the session can be joined.
	Active
	// Expired means the session has ended.
	Expired
)

func (s State) String() string {
	switch s {
	case Locked:
		return "LOCKED"
	case Active:
		return "ACTIVE"
	case Expired:
		return "EXPIRED"
	default:
		return "UNKNOWN"
	}
}

// Action is the control a view presents for a state.
type Action int

const (
	// DisabledLocked shows a disabled join control until the window opens.
	DisabledLocked Action = iota
	// JoinEnabled shows a join control that opens the meeting link.
	JoinEnabled
	// DisabledExpired shows the session as over.
	DisabledExpired
)

// Action maps the state to the control shown for it.
func (s State) Action() Action {
	switch s {
	case Active:
		return JoinEnabled
	case Expired:
		return DisabledExpired
	default:
		return DisabledLocked
	}
}

// CanJoin reports whether the meeting link may be opened.
func (s State) CanJoin() bool { return s == Active }

// Policy holds the tunable boundaries of the gate.
type Policy struct {
	// UnlockWindow is how long before the start time joining opens.
	UnlockWindow time.Duration
	// DefaultDuration applies when a session carries no positive duration.
	DefaultDuration time.Duration
}

// DefaultPolicy opens sessions 15 minutes early and assumes one hour.
var DefaultPolicy = Policy{
	UnlockWindow:    15 * time.Minute,
	DefaultDuration: 60 * time.Minute,
}

// Classify evaluates a session with DefaultPolicy. A durationMinutes of zero
// or less means the duration is absent.
func Classify(start time.Time, durationMinutes int, now time.Time) State {
	return DefaultPolicy.Classify(start, durationMinutes, now)
}

// Classify returns Expired strictly after the end, Active from the unlock
// instant (inclusive) through the end (inclusive), and Locked before that.
func (p Policy) Classify(start time.Time, durationMinutes int, now time.Time) State {
	unlock, end := p.Window(start, durationMinutes)
	if now.After(end) {
		return Expired
	}
	if !now.Before(unlock) {
		return Active
	}
	return Locked
}

// Window returns the instants at which a session unlocks and ends.
func (p Policy) Window(start time.Time, durationMinutes int) (unlock, end time.Time) {
	return start.Add(-p.UnlockWindow), start.Add(p.duration(durationMinutes))
}

// ClassifySession evaluates a session record. A start time the backend sent
// in an unreadable form decodes to zero; such sessions are reported Expired
// so they can never be joined.
func (p Policy) ClassifySession(s domain.Session, now time.Time) State {
	if !s.StartTime.Valid() {
		return Expired
	}
	return p.Classify(s.StartTime.Time, s.DurationMinutes, now)
}

// Sort orders sessions for display: Active first, then Locked by start time,
// then Expired with the most recent first.
func (p Policy) Sort(sessions []domain.Session, now time.Time) {
	rank := func(s domain.Session) int {
		switch p.ClassifySession(s, now) {
		case Active:
			return 0
		case Locked:
			return 1
		}
		return 2
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		a, b := sessions[i], sessions[j]
		ra, rb := rank(a), rank(b)
		if ra != rb {
			return ra < rb
		}
		if ra == 2 {
			return a.StartTime.After(b.StartTime.Time)
		}
		return a.StartTime.Before(b.StartTime.Time)
	})
}

func (p Policy) duration(minutes int) time.Duration {
	if minutes > 0 {
		return time.Duration(minutes) * time.Minute
	}
	if p.DefaultDuration > 0 {
		return p.DefaultDuration
	}
	return DefaultPolicy.DefaultDuration
}
