package gate

import (
	"testing"
	"time"

	"github.com/skillswap/skillswap/pkg/domain"
)

var start = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

func TestClassifyBoundaries(t *testing.T) {
	for _, dur := range []int{1, 30, 60, 90, 240} {
		end := start.Add(time.Duration(dur) * time.Minute)
		tests := []struct {
			name string
			now  time.Time
			want State
		}{
			{"16m before start", start.Add(-16 * time.Minute), Locked},
			{"unlock instant", start.Add(-15 * time.Minute), Active},
			{"start", start, Active},
			{"1m before end", end.Add(-time.Minute), Active},
			{"end instant", end, Active},
			{"1m after end", end.Add(time.Minute), Expired},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if got := Classify(start, dur, tt.now); got != tt.want {
					t.Errorf("Classify(start, %d, %s) = %s, want %s", dur, tt.now.Format(time.TimeOnly), got, tt.want)
				}
			})
		}
	}
}

func TestClassifyDefaultDuration(t *testing.T) {
	for _, dur := range []int{0, -5} {
		if got := Classify(start, dur, start.Add(59*time.Minute)); got != Active {
			t.Errorf("Classify(start, %d, +59m) = %s, want ACTIVE", dur, got)
		}
		if got := Classify(start, dur, start.Add(61*time.Minute)); got != Expired {
			t.Errorf("Classify(start, %d, +61m) = %s, want EXPIRED", dur, got)
		}
	}
}

func TestClassifyScenario(t *testing.T) {
	at := func(h, m, s int) time.Time { return time.Date(2024, 1, 1, h, m, s, 0, time.UTC) }
	tests := []struct {
		now  time.Time
		want State
	}{
		{at(9, 44, 0), Locked},
		{at(9, 45, 0), Active},
		{at(10, 59, 0), Active},
		{at(11, 0, 1), Expired},
	}
	for _, tt := range tests {
		t.Run(tt.now.Format(time.TimeOnly), func(t *testing.T) {
			if got := Classify(start, 60, tt.now); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestClassifyIdempotent(t *testing.T) {
	for offset := -30 * time.Minute; offset <= 90*time.Minute; offset += 7 * time.Minute {
		now := start.Add(offset)
		first := Classify(start, 60, now)
		second := Classify(start, 60, now)
		if first != second {
			t.Errorf("offset %v: %s then %s", offset, first, second)
		}
	}
}

func TestClassifyAcrossZones(t *testing.T) {
	kolkata := time.FixedZone("IST", 5*3600+1800)
	now := start.Add(-10 * time.Minute).In(kolkata)
	if got := Classify(start, 60, now); got != Active {
		t.Errorf("got %s, want ACTIVE for the same instant in another zone", got)
	}
}

func TestPolicyUnlockWindow(t *testing.T) {
	p := Policy{UnlockWindow: 5 * time.Minute, DefaultDuration: 30 * time.Minute}
	tests := []struct {
		offset time.Duration
		want   State
	}{
		{-6 * time.Minute, Locked},
		{-5 * time.Minute, Active},
		{30 * time.Minute, Active},
		{31 * time.Minute, Expired},
	}
	for _, tt := range tests {
		if got := p.Classify(start, 0, start.Add(tt.offset)); got != tt.want {
			t.Errorf("offset %v: got %s, want %s", tt.offset, got, tt.want)
		}
	}
}

func TestPolicyZeroWindow(t *testing.T) {
	p := Policy{}
	if got := p.Classify(start, 0, start.Add(-time.Second)); got != Locked {
		t.Errorf("1s before start: got %s, want LOCKED", got)
	}
	if got := p.Classify(start, 0, start.Add(60*time.Minute)); got != Active {
		t.Errorf("end with zero-value policy: got %s, want ACTIVE", got)
	}
}

func TestWindow(t *testing.T) {
	unlock, end := DefaultPolicy.Window(start, 45)
	if want := start.Add(-15 * time.Minute); !unlock.Equal(want) {
		t.Errorf("unlock = %v, want %v", unlock, want)
	}
	if want := start.Add(45 * time.Minute); !end.Equal(want) {
		t.Errorf("end = %v, want %v", end, want)
	}
}

func TestClassifySession(t *testing.T) {
	s := domain.Session{StartTime: domain.NewTimestamp(start), DurationMinutes: 60}
	if got := DefaultPolicy.ClassifySession(s, start); got != Active {
		t.Errorf("got %s, want ACTIVE", got)
	}
}

func TestClassifySession_UnparseableStartIsExpired(t *testing.T) {
	s := domain.Session{StartTime: domain.Timestamp{Raw: "garbage"}}
	for _, now := range []time.Time{time.Time{}, start, time.Now()} {
		if got := DefaultPolicy.ClassifySession(s, now); got != Expired {
			t.Errorf("now=%v: got %s, want EXPIRED", now, got)
		}
	}
}

func TestStateStringAndAction(t *testing.T) {
	tests := []struct {
		state  State
		str    string
		action Action
		join   bool
	}{
		{Locked, "LOCKED", DisabledLocked, false},
		{Active, "ACTIVE", JoinEnabled, true},
		{Expired, "EXPIRED", DisabledExpired, false},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.str {
			t.Errorf("String() = %q, want %q", got, tt.str)
		}
		if got := tt.state.Action(); got != tt.action {
			t.Errorf("%s.Action() = %d, want %d", tt.str, got, tt.action)
		}
		if got := tt.state.CanJoin(); got != tt.join {
			t.Errorf("%s.CanJoin() = %v, want %v", tt.str, got, tt.join)
		}
	}
}

func TestPolicySort(t *testing.T) {
	now := start
	at := func(id int64, offset time.Duration) domain.Session {
		return domain.Session{ID: id, StartTime: domain.NewTimestamp(now.Add(offset)), DurationMinutes: 60}
	}
	sessions := []domain.Session{
		at(1, -5*time.Hour),    // expired, older
		at(2, 3*time.Hour),     // locked, later
		at(3, -2*time.Hour),    // expired, recent
		{ID: 4},                // unreadable start, expired last
		at(5, -10*time.Minute), // active
		at(6, time.Hour),       // locked, sooner
	}
	DefaultPolicy.Sort(sessions, now)

	want := []int64{5, 6, 2, 3, 1, 4}
	for i, s := range sessions {
		if s.ID != want[i] {
			t.Fatalf("order = %v, want %v", ids(sessions), want)
		}
	}
}

func ids(sessions []domain.Session) []int64 {
	out := make([]int64, len(sessions))
	for i, s := range sessions {
		out[i] = s.ID
	}
	return out
}
