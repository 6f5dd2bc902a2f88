package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// LocalLayout is the zone-less date-time form the backend reads and writes.
const LocalLayout = "2006-01-02T15:04:05"

// localLayouts are tried in order after RFC 3339. Fractional seconds are
// accepted by time.Parse even when the layout omits them.
var localLayouts = []string{
	LocalLayout,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseTime parses an ISO-8601 timestamp. Values carrying an offset are read
// as RFC 3339; zone-less values are interpreted in the local zone.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("domain.ParseTime: unrecognised timestamp %q", s)
}

// Timestamp is a time decoded from the backend. A missing or malformed value
// decodes to the zero time instead of failing the surrounding payload.
type Timestamp struct {
	time.Time
	Raw string `json:"-"` // original text, kept for diagnostics
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// Valid reports whether the timestamp holds a parsed, non-zero time.
func (ts Timestamp) Valid() bool {
	return !ts.Time.IsZero()
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*ts = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*ts = Timestamp{Raw: string(data)}
		return nil
	}
	t, err := ParseTime(s)
	if err != nil {
		*ts = Timestamp{Raw: s}
		return nil
	}
	*ts = Timestamp{Time: t, Raw: s}
	return nil
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if !ts.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.Time.In(time.Local).Format(LocalLayout))
}
