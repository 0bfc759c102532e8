package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// localTimeLayouts are the timestamp shapes the backend emits. Zone-less values
// are interpreted in UTC.
var localTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// LocalTime is a timestamp that accepts both zoned and zone-less ISO-8601 forms.
type LocalTime struct {
	t time.Time
}

// NewLocalTime wraps t.
func NewLocalTime(t time.Time) LocalTime { return LocalTime{t: t} }

// Time returns the wrapped time.
func (lt LocalTime) Time() time.Time { return lt.t }

// IsZero reports whether no timestamp was set.
func (lt LocalTime) IsZero() bool { return lt.t.IsZero() }

// String formats the timestamp for display.
func (lt LocalTime) String() string {
	if lt.t.IsZero() {
		return ""
	}
	return lt.t.Format("2006-01-02 15:04")
}

// ParseLocalTime parses s using the layouts the backend is known to emit.
func ParseLocalTime(s string) (LocalTime, error) {
	for _, layout := range localTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return LocalTime{t: t}, nil
		}
	}
	return LocalTime{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func (lt LocalTime) MarshalJSON() ([]byte, error) {
	if lt.t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(lt.t.Format(time.RFC3339Nano))
}

func (lt *LocalTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*lt = LocalTime{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	if s == "" {
		*lt = LocalTime{}
		return nil
	}
	parsed, err := ParseLocalTime(s)
	if err != nil {
		return err
	}
	*lt = parsed
	return nil
}
