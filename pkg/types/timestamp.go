package types

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// TimestampLayout is the storage and wire format for cart timestamps:
// UTC, second precision.
const TimestampLayout = "2006-01-02 15:04:05"

// Timestamp persists as a "YYYY-MM-DD HH:MM:SS" UTC string so that range
// predicates compare lexically in every supported dialect.
type Timestamp struct {
	time.Time
}

// NewTimestamp truncates t to seconds in UTC.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC().Truncate(time.Second)}
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp reads a TimestampLayout string as UTC.
func ParseTimestamp(value string) (Timestamp, error) {
	parsed, err := time.ParseInLocation(TimestampLayout, value, time.UTC)
	if err != nil {
		return Timestamp{}, fmt.Errorf("parse timestamp %q: %w", value, err)
	}
	return Timestamp{Time: parsed}, nil
}

// String implements fmt.Stringer.
func (t Timestamp) String() string {
	return FormatTimestamp(t.Time)
}

// Value implements driver.Valuer.
func (t Timestamp) Value() (driver.Value, error) {
	return FormatTimestamp(t.Time), nil
}

// Scan implements sql.Scanner.
func (t *Timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = Timestamp{}
		return nil
	case time.Time:
		*t = NewTimestamp(v)
		return nil
	case string:
		return t.scanString(v)
	case []byte:
		return t.scanString(string(v))
	default:
		return fmt.Errorf("unsupported timestamp source %T", src)
	}
}

func (t *Timestamp) scanString(value string) error {
	parsed, err := ParseTimestamp(value)
	if err != nil {
		// tolerate RFC3339 written by other tooling
		rfc, rfcErr := time.Parse(time.RFC3339Nano, value)
		if rfcErr != nil {
			return err
		}
		parsed = NewTimestamp(rfc)
	}
	*t = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}
	return t.scanString(raw)
}
