package domain

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"compassai/internal/infra/jsoncodec"
)

var localDateTimeLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339Nano,
}

// LocalDateTime is a backend LocalDateTime: a wall-clock time without zone.
type LocalDateTime struct {
	time.Time
}

// NewLocalDateTime wraps t after dropping its zone.
func NewLocalDateTime(t time.Time) LocalDateTime {
	return LocalDateTime{Time: time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)}
}

// ParseLocalDateTime parses the layouts the backend and the admin screens use.
func ParseLocalDateTime(raw string) (LocalDateTime, error) {
	value := strings.TrimSpace(raw)
	for _, layout := range localDateTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return LocalDateTime{Time: t}, nil
		}
	}
	return LocalDateTime{}, fmt.Errorf("parse local date time %q", raw)
}

// Display formats the time as "YYYY-MM-DD HH:MM".
func (t LocalDateTime) Display() string {
	if t.IsZero() {
		return ""
	}
	return t.Format(ProcessedAtLayout)
}

func (t LocalDateTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return jsoncodec.Marshal(t.Format("2006-01-02T15:04:05"))
}

func (t *LocalDateTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*t = LocalDateTime{}
		return nil
	}
	var raw string
	if err := jsoncodec.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode local date time: %w", err)
	}
	if strings.TrimSpace(raw) == "" {
		*t = LocalDateTime{}
		return nil
	}
	parsed, err := ParseLocalDateTime(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
