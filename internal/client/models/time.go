package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// timeLayouts lists the timestamp shapes the backend is known to emit.
// Naive timestamps (no offset) are interpreted as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Time is a time.Time that tolerates timestamps without a zone offset.
type Time struct {
	time.Time
}

func (t *Time) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timeLayouts {
		if v, err := time.Parse(layout, s); err == nil {
			t.Time = v
			return nil
		}
	}
	return fmt.Errorf("unsupported timestamp %q", s)
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.UTC().Format(time.RFC3339Nano))
}

// Short formats t for table output, "-" when unset.
func (t Time) Short() string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("02 Jan 2006 15:04")
}
