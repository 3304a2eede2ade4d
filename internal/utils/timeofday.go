package util

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time without a date, stored as a SQL TIME.
type TimeOfDay struct {
	time.Time
}

const timeLayout = "15:04"
const timeLayoutSeconds = "15:04:05"

func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	return t.parse(s)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + t.Format(timeLayout) + `"`), nil
}

func (t TimeOfDay) String() string {
	return t.Format(timeLayout)
}

func (t TimeOfDay) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return t.Format(timeLayoutSeconds), nil
}

func (t *TimeOfDay) Scan(value interface{}) error {
	if value == nil {
		t.Time = time.Time{}
		return nil
	}

	switch v := value.(type) {
	case time.Time:
		t.Time = v
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	default:
		return fmt.Errorf("cannot scan type %T into TimeOfDay", value)
	}
}

func (t *TimeOfDay) parse(s string) error {
	for _, layout := range []string{timeLayoutSeconds, timeLayout} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("cannot parse %q as time of day", s)
}
