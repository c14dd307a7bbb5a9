package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date with no time-of-day and no timezone. Check-in and
// check-out are dates on the property's wall calendar; carrying a timestamp
// around would let a zone conversion shift the day. Internally the date is
// pinned to midnight UTC, and it travels to and from the database as a
// "2006-01-02" string, which compares correctly as text on sqlite and casts
// to a date on postgres.
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf keeps the wall-clock date of v and drops the time and zone.
func DateOf(v time.Time) Date {
	return NewDate(v.Date())
}

func ParseDate(s string) (Date, error) {
	v, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return DateOf(v), nil
}

func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) String() string { return d.t.Format(dateLayout) }

func (d Date) Time() time.Time { return d.t }

func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

func (d Date) After(other Date) bool { return d.t.After(other.t) }

func (d Date) Equal(other Date) bool { return d.t.Equal(other.t) }

func (d Date) AddDays(n int) Date { return DateOf(d.t.AddDate(0, 0, n)) }

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts a plain date and, for older clients, a full
// timestamp, keeping only the date part.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	return d.set(s)
}

func (d *Date) set(s string) error {
	if parsed, err := ParseDate(s); err == nil {
		*d = parsed
		return nil
	}
	v, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid date %q", s)
	}
	*d = DateOf(v)
	return nil
}

// Value stores the date as its string form.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// Scan accepts the driver representations both dialects produce.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		return d.set(v)
	case []byte:
		return d.set(string(v))
	}
	return fmt.Errorf("cannot scan %T into Date", src)
}

func (Date) GormDataType() string { return "date" }
