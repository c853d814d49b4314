package task

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the canonical storage and comparison form.
const DateLayout = "2006-01-02"

// MinYear is the earliest year accepted by the resolver.
const MinYear = 1978

// MaxYear is the last year that fits the four digit year of DateLayout.
const MaxYear = 9999

// Date is a calendar day with no time of day or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the local calendar day of t.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// NewDate builds a date and fails with ErrInvalidDate if the day does not
// exist on the calendar. It never rolls over into the next month.
func NewDate(year int, month time.Month, day int) (Date, error) {
	if year < 0 || year > MaxYear {
		return Date{}, fmt.Errorf("%w: year %d outside 0000-%d", ErrInvalidDate, year, MaxYear)
	}
	if month < time.January || month > time.December {
		return Date{}, fmt.Errorf("%w: month %d", ErrInvalidDate, int(month))
	}
	if day < 1 || day > daysIn(year, month) {
		return Date{}, fmt.Errorf("%w: %04d-%02d-%02d does not exist", ErrInvalidDate, year, int(month), day)
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

// ParseDate parses the canonical YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Before reports whether d is an earlier day than o.
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func daysIn(year int, month time.Month) int {
	// day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
