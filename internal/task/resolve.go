package task

import (
	"fmt"
	"time"
)

// Overrides are optional calendar fields applied on top of a base date.
// Nil means keep the base value.
type Overrides struct {
	Year  *int
	Month *int
	Day   *int
}

func (o Overrides) IsZero() bool {
	return o.Year == nil && o.Month == nil && o.Day == nil
}

// Resolve applies o to base in the order year, month, day. Each step must
// land on an existing calendar day; nothing is clamped or rolled over.
//
// Setting the day last means it is validated against the final month:
// from 2024-04-15, month=3 day=31 goes 2024-03-15 -> 2024-03-31, whereas
// setting the day first would try 2024-04-31.
func Resolve(base Date, o Overrides) (Date, error) {
	d := base
	if o.Year != nil {
		if err := checkYear(*o.Year); err != nil {
			return Date{}, err
		}
		next, err := NewDate(*o.Year, d.Month, d.Day)
		if err != nil {
			return Date{}, fmt.Errorf("apply year: %w", err)
		}
		d = next
	}
	if o.Month != nil {
		if *o.Month < 1 || *o.Month > 12 {
			return Date{}, fmt.Errorf("%w: month %d", ErrInvalidDate, *o.Month)
		}
		next, err := NewDate(d.Year, time.Month(*o.Month), d.Day)
		if err != nil {
			return Date{}, fmt.Errorf("apply month: %w", err)
		}
		d = next
	}
	if o.Day != nil {
		if *o.Day < 1 || *o.Day > 31 {
			return Date{}, fmt.Errorf("%w: day %d", ErrInvalidDate, *o.Day)
		}
		next, err := NewDate(d.Year, d.Month, *o.Day)
		if err != nil {
			return Date{}, fmt.Errorf("apply day: %w", err)
		}
		d = next
	}
	return d, nil
}

// MonthRange returns the listing window for a month. With no overrides it
// runs from the first of base's month through base itself; otherwise it
// spans the whole target month, not just up to base's day of month. The
// base day is never consulted, so a 31st base does not fail when targeting
// a 30-day month.
func MonthRange(base Date, year, month *int) (start, end Date, err error) {
	y, m := base.Year, base.Month
	if year == nil && month == nil {
		start = Date{Year: y, Month: m, Day: 1}
		return start, base, nil
	}
	if year != nil {
		if err := checkYear(*year); err != nil {
			return Date{}, Date{}, err
		}
		y = *year
	}
	if month != nil {
		if *month < 1 || *month > 12 {
			return Date{}, Date{}, fmt.Errorf("%w: month %d", ErrInvalidDate, *month)
		}
		m = time.Month(*month)
	}
	start = Date{Year: y, Month: m, Day: 1}
	end = Date{Year: y, Month: m, Day: daysIn(y, m)}
	return start, end, nil
}

func checkYear(year int) error {
	if year < MinYear || year > MaxYear {
		return fmt.Errorf("%w: year %d outside %d-%d", ErrInvalidDate, year, MinYear, MaxYear)
	}
	return nil
}
