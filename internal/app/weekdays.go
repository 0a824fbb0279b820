package app

import (
	"fmt"
	"time"
)

// WeekdaySet holds weekday numbers with 0 = Monday through 6 = Sunday.
type WeekdaySet []int

// Validate rejects empty sets, out-of-range and repeated values.
func (w WeekdaySet) Validate() error {
	if len(w) == 0 {
		return fmt.Errorf("%w: at least one weekday required", ErrInvalidWeekday)
	}
	seen := [7]bool{}
	for _, day := range w {
		if day < 0 || day > 6 {
			return fmt.Errorf("%w: weekday %d out of range", ErrInvalidWeekday, day)
		}
		if seen[day] {
			return fmt.Errorf("%w: weekday %d repeated", ErrInvalidWeekday, day)
		}
		seen[day] = true
	}
	return nil
}

func (w WeekdaySet) Contains(day int) bool {
	for _, d := range w {
		if d == day {
			return true
		}
	}
	return false
}

func (w WeekdaySet) Intersects(other WeekdaySet) bool {
	for _, d := range other {
		if w.Contains(d) {
			return true
		}
	}
	return false
}

const dateLayout = "2006-01-02"

// isoWeekday maps time.Weekday (Sunday=0) to the Monday=0 numbering
// used by WeekdaySet.
func isoWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// parseDate accepts an ISO calendar date ("2006-01-02").
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// parseHHMM accepts a clock time of day, tolerating trailing seconds
// ("09:00:00" -> "09:00").
func parseHHMM(s string) (time.Time, error) {
	if len(s) < 5 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimeRange, s)
	}
	tt, err := time.Parse("15:04", s[:5])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimeRange, s)
	}
	return tt, nil
}
