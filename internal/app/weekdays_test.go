package app

import (
	"errors"
	"testing"
	"time"
)

func TestWeekdaySetValidate(t *testing.T) {
	cases := []struct {
		name    string
		set     WeekdaySet
		wantErr bool
	}{
		{"empty", WeekdaySet{}, true},
		{"all days", WeekdaySet{0, 1, 2, 3, 4, 5, 6}, false},
		{"single", WeekdaySet{3}, false},
		{"below range", WeekdaySet{-1, 0}, true},
		{"above range", WeekdaySet{6, 7}, true},
		{"repeated", WeekdaySet{1, 1}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.set.Validate()
			if tc.wantErr && !errors.Is(err, ErrInvalidWeekday) {
				t.Fatalf("want ErrInvalidWeekday, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestWeekdaySetContains(t *testing.T) {
	set := WeekdaySet{0, 2, 4}
	if !set.Contains(0) || !set.Contains(4) {
		t.Fatal("expected membership for 0 and 4")
	}
	if set.Contains(1) || set.Contains(6) {
		t.Fatal("unexpected membership for 1 or 6")
	}
}

func TestWeekdaySetIntersects(t *testing.T) {
	if !(WeekdaySet{0, 1}).Intersects(WeekdaySet{1, 2}) {
		t.Fatal("sets sharing weekday 1 must intersect")
	}
	if (WeekdaySet{0, 1}).Intersects(WeekdaySet{2, 3}) {
		t.Fatal("disjoint sets must not intersect")
	}
	if (WeekdaySet{}).Intersects(WeekdaySet{0, 1, 2, 3, 4, 5, 6}) {
		t.Fatal("empty set intersects nothing")
	}
}

func TestIsoWeekday(t *testing.T) {
	// 2025-01-13 is a Monday.
	monday := time.Date(2025, time.January, 13, 0, 0, 0, 0, time.UTC)
	for offset := 0; offset < 7; offset++ {
		got := isoWeekday(monday.AddDate(0, 0, offset))
		if got != offset {
			t.Fatalf("day %d: want iso weekday %d, got %d", offset, offset, got)
		}
	}
}

func TestParseHHMM(t *testing.T) {
	if _, err := parseHHMM("09:30"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Trailing seconds are tolerated.
	if _, err := parseHHMM("09:30:00"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, bad := range []string{"", "9:30", "25:00", "aa:bb"} {
		if _, err := parseHHMM(bad); !errors.Is(err, ErrInvalidTimeRange) {
			t.Fatalf("%q: want ErrInvalidTimeRange, got %v", bad, err)
		}
	}
}

func TestParseDate(t *testing.T) {
	if _, err := parseDate("2025-01-13"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, bad := range []string{"", "13-01-2025", "2025-13-01", "tomorrow"} {
		if _, err := parseDate(bad); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%q: want ErrInvalidDate, got %v", bad, err)
		}
	}
}

func TestSlotsConflict(t *testing.T) {
	base := TimeSlot{StartTime: "10:00", EndTime: "11:00", Weekdays: WeekdaySet{0, 1, 2}}
	cases := []struct {
		name     string
		start    string
		end      string
		weekdays WeekdaySet
		conflict bool
	}{
		{"before, touching end", "09:00", "10:00", WeekdaySet{0}, false},
		{"after, touching start", "11:00", "12:00", WeekdaySet{0}, false},
		{"fully before", "08:00", "09:00", WeekdaySet{1}, false},
		{"identical interval", "10:00", "11:00", WeekdaySet{0}, true},
		{"partial overlap late", "10:30", "11:30", WeekdaySet{0}, true},
		{"partial overlap early", "09:30", "10:30", WeekdaySet{0}, true},
		{"contained", "10:15", "10:45", WeekdaySet{0}, true},
		{"containing", "09:00", "12:00", WeekdaySet{0}, true},
		{"same hours, other weekday", "10:00", "11:00", WeekdaySet{3}, false},
		{"overlapping hours, other weekday", "10:30", "11:30", WeekdaySet{4}, false},
		{"containing hours, weekend", "09:00", "12:00", WeekdaySet{5, 6}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			candidate := TimeSlot{StartTime: tc.start, EndTime: tc.end, Weekdays: tc.weekdays}
			if got := slotsConflict(base, candidate); got != tc.conflict {
				t.Fatalf("want conflict=%v, got %v", tc.conflict, got)
			}
			// Conflict detection is symmetric.
			if got := slotsConflict(candidate, base); got != tc.conflict {
				t.Fatalf("reversed: want conflict=%v, got %v", tc.conflict, got)
			}
		})
	}
}

func TestDedupeTopics(t *testing.T) {
	cases := []struct {
		in   []string
		want []string
	}{
		{[]string{"c", "a", "b", "a", "c"}, []string{"c", "a", "b"}},
		{[]string{}, []string{}},
		{[]string{"x"}, []string{"x"}},
		{[]string{"a", "a", "a"}, []string{"a"}},
	}
	for _, tc := range cases {
		got := dedupeTopics(tc.in)
		if len(got) != len(tc.want) {
			t.Fatalf("dedupe(%v): want %v, got %v", tc.in, tc.want, got)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("dedupe(%v): want %v, got %v", tc.in, tc.want, got)
			}
		}
		// Idempotent.
		again := dedupeTopics(got)
		if len(again) != len(got) {
			t.Fatalf("dedupe not idempotent: %v -> %v", got, again)
		}
	}
}
