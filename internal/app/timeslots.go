package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type TimeSlotCreateIn struct {
	StartTime string     `json:"start_time" binding:"required"`
	EndTime   string     `json:"end_time" binding:"required"`
	Weekdays  WeekdaySet `json:"weekdays" binding:"required"`
}

// slotsConflict reports whether two slots collide: their clock
// intervals intersect half-open (touching endpoints do not overlap)
// AND they share at least one weekday.
func slotsConflict(a, b TimeSlot) bool {
	if a.StartTime >= b.EndTime || a.EndTime <= b.StartTime {
		return false
	}
	return a.Weekdays.Intersects(b.Weekdays)
}

// CreateTimeSlot adds a recurring availability window to the host's
// calendar after validating the range and checking every existing slot
// for a time+weekday collision.
func (a *App) CreateTimeSlot(ctx context.Context, user *User, in TimeSlotCreateIn) (*TimeSlot, error) {
	if !user.IsHost {
		return nil, ErrGuestPermission
	}
	cal, err := a.Store.GetCalendarByHostID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, ErrNoRecord) {
			return nil, ErrCalendarNotFound
		}
		return nil, fmt.Errorf("resolve calendar: %w", err)
	}

	if err := in.Weekdays.Validate(); err != nil {
		return nil, err
	}
	start, err := parseHHMM(in.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := parseHHMM(in.EndTime)
	if err != nil {
		return nil, err
	}
	if !end.After(start) {
		return nil, fmt.Errorf("%w: %s-%s", ErrInvalidTimeRange, in.StartTime, in.EndTime)
	}

	candidate := TimeSlot{
		StartTime: in.StartTime[:5],
		EndTime:   in.EndTime[:5],
		Weekdays:  in.Weekdays,
	}
	existing, err := a.Store.ListTimeSlots(ctx, cal.ID)
	if err != nil {
		return nil, fmt.Errorf("list time slots: %w", err)
	}
	for _, s := range existing {
		if slotsConflict(s, candidate) {
			return nil, ErrTimeSlotOverlap
		}
	}

	candidate.ID = uuid.NewString()
	candidate.CalendarID = cal.ID
	candidate.CreatedAt = a.Now().UTC()
	if err := a.Store.CreateTimeSlot(ctx, &candidate); err != nil {
		return nil, fmt.Errorf("create time slot: %w", err)
	}
	return &candidate, nil
}
