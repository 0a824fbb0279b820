package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type CalendarCreateIn struct {
	Topics           []string `json:"topics" binding:"required"`
	Description      string   `json:"description" binding:"required"`
	GoogleCalendarID string   `json:"google_calendar_id" binding:"required"`
}

// CalendarPatch carries a partial update; nil fields keep their prior
// values.
type CalendarPatch struct {
	Topics           *[]string `json:"topics"`
	Description      *string   `json:"description"`
	GoogleCalendarID *string   `json:"google_calendar_id"`
}

const minDescriptionLen = 10

// dedupeTopics removes repeats while preserving first-occurrence order.
func dedupeTopics(topics []string) []string {
	seen := make(map[string]struct{}, len(topics))
	out := make([]string, 0, len(topics))
	for _, t := range topics {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func validateTopics(topics []string) error {
	if len(topics) == 0 {
		return ErrTopicsRequired
	}
	return nil
}

func validateDescription(s string) error {
	if len([]rune(s)) < minDescriptionLen {
		return ErrShortDescription
	}
	return nil
}

// ViewCalendar returns a host's calendar. The owning host receives the
// full record; every other viewer, including anonymous ones, gets the
// reduced public projection.
func (a *App) ViewCalendar(ctx context.Context, hostUsername string, viewer *User) (any, error) {
	host, err := a.Store.GetUserByUsername(ctx, hostUsername)
	if err != nil {
		if errors.Is(err, ErrNoRecord) {
			return nil, ErrHostNotFound
		}
		return nil, fmt.Errorf("resolve host: %w", err)
	}
	cal, err := a.Store.GetCalendarByHostID(ctx, host.ID)
	if err != nil {
		if errors.Is(err, ErrNoRecord) {
			return nil, ErrCalendarNotFound
		}
		return nil, fmt.Errorf("resolve calendar: %w", err)
	}
	if cal.TimeSlots == nil {
		cal.TimeSlots = []TimeSlot{}
	}
	if viewer != nil && viewer.ID == host.ID {
		return cal, nil
	}
	return cal.publicOut(), nil
}

// CreateCalendar makes the user's single hosted calendar. The host_id
// uniqueness constraint is the arbiter under concurrent creation; a
// conflict at commit reports as an existing calendar.
func (a *App) CreateCalendar(ctx context.Context, user *User, in CalendarCreateIn) (*Calendar, error) {
	if !user.IsHost {
		return nil, ErrGuestPermission
	}
	topics := dedupeTopics(in.Topics)
	if err := validateTopics(topics); err != nil {
		return nil, err
	}
	if err := validateDescription(in.Description); err != nil {
		return nil, err
	}
	if in.GoogleCalendarID == "" {
		return nil, ErrCalendarIDMissing
	}

	now := a.Now().UTC()
	cal := &Calendar{
		ID:               uuid.NewString(),
		HostID:           user.ID,
		Topics:           topics,
		Description:      in.Description,
		GoogleCalendarID: in.GoogleCalendarID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := a.Store.CreateCalendar(ctx, cal); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, ErrCalendarAlreadyExists
		}
		return nil, fmt.Errorf("create calendar: %w", err)
	}
	cal.TimeSlots = []TimeSlot{}
	return cal, nil
}

// UpdateCalendar applies a partial update to the host's calendar;
// absent fields retain their prior values.
func (a *App) UpdateCalendar(ctx context.Context, user *User, patch CalendarPatch) (*Calendar, error) {
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

	if patch.Topics != nil {
		topics := dedupeTopics(*patch.Topics)
		if err := validateTopics(topics); err != nil {
			return nil, err
		}
		cal.Topics = topics
	}
	if patch.Description != nil {
		if err := validateDescription(*patch.Description); err != nil {
			return nil, err
		}
		cal.Description = *patch.Description
	}
	if patch.GoogleCalendarID != nil {
		if *patch.GoogleCalendarID == "" {
			return nil, ErrCalendarIDMissing
		}
		cal.GoogleCalendarID = *patch.GoogleCalendarID
	}
	cal.UpdatedAt = a.Now().UTC()

	if err := a.Store.UpdateCalendar(ctx, cal); err != nil {
		return nil, fmt.Errorf("update calendar: %w", err)
	}
	if cal.TimeSlots == nil {
		cal.TimeSlots = []TimeSlot{}
	}
	return cal, nil
}
