package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type BookingCreateIn struct {
	TimeSlotID  string `json:"time_slot_id" binding:"required"`
	When        string `json:"when" binding:"required"`
	Topic       string `json:"topic"`
	Description string `json:"description"`
}

// BookingPatch carries a partial update; nil fields keep their prior
// values. Hosts may move a booking (when, slot); guests may also edit
// topic and description.
type BookingPatch struct {
	TimeSlotID  *string `json:"time_slot_id"`
	When        *string `json:"when"`
	Topic       *string `json:"topic"`
	Description *string `json:"description"`
}

// admitBooking is the shared admission check for creation and update.
// Order is fixed: weekday membership, then temporal validity, then
// duplication. excludeID names a booking exempt from the duplicate
// check (the one being updated).
func (a *App) admitBooking(ctx context.Context, slot *TimeSlot, guestID, when, excludeID string, updating bool) error {
	day, err := parseDate(when)
	if err != nil {
		return err
	}
	if !slot.Weekdays.Contains(isoWeekday(day)) {
		// A slot not offered on this date is indistinguishable from a
		// missing slot.
		return ErrTimeSlotNotFound
	}

	today := a.today()
	if when < today {
		return ErrPastDateBooking
	}
	if updating && !a.SameDayUpdates && when == today {
		return ErrPastDateBooking
	}

	existing, err := a.Store.FindBooking(ctx, guestID, slot.ID, when)
	if err != nil && !errors.Is(err, ErrNoRecord) {
		return fmt.Errorf("find booking: %w", err)
	}
	if existing != nil && existing.ID != excludeID {
		return ErrDuplicateBooking
	}
	return nil
}

// CreateBooking runs the full admission sequence for a guest reserving
// a host's slot. The persistence constraint on (guest, slot, when) is
// the final arbiter; a conflict at commit reports as a duplicate.
func (a *App) CreateBooking(ctx context.Context, guest *User, hostUsername string, in BookingCreateIn) (*Booking, error) {
	host, err := a.Store.GetUserByUsername(ctx, hostUsername)
	if err != nil {
		if errors.Is(err, ErrNoRecord) {
			return nil, ErrHostNotFound
		}
		return nil, fmt.Errorf("resolve host: %w", err)
	}
	if !host.IsHost {
		return nil, ErrHostNotFound
	}

	if guest.ID == host.ID {
		return nil, ErrSelfBooking
	}

	cal, err := a.Store.GetCalendarByHostID(ctx, host.ID)
	if err != nil {
		if errors.Is(err, ErrNoRecord) {
			return nil, ErrTimeSlotNotFound
		}
		return nil, fmt.Errorf("resolve calendar: %w", err)
	}
	slot, err := a.Store.GetTimeSlot(ctx, in.TimeSlotID)
	if err != nil {
		if errors.Is(err, ErrNoRecord) {
			return nil, ErrTimeSlotNotFound
		}
		return nil, fmt.Errorf("resolve time slot: %w", err)
	}
	if slot.CalendarID != cal.ID {
		return nil, ErrTimeSlotNotFound
	}

	if err := a.admitBooking(ctx, slot, guest.ID, in.When, "", false); err != nil {
		return nil, err
	}

	now := a.Now().UTC()
	booking := &Booking{
		ID:          uuid.NewString(),
		GuestID:     guest.ID,
		TimeSlotID:  slot.ID,
		When:        in.When,
		Topic:       in.Topic,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := a.Store.CreateBooking(ctx, booking); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, ErrDuplicateBooking
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}

	booking.TimeSlot = slot
	a.pushEvent(cal, booking, slot)
	return booking, nil
}

// resolveBookingForHost loads a booking and verifies it targets a slot
// under the host's own calendar. Ownership failures report as absence.
func (a *App) resolveBookingForHost(ctx context.Context, host *User, bookingID string) (*Booking, *Calendar, error) {
	booking, err := a.Store.GetBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, ErrNoRecord) {
			return nil, nil, ErrBookingNotFound
		}
		return nil, nil, fmt.Errorf("resolve booking: %w", err)
	}
	cal, err := a.Store.GetCalendarByHostID(ctx, host.ID)
	if err != nil {
		if errors.Is(err, ErrNoRecord) {
			return nil, nil, ErrBookingNotFound
		}
		return nil, nil, fmt.Errorf("resolve calendar: %w", err)
	}
	slot, err := a.Store.GetTimeSlot(ctx, booking.TimeSlotID)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve time slot: %w", err)
	}
	if slot.CalendarID != cal.ID {
		return nil, nil, ErrBookingNotFound
	}
	return booking, cal, nil
}

// UpdateBookingAsHost lets a host move a booking on their own calendar
// to a different date or slot. Identity checks from creation are not
// re-run; weekday, temporal and duplicate checks are.
func (a *App) UpdateBookingAsHost(ctx context.Context, host *User, bookingID string, patch BookingPatch) (*Booking, error) {
	booking, cal, err := a.resolveBookingForHost(ctx, host, bookingID)
	if err != nil {
		return nil, err
	}
	return a.applyBookingPatch(ctx, booking, cal, BookingPatch{
		TimeSlotID: patch.TimeSlotID,
		When:       patch.When,
	})
}

// UpdateBookingAsGuest lets a guest edit their own booking, including
// topic and description.
func (a *App) UpdateBookingAsGuest(ctx context.Context, guest *User, bookingID string, patch BookingPatch) (*Booking, error) {
	booking, err := a.Store.GetBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, ErrNoRecord) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("resolve booking: %w", err)
	}
	if booking.GuestID != guest.ID {
		return nil, ErrBookingNotFound
	}
	slot, err := a.Store.GetTimeSlot(ctx, booking.TimeSlotID)
	if err != nil {
		return nil, fmt.Errorf("resolve time slot: %w", err)
	}
	cal, err := a.Store.GetCalendarByID(ctx, slot.CalendarID)
	if err != nil {
		return nil, fmt.Errorf("resolve calendar: %w", err)
	}
	return a.applyBookingPatch(ctx, booking, cal, patch)
}

// applyBookingPatch re-runs the admission checks against the proposed
// values. The target slot defaults to the booking's current one and
// must stay within the booking's calendar.
func (a *App) applyBookingPatch(ctx context.Context, booking *Booking, cal *Calendar, patch BookingPatch) (*Booking, error) {
	slotID := booking.TimeSlotID
	if patch.TimeSlotID != nil && *patch.TimeSlotID != "" {
		slotID = *patch.TimeSlotID
	}
	slot, err := a.Store.GetTimeSlot(ctx, slotID)
	if err != nil {
		if errors.Is(err, ErrNoRecord) {
			return nil, ErrTimeSlotNotFound
		}
		return nil, fmt.Errorf("resolve time slot: %w", err)
	}
	if slot.CalendarID != cal.ID {
		return nil, ErrTimeSlotNotFound
	}

	when := booking.When
	if patch.When != nil {
		when = *patch.When
	}
	if err := a.admitBooking(ctx, slot, booking.GuestID, when, booking.ID, true); err != nil {
		return nil, err
	}

	booking.TimeSlotID = slot.ID
	booking.When = when
	if patch.Topic != nil {
		booking.Topic = *patch.Topic
	}
	if patch.Description != nil {
		booking.Description = *patch.Description
	}
	booking.UpdatedAt = a.Now().UTC()

	if err := a.Store.UpdateBooking(ctx, booking); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, ErrDuplicateBooking
		}
		return nil, fmt.Errorf("update booking: %w", err)
	}

	booking.TimeSlot = slot
	a.pushEvent(cal, booking, slot)
	return booking, nil
}

// GetBooking returns a booking to its guest or to the owning host,
// and reports absence to anyone else.
func (a *App) GetBooking(ctx context.Context, viewer *User, bookingID string) (*Booking, error) {
	booking, err := a.Store.GetBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, ErrNoRecord) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("resolve booking: %w", err)
	}
	slot, err := a.Store.GetTimeSlot(ctx, booking.TimeSlotID)
	if err != nil {
		return nil, fmt.Errorf("resolve time slot: %w", err)
	}

	allowed := booking.GuestID == viewer.ID
	if !allowed && viewer.IsHost {
		cal, err := a.Store.GetCalendarByHostID(ctx, viewer.ID)
		if err == nil && cal.ID == slot.CalendarID {
			allowed = true
		} else if err != nil && !errors.Is(err, ErrNoRecord) {
			return nil, fmt.Errorf("resolve calendar: %w", err)
		}
	}
	if !allowed {
		return nil, ErrBookingNotFound
	}
	booking.TimeSlot = slot
	return booking, nil
}

// ListHostBookings pages through bookings against the host's calendar.
func (a *App) ListHostBookings(ctx context.Context, host *User, page, pageSize int) ([]Booking, error) {
	if !host.IsHost {
		return nil, ErrGuestPermission
	}
	cal, err := a.Store.GetCalendarByHostID(ctx, host.ID)
	if err != nil {
		if errors.Is(err, ErrNoRecord) {
			return nil, ErrCalendarNotFound
		}
		return nil, fmt.Errorf("resolve calendar: %w", err)
	}
	out, err := a.Store.ListBookingsForCalendar(ctx, cal.ID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return a.attachSlots(ctx, out)
}

// ListGuestBookings pages through the bookings the user made as guest.
func (a *App) ListGuestBookings(ctx context.Context, guest *User, page, pageSize int) ([]Booking, error) {
	out, err := a.Store.ListBookingsForGuest(ctx, guest.ID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return a.attachSlots(ctx, out)
}

// ListMonthBookings returns a host calendar's bookings for one month.
func (a *App) ListMonthBookings(ctx context.Context, hostUsername string, year, month int) ([]Booking, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month %d", ErrInvalidDate, month)
	}
	host, err := a.Store.GetUserByUsername(ctx, hostUsername)
	if err != nil {
		if errors.Is(err, ErrNoRecord) {
			return nil, ErrHostNotFound
		}
		return nil, fmt.Errorf("resolve host: %w", err)
	}
	if !host.IsHost {
		return nil, ErrHostNotFound
	}
	cal, err := a.Store.GetCalendarByHostID(ctx, host.ID)
	if err != nil {
		if errors.Is(err, ErrNoRecord) {
			return nil, ErrCalendarNotFound
		}
		return nil, fmt.Errorf("resolve calendar: %w", err)
	}
	out, err := a.Store.ListBookingsForMonth(ctx, cal.ID, year, month)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return a.attachSlots(ctx, out)
}

func (a *App) attachSlots(ctx context.Context, bookings []Booking) ([]Booking, error) {
	cache := make(map[string]*TimeSlot)
	for i := range bookings {
		slot, ok := cache[bookings[i].TimeSlotID]
		if !ok {
			var err error
			slot, err = a.Store.GetTimeSlot(ctx, bookings[i].TimeSlotID)
			if err != nil {
				return nil, fmt.Errorf("resolve time slot: %w", err)
			}
			cache[bookings[i].TimeSlotID] = slot
		}
		bookings[i].TimeSlot = slot
	}
	return bookings, nil
}

// pushEvent forwards a booking change to the external calendar sink,
// best-effort. Skipped when no sink is wired or the calendar has no
// Google calendar binding.
func (a *App) pushEvent(cal *Calendar, booking *Booking, slot *TimeSlot) {
	if a.Events == nil || cal == nil || cal.GoogleCalendarID == "" {
		return
	}
	if err := a.Events.PushBooking(cal.GoogleCalendarID, booking, slot); err != nil {
		a.Logger.Warn("calendar sync failed",
			"booking_id", booking.ID, "error", err)
	}
}

// SyncUpcomingBookings re-pushes every booking from today forward into
// the external calendar sink. Run from the cron job.
func (a *App) SyncUpcomingBookings(ctx context.Context) error {
	if a.Events == nil {
		return nil
	}
	bookings, err := a.Store.ListBookingsOnOrAfter(ctx, a.today())
	if err != nil {
		return fmt.Errorf("list upcoming bookings: %w", err)
	}
	cals := make(map[string]*Calendar)
	for i := range bookings {
		slot, err := a.Store.GetTimeSlot(ctx, bookings[i].TimeSlotID)
		if err != nil {
			return fmt.Errorf("resolve time slot: %w", err)
		}
		cal, ok := cals[slot.CalendarID]
		if !ok {
			cal, err = a.Store.GetCalendarByID(ctx, slot.CalendarID)
			if err != nil {
				return fmt.Errorf("resolve calendar: %w", err)
			}
			cals[slot.CalendarID] = cal
		}
		a.pushEvent(cal, &bookings[i], slot)
	}
	return nil
}
