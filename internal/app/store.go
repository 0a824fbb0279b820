package app

import (
	"context"
	"errors"
)

// Storage-level conditions. ErrConflict is how a store reports a
// uniqueness-constraint violation; the app layer translates it into
// the matching domain error at the commit boundary.
var (
	ErrNoRecord = errors.New("store: record not found")
	ErrConflict = errors.New("store: unique constraint violation")
)

// Store is the persistence contract the application depends on.
// Implementations must enforce uniqueness on users.username,
// users.email, calendars.host_id and bookings(guest_id, time_slot_id,
// when); the application-level pre-checks only provide early rejection
// and the constraints are the final arbiter under concurrency.
type Store interface {
	CreateUser(ctx context.Context, u *User) error
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	UpdateUser(ctx context.Context, u *User) error

	CreateCalendar(ctx context.Context, c *Calendar) error
	GetCalendarByID(ctx context.Context, id string) (*Calendar, error)
	GetCalendarByHostID(ctx context.Context, hostID string) (*Calendar, error)
	UpdateCalendar(ctx context.Context, c *Calendar) error

	CreateTimeSlot(ctx context.Context, s *TimeSlot) error
	GetTimeSlot(ctx context.Context, id string) (*TimeSlot, error)
	ListTimeSlots(ctx context.Context, calendarID string) ([]TimeSlot, error)

	CreateBooking(ctx context.Context, b *Booking) error
	GetBooking(ctx context.Context, id string) (*Booking, error)
	UpdateBooking(ctx context.Context, b *Booking) error
	FindBooking(ctx context.Context, guestID, timeSlotID, when string) (*Booking, error)
	ListBookingsForCalendar(ctx context.Context, calendarID string, page, pageSize int) ([]Booking, error)
	ListBookingsForGuest(ctx context.Context, guestID string, page, pageSize int) ([]Booking, error)
	ListBookingsForMonth(ctx context.Context, calendarID string, year, month int) ([]Booking, error)
	ListBookingsOnOrAfter(ctx context.Context, when string) ([]Booking, error)
}
