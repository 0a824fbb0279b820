package app

import "errors"

// Domain conditions surfaced to callers. Handlers translate these into
// HTTP statuses; nothing here is retried internally.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrHostNotFound     = errors.New("host not found")
	ErrCalendarNotFound = errors.New("calendar not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrTimeSlotNotFound = errors.New("time slot not found")

	ErrCalendarAlreadyExists = errors.New("calendar already exists")
	ErrGuestPermission       = errors.New("host permission required")
	ErrTimeSlotOverlap       = errors.New("time slot overlaps an existing one")
	ErrSelfBooking           = errors.New("cannot book your own calendar")
	ErrPastDateBooking       = errors.New("booking date is in the past")
	ErrDuplicateBooking      = errors.New("booking already exists")

	ErrInvalidWeekday    = errors.New("invalid weekday")
	ErrInvalidTimeRange  = errors.New("invalid time range")
	ErrInvalidDate       = errors.New("invalid date")
	ErrTopicsRequired    = errors.New("at least one topic is required")
	ErrShortDescription  = errors.New("description must be at least 10 characters")
	ErrCalendarIDMissing = errors.New("google calendar id is required")

	ErrDuplicateUsername  = errors.New("username already taken")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrFieldsRequired     = errors.New("missing required fields")
)
