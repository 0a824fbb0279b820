package app

import (
	"log/slog"
	"time"
)

// EventSink receives booking changes for propagation into an external
// calendar. Implementations must tolerate being called best-effort.
type EventSink interface {
	PushBooking(calendarID string, booking *Booking, slot *TimeSlot) error
}

// App wires the domain logic to its collaborators. Handlers are
// methods on App; see handlers.go.
type App struct {
	Store  Store
	Events EventSink
	Logger *slog.Logger

	// JWTSecret signs session tokens issued by Login.
	JWTSecret string
	// TokenTTL bounds session token lifetime.
	TokenTTL time.Duration

	// Now supplies the current instant; tests pin it.
	Now func() time.Time

	// SameDayUpdates controls whether a booking may be moved onto the
	// current date. Creation always allows same-day; update policy is
	// kept separate and configurable.
	SameDayUpdates bool
}

func New(store Store) *App {
	return &App{
		Store:          store,
		Logger:         slog.Default(),
		TokenTTL:       24 * time.Hour,
		Now:            time.Now,
		SameDayUpdates: true,
	}
}

// today returns the current calendar date in UTC as an ISO string.
// ISO dates order lexicographically, so date comparisons below are
// plain string comparisons.
func (a *App) today() string {
	return a.Now().UTC().Format(dateLayout)
}
