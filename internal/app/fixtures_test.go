package app_test

import (
	"context"
	"testing"
	"time"

	"booking-service/internal/app"
	"booking-service/internal/store"
)

// The clock is pinned to a Wednesday so weekday arithmetic in the
// tests stays deterministic.
var testNow = time.Date(2025, time.January, 15, 12, 0, 0, 0, time.UTC)

const (
	pastMonday  = "2025-01-13"
	pastTuesday = "2025-01-14"
	todayDate   = "2025-01-15" // Wednesday
	nextMonday  = "2025-01-20"
	nextTuesday = "2025-01-21"
)

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	a := app.New(store.NewMemory())
	a.JWTSecret = "test-secret"
	a.Now = func() time.Time { return testNow }
	return a
}

func signupUser(t *testing.T, a *app.App, username string) *app.User {
	t.Helper()
	user, err := a.Signup(context.Background(), app.SignupIn{
		Username:    username,
		Email:       username + "@example.com",
		DisplayName: username,
		Password:    "testtest-1234",
	})
	if err != nil {
		t.Fatalf("signup %s: %v", username, err)
	}
	return user
}

func signupHost(t *testing.T, a *app.App, username string) *app.User {
	t.Helper()
	user := signupUser(t, a, username)
	host, err := a.BecomeHost(context.Background(), user)
	if err != nil {
		t.Fatalf("become host %s: %v", username, err)
	}
	return host
}

func createCalendar(t *testing.T, a *app.App, host *app.User) *app.Calendar {
	t.Helper()
	cal, err := a.CreateCalendar(context.Background(), host, app.CalendarCreateIn{
		Topics:           []string{"mentoring"},
		Description:      "weekly mentoring sessions",
		GoogleCalendarID: host.Username + "@group.calendar.google.com",
	})
	if err != nil {
		t.Fatalf("create calendar for %s: %v", host.Username, err)
	}
	return cal
}

func createSlot(t *testing.T, a *app.App, host *app.User, start, end string, weekdays app.WeekdaySet) *app.TimeSlot {
	t.Helper()
	slot, err := a.CreateTimeSlot(context.Background(), host, app.TimeSlotCreateIn{
		StartTime: start,
		EndTime:   end,
		Weekdays:  weekdays,
	})
	if err != nil {
		t.Fatalf("create slot %s-%s: %v", start, end, err)
	}
	return slot
}
