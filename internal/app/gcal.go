package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// GoogleCalendarSync pushes bookings as events into the Google
// calendar a host bound to their hosted calendar. It implements
// EventSink.
type GoogleCalendarSync struct {
	config *oauth2.Config
	token  *oauth2.Token
}

// NewGoogleCalendarSync builds a sink from OAuth2 client credentials
// and a previously obtained token (JSON-encoded, as returned by the
// authorization code exchange).
func NewGoogleCalendarSync(clientID, clientSecret, redirectURL, tokenJSON string) (*GoogleCalendarSync, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("google calendar sync: client credentials required")
	}
	var token oauth2.Token
	if err := json.Unmarshal([]byte(tokenJSON), &token); err != nil {
		return nil, fmt.Errorf("google calendar sync: invalid token: %w", err)
	}
	return &GoogleCalendarSync{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{calendar.CalendarEventsScope},
			Endpoint:     google.Endpoint,
		},
		token: &token,
	}, nil
}

// PushBooking inserts the booking as a timed event on the bound
// Google calendar. The event window comes from the booking date plus
// the slot's clock times, in UTC.
func (s *GoogleCalendarSync) PushBooking(calendarID string, booking *Booking, slot *TimeSlot) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := s.config.Client(ctx, s.token)
	srv, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return fmt.Errorf("create calendar service: %w", err)
	}

	start, err := eventTime(booking.When, slot.StartTime)
	if err != nil {
		return err
	}
	end, err := eventTime(booking.When, slot.EndTime)
	if err != nil {
		return err
	}

	event := &calendar.Event{
		Summary:     booking.Topic,
		Description: booking.Description,
		Start:       &calendar.EventDateTime{DateTime: start, TimeZone: "UTC"},
		End:         &calendar.EventDateTime{DateTime: end, TimeZone: "UTC"},
	}
	if _, err := srv.Events.Insert(calendarID, event).Context(ctx).Do(); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func eventTime(when, hhmm string) (string, error) {
	t, err := time.Parse("2006-01-02 15:04", when+" "+hhmm)
	if err != nil {
		return "", fmt.Errorf("event time: %w", err)
	}
	return t.UTC().Format(time.RFC3339), nil
}
