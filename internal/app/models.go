package app

import "time"

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"-"`
	IsHost       bool      `json:"is_host"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

type Calendar struct {
	ID               string     `json:"id"`
	HostID           string     `json:"host_id"`
	Topics           []string   `json:"topics"`
	Description      string     `json:"description"`
	GoogleCalendarID string     `json:"google_calendar_id"`
	TimeSlots        []TimeSlot `json:"time_slots"`
	CreatedAt        time.Time  `json:"created_at,omitempty"`
	UpdatedAt        time.Time  `json:"updated_at,omitempty"`
}

// CalendarOut is the reduced projection returned to viewers other than
// the owning host. It omits the Google calendar binding and timestamps.
type CalendarOut struct {
	ID          string     `json:"id"`
	Topics      []string   `json:"topics"`
	Description string     `json:"description"`
	TimeSlots   []TimeSlot `json:"time_slots"`
}

type TimeSlot struct {
	ID         string     `json:"id"`
	CalendarID string     `json:"calendar_id"`
	StartTime  string     `json:"start_time"` // "HH:MM"
	EndTime    string     `json:"end_time"`   // "HH:MM"
	Weekdays   WeekdaySet `json:"weekdays"`
	CreatedAt  time.Time  `json:"created_at,omitempty"`
}

type Booking struct {
	ID          string    `json:"id"`
	GuestID     string    `json:"guest_id"`
	TimeSlotID  string    `json:"time_slot_id"`
	When        string    `json:"when"` // "2006-01-02"
	Topic       string    `json:"topic"`
	Description string    `json:"description"`
	TimeSlot    *TimeSlot `json:"time_slot,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

func (c *Calendar) publicOut() CalendarOut {
	slots := c.TimeSlots
	if slots == nil {
		slots = []TimeSlot{}
	}
	return CalendarOut{
		ID:          c.ID,
		Topics:      c.Topics,
		Description: c.Description,
		TimeSlots:   slots,
	}
}
