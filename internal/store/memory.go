package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"booking-service/internal/app"
)

// Memory is an in-process app.Store used by tests and local runs. It
// enforces the same uniqueness constraints as the Postgres schema so
// the commit-boundary error translation behaves identically.
type Memory struct {
	mu        sync.RWMutex
	users     map[string]*app.User
	calendars map[string]*app.Calendar
	slots     map[string]*app.TimeSlot
	bookings  map[string]*app.Booking
}

func NewMemory() *Memory {
	return &Memory{
		users:     make(map[string]*app.User),
		calendars: make(map[string]*app.Calendar),
		slots:     make(map[string]*app.TimeSlot),
		bookings:  make(map[string]*app.Booking),
	}
}

func (m *Memory) CreateUser(_ context.Context, u *app.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.users {
		if other.Username == u.Username || other.Email == u.Email {
			return app.ErrConflict
		}
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *Memory) GetUserByID(_ context.Context, id string) (*app.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, app.ErrNoRecord
	}
	cp := *u
	return &cp, nil
}

func (m *Memory) GetUserByUsername(_ context.Context, username string) (*app.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, app.ErrNoRecord
}

func (m *Memory) UpdateUser(_ context.Context, u *app.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return app.ErrNoRecord
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *Memory) CreateCalendar(_ context.Context, c *app.Calendar) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.calendars {
		if other.HostID == c.HostID {
			return app.ErrConflict
		}
	}
	cp := *c
	cp.TimeSlots = nil
	m.calendars[c.ID] = &cp
	return nil
}

func (m *Memory) GetCalendarByID(_ context.Context, id string) (*app.Calendar, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.calendars[id]
	if !ok {
		return nil, app.ErrNoRecord
	}
	cp := *c
	cp.TimeSlots = m.slotsForCalendar(c.ID)
	return &cp, nil
}

func (m *Memory) GetCalendarByHostID(_ context.Context, hostID string) (*app.Calendar, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.calendars {
		if c.HostID == hostID {
			cp := *c
			cp.TimeSlots = m.slotsForCalendar(c.ID)
			return &cp, nil
		}
	}
	return nil, app.ErrNoRecord
}

func (m *Memory) UpdateCalendar(_ context.Context, c *app.Calendar) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.calendars[c.ID]; !ok {
		return app.ErrNoRecord
	}
	cp := *c
	cp.TimeSlots = nil
	m.calendars[c.ID] = &cp
	return nil
}

func (m *Memory) slotsForCalendar(calendarID string) []app.TimeSlot {
	var out []app.TimeSlot
	for _, s := range m.slots {
		if s.CalendarID == calendarID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out
}

func (m *Memory) CreateTimeSlot(_ context.Context, s *app.TimeSlot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.slots[s.ID] = &cp
	return nil
}

func (m *Memory) GetTimeSlot(_ context.Context, id string) (*app.TimeSlot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.slots[id]
	if !ok {
		return nil, app.ErrNoRecord
	}
	cp := *s
	return &cp, nil
}

func (m *Memory) ListTimeSlots(_ context.Context, calendarID string) ([]app.TimeSlot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.slotsForCalendar(calendarID), nil
}

func (m *Memory) CreateBooking(_ context.Context, b *app.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.bookings {
		if other.GuestID == b.GuestID && other.TimeSlotID == b.TimeSlotID && other.When == b.When {
			return app.ErrConflict
		}
	}
	cp := *b
	cp.TimeSlot = nil
	m.bookings[b.ID] = &cp
	return nil
}

func (m *Memory) GetBooking(_ context.Context, id string) (*app.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, app.ErrNoRecord
	}
	cp := *b
	return &cp, nil
}

func (m *Memory) UpdateBooking(_ context.Context, b *app.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[b.ID]; !ok {
		return app.ErrNoRecord
	}
	for _, other := range m.bookings {
		if other.ID != b.ID && other.GuestID == b.GuestID && other.TimeSlotID == b.TimeSlotID && other.When == b.When {
			return app.ErrConflict
		}
	}
	cp := *b
	cp.TimeSlot = nil
	m.bookings[b.ID] = &cp
	return nil
}

func (m *Memory) FindBooking(_ context.Context, guestID, timeSlotID, when string) (*app.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.bookings {
		if b.GuestID == guestID && b.TimeSlotID == timeSlotID && b.When == when {
			cp := *b
			return &cp, nil
		}
	}
	return nil, app.ErrNoRecord
}

func sortBookings(out []app.Booking) {
	sort.Slice(out, func(i, j int) bool {
		if out[i].When != out[j].When {
			return out[i].When < out[j].When
		}
		return out[i].ID < out[j].ID
	})
}

func page(out []app.Booking, pageNum, pageSize int) []app.Booking {
	start := (pageNum - 1) * pageSize
	if start >= len(out) {
		return nil
	}
	end := start + pageSize
	if end > len(out) {
		end = len(out)
	}
	return out[start:end]
}

func (m *Memory) ListBookingsForCalendar(_ context.Context, calendarID string, pageNum, pageSize int) ([]app.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []app.Booking
	for _, b := range m.bookings {
		s, ok := m.slots[b.TimeSlotID]
		if ok && s.CalendarID == calendarID {
			out = append(out, *b)
		}
	}
	sortBookings(out)
	return page(out, pageNum, pageSize), nil
}

func (m *Memory) ListBookingsForGuest(_ context.Context, guestID string, pageNum, pageSize int) ([]app.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []app.Booking
	for _, b := range m.bookings {
		if b.GuestID == guestID {
			out = append(out, *b)
		}
	}
	sortBookings(out)
	return page(out, pageNum, pageSize), nil
}

func (m *Memory) ListBookingsForMonth(_ context.Context, calendarID string, year, month int) ([]app.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []app.Booking
	for _, b := range m.bookings {
		s, ok := m.slots[b.TimeSlotID]
		if !ok || s.CalendarID != calendarID {
			continue
		}
		var y, mo, d int
		if _, err := fmt.Sscanf(b.When, "%d-%d-%d", &y, &mo, &d); err != nil {
			continue
		}
		if y == year && mo == month {
			out = append(out, *b)
		}
	}
	sortBookings(out)
	return out, nil
}

func (m *Memory) ListBookingsOnOrAfter(_ context.Context, when string) ([]app.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []app.Booking
	for _, b := range m.bookings {
		// ISO dates compare correctly as strings.
		if b.When >= when {
			out = append(out, *b)
		}
	}
	sortBookings(out)
	return out, nil
}
