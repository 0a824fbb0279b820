package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"booking-service/internal/app"
)

// Postgres implements app.Store on a pgx connection pool. The schema's
// UNIQUE constraints are the source of truth for calendar-per-host and
// duplicate-booking rules; violations surface as app.ErrConflict.
type Postgres struct {
	DB *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{DB: pool}
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            uuid PRIMARY KEY,
    username      text NOT NULL UNIQUE,
    email         text NOT NULL UNIQUE,
    display_name  text NOT NULL,
    password_hash text NOT NULL,
    is_host       boolean NOT NULL DEFAULT false,
    created_at    timestamptz NOT NULL,
    updated_at    timestamptz NOT NULL
);

CREATE TABLE IF NOT EXISTS calendars (
    id                 uuid PRIMARY KEY,
    host_id            uuid NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
    topics             text[] NOT NULL,
    description        text NOT NULL,
    google_calendar_id text NOT NULL,
    created_at         timestamptz NOT NULL,
    updated_at         timestamptz NOT NULL
);

CREATE TABLE IF NOT EXISTS time_slots (
    id          uuid PRIMARY KEY,
    calendar_id uuid NOT NULL REFERENCES calendars(id) ON DELETE CASCADE,
    start_time  text NOT NULL,
    end_time    text NOT NULL,
    weekdays    smallint[] NOT NULL,
    created_at  timestamptz NOT NULL
);

CREATE TABLE IF NOT EXISTS bookings (
    id           uuid PRIMARY KEY,
    guest_id     uuid NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    time_slot_id uuid NOT NULL REFERENCES time_slots(id) ON DELETE CASCADE,
    when_date    date NOT NULL,
    topic        text NOT NULL,
    description  text NOT NULL,
    created_at   timestamptz NOT NULL,
    updated_at   timestamptz NOT NULL,
    UNIQUE (guest_id, time_slot_id, when_date)
);
`

// Migrate creates the schema, including the uniqueness constraints the
// admission engine relies on.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.DB.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// translate maps driver errors into store-level conditions.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return app.ErrNoRecord
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return app.ErrConflict
	}
	return err
}

func toSmallints(w app.WeekdaySet) []int16 {
	out := make([]int16, len(w))
	for i, d := range w {
		out[i] = int16(d)
	}
	return out
}

func fromSmallints(v []int16) app.WeekdaySet {
	out := make(app.WeekdaySet, len(v))
	for i, d := range v {
		out[i] = int(d)
	}
	return out
}

const dateLayout = "2006-01-02"

func (p *Postgres) CreateUser(ctx context.Context, u *app.User) error {
	q := `INSERT INTO users (id, username, email, display_name, password_hash, is_host, created_at, updated_at)
	      VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err := p.DB.Exec(ctx, q, u.ID, u.Username, u.Email, u.DisplayName, u.PasswordHash, u.IsHost, u.CreatedAt, u.UpdatedAt)
	return translate(err)
}

func (p *Postgres) scanUser(row pgx.Row) (*app.User, error) {
	var u app.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.DisplayName, &u.PasswordHash, &u.IsHost, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (p *Postgres) GetUserByID(ctx context.Context, id string) (*app.User, error) {
	q := `SELECT id, username, email, display_name, password_hash, is_host, created_at, updated_at
	      FROM users WHERE id=$1`
	return p.scanUser(p.DB.QueryRow(ctx, q, id))
}

func (p *Postgres) GetUserByUsername(ctx context.Context, username string) (*app.User, error) {
	q := `SELECT id, username, email, display_name, password_hash, is_host, created_at, updated_at
	      FROM users WHERE username=$1`
	return p.scanUser(p.DB.QueryRow(ctx, q, username))
}

func (p *Postgres) UpdateUser(ctx context.Context, u *app.User) error {
	q := `UPDATE users SET email=$1, display_name=$2, password_hash=$3, is_host=$4, updated_at=$5
	      WHERE id=$6`
	tag, err := p.DB.Exec(ctx, q, u.Email, u.DisplayName, u.PasswordHash, u.IsHost, u.UpdatedAt, u.ID)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return app.ErrNoRecord
	}
	return nil
}

func (p *Postgres) CreateCalendar(ctx context.Context, c *app.Calendar) error {
	q := `INSERT INTO calendars (id, host_id, topics, description, google_calendar_id, created_at, updated_at)
	      VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := p.DB.Exec(ctx, q, c.ID, c.HostID, c.Topics, c.Description, c.GoogleCalendarID, c.CreatedAt, c.UpdatedAt)
	return translate(err)
}

func (p *Postgres) getCalendar(ctx context.Context, where string, arg any) (*app.Calendar, error) {
	q := `SELECT id, host_id, topics, description, google_calendar_id, created_at, updated_at
	      FROM calendars WHERE ` + where
	var c app.Calendar
	err := p.DB.QueryRow(ctx, q, arg).Scan(
		&c.ID, &c.HostID, &c.Topics, &c.Description, &c.GoogleCalendarID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	slots, err := p.ListTimeSlots(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	c.TimeSlots = slots
	return &c, nil
}

func (p *Postgres) GetCalendarByID(ctx context.Context, id string) (*app.Calendar, error) {
	return p.getCalendar(ctx, "id=$1", id)
}

func (p *Postgres) GetCalendarByHostID(ctx context.Context, hostID string) (*app.Calendar, error) {
	return p.getCalendar(ctx, "host_id=$1", hostID)
}

func (p *Postgres) UpdateCalendar(ctx context.Context, c *app.Calendar) error {
	q := `UPDATE calendars SET topics=$1, description=$2, google_calendar_id=$3, updated_at=$4
	      WHERE id=$5`
	tag, err := p.DB.Exec(ctx, q, c.Topics, c.Description, c.GoogleCalendarID, c.UpdatedAt, c.ID)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return app.ErrNoRecord
	}
	return nil
}

func (p *Postgres) CreateTimeSlot(ctx context.Context, s *app.TimeSlot) error {
	q := `INSERT INTO time_slots (id, calendar_id, start_time, end_time, weekdays, created_at)
	      VALUES ($1,$2,$3,$4,$5,$6)`
	_, err := p.DB.Exec(ctx, q, s.ID, s.CalendarID, s.StartTime, s.EndTime, toSmallints(s.Weekdays), s.CreatedAt)
	return translate(err)
}

func (p *Postgres) GetTimeSlot(ctx context.Context, id string) (*app.TimeSlot, error) {
	q := `SELECT id, calendar_id, start_time, end_time, weekdays, created_at
	      FROM time_slots WHERE id=$1`
	var s app.TimeSlot
	var weekdays []int16
	err := p.DB.QueryRow(ctx, q, id).Scan(&s.ID, &s.CalendarID, &s.StartTime, &s.EndTime, &weekdays, &s.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	s.Weekdays = fromSmallints(weekdays)
	return &s, nil
}

func (p *Postgres) ListTimeSlots(ctx context.Context, calendarID string) ([]app.TimeSlot, error) {
	q := `SELECT id, calendar_id, start_time, end_time, weekdays, created_at
	      FROM time_slots WHERE calendar_id=$1 ORDER BY start_time`
	rows, err := p.DB.Query(ctx, q, calendarID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var out []app.TimeSlot
	for rows.Next() {
		var s app.TimeSlot
		var weekdays []int16
		if err := rows.Scan(&s.ID, &s.CalendarID, &s.StartTime, &s.EndTime, &weekdays, &s.CreatedAt); err != nil {
			return nil, translate(err)
		}
		s.Weekdays = fromSmallints(weekdays)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (p *Postgres) CreateBooking(ctx context.Context, b *app.Booking) error {
	q := `INSERT INTO bookings (id, guest_id, time_slot_id, when_date, topic, description, created_at, updated_at)
	      VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err := p.DB.Exec(ctx, q, b.ID, b.GuestID, b.TimeSlotID, b.When, b.Topic, b.Description, b.CreatedAt, b.UpdatedAt)
	return translate(err)
}

func (p *Postgres) scanBooking(row pgx.Row) (*app.Booking, error) {
	var b app.Booking
	var when time.Time
	err := row.Scan(&b.ID, &b.GuestID, &b.TimeSlotID, &when, &b.Topic, &b.Description, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	b.When = when.Format(dateLayout)
	return &b, nil
}

func (p *Postgres) GetBooking(ctx context.Context, id string) (*app.Booking, error) {
	q := `SELECT id, guest_id, time_slot_id, when_date, topic, description, created_at, updated_at
	      FROM bookings WHERE id=$1`
	return p.scanBooking(p.DB.QueryRow(ctx, q, id))
}

func (p *Postgres) UpdateBooking(ctx context.Context, b *app.Booking) error {
	q := `UPDATE bookings SET time_slot_id=$1, when_date=$2, topic=$3, description=$4, updated_at=$5
	      WHERE id=$6`
	tag, err := p.DB.Exec(ctx, q, b.TimeSlotID, b.When, b.Topic, b.Description, b.UpdatedAt, b.ID)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return app.ErrNoRecord
	}
	return nil
}

func (p *Postgres) FindBooking(ctx context.Context, guestID, timeSlotID, when string) (*app.Booking, error) {
	q := `SELECT id, guest_id, time_slot_id, when_date, topic, description, created_at, updated_at
	      FROM bookings WHERE guest_id=$1 AND time_slot_id=$2 AND when_date=$3`
	return p.scanBooking(p.DB.QueryRow(ctx, q, guestID, timeSlotID, when))
}

func (p *Postgres) listBookings(ctx context.Context, q string, args ...any) ([]app.Booking, error) {
	rows, err := p.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var out []app.Booking
	for rows.Next() {
		var b app.Booking
		var when time.Time
		if err := rows.Scan(&b.ID, &b.GuestID, &b.TimeSlotID, &when, &b.Topic, &b.Description, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, translate(err)
		}
		b.When = when.Format(dateLayout)
		out = append(out, b)
	}
	return out, rows.Err()
}

func (p *Postgres) ListBookingsForCalendar(ctx context.Context, calendarID string, page, pageSize int) ([]app.Booking, error) {
	q := `SELECT b.id, b.guest_id, b.time_slot_id, b.when_date, b.topic, b.description, b.created_at, b.updated_at
	      FROM bookings b
	      JOIN time_slots s ON s.id = b.time_slot_id
	      WHERE s.calendar_id=$1
	      ORDER BY b.when_date, b.id
	      LIMIT $2 OFFSET $3`
	return p.listBookings(ctx, q, calendarID, pageSize, (page-1)*pageSize)
}

func (p *Postgres) ListBookingsForGuest(ctx context.Context, guestID string, page, pageSize int) ([]app.Booking, error) {
	q := `SELECT id, guest_id, time_slot_id, when_date, topic, description, created_at, updated_at
	      FROM bookings
	      WHERE guest_id=$1
	      ORDER BY when_date, id
	      LIMIT $2 OFFSET $3`
	return p.listBookings(ctx, q, guestID, pageSize, (page-1)*pageSize)
}

func (p *Postgres) ListBookingsForMonth(ctx context.Context, calendarID string, year, month int) ([]app.Booking, error) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)
	q := `SELECT b.id, b.guest_id, b.time_slot_id, b.when_date, b.topic, b.description, b.created_at, b.updated_at
	      FROM bookings b
	      JOIN time_slots s ON s.id = b.time_slot_id
	      WHERE s.calendar_id=$1 AND b.when_date >= $2 AND b.when_date < $3
	      ORDER BY b.when_date, b.id`
	return p.listBookings(ctx, q, calendarID, first.Format(dateLayout), next.Format(dateLayout))
}

func (p *Postgres) ListBookingsOnOrAfter(ctx context.Context, when string) ([]app.Booking, error) {
	q := `SELECT id, guest_id, time_slot_id, when_date, topic, description, created_at, updated_at
	      FROM bookings
	      WHERE when_date >= $1
	      ORDER BY when_date, id`
	return p.listBookings(ctx, q, when)
}
