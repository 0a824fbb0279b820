package app

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// statusForError is the translation table from domain conditions to
// HTTP statuses. Ownership failures already arrive as not-found.
func statusForError(err error) int {
	switch {
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrHostNotFound),
		errors.Is(err, ErrCalendarNotFound),
		errors.Is(err, ErrBookingNotFound),
		errors.Is(err, ErrTimeSlotNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrGuestPermission):
		return http.StatusForbidden
	case errors.Is(err, ErrCalendarAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrTimeSlotOverlap),
		errors.Is(err, ErrSelfBooking),
		errors.Is(err, ErrPastDateBooking),
		errors.Is(err, ErrDuplicateBooking),
		errors.Is(err, ErrInvalidWeekday),
		errors.Is(err, ErrInvalidTimeRange),
		errors.Is(err, ErrInvalidDate),
		errors.Is(err, ErrTopicsRequired),
		errors.Is(err, ErrShortDescription),
		errors.Is(err, ErrCalendarIDMissing),
		errors.Is(err, ErrDuplicateUsername),
		errors.Is(err, ErrDuplicateEmail),
		errors.Is(err, ErrFieldsRequired):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (a *App) fail(c *gin.Context, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		a.Logger.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// POST /account/signup
func (a *App) SignupHandler(c *gin.Context) {
	var in SignupIn
	if err := c.BindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := a.Signup(c.Request.Context(), in)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// POST /account/login
func (a *App) LoginHandler(c *gin.Context) {
	var in LoginIn
	if err := c.BindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, token, err := a.Login(c.Request.Context(), in)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// GET /account/users/:username
func (a *App) UserDetailHandler(c *gin.Context) {
	user, err := a.UserDetail(c.Request.Context(), c.Param("username"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GET /account/me
func (a *App) MeHandler(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

// POST /account/host
func (a *App) BecomeHostHandler(c *gin.Context) {
	user, err := a.BecomeHost(c.Request.Context(), currentUser(c))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GET /calendars/:host_username
func (a *App) CalendarDetailHandler(c *gin.Context) {
	out, err := a.ViewCalendar(c.Request.Context(), c.Param("host_username"), currentUser(c))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// POST /calendars
func (a *App) CreateCalendarHandler(c *gin.Context) {
	var in CalendarCreateIn
	if err := c.BindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cal, err := a.CreateCalendar(c.Request.Context(), currentUser(c), in)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, cal)
}

// PATCH /calendars
func (a *App) UpdateCalendarHandler(c *gin.Context) {
	var patch CalendarPatch
	if err := c.BindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cal, err := a.UpdateCalendar(c.Request.Context(), currentUser(c), patch)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cal)
}

// POST /time-slots
func (a *App) CreateTimeSlotHandler(c *gin.Context) {
	var in TimeSlotCreateIn
	if err := c.BindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	slot, err := a.CreateTimeSlot(c.Request.Context(), currentUser(c), in)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, slot)
}

// POST /calendars/:host_username/bookings
func (a *App) CreateBookingHandler(c *gin.Context) {
	var in BookingCreateIn
	if err := c.BindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	booking, err := a.CreateBooking(c.Request.Context(), currentUser(c), c.Param("host_username"), in)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

func pageParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil || size < 1 || size > 100 {
		size = 20
	}
	return page, size
}

// GET /bookings?page=&page_size=
func (a *App) ListHostBookingsHandler(c *gin.Context) {
	page, size := pageParams(c)
	out, err := a.ListHostBookings(c.Request.Context(), currentUser(c), page, size)
	if err != nil {
		a.fail(c, err)
		return
	}
	if out == nil {
		out = []Booking{}
	}
	c.JSON(http.StatusOK, out)
}

// GET /guest-calendar/bookings?page=&page_size=
func (a *App) ListGuestBookingsHandler(c *gin.Context) {
	page, size := pageParams(c)
	out, err := a.ListGuestBookings(c.Request.Context(), currentUser(c), page, size)
	if err != nil {
		a.fail(c, err)
		return
	}
	if out == nil {
		out = []Booking{}
	}
	c.JSON(http.StatusOK, out)
}

// GET /calendars/:host_username/bookings?year=&month=
func (a *App) ListMonthBookingsHandler(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year required"})
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month required"})
		return
	}
	out, err := a.ListMonthBookings(c.Request.Context(), c.Param("host_username"), year, month)
	if err != nil {
		a.fail(c, err)
		return
	}
	if out == nil {
		out = []Booking{}
	}
	c.JSON(http.StatusOK, out)
}

// GET /bookings/:id
func (a *App) BookingDetailHandler(c *gin.Context) {
	booking, err := a.GetBooking(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// PATCH /bookings/:id — host-scoped update.
func (a *App) UpdateHostBookingHandler(c *gin.Context) {
	var patch BookingPatch
	if err := c.BindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	booking, err := a.UpdateBookingAsHost(c.Request.Context(), currentUser(c), c.Param("id"), patch)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// PATCH /guest-bookings/:id — guest-scoped update.
func (a *App) UpdateGuestBookingHandler(c *gin.Context) {
	var patch BookingPatch
	if err := c.BindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	booking, err := a.UpdateBookingAsGuest(c.Request.Context(), currentUser(c), c.Param("id"), patch)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}
