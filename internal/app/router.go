package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RouterOptions carries cross-cutting middleware supplied by main.
type RouterOptions struct {
	// Limit, when set, gates every API request by client IP.
	Limit gin.HandlerFunc
}

// NewRouter builds the HTTP surface. Anonymous viewers may read host
// calendars; everything else requires a session.
func NewRouter(a *App, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if opts.Limit != nil {
		router.Use(opts.Limit)
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	account := router.Group("/account")
	{
		account.POST("/signup", a.SignupHandler)
		account.POST("/login", a.LoginHandler)
		account.GET("/users/:username", a.UserDetailHandler)
		account.GET("/me", a.AuthMiddleware(), a.MeHandler)
		account.POST("/host", a.AuthMiddleware(), a.BecomeHostHandler)
	}

	calendars := router.Group("/calendars")
	{
		calendars.GET("/:host_username", a.OptionalAuthMiddleware(), a.CalendarDetailHandler)
		calendars.POST("", a.AuthMiddleware(), a.CreateCalendarHandler)
		calendars.PATCH("", a.AuthMiddleware(), a.UpdateCalendarHandler)
		calendars.GET("/:host_username/bookings", a.AuthMiddleware(), a.ListMonthBookingsHandler)
		calendars.POST("/:host_username/bookings", a.AuthMiddleware(), a.CreateBookingHandler)
	}

	router.POST("/time-slots", a.AuthMiddleware(), a.CreateTimeSlotHandler)

	bookings := router.Group("/bookings", a.AuthMiddleware())
	{
		bookings.GET("", a.ListHostBookingsHandler)
		bookings.GET("/:id", a.BookingDetailHandler)
		bookings.PATCH("/:id", a.UpdateHostBookingHandler)
	}

	router.GET("/guest-calendar/bookings", a.AuthMiddleware(), a.ListGuestBookingsHandler)
	router.PATCH("/guest-bookings/:id", a.AuthMiddleware(), a.UpdateGuestBookingHandler)

	return router
}
