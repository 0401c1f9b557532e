package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the endpoint handlers the routes are built from.
type HandlerBundle struct {
	Sessions SessionService

	// Page endpoints
	HomeHandler      gin.HandlerFunc
	ListRoomsHandler gin.HandlerFunc
	GetRoomHandler   gin.HandlerFunc
	BookRoomHandler  gin.HandlerFunc

	// My bookings endpoints
	ListMyBookingsHandler    gin.HandlerFunc
	CancelBookingHandler     gin.HandlerFunc
	UpdateBookingDateHandler gin.HandlerFunc
	SubmitReviewHandler      gin.HandlerFunc

	// Auth endpoints
	LoginHandler    gin.HandlerFunc
	RegisterHandler gin.HandlerFunc
	GoogleHandler   gin.HandlerFunc
	LogoutHandler   gin.HandlerFunc
	SessionHandler  gin.HandlerFunc

	// Refresh stream
	EventsHandler gin.HandlerFunc

	HealthHandler gin.HandlerFunc
}

// NewHandlerBundle wires every endpoint of h into a bundle.
func NewHandlerBundle(h *Handler) *HandlerBundle {
	return &HandlerBundle{
		Sessions: h.sessions,

		HomeHandler:      h.Home,
		ListRoomsHandler: h.ListRooms,
		GetRoomHandler:   h.GetRoom,
		BookRoomHandler:  h.BookRoom,

		ListMyBookingsHandler:    h.ListMyBookings,
		CancelBookingHandler:     h.CancelBooking,
		UpdateBookingDateHandler: h.UpdateBookingDate,
		SubmitReviewHandler:      h.SubmitReview,

		LoginHandler:    h.Login,
		RegisterHandler: h.Register,
		GoogleHandler:   h.Google,
		LogoutHandler:   h.Logout,
		SessionHandler:  h.Session,

		EventsHandler: h.Events,
		HealthHandler: h.Health,
	}
}
