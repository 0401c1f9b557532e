package routes

import (
	"stayease/handlers"
	"stayease/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterPageRoutes registers the public page endpoints.
func RegisterPageRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.GET("/home", hb.HomeHandler)
		api.GET("/rooms", hb.ListRoomsHandler)
		api.GET("/rooms/:id", hb.GetRoomHandler)

		// Booking needs a signed-in user; the view itself answers with a login redirect.
		api.POST("/rooms/:id/book", hb.BookRoomHandler)
	}
}

// RegisterMyBookingRoutes registers the signed-in user's booking management endpoints.
func RegisterMyBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	mine := r.Group("/api/my-bookings")
	{
		mine.Use(middleware.RequireSession(hb.Sessions))
		mine.GET("", hb.ListMyBookingsHandler)
		mine.DELETE("/:id", hb.CancelBookingHandler)
		mine.PATCH("/:id", hb.UpdateBookingDateHandler)
		mine.POST("/:id/review", hb.SubmitReviewHandler)
	}
}

// RegisterAuthRoutes registers sign-in, registration and sign-out.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", hb.LoginHandler)
		auth.POST("/register", hb.RegisterHandler)
		auth.POST("/google", hb.GoogleHandler)
		auth.POST("/logout", hb.LogoutHandler)
		auth.GET("/session", hb.SessionHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	RegisterPageRoutes(r, hb)
	RegisterMyBookingRoutes(r, hb)
	RegisterAuthRoutes(r, hb)
	RegisterHealthRoute(r, hb)
	r.GET("/events", hb.EventsHandler)
}
