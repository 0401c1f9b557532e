package handlers

import (
	"net/http"

	"stayease/views"

	"github.com/gin-gonic/gin"
)

// ListMyBookings returns the signed-in user's bookings.
func (h *Handler) ListMyBookings(c *gin.Context) {
	v := views.NewMyBookings(h.deps)
	if err := v.Load(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": v.Bookings()})
}

// CancelBooking cancels a booking and returns the refreshed list.
func (h *Handler) CancelBooking(c *gin.Context) {
	v := views.NewMyBookings(h.deps)
	if err := v.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled", "bookings": v.Bookings()})
}

type updateDateRequest struct {
	Date string `json:"date"`
}

func (h *Handler) UpdateBookingDate(c *gin.Context) {
	var req updateDateRequest
	if !bindJSON(c, &req) {
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		respondError(c, err)
		return
	}
	updated, err := views.NewMyBookings(h.deps).UpdateDate(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

type reviewRequest struct {
	Rating float64 `json:"rating"`
	Text   string  `json:"text"`
}

// SubmitReview reviews the room of a booking.
func (h *Handler) SubmitReview(c *gin.Context) {
	var req reviewRequest
	if !bindJSON(c, &req) {
		return
	}
	created, err := views.NewMyBookings(h.deps).SubmitReview(c.Request.Context(), c.Param("id"), req.Rating, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}
