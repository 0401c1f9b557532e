package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"stayease/models"
)

func (c *DefaultClient) ListBookings(ctx context.Context, email string) ([]models.Booking, error) {
	var bookings []models.Booking
	q := url.Values{"email": {email}}
	if err := c.do(ctx, http.MethodGet, "/api/bookings", q, nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *DefaultClient) CreateBooking(ctx context.Context, in models.BookingInput) (*models.Booking, error) {
	var created models.Booking
	if err := c.do(ctx, http.MethodPost, "/api/bookings", nil, in, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *DefaultClient) UpdateBookingDate(ctx context.Context, id string, date time.Time) (*models.Booking, error) {
	var updated models.Booking
	body := models.BookingDateUpdate{Date: date}
	if err := c.do(ctx, http.MethodPatch, "/api/bookings/"+url.PathEscape(id), nil, body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// CancelBooking only reports success or failure; the response body is discarded.
func (c *DefaultClient) CancelBooking(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/bookings/"+url.PathEscape(id), nil, nil, nil)
}
