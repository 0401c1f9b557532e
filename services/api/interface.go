package api

import (
	"context"
	"time"

	"stayease/models"
)

// Client is the remote booking API as seen by the views and the session store.
type Client interface {
	ListRooms(ctx context.Context, filter models.RoomFilter) ([]models.Room, error)
	GetRoom(ctx context.Context, id string) (*models.Room, error)

	// ListReviews returns the standalone reviews of a room, or every review when roomID is empty.
	ListReviews(ctx context.Context, roomID string) ([]models.Review, error)
	CreateReview(ctx context.Context, in models.ReviewInput) (*models.Review, error)

	ListBookings(ctx context.Context, email string) ([]models.Booking, error)
	CreateBooking(ctx context.Context, in models.BookingInput) (*models.Booking, error)
	UpdateBookingDate(ctx context.Context, id string, date time.Time) (*models.Booking, error)
	CancelBooking(ctx context.Context, id string) error

	// ExchangeToken trades the signed-in email for an application authorization token.
	ExchangeToken(ctx context.Context, email string) (string, error)
}

// TokenSource yields the cached application token, or "" when none is cached.
type TokenSource func(ctx context.Context) string
