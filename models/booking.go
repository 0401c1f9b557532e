package models

import "time"

// Booking is the client's transient copy of a reservation. The remote API is authoritative.
type Booking struct {
	ID       string    `json:"_id" validate:"required"`
	RoomID   string    `json:"roomId" validate:"required"`
	RoomName string    `json:"roomName"`
	Image    string    `json:"image,omitempty"`
	Price    float64   `json:"price" validate:"gte=0"`
	Email    string    `json:"email" validate:"required,email"`
	Date     time.Time `json:"date" validate:"required"`
}

// BookingInput is the body of a booking creation request.
type BookingInput struct {
	RoomID   string    `json:"roomId"`
	RoomName string    `json:"roomName"`
	Image    string    `json:"image,omitempty"`
	Price    float64   `json:"price"`
	Email    string    `json:"email"`
	Date     time.Time `json:"date"`
}

// BookingDateUpdate is the body of a reschedule request.
type BookingDateUpdate struct {
	Date time.Time `json:"date"`
}
