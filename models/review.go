package models

import "time"

// Review is a guest review of a room. Embedded reviews may omit ID and RoomID.
type Review struct {
	ID        string    `json:"_id,omitempty"`
	RoomID    string    `json:"roomId,omitempty"`
	Reviewer  string    `json:"reviewer"`
	Rating    float64   `json:"rating" validate:"gte=0,lte=5,halfstep"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp" validate:"required"`
}

// ReviewInput is the body of a review submission.
type ReviewInput struct {
	RoomID    string    `json:"roomId"`
	Reviewer  string    `json:"reviewer"`
	Rating    float64   `json:"rating"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
