// Package views holds the page-level view-models. Each view fetches its own data; there is
// no shared cache. Mount and Unmount bracket the period during which a view reacts to
// refresh signals and session changes.
package views

import (
	"errors"
	"time"

	"stayease/models"
	"stayease/services/api"
	"stayease/services/notify"
	"stayease/services/session"

	"go.uber.org/zap"
)

// LoginPath is where a guest is sent when an action needs a signed-in user.
const LoginPath = "/login"

var (
	// ErrLoginRequired is returned by actions that need a signed-in user.
	ErrLoginRequired = errors.New("please sign in to continue")
	// ErrAlreadyBooked rejects a booking for a room the API reports as booked.
	ErrAlreadyBooked = errors.New("this room is already booked")
	// ErrBookingNotFound means the booking is not among the user's bookings.
	ErrBookingNotFound = errors.New("booking not found")
)

// SessionReader is the read side of the session store.
type SessionReader interface {
	Current() models.Session
	OnSessionChange(handler session.Listener) (unsubscribe func())
}

// Deps are the collaborators shared by every view.
type Deps struct {
	API     api.Client
	Bus     *notify.Bus
	Session SessionReader
	Logger  *zap.Logger
	Now     func() time.Time

	// ReviewConcurrency bounds the per-room review fetches of the catalog.
	ReviewConcurrency int
	// CarouselInterval is the auto-rotation period of the review carousel; zero disables it.
	CarouselInterval time.Duration
}

func (d Deps) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

func (d Deps) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

func invalid(field string, problems ...string) error {
	return &session.ValidationError{Field: field, Problems: problems}
}
