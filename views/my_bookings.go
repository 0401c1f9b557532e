package views

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"

	"stayease/models"
	"stayease/services/booking"
	"stayease/services/notify"

	"go.uber.org/zap"
)

// MyBookings lists and manages the signed-in user's bookings.
type MyBookings struct {
	deps Deps

	mu       sync.RWMutex
	bookings []models.Booking

	unsubscribe func()
}

func NewMyBookings(deps Deps) *MyBookings {
	return &MyBookings{deps: deps}
}

// Load fetches the bookings of the session's user.
func (v *MyBookings) Load(ctx context.Context) error {
	sess := v.deps.Session.Current()
	if !sess.Authenticated() {
		v.set(nil)
		return ErrLoginRequired
	}
	list, err := v.deps.API.ListBookings(ctx, sess.Identity.Email)
	if err != nil {
		return err
	}
	v.set(list)
	return nil
}

// Mount listens for session changes, then loads the bookings. Until Unmount every session
// change reloads them.
func (v *MyBookings) Mount(ctx context.Context, onChange func()) error {
	v.mu.Lock()
	if v.unsubscribe == nil {
		v.unsubscribe = v.deps.Session.OnSessionChange(func(models.Session) {
			if err := v.Load(ctx); err != nil && err != ErrLoginRequired {
				v.deps.logger().Warn("my bookings: reload failed", zap.Error(err))
				return
			}
			if onChange != nil {
				onChange()
			}
		})
	}
	v.mu.Unlock()

	if err := v.Load(ctx); err != nil && err != ErrLoginRequired {
		v.Unmount()
		return err
	}
	return nil
}

func (v *MyBookings) Unmount() {
	v.mu.Lock()
	unsubscribe := v.unsubscribe
	v.unsubscribe = nil
	v.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

func (v *MyBookings) Bookings() []models.Booking {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]models.Booking(nil), v.bookings...)
}

// Cancel deletes a booking at least a day ahead of its date, then refetches.
func (v *MyBookings) Cancel(ctx context.Context, id string) error {
	b, err := v.find(ctx, id)
	if err != nil {
		return err
	}
	if err := booking.CanCancel(b.Date, v.deps.now()); err != nil {
		return err
	}
	if err := v.deps.API.CancelBooking(ctx, id); err != nil {
		return err
	}
	v.deps.logger().Info("booking cancelled", zap.String("booking", id))
	return v.Load(ctx)
}

// UpdateDate reschedules a booking and patches the local copy.
func (v *MyBookings) UpdateDate(ctx context.Context, id string, date time.Time) (*models.Booking, error) {
	if _, err := v.find(ctx, id); err != nil {
		return nil, err
	}
	if err := booking.ValidateDate(date, v.deps.now()); err != nil {
		return nil, err
	}
	updated, err := v.deps.API.UpdateBookingDate(ctx, id, date)
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.bookings {
		if v.bookings[i].ID == id {
			v.bookings[i].Date = updated.Date
			patched := v.bookings[i]
			return &patched, nil
		}
	}
	return updated, nil
}

// SubmitReview posts a review of the booked room and tells mounted views to refetch.
func (v *MyBookings) SubmitReview(ctx context.Context, id string, rating float64, text string) (*models.Review, error) {
	sess := v.deps.Session.Current()
	if !sess.Authenticated() {
		return nil, ErrLoginRequired
	}
	if err := ValidateReview(rating, text); err != nil {
		return nil, err
	}
	b, err := v.find(ctx, id)
	if err != nil {
		return nil, err
	}

	reviewer := sess.Identity.DisplayName
	if reviewer == "" {
		reviewer = sess.Identity.Email
	}
	created, err := v.deps.API.CreateReview(ctx, models.ReviewInput{
		RoomID:    b.RoomID,
		Reviewer:  reviewer,
		Rating:    rating,
		Text:      strings.TrimSpace(text),
		Timestamp: v.deps.now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	v.deps.Bus.Publish(notify.Signal{Topic: notify.TopicReviewsUpdated, SubjectID: b.RoomID})
	return created, nil
}

// ValidateReview accepts ratings in (0, 5] on half steps with non-blank text.
func ValidateReview(rating float64, text string) error {
	var problems []string
	if rating <= 0 || rating > 5 || math.Trunc(rating*2) != rating*2 {
		problems = append(problems, "please select a rating")
	}
	if strings.TrimSpace(text) == "" {
		problems = append(problems, "please write a review")
	}
	if len(problems) > 0 {
		return invalid("review", problems...)
	}
	return nil
}

func (v *MyBookings) set(list []models.Booking) {
	v.mu.Lock()
	v.bookings = list
	v.mu.Unlock()
}

// find looks the booking up locally, loading the list first when it is empty.
func (v *MyBookings) find(ctx context.Context, id string) (models.Booking, error) {
	v.mu.RLock()
	loaded := v.bookings != nil
	v.mu.RUnlock()
	if !loaded {
		if err := v.Load(ctx); err != nil {
			return models.Booking{}, err
		}
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	for _, b := range v.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return models.Booking{}, ErrBookingNotFound
}
