package views

import (
	"context"
	"sync"
	"time"

	"stayease/models"
	"stayease/services/booking"
	"stayease/services/notify"
	"stayease/services/reviews"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type RoomDetailPage struct {
	Room          models.Room     `json:"room"`
	Reviews       []models.Review `json:"reviews"`
	AverageRating string          `json:"averageRating"`
}

// RoomDetail shows one room with its merged reviews and books it.
type RoomDetail struct {
	deps   Deps
	roomID string

	mu         sync.RWMutex
	room       *models.Room
	standalone []models.Review

	sub *notify.Subscription
}

func NewRoomDetail(deps Deps, roomID string) *RoomDetail {
	return &RoomDetail{deps: deps, roomID: roomID}
}

// Load fetches the room and its standalone reviews concurrently. A failed review fetch
// leaves only the embedded reviews.
func (v *RoomDetail) Load(ctx context.Context) error {
	var (
		room       *models.Room
		standalone []models.Review
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := v.deps.API.GetRoom(gctx, v.roomID)
		room = r
		return err
	})
	g.Go(func() error {
		rs, err := v.deps.API.ListReviews(gctx, v.roomID)
		if err != nil {
			v.deps.logger().Warn("room detail: review fetch failed", zap.String("room", v.roomID), zap.Error(err))
			return nil
		}
		standalone = rs
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	v.mu.Lock()
	v.room = room
	v.standalone = standalone
	v.mu.Unlock()
	return nil
}

// Mount subscribes to reviews signals, then loads the room. Until Unmount every signal
// refetches it.
func (v *RoomDetail) Mount(ctx context.Context, onChange func()) error {
	v.mu.Lock()
	if v.sub == nil {
		v.sub = v.deps.Bus.Subscribe(notify.TopicReviewsUpdated, func(notify.Signal) {
			if err := v.Load(ctx); err != nil {
				v.deps.logger().Warn("room detail: refetch failed", zap.String("room", v.roomID), zap.Error(err))
				return
			}
			if onChange != nil {
				onChange()
			}
		})
	}
	v.mu.Unlock()

	if err := v.Load(ctx); err != nil {
		v.Unmount()
		return err
	}
	return nil
}

func (v *RoomDetail) Unmount() {
	v.mu.Lock()
	sub := v.sub
	v.sub = nil
	v.mu.Unlock()
	if sub != nil {
		sub.Unsubscribe()
	}
}

// Page returns the loaded room. ok is false before a successful Load.
func (v *RoomDetail) Page() (page RoomDetailPage, ok bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.room == nil {
		return RoomDetailPage{}, false
	}
	merged := reviews.Merge(v.room.Reviews, v.standalone)
	return RoomDetailPage{
		Room:          *v.room,
		Reviews:       merged,
		AverageRating: reviews.FormatAverage(merged),
	}, true
}

// Book reserves the loaded room for the signed-in user on date.
func (v *RoomDetail) Book(ctx context.Context, date time.Time) (*models.Booking, error) {
	sess := v.deps.Session.Current()
	if !sess.Authenticated() {
		return nil, ErrLoginRequired
	}
	if err := booking.ValidateDate(date, v.deps.now()); err != nil {
		return nil, err
	}

	v.mu.RLock()
	room := v.room
	v.mu.RUnlock()
	if room == nil {
		if err := v.Load(ctx); err != nil {
			return nil, err
		}
		v.mu.RLock()
		room = v.room
		v.mu.RUnlock()
	}
	if room.IsBooked {
		return nil, ErrAlreadyBooked
	}

	created, err := v.deps.API.CreateBooking(ctx, models.BookingInput{
		RoomID:   room.ID,
		RoomName: room.Name,
		Image:    room.Image,
		Price:    room.Price,
		Email:    sess.Identity.Email,
		Date:     date,
	})
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	if v.room != nil && v.room.ID == room.ID {
		booked := *v.room
		booked.IsBooked = true
		v.room = &booked
	}
	v.mu.Unlock()

	v.deps.logger().Info("room booked", zap.String("room", room.ID), zap.String("booking", created.ID))
	return created, nil
}
