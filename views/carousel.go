package views

import (
	"context"
	"sync"
	"time"

	"stayease/models"
	"stayease/services/notify"
	"stayease/services/reviews"

	"go.uber.org/zap"
)

// CarouselSlide is one testimonial.
type CarouselSlide struct {
	models.Review
	Initials string `json:"initials"`
}

type CarouselState struct {
	Slides  []CarouselSlide `json:"slides"`
	Current int             `json:"current"`
}

// ReviewCarousel rotates through every review, newest first.
type ReviewCarousel struct {
	deps Deps

	mu      sync.RWMutex
	reviews []models.Review
	current int

	mounted  bool
	sub      *notify.Subscription
	stop     chan struct{}
	stopped  chan struct{}
	onChange func()
}

func NewReviewCarousel(deps Deps) *ReviewCarousel {
	return &ReviewCarousel{deps: deps}
}

// Load fetches all reviews and resets to the first slide.
func (rc *ReviewCarousel) Load(ctx context.Context) error {
	rs, err := rc.deps.API.ListReviews(ctx, "")
	if err != nil {
		return err
	}
	reviews.SortNewestFirst(rs)

	rc.mu.Lock()
	rc.reviews = rs
	rc.current = 0
	rc.mu.Unlock()
	return nil
}

// Mount subscribes to reviews signals, then loads the reviews. Until Unmount it refetches
// on every signal and advances on the configured interval. onChange, if set, runs after
// each refetch or rotation.
func (rc *ReviewCarousel) Mount(ctx context.Context, onChange func()) error {
	rc.watch(ctx, onChange)
	if err := rc.Load(ctx); err != nil {
		rc.Unmount()
		return err
	}
	return nil
}

// watch starts the refetch subscription and the rotation ticker without loading.
func (rc *ReviewCarousel) watch(ctx context.Context, onChange func()) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.mounted {
		return
	}
	rc.mounted = true
	rc.onChange = onChange
	rc.sub = rc.deps.Bus.Subscribe(notify.TopicReviewsUpdated, func(notify.Signal) {
		if err := rc.Load(ctx); err != nil {
			rc.deps.logger().Warn("carousel: refetch failed", zap.Error(err))
			return
		}
		rc.changed()
	})
	if rc.deps.CarouselInterval > 0 {
		rc.stop = make(chan struct{})
		rc.stopped = make(chan struct{})
		go rc.rotate(rc.deps.CarouselInterval, rc.stop, rc.stopped)
	}
}

// Unmount stops refetching and rotating. It is safe to call when not mounted.
func (rc *ReviewCarousel) Unmount() {
	rc.mu.Lock()
	if !rc.mounted {
		rc.mu.Unlock()
		return
	}
	rc.mounted = false
	sub, stop, stopped := rc.sub, rc.stop, rc.stopped
	rc.sub, rc.stop, rc.stopped, rc.onChange = nil, nil, nil, nil
	rc.mu.Unlock()

	sub.Unsubscribe()
	if stop != nil {
		close(stop)
		<-stopped
	}
}

func (rc *ReviewCarousel) rotate(every time.Duration, stop <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			rc.Next()
			rc.changed()
		}
	}
}

func (rc *ReviewCarousel) changed() {
	rc.mu.RLock()
	fn := rc.onChange
	rc.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// Next advances one slide, wrapping at the end.
func (rc *ReviewCarousel) Next() {
	rc.step(1)
}

// Prev goes back one slide, wrapping at the start.
func (rc *ReviewCarousel) Prev() {
	rc.step(-1)
}

func (rc *ReviewCarousel) step(delta int) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	n := len(rc.reviews)
	if n == 0 {
		rc.current = 0
		return
	}
	rc.current = ((rc.current+delta)%n + n) % n
}

func (rc *ReviewCarousel) State() CarouselState {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	slides := make([]CarouselSlide, len(rc.reviews))
	for i, r := range rc.reviews {
		slides[i] = CarouselSlide{Review: r, Initials: reviews.Initials(r.Reviewer)}
	}
	return CarouselState{Slides: slides, Current: rc.current}
}
