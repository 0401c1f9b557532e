package views

import (
	"context"
	"sort"
	"sync"

	"stayease/models"

	"golang.org/x/sync/errgroup"
)

// FeaturedLimit caps the featured rooms on the home page.
const FeaturedLimit = 6

type HomePage struct {
	Featured []models.Room `json:"featured"`
	Carousel CarouselState `json:"carousel"`
}

// Home is the landing page: featured rooms plus the testimonial carousel.
type Home struct {
	deps     Deps
	Carousel *ReviewCarousel

	mu       sync.RWMutex
	featured []models.Room
}

func NewHome(deps Deps) *Home {
	return &Home{deps: deps, Carousel: NewReviewCarousel(deps)}
}

// Load fetches the featured rooms and the carousel reviews concurrently.
func (h *Home) Load(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rooms, err := h.deps.API.ListRooms(gctx, models.RoomFilter{})
		if err != nil {
			return err
		}
		featured := Featured(rooms, FeaturedLimit)
		h.mu.Lock()
		h.featured = featured
		h.mu.Unlock()
		return nil
	})
	g.Go(func() error {
		return h.Carousel.Load(gctx)
	})
	return g.Wait()
}

// Mount keeps the carousel live until Unmount, then loads the page. Reviews are fetched
// once per load.
func (h *Home) Mount(ctx context.Context, onChange func()) error {
	h.Carousel.watch(ctx, onChange)
	if err := h.Load(ctx); err != nil {
		h.Carousel.Unmount()
		return err
	}
	return nil
}

func (h *Home) Unmount() {
	h.Carousel.Unmount()
}

func (h *Home) Page() HomePage {
	h.mu.RLock()
	featured := h.featured
	h.mu.RUnlock()
	return HomePage{Featured: featured, Carousel: h.Carousel.State()}
}

// Featured returns up to limit rooms that have at least one embedded review, highest
// rated first.
func Featured(rooms []models.Room, limit int) []models.Room {
	out := make([]models.Room, 0, len(rooms))
	for _, r := range rooms {
		if len(r.Reviews) > 0 {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
