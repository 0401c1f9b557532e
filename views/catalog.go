package views

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"stayease/models"
	"stayease/services/reviews"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultReviewConcurrency = 4

var priceInput = regexp.MustCompile(`^\d*\.?\d*$`)

// CatalogFilter is the raw price filter as typed by the user.
type CatalogFilter struct {
	MinPrice string `json:"minPrice" form:"minPrice"`
	MaxPrice string `json:"maxPrice" form:"maxPrice"`
}

// Parse turns the filter into API bounds. Blank fields are omitted.
func (f CatalogFilter) Parse() (models.RoomFilter, error) {
	var out models.RoomFilter
	var problems []string

	parse := func(name, raw string) *float64 {
		raw = strings.TrimSpace(raw)
		if !priceInput.MatchString(raw) {
			problems = append(problems, name+" must be a number")
			return nil
		}
		if strings.Trim(raw, ".") == "" {
			return nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			problems = append(problems, name+" must be a number")
			return nil
		}
		return &v
	}
	out.MinPrice = parse("minimum price", f.MinPrice)
	out.MaxPrice = parse("maximum price", f.MaxPrice)

	if len(problems) > 0 {
		return models.RoomFilter{}, invalid("price", problems...)
	}
	return out, nil
}

// RoomCard is a catalog entry with its review summary.
type RoomCard struct {
	models.Room
	ReviewCount   int    `json:"reviewCount"`
	AverageRating string `json:"averageRating"`
}

type CatalogPage struct {
	Filter CatalogFilter `json:"filter"`
	Rooms  []RoomCard    `json:"rooms"`
}

// Catalog is the filterable room list.
type Catalog struct {
	deps Deps
}

func NewCatalog(deps Deps) *Catalog {
	return &Catalog{deps: deps}
}

// Load lists the rooms matching filter and summarizes each room's merged reviews. A room
// whose standalone reviews cannot be fetched is summarized from its embedded reviews only.
func (c *Catalog) Load(ctx context.Context, filter CatalogFilter) (*CatalogPage, error) {
	bounds, err := filter.Parse()
	if err != nil {
		return nil, err
	}
	rooms, err := c.deps.API.ListRooms(ctx, bounds)
	if err != nil {
		return nil, err
	}

	standalone := c.fetchReviews(ctx, rooms)

	cards := make([]RoomCard, 0, len(rooms))
	for _, room := range rooms {
		merged := reviews.Merge(room.Reviews, standalone[room.ID])
		cards = append(cards, RoomCard{
			Room:          room,
			ReviewCount:   len(merged),
			AverageRating: reviews.FormatAverage(merged),
		})
	}
	return &CatalogPage{Filter: filter, Rooms: cards}, nil
}

func (c *Catalog) fetchReviews(ctx context.Context, rooms []models.Room) map[string][]models.Review {
	limit := c.deps.ReviewConcurrency
	if limit <= 0 {
		limit = defaultReviewConcurrency
	}
	logger := c.deps.logger()

	var mu sync.Mutex
	byRoom := make(map[string][]models.Review, len(rooms))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, room := range rooms {
		g.Go(func() error {
			rs, err := c.deps.API.ListReviews(gctx, room.ID)
			if err != nil {
				logger.Warn("catalog: review fetch failed", zap.String("room", room.ID), zap.Error(err))
				rs = nil
			}
			mu.Lock()
			byRoom[room.ID] = rs
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return byRoom
}
