package views

import (
	"context"
	"errors"
	"sync"
	"time"

	"stayease/models"
	"stayease/services/api"
	"stayease/services/notify"
	"stayease/services/session"
)

var errUnavailable = &api.StatusError{Method: "GET", Path: "/api/reviews", Status: 503, Body: "unavailable"}

type fakeAPI struct {
	mu sync.Mutex

	rooms        []models.Room
	reviews      map[string][]models.Review // by room id
	bookings     map[string][]models.Booking
	failReviews  map[string]bool
	reviewCalls  map[string]int
	bookingCalls int
	created      []models.BookingInput
	posted       []models.ReviewInput
	cancelled    []string

	// reviewsFetched runs after each ListReviews call, outside the lock.
	reviewsFetched func(roomID string)
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		reviews:     map[string][]models.Review{},
		bookings:    map[string][]models.Booking{},
		failReviews: map[string]bool{},
		reviewCalls: map[string]int{},
	}
}

func (f *fakeAPI) ReviewCalls(roomID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reviewCalls[roomID]
}

func (f *fakeAPI) ListRooms(_ context.Context, filter models.RoomFilter) ([]models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Room
	for _, r := range f.rooms {
		if filter.MinPrice != nil && r.Price < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && r.Price > *filter.MaxPrice {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeAPI) GetRoom(_ context.Context, id string) (*models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rooms {
		if r.ID == id {
			room := r
			return &room, nil
		}
	}
	return nil, &api.StatusError{Method: "GET", Path: "/api/rooms/" + id, Status: 404, Body: "not found"}
}

func (f *fakeAPI) ListReviews(_ context.Context, roomID string) ([]models.Review, error) {
	rs, err := f.listReviews(roomID)
	if f.reviewsFetched != nil {
		f.reviewsFetched(roomID)
	}
	return rs, err
}

func (f *fakeAPI) listReviews(roomID string) ([]models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reviewCalls[roomID]++
	if f.failReviews[roomID] {
		return nil, errUnavailable
	}
	if roomID != "" {
		return append([]models.Review(nil), f.reviews[roomID]...), nil
	}
	var all []models.Review
	for _, rs := range f.reviews {
		all = append(all, rs...)
	}
	return all, nil
}

// publishOnFirstFetch posts a reviews signal while the first review fetch is still in flight.
func publishOnFirstFetch(a *fakeAPI, bus *notify.Bus, roomID string) {
	var once sync.Once
	a.reviewsFetched = func(id string) {
		if id != roomID {
			return
		}
		once.Do(func() {
			bus.Publish(notify.Signal{Topic: notify.TopicReviewsUpdated, SubjectID: roomID})
			time.Sleep(20 * time.Millisecond)
		})
	}
}

func (f *fakeAPI) CreateReview(_ context.Context, in models.ReviewInput) (*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posted = append(f.posted, in)
	r := models.Review{ID: "rv-new", RoomID: in.RoomID, Reviewer: in.Reviewer, Rating: in.Rating, Text: in.Text, Timestamp: in.Timestamp}
	f.reviews[in.RoomID] = append(f.reviews[in.RoomID], r)
	return &r, nil
}

func (f *fakeAPI) ListBookings(_ context.Context, email string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookingCalls++
	return append([]models.Booking{}, f.bookings[email]...), nil
}

func (f *fakeAPI) CreateBooking(_ context.Context, in models.BookingInput) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, in)
	b := models.Booking{ID: "b-new", RoomID: in.RoomID, RoomName: in.RoomName, Price: in.Price, Email: in.Email, Date: in.Date}
	f.bookings[in.Email] = append(f.bookings[in.Email], b)
	return &b, nil
}

func (f *fakeAPI) UpdateBookingDate(_ context.Context, id string, date time.Time) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for email, list := range f.bookings {
		for i := range list {
			if list[i].ID == id {
				list[i].Date = date
				f.bookings[email] = list
				b := list[i]
				return &b, nil
			}
		}
	}
	return nil, &api.StatusError{Method: "PATCH", Path: "/api/bookings/" + id, Status: 404}
}

func (f *fakeAPI) CancelBooking(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, id)
	for email, list := range f.bookings {
		kept := list[:0]
		for _, b := range list {
			if b.ID != id {
				kept = append(kept, b)
			}
		}
		f.bookings[email] = kept
	}
	return nil
}

func (f *fakeAPI) ExchangeToken(context.Context, string) (string, error) {
	return "", errors.New("not used")
}

type fakeSession struct {
	mu        sync.Mutex
	current   models.Session
	listeners map[int]session.Listener
	next      int
}

func signedIn(email, name string) *fakeSession {
	return &fakeSession{
		current: models.Session{
			Status:   models.SessionAuthenticated,
			Identity: &models.UserIdentity{ID: "u1", Email: email, DisplayName: name},
		},
		listeners: map[int]session.Listener{},
	}
}

func anonymous() *fakeSession {
	return &fakeSession{current: models.Session{Status: models.SessionAnonymous}, listeners: map[int]session.Listener{}}
}

func (f *fakeSession) Current() models.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *fakeSession) OnSessionChange(h session.Listener) func() {
	f.mu.Lock()
	id := f.next
	f.next++
	f.listeners[id] = h
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		delete(f.listeners, id)
		f.mu.Unlock()
	}
}

func (f *fakeSession) set(s models.Session) {
	f.mu.Lock()
	f.current = s
	hs := make([]session.Listener, 0, len(f.listeners))
	for _, h := range f.listeners {
		hs = append(hs, h)
	}
	f.mu.Unlock()
	for _, h := range hs {
		h(s)
	}
}

var testNow = time.Date(2030, 6, 10, 9, 0, 0, 0, time.UTC)

func testDeps(a *fakeAPI, s SessionReader) Deps {
	return Deps{
		API:     a,
		Bus:     notify.NewBus(nil),
		Session: s,
		Now:     func() time.Time { return testNow },
	}
}

func review(room, reviewer string, rating float64, at time.Time) models.Review {
	return models.Review{ID: reviewer + "-" + room, RoomID: room, Reviewer: reviewer, Rating: rating, Text: "nice", Timestamp: at}
}
