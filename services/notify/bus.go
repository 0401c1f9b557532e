// Package notify carries refresh signals between views that do not know about each other.
package notify

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Topic names a kind of server-side change.
type Topic string

// TopicReviewsUpdated is emitted after a review submission succeeds.
const TopicReviewsUpdated Topic = "reviews:updated"

// Signal marks data under Topic as stale. SubjectID names the affected room when known;
// current receivers refetch their whole working set regardless.
type Signal struct {
	Topic     Topic  `json:"topic"`
	SubjectID string `json:"subjectId,omitempty"`
}

// Handler reacts to a signal, typically by refetching.
type Handler func(Signal)

// Bus is an in-process publish/subscribe channel that lives as long as the application.
type Bus struct {
	mu     sync.RWMutex
	subs   map[Topic]map[string]*Subscription
	logger *zap.Logger
}

func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		subs:   make(map[Topic]map[string]*Subscription),
		logger: logger,
	}
}

// Subscription is one mounted receiver. Each has its own delivery goroutine and a
// one-slot buffer, so a burst of signals may coalesce into a single handler call.
type Subscription struct {
	ID    string
	topic Topic
	bus   *Bus

	pending chan Signal
	done    chan struct{}
	stopped chan struct{}

	// mu is held while the handler runs; Unsubscribe takes it to wait out an
	// in-flight call so nothing is delivered after it returns.
	mu     sync.Mutex
	closed bool
	once   sync.Once
}

// Subscribe registers handler for topic until Unsubscribe is called.
func (b *Bus) Subscribe(topic Topic, handler Handler) *Subscription {
	s := &Subscription{
		ID:      uuid.NewString(),
		topic:   topic,
		bus:     b,
		pending: make(chan Signal, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}

	b.mu.Lock()
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[string]*Subscription)
	}
	b.subs[topic][s.ID] = s
	b.mu.Unlock()

	go s.run(handler)
	b.logger.Debug("notify: subscribed", zap.String("topic", string(topic)), zap.String("subscription", s.ID))
	return s
}

// Publish delivers sig to every current subscriber of sig.Topic without blocking.
func (b *Bus) Publish(sig Signal) {
	b.mu.RLock()
	targets := make([]*Subscription, 0, len(b.subs[sig.Topic]))
	for _, s := range b.subs[sig.Topic] {
		targets = append(targets, s)
	}
	b.mu.RUnlock()

	for _, s := range targets {
		s.offer(sig)
	}
	b.logger.Debug("notify: published",
		zap.String("topic", string(sig.Topic)),
		zap.String("subject", sig.SubjectID),
		zap.Int("receivers", len(targets)))
}

// Subscribers returns the number of live subscriptions for topic.
func (b *Bus) Subscribers(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}

func (s *Subscription) offer(sig Signal) {
	select {
	case s.pending <- sig:
	default:
		// A refetch is already queued; it will observe this change too.
	}
}

func (s *Subscription) run(handler Handler) {
	defer close(s.stopped)
	for {
		select {
		case <-s.done:
			return
		case sig := <-s.pending:
			s.mu.Lock()
			if !s.closed {
				handler(sig)
			}
			s.mu.Unlock()
		}
	}
}

// Unsubscribe removes the subscription. Once it returns the handler is not running and
// will not be called again. It is safe to call more than once, but not from inside the
// subscription's own handler.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.bus.mu.Lock()
		delete(s.bus.subs[s.topic], s.ID)
		if len(s.bus.subs[s.topic]) == 0 {
			delete(s.bus.subs, s.topic)
		}
		s.bus.mu.Unlock()

		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		close(s.done)
		<-s.stopped
		s.bus.logger.Debug("notify: unsubscribed", zap.String("topic", string(s.topic)), zap.String("subscription", s.ID))
	})
}
