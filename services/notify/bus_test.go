package notify

import (
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, ch <-chan Signal) Signal {
	t.Helper()
	select {
	case sig := <-ch:
		return sig
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for signal")
		return Signal{}
	}
}

func TestMountedSubscriberRefetchesExactlyOnce(t *testing.T) {
	bus := NewBus(nil)
	var calls atomic.Int32
	got := make(chan Signal, 4)
	sub := bus.Subscribe(TopicReviewsUpdated, func(sig Signal) {
		calls.Add(1)
		got <- sig
	})
	defer sub.Unsubscribe()

	bus.Publish(Signal{Topic: TopicReviewsUpdated, SubjectID: "room-1"})

	sig := waitFor(t, got)
	if sig.SubjectID != "room-1" {
		t.Fatalf("SubjectID = %q", sig.SubjectID)
	}
	// Give a stray duplicate delivery the chance to show up.
	time.Sleep(50 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Fatalf("handler calls = %d, want 1", n)
	}
}

func TestUnsubscribedReceiverGetsNothing(t *testing.T) {
	bus := NewBus(nil)
	var calls atomic.Int32
	sub := bus.Subscribe(TopicReviewsUpdated, func(Signal) { calls.Add(1) })
	sub.Unsubscribe()
	sub.Unsubscribe()

	bus.Publish(Signal{Topic: TopicReviewsUpdated})
	time.Sleep(50 * time.Millisecond)

	if n := calls.Load(); n != 0 {
		t.Fatalf("handler calls = %d, want 0", n)
	}
	if n := bus.Subscribers(TopicReviewsUpdated); n != 0 {
		t.Fatalf("Subscribers = %d", n)
	}
}

func TestOtherTopicsAreIgnored(t *testing.T) {
	bus := NewBus(nil)
	var calls atomic.Int32
	sub := bus.Subscribe(TopicReviewsUpdated, func(Signal) { calls.Add(1) })
	defer sub.Unsubscribe()

	bus.Publish(Signal{Topic: "bookings:updated"})
	time.Sleep(50 * time.Millisecond)
	if n := calls.Load(); n != 0 {
		t.Fatalf("handler calls = %d, want 0", n)
	}
}

func TestBurstCoalescesWhileHandlerBusy(t *testing.T) {
	bus := NewBus(nil)
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	var calls atomic.Int32
	sub := bus.Subscribe(TopicReviewsUpdated, func(Signal) {
		calls.Add(1)
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
	})
	defer sub.Unsubscribe()

	bus.Publish(Signal{Topic: TopicReviewsUpdated})
	<-started
	for i := 0; i < 5; i++ {
		bus.Publish(Signal{Topic: TopicReviewsUpdated})
	}
	close(release)

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)
	if n := calls.Load(); n != 2 {
		t.Fatalf("handler calls = %d, want 2 (one in flight, one coalesced)", n)
	}
}

func TestUnsubscribeWaitsForInFlightHandler(t *testing.T) {
	bus := NewBus(nil)
	entered := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool
	sub := bus.Subscribe(TopicReviewsUpdated, func(Signal) {
		close(entered)
		<-release
		finished.Store(true)
	})

	bus.Publish(Signal{Topic: TopicReviewsUpdated})
	<-entered

	done := make(chan struct{})
	go func() {
		sub.Unsubscribe()
		close(done)
	}()
	select {
	case <-done:
		t.Fatal("Unsubscribe returned while handler was running")
	case <-time.After(30 * time.Millisecond):
	}
	close(release)
	<-done
	if !finished.Load() {
		t.Fatal("handler did not finish before Unsubscribe returned")
	}
}
