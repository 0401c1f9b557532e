package handlers

import (
	"io"
	"net/http"
	"time"

	"stayease/models"
	"stayease/services/notify"
	"stayease/views"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const eventKeepAlive = 25 * time.Second

type sseEvent struct {
	name string
	data any
}

// mountable is a view that stays live for the lifetime of a stream.
type mountable interface {
	Unmount()
}

// Events streams refresh signals and session changes as server-sent events. With
// ?view=home, ?view=room&id=..., or ?view=bookings the stream also mounts that view and
// pushes its refreshed state after every refetch. Everything is released on disconnect.
func (h *Handler) Events(c *gin.Context) {
	ctx := c.Request.Context()
	logger := requestLogger(c, h.logger)
	out := make(chan sseEvent, 16)
	push := func(ev sseEvent) {
		select {
		case out <- ev:
		default:
			logger.Debug("events: dropping event for slow client", zap.String("event", ev.name))
		}
	}

	sub := h.deps.Bus.Subscribe(notify.TopicReviewsUpdated, func(sig notify.Signal) {
		push(sseEvent{name: "signal", data: sig})
	})
	defer sub.Unsubscribe()

	unsubscribe := h.sessions.OnSessionChange(func(s models.Session) {
		push(sseEvent{name: "session", data: s})
	})
	defer unsubscribe()

	view, err := h.mountView(c, push)
	if err != nil {
		respondError(c, err)
		return
	}
	if view != nil {
		defer view.Unmount()
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	push(sseEvent{name: "ready", data: h.sessions.Current()})

	keepAlive := time.NewTicker(eventKeepAlive)
	defer keepAlive.Stop()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case ev := <-out:
			c.SSEvent(ev.name, ev.data)
			return true
		case now := <-keepAlive.C:
			c.SSEvent("ping", now.UTC().Format(time.RFC3339))
			return true
		}
	})
}

func (h *Handler) mountView(c *gin.Context, push func(sseEvent)) (mountable, error) {
	ctx := c.Request.Context()
	switch c.Query("view") {
	case "home":
		home := views.NewHome(h.deps)
		if err := home.Mount(ctx, func() { push(sseEvent{name: "home", data: home.Page()}) }); err != nil {
			return nil, err
		}
		push(sseEvent{name: "home", data: home.Page()})
		return home, nil
	case "room":
		detail := views.NewRoomDetail(h.deps, c.Query("id"))
		emit := func() {
			if page, ok := detail.Page(); ok {
				push(sseEvent{name: "room", data: page})
			}
		}
		if err := detail.Mount(ctx, emit); err != nil {
			return nil, err
		}
		emit()
		return detail, nil
	case "bookings":
		mine := views.NewMyBookings(h.deps)
		emit := func() { push(sseEvent{name: "bookings", data: mine.Bookings()}) }
		if err := mine.Mount(ctx, emit); err != nil {
			return nil, err
		}
		emit()
		return mine, nil
	default:
		return nil, nil
	}
}
