package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"stayease/services/api"
	"stayease/services/booking"
	"stayease/services/identity"
	"stayease/services/session"
	"stayease/utils"
	"stayease/views"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionService is what the handlers need from the session store.
type SessionService interface {
	views.SessionReader
	SignInWithCredentials(ctx context.Context, email, password string) error
	SignInWithFederatedProvider(ctx context.Context) error
	RegisterAccount(ctx context.Context, email, password, displayName, photoURL string) error
	SignOut(ctx context.Context) error
	ExpireIfStale(ctx context.Context, now time.Time) bool
}

// Handler serves the views to the UI shell. Every request builds fresh views; nothing is
// cached between requests.
type Handler struct {
	deps     views.Deps
	sessions SessionService
	health   func() utils.HealthStatus
	logger   *zap.Logger
}

func NewHandler(deps views.Deps, sessions SessionService, health func() utils.HealthStatus, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if health == nil {
		health = utils.GetHealthStatus
	}
	return &Handler{deps: deps, sessions: sessions, health: health, logger: logger}
}

// Health reports the last dependency check.
func (h *Handler) Health(c *gin.Context) {
	status := h.health()
	code := http.StatusOK
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}

// respondError maps a view or session error to a status and the shared error body.
func respondError(c *gin.Context, err error) {
	var (
		validation *session.ValidationError
		provider   *identity.ProviderError
		status     *api.StatusError
	)
	switch {
	case errors.Is(err, views.ErrLoginRequired), errors.Is(err, session.ErrNotAuthenticated):
		utils.JSONRedirectError(c, http.StatusUnauthorized, err.Error(), views.LoginPath)
	case errors.As(err, &validation):
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", strings.Join(validation.Problems, "; "))
	case booking.IsRuleViolation(err):
		utils.JSONError(c, http.StatusBadRequest, err.Error(), "")
	case errors.Is(err, views.ErrAlreadyBooked):
		utils.JSONError(c, http.StatusConflict, err.Error(), "")
	case errors.Is(err, views.ErrBookingNotFound):
		utils.JSONError(c, http.StatusNotFound, err.Error(), "")
	case errors.Is(err, identity.ErrFederatedUnavailable):
		utils.JSONError(c, http.StatusServiceUnavailable, err.Error(), "")
	case errors.As(err, &provider):
		utils.JSONError(c, http.StatusUnauthorized, provider.Error(), provider.Code)
	case errors.As(err, &status) && status.Status == http.StatusNotFound:
		utils.JSONError(c, http.StatusNotFound, "Not found", status.Path)
	case api.IsAPIError(err):
		utils.JSONError(c, http.StatusBadGateway, "Booking service unavailable", err.Error())
	case errors.Is(err, context.Canceled):
		c.Abort()
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", err.Error())
	}
}

// bindJSON decodes the body, answering 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return false
	}
	return true
}

// parseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates. Blank input is the zero
// time, which the booking rules reject.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, &session.ValidationError{Field: "date", Problems: []string{"date must be YYYY-MM-DD"}}
	}
	return t, nil
}
