package utils

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Checks    map[string]bool `json:"checks"`
	CheckedAt time.Time       `json:"checkedAt"`
}

// Healthy reports whether every check passed.
func (h HealthStatus) Healthy() bool {
	for _, ok := range h.Checks {
		if !ok {
			return false
		}
	}
	return true
}

var (
	currentHealth = HealthStatus{Checks: map[string]bool{}}
	healthMu      sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	healthMu.RLock()
	defer healthMu.RUnlock()
	out := HealthStatus{Checks: make(map[string]bool, len(currentHealth.Checks)), CheckedAt: currentHealth.CheckedAt}
	for k, v := range currentHealth.Checks {
		out.Checks[k] = v
	}
	return out
}

// RunHealthChecks runs every check once and stores the result.
func RunHealthChecks(ctx context.Context, checks map[string]HealthCheck) HealthStatus {
	results := make(map[string]bool, len(checks))
	for name, check := range checks {
		checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := check(checkCtx)
		cancel()
		if err != nil {
			GetLogger().Warn("Health check failed", zap.String("check", name), zap.Error(err))
		}
		results[name] = err == nil
	}

	healthMu.Lock()
	currentHealth = HealthStatus{Checks: results, CheckedAt: time.Now()}
	healthMu.Unlock()
	return GetHealthStatus()
}

// StartHealthMonitor performs periodic health checks until ctx ends.
func StartHealthMonitor(ctx context.Context, checks map[string]HealthCheck, every time.Duration) {
	RunHealthChecks(ctx, checks)
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				RunHealthChecks(ctx, checks)
			}
		}
	}()
}
