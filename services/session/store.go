// Package session owns the application's single authentication state and mediates every
// interaction with the identity provider.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"stayease/config"
	"stayease/models"
	"stayease/services/identity"
	"stayease/services/tokenstore"
	"stayease/utils"

	"go.uber.org/zap"
)

// TokenExchanger trades a signed-in identity for an application authorization token.
type TokenExchanger interface {
	ExchangeToken(ctx context.Context, email string) (string, error)
}

// Listener observes session changes. It must not call back into the store's mutating
// methods.
type Listener func(models.Session)

// Store is the single writer of the Session value. Views read it and subscribe to it.
type Store struct {
	provider identity.Provider
	tokens   tokenstore.Store
	exchange TokenExchanger
	logger   *zap.Logger
	now      func() time.Time

	// emitMu serializes transitions end to end so listeners see them in order.
	emitMu sync.Mutex

	mu      sync.RWMutex
	session models.Session
	cred    *identity.Credential

	lmu       sync.Mutex
	listeners map[int]Listener
	nextID    int
}

func NewStore(provider identity.Provider, tokens tokenstore.Store, exchange TokenExchanger, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		provider:  provider,
		tokens:    tokens,
		exchange:  exchange,
		logger:    logger,
		now:       time.Now,
		session:   models.Session{Status: models.SessionLoading},
		listeners: make(map[int]Listener),
	}
}

// Current returns a snapshot of the session.
func (s *Store) Current() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot(s.session)
}

// OnSessionChange registers handler for every status or identity change and returns a
// function that removes it.
func (s *Store) OnSessionChange(handler Listener) (unsubscribe func()) {
	s.lmu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = handler
	s.lmu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.lmu.Lock()
			delete(s.listeners, id)
			s.lmu.Unlock()
		})
	}
}

// Init settles the initial loading status from whatever the provider can restore.
func (s *Store) Init(ctx context.Context) error {
	cred, err := s.provider.CurrentUser(ctx)
	if err != nil {
		s.logger.Warn("session: restore failed", zap.Error(err))
		s.becomeAnonymous(ctx)
		return err
	}
	if cred == nil {
		s.becomeAnonymous(ctx)
		return nil
	}
	s.becomeAuthenticated(ctx, cred)
	return nil
}

// SignInWithCredentials signs in with email and password. On failure the session is left
// as it was and the provider's message is returned.
func (s *Store) SignInWithCredentials(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return &ValidationError{Field: "credentials", Problems: []string{"email and password are required"}}
	}
	cred, err := s.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		s.logger.Info("session: sign-in rejected", zap.String("email", email), zap.Error(err))
		return err
	}
	s.becomeAuthenticated(ctx, cred)
	return nil
}

// SignInWithFederatedProvider runs the provider's interactive flow. A user cancellation
// is not an error and leaves the session untouched.
func (s *Store) SignInWithFederatedProvider(ctx context.Context) error {
	cred, err := s.provider.SignInWithFederated(ctx)
	if errors.Is(err, identity.ErrCancelled) {
		s.logger.Debug("session: federated sign-in cancelled")
		return nil
	}
	if err != nil {
		s.logger.Info("session: federated sign-in failed", zap.Error(err))
		return err
	}
	s.becomeAuthenticated(ctx, cred)
	return nil
}

// RegisterAccount validates the form locally, creates the account, sets its profile and
// signs the new user in.
func (s *Store) RegisterAccount(ctx context.Context, email, password, displayName, photoURL string) error {
	email = strings.TrimSpace(email)
	if err := ValidateRegistration(email, password, displayName); err != nil {
		return err
	}
	cred, err := s.provider.CreateAccount(ctx, email, password)
	if err != nil {
		return err
	}
	updated, err := s.provider.UpdateProfile(ctx, cred, strings.TrimSpace(displayName), strings.TrimSpace(photoURL))
	if err != nil {
		// The account exists and is signed in provider-side; only the profile is missing.
		s.logger.Warn("session: profile update after registration failed", zap.String("email", email), zap.Error(err))
	} else {
		cred = updated
	}
	s.becomeAuthenticated(ctx, cred)
	return nil
}

// SignOut clears the local session and the cached authorization token, then tells the
// provider. Local state is cleared even when the provider call fails.
func (s *Store) SignOut(ctx context.Context) error {
	s.mu.RLock()
	cred := s.cred
	s.mu.RUnlock()

	s.becomeAnonymous(ctx)

	if err := s.provider.SignOut(ctx, cred); err != nil {
		s.logger.Warn("session: provider sign-out failed", zap.Error(err))
		return err
	}
	return nil
}

// ExpireIfStale handles a provider-reported expiry: an ID token past its expiry is
// refreshed, and when that fails the session resets to anonymous. It reports whether the
// session was reset.
func (s *Store) ExpireIfStale(ctx context.Context, now time.Time) bool {
	s.mu.RLock()
	cred := s.cred
	s.mu.RUnlock()
	if !cred.Expired(now) {
		return false
	}

	refreshed, err := s.provider.Refresh(ctx, cred)
	if err == nil {
		s.mu.Lock()
		if s.cred == cred {
			s.cred = refreshed
		}
		s.mu.Unlock()
		return false
	}

	s.logger.Info("session: credential expired", zap.Error(err))
	s.mu.RLock()
	stillCurrent := s.cred == cred
	s.mu.RUnlock()
	if !stillCurrent {
		return false
	}
	s.becomeAnonymous(ctx)
	return true
}

// AuthToken returns the cached application token, or "" when none is cached.
func (s *Store) AuthToken(ctx context.Context) string {
	token, err := s.tokens.Get(ctx, config.TokenStorageKey)
	if err != nil {
		return ""
	}
	return token
}

func (s *Store) becomeAuthenticated(ctx context.Context, cred *identity.Credential) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	user := cred.User
	s.mu.Lock()
	s.cred = cred
	s.session = models.Session{Identity: &user, Status: models.SessionAuthenticated}
	current := snapshot(s.session)
	s.mu.Unlock()

	s.cacheAuthToken(ctx, user.Email)
	s.emit(current)
}

func (s *Store) becomeAnonymous(ctx context.Context) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	changed := s.session.Status != models.SessionAnonymous
	s.cred = nil
	s.session = models.Session{Status: models.SessionAnonymous}
	current := snapshot(s.session)
	s.mu.Unlock()

	if err := s.tokens.Delete(ctx, config.TokenStorageKey); err != nil {
		s.logger.Warn("session: failed to delete cached token", zap.Error(err))
	}
	if changed {
		s.emit(current)
	}
}

// cacheAuthToken exchanges the identity for an application token. A failed exchange
// leaves the user signed in without a token.
func (s *Store) cacheAuthToken(ctx context.Context, email string) {
	if s.exchange == nil {
		return
	}
	token, err := s.exchange.ExchangeToken(ctx, email)
	if err != nil {
		s.logger.Warn("session: token exchange failed", zap.String("email", email), zap.Error(err))
		return
	}
	if err := s.tokens.Set(ctx, config.TokenStorageKey, token); err != nil {
		s.logger.Warn("session: failed to cache token", zap.Error(fmt.Errorf("set %s: %w", config.TokenStorageKey, err)))
		return
	}
	s.logger.Debug("session: token cached", zap.String("fingerprint", utils.TokenFingerprint(token)))
}

func (s *Store) emit(current models.Session) {
	s.lmu.Lock()
	handlers := make([]Listener, 0, len(s.listeners))
	for _, h := range s.listeners {
		handlers = append(handlers, h)
	}
	s.lmu.Unlock()

	for _, h := range handlers {
		h(snapshot(current))
	}
}

func snapshot(sess models.Session) models.Session {
	if sess.Identity != nil {
		id := *sess.Identity
		sess.Identity = &id
	}
	return sess
}
