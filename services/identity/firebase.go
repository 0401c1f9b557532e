package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"stayease/models"
	"stayease/services/tokenstore"

	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	identitytoolkit "google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

// refreshTokenKey is where the Firebase refresh token is persisted between runs.
const refreshTokenKey = "stayEase-firebase-refresh"

// FirebaseConfig configures FirebaseProvider.
type FirebaseConfig struct {
	APIKey          string
	SecureTokenURL  string
	ClientOptions   []option.ClientOption
	Admin           *auth.Client     // optional; enables token verification and revocation
	Federated       FederatedFlow    // optional
	Persist         tokenstore.Store // optional; keeps the refresh token across restarts
	Now             func() time.Time
	OAuthHTTPClient *http.Client
}

// FirebaseProvider signs users in through the Firebase Identity Toolkit API.
type FirebaseProvider struct {
	svc        *identitytoolkit.Service
	apiKey     string
	refreshURL string
	admin      *auth.Client
	federated  FederatedFlow
	persist    tokenstore.Store
	now        func() time.Time
	httpClient *http.Client
	logger     *zap.Logger

	mu      sync.Mutex
	current *Credential
}

func NewFirebaseProvider(ctx context.Context, cfg FirebaseConfig, logger *zap.Logger) (*FirebaseProvider, error) {
	opts := cfg.ClientOptions
	if cfg.APIKey != "" {
		opts = append([]option.ClientOption{option.WithAPIKey(cfg.APIKey)}, opts...)
	}
	svc, err := identitytoolkit.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("identity: init identity toolkit: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &FirebaseProvider{
		svc:        svc,
		apiKey:     cfg.APIKey,
		refreshURL: cfg.SecureTokenURL,
		admin:      cfg.Admin,
		federated:  cfg.Federated,
		persist:    cfg.Persist,
		now:        now,
		httpClient: cfg.OAuthHTTPClient,
		logger:     logger,
	}, nil
}

func (p *FirebaseProvider) SignInWithPassword(ctx context.Context, email, password string) (*Credential, error) {
	resp, err := p.svc.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return nil, wrapError("signInWithPassword", err)
	}
	cred := p.credential(resp.LocalId, resp.Email, resp.DisplayName, resp.PhotoUrl, resp.IdToken, resp.RefreshToken, resp.ExpiresIn)
	return p.accept(ctx, cred)
}

func (p *FirebaseProvider) SignInWithFederated(ctx context.Context) (*Credential, error) {
	if p.federated == nil {
		return nil, &ProviderError{Op: "signInWithFederated", Message: "Google sign-in is not available.", Err: ErrFederatedUnavailable}
	}
	idToken, err := p.federated.Authorize(ctx)
	if err != nil {
		if errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled) {
			return nil, ErrCancelled
		}
		return nil, wrapError("signInWithFederated", err)
	}
	resp, err := p.svc.Relyingparty.VerifyAssertion(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyAssertionRequest{
		PostBody:          "id_token=" + idToken + "&providerId=" + p.federated.ProviderID(),
		RequestUri:        "http://localhost",
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return nil, wrapError("signInWithFederated", err)
	}
	if resp.ErrorMessage != "" {
		return nil, &ProviderError{Op: "signInWithFederated", Message: resp.ErrorMessage}
	}
	cred := p.credential(resp.LocalId, resp.Email, resp.DisplayName, resp.PhotoUrl, resp.IdToken, resp.RefreshToken, resp.ExpiresIn)
	return p.accept(ctx, cred)
}

func (p *FirebaseProvider) CreateAccount(ctx context.Context, email, password string) (*Credential, error) {
	resp, err := p.svc.Relyingparty.SignupNewUser(&identitytoolkit.IdentitytoolkitRelyingpartySignupNewUserRequest{
		Email:    email,
		Password: password,
	}).Context(ctx).Do()
	if err != nil {
		return nil, wrapError("createAccount", err)
	}
	cred := p.credential(resp.LocalId, resp.Email, resp.DisplayName, "", resp.IdToken, resp.RefreshToken, resp.ExpiresIn)
	return p.accept(ctx, cred)
}

func (p *FirebaseProvider) UpdateProfile(ctx context.Context, cred *Credential, displayName, photoURL string) (*Credential, error) {
	if cred == nil {
		return nil, &ProviderError{Op: "updateProfile", Message: "Please sign in first."}
	}
	resp, err := p.svc.Relyingparty.SetAccountInfo(&identitytoolkit.IdentitytoolkitRelyingpartySetAccountInfoRequest{
		IdToken:           cred.IDToken,
		DisplayName:       displayName,
		PhotoUrl:          photoURL,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return nil, wrapError("updateProfile", err)
	}
	updated := *cred
	updated.User.DisplayName = displayName
	updated.User.PhotoURL = photoURL
	if resp.IdToken != "" {
		updated.IDToken = resp.IdToken
		updated.ExpiresAt = p.expiry(resp.ExpiresIn)
	}
	if resp.RefreshToken != "" {
		updated.RefreshToken = resp.RefreshToken
	}
	return p.accept(ctx, &updated)
}

// Refresh exchanges the refresh token for a new ID token at the secure token endpoint,
// which speaks the OAuth2 refresh grant.
func (p *FirebaseProvider) Refresh(ctx context.Context, cred *Credential) (*Credential, error) {
	if cred == nil || cred.RefreshToken == "" {
		return nil, &ProviderError{Op: "refresh", Code: "INVALID_REFRESH_TOKEN", Message: firebaseMessages["INVALID_REFRESH_TOKEN"]}
	}
	if p.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	}
	conf := &oauth2.Config{
		Endpoint: oauth2.Endpoint{
			TokenURL:  p.refreshURL + "?key=" + p.apiKey,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	tok, err := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: cred.RefreshToken}).Token()
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && strings.Contains(string(re.Body), "TOKEN_EXPIRED") {
			return nil, &ProviderError{Op: "refresh", Code: "TOKEN_EXPIRED", Message: firebaseMessages["TOKEN_EXPIRED"], Err: err}
		}
		return nil, wrapError("refresh", err)
	}
	refreshed := *cred
	if idToken, ok := tok.Extra("id_token").(string); ok && idToken != "" {
		refreshed.IDToken = idToken
	} else {
		refreshed.IDToken = tok.AccessToken
	}
	if tok.RefreshToken != "" {
		refreshed.RefreshToken = tok.RefreshToken
	}
	refreshed.ExpiresAt = tok.Expiry
	return p.accept(ctx, &refreshed)
}

// SignOut forgets the local credential. With admin credentials it also revokes the
// user's refresh tokens so other copies of them stop working.
func (p *FirebaseProvider) SignOut(ctx context.Context, cred *Credential) error {
	p.mu.Lock()
	p.current = nil
	p.mu.Unlock()

	var errs []error
	if p.persist != nil {
		if err := p.persist.Delete(ctx, refreshTokenKey); err != nil {
			errs = append(errs, fmt.Errorf("forget refresh token: %w", err))
		}
	}
	if p.admin != nil && cred != nil && cred.User.ID != "" {
		if err := p.admin.RevokeRefreshTokens(ctx, cred.User.ID); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return wrapError("signOut", err)
	}
	return nil
}

// CurrentUser restores the session from a persisted refresh token, the way the browser
// SDK restores a signed-in user on page load.
func (p *FirebaseProvider) CurrentUser(ctx context.Context) (*Credential, error) {
	p.mu.Lock()
	current := p.current
	p.mu.Unlock()
	if current != nil {
		return current, nil
	}
	if p.persist == nil {
		return nil, nil
	}
	refreshToken, err := p.persist.Get(ctx, refreshTokenKey)
	if errors.Is(err, tokenstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("identity: read refresh token: %w", err)
	}

	cred, err := p.Refresh(ctx, &Credential{RefreshToken: refreshToken})
	if err != nil {
		p.logger.Info("identity: stored session could not be restored", zap.Error(err))
		_ = p.persist.Delete(ctx, refreshTokenKey)
		return nil, nil
	}
	resp, err := p.svc.Relyingparty.GetAccountInfo(&identitytoolkit.IdentitytoolkitRelyingpartyGetAccountInfoRequest{
		IdToken: cred.IDToken,
	}).Context(ctx).Do()
	if err != nil {
		return nil, wrapError("currentUser", err)
	}
	if len(resp.Users) == 0 {
		return nil, nil
	}
	u := resp.Users[0]
	cred.User = models.UserIdentity{ID: u.LocalId, Email: u.Email, DisplayName: u.DisplayName, PhotoURL: u.PhotoUrl}
	return p.accept(ctx, cred)
}

func (p *FirebaseProvider) credential(uid, email, name, photo, idToken, refreshToken string, expiresIn int64) *Credential {
	return &Credential{
		User: models.UserIdentity{
			ID:          uid,
			DisplayName: name,
			Email:       email,
			PhotoURL:    photo,
		},
		IDToken:      idToken,
		RefreshToken: refreshToken,
		ExpiresAt:    p.expiry(expiresIn),
	}
}

func (p *FirebaseProvider) expiry(expiresIn int64) time.Time {
	if expiresIn <= 0 {
		return time.Time{}
	}
	return p.now().Add(time.Duration(expiresIn) * time.Second)
}

// accept verifies the ID token when admin credentials are available, then records the
// credential as current.
func (p *FirebaseProvider) accept(ctx context.Context, cred *Credential) (*Credential, error) {
	if p.admin != nil && cred.IDToken != "" {
		tok, err := p.admin.VerifyIDToken(ctx, cred.IDToken)
		if err != nil {
			return nil, wrapError("verifyIDToken", err)
		}
		if cred.User.ID == "" {
			cred.User.ID = tok.UID
		}
	}
	p.mu.Lock()
	p.current = cred
	p.mu.Unlock()

	if p.persist != nil && cred.RefreshToken != "" {
		if err := p.persist.Set(ctx, refreshTokenKey, cred.RefreshToken); err != nil {
			p.logger.Warn("identity: could not persist refresh token", zap.Error(err))
		}
	}
	return cred, nil
}
