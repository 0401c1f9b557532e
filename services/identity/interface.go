package identity

import (
	"context"
	"time"

	"stayease/models"
)

// Credential is what the identity provider hands back after a successful sign-in.
type Credential struct {
	User         models.UserIdentity
	IDToken      string
	RefreshToken string
	ExpiresAt    time.Time
}

// Expired reports whether the ID token is past its expiry at now.
func (c *Credential) Expired(now time.Time) bool {
	return c != nil && !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// Provider is the external identity service. Implementations never retry.
type Provider interface {
	SignInWithPassword(ctx context.Context, email, password string) (*Credential, error)
	// SignInWithFederated runs an interactive flow and may block until the user finishes
	// it elsewhere. A user cancellation returns ErrCancelled.
	SignInWithFederated(ctx context.Context) (*Credential, error)
	CreateAccount(ctx context.Context, email, password string) (*Credential, error)
	UpdateProfile(ctx context.Context, cred *Credential, displayName, photoURL string) (*Credential, error)
	Refresh(ctx context.Context, cred *Credential) (*Credential, error)
	SignOut(ctx context.Context, cred *Credential) error
	// CurrentUser restores a previously signed-in user, or returns nil when there is none.
	CurrentUser(ctx context.Context) (*Credential, error)
}

// FederatedFlow obtains a third-party ID token through user interaction.
type FederatedFlow interface {
	Authorize(ctx context.Context) (idToken string, err error)
	ProviderID() string
}
