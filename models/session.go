package models

// SessionStatus is the client's authentication state.
type SessionStatus string

const (
	SessionLoading       SessionStatus = "loading"
	SessionAuthenticated SessionStatus = "authenticated"
	SessionAnonymous     SessionStatus = "anonymous"
)

// UserIdentity is the signed-in user as reported by the identity provider.
type UserIdentity struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photoUrl,omitempty"`
}

// Session is a snapshot of the session store. Identity is nil unless Status is authenticated.
type Session struct {
	Identity *UserIdentity `json:"identity,omitempty"`
	Status   SessionStatus `json:"status"`
}

// Authenticated reports whether the session carries a signed-in identity.
func (s Session) Authenticated() bool {
	return s.Status == SessionAuthenticated && s.Identity != nil
}

// TokenResponse is the body returned by the identity-token exchange.
type TokenResponse struct {
	Token string `json:"token" validate:"required"`
}
