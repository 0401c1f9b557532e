package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"stayease/services/tokenstore"

	"google.golang.org/api/option"
)

type fakeToolkit struct {
	t     *testing.T
	calls map[string]int
}

func (f *fakeToolkit) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.calls[r.URL.Path]++
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	w.Header().Set("Content-Type", "application/json")

	switch {
	case strings.HasSuffix(r.URL.Path, "/relyingparty/verifyPassword"):
		if body["password"] != "Secret1" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":400,"message":"INVALID_LOGIN_CREDENTIALS","errors":[{"message":"INVALID_LOGIN_CREDENTIALS","reason":"invalid"}]}}`))
			return
		}
		_, _ = w.Write([]byte(`{"localId":"uid-1","email":"guest@example.com","displayName":"Guest","idToken":"id-1","refreshToken":"rt-1","expiresIn":"3600","registered":true}`))
	case strings.HasSuffix(r.URL.Path, "/relyingparty/signupNewUser"):
		_, _ = w.Write([]byte(`{"localId":"uid-2","email":"new@example.com","idToken":"id-2","refreshToken":"rt-2","expiresIn":"3600"}`))
	case strings.HasSuffix(r.URL.Path, "/relyingparty/setAccountInfo"):
		if body["idToken"] != "id-2" {
			f.t.Errorf("setAccountInfo idToken = %v", body["idToken"])
		}
		_, _ = w.Write([]byte(`{"localId":"uid-2","email":"new@example.com","displayName":"New Guest","idToken":"id-3","refreshToken":"rt-3","expiresIn":"3600"}`))
	case strings.HasSuffix(r.URL.Path, "/relyingparty/getAccountInfo"):
		_, _ = w.Write([]byte(`{"users":[{"localId":"uid-1","email":"guest@example.com","displayName":"Guest"}]}`))
	case r.URL.Path == "/token":
		_ = r.ParseForm()
		if r.Form.Get("grant_type") != "refresh_token" || r.Form.Get("refresh_token") != "rt-1" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"message":"INVALID_REFRESH_TOKEN"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"id-9","expires_in":"3600","token_type":"Bearer","refresh_token":"rt-1","id_token":"id-9","user_id":"uid-1"}`))
	default:
		f.t.Errorf("unexpected request %s", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestProvider(t *testing.T, persist tokenstore.Store) (*FirebaseProvider, *fakeToolkit) {
	t.Helper()
	fake := &fakeToolkit{t: t, calls: map[string]int{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	p, err := NewFirebaseProvider(context.Background(), FirebaseConfig{
		SecureTokenURL: srv.URL + "/token",
		ClientOptions: []option.ClientOption{
			option.WithEndpoint(srv.URL + "/"),
			option.WithHTTPClient(srv.Client()),
		},
		Persist:         persist,
		Now:             func() time.Time { return now },
		OAuthHTTPClient: srv.Client(),
	}, nil)
	if err != nil {
		t.Fatalf("NewFirebaseProvider: %v", err)
	}
	return p, fake
}

func TestSignInWithPassword(t *testing.T) {
	p, _ := newTestProvider(t, nil)

	cred, err := p.SignInWithPassword(context.Background(), "guest@example.com", "Secret1")
	if err != nil {
		t.Fatalf("SignInWithPassword: %v", err)
	}
	if cred.User.Email != "guest@example.com" || cred.User.ID != "uid-1" || cred.IDToken != "id-1" {
		t.Fatalf("cred = %+v", cred)
	}
	want := time.Date(2030, 1, 1, 13, 0, 0, 0, time.UTC)
	if !cred.ExpiresAt.Equal(want) {
		t.Fatalf("ExpiresAt = %v, want %v", cred.ExpiresAt, want)
	}
	if cur, _ := p.CurrentUser(context.Background()); cur != cred {
		t.Fatal("CurrentUser does not return the signed-in credential")
	}
}

func TestSignInWithPasswordReportsReadableError(t *testing.T) {
	p, _ := newTestProvider(t, nil)

	_, err := p.SignInWithPassword(context.Background(), "guest@example.com", "wrong")
	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *ProviderError", err)
	}
	if pe.Code != "INVALID_LOGIN_CREDENTIALS" || pe.Error() != "Invalid email or password." {
		t.Fatalf("provider error = %+v", pe)
	}
}

func TestCreateAccountThenUpdateProfile(t *testing.T) {
	p, _ := newTestProvider(t, nil)
	ctx := context.Background()

	cred, err := p.CreateAccount(ctx, "new@example.com", "Secret1")
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	updated, err := p.UpdateProfile(ctx, cred, "New Guest", "https://example.com/me.png")
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.User.DisplayName != "New Guest" || updated.User.PhotoURL != "https://example.com/me.png" {
		t.Fatalf("profile = %+v", updated.User)
	}
	if updated.IDToken != "id-3" || updated.RefreshToken != "rt-3" {
		t.Fatalf("tokens not rotated: %+v", updated)
	}
}

func TestCurrentUserRestoresPersistedSession(t *testing.T) {
	store, err := tokenstore.NewFileStore(filepath.Join(t.TempDir(), "storage.json"))
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set(context.Background(), refreshTokenKey, "rt-1"); err != nil {
		t.Fatal(err)
	}
	p, _ := newTestProvider(t, store)

	cred, err := p.CurrentUser(context.Background())
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if cred == nil || cred.User.Email != "guest@example.com" || cred.IDToken != "id-9" {
		t.Fatalf("cred = %+v", cred)
	}
}

func TestSignOutForgetsPersistedSession(t *testing.T) {
	store, err := tokenstore.NewFileStore(filepath.Join(t.TempDir(), "storage.json"))
	if err != nil {
		t.Fatal(err)
	}
	p, _ := newTestProvider(t, store)
	ctx := context.Background()

	cred, err := p.SignInWithPassword(ctx, "guest@example.com", "Secret1")
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := store.Get(ctx, refreshTokenKey); v != "rt-1" {
		t.Fatalf("persisted refresh token = %q", v)
	}
	if err := p.SignOut(ctx, cred); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if _, err := store.Get(ctx, refreshTokenKey); !errors.Is(err, tokenstore.ErrNotFound) {
		t.Fatalf("refresh token still stored: %v", err)
	}
	if cur, _ := p.CurrentUser(ctx); cur != nil {
		t.Fatalf("CurrentUser after SignOut = %+v", cur)
	}
}

type stubFlow struct {
	token string
	err   error
}

func (s stubFlow) Authorize(context.Context) (string, error) { return s.token, s.err }
func (s stubFlow) ProviderID() string                         { return "google.com" }

func TestFederatedCancellation(t *testing.T) {
	p, fake := newTestProvider(t, nil)
	p.federated = stubFlow{err: ErrCancelled}

	if _, err := p.SignInWithFederated(context.Background()); !errors.Is(err, ErrCancelled) {
		t.Fatalf("err = %v, want ErrCancelled", err)
	}
	for path := range fake.calls {
		if strings.Contains(path, "verifyAssertion") {
			t.Fatal("verifyAssertion called after cancellation")
		}
	}
}

func TestFederatedUnavailable(t *testing.T) {
	p, _ := newTestProvider(t, nil)
	_, err := p.SignInWithFederated(context.Background())
	if !errors.Is(err, ErrFederatedUnavailable) {
		t.Fatalf("err = %v", err)
	}
}
