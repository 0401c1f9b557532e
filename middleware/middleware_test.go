package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stayease/models"
	"stayease/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func ok(c *gin.Context) { c.Status(http.StatusNoContent) }

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(2))
	r.GET("/", ok)

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", ip+", 10.0.0.1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	for i := 0; i < 2; i++ {
		if code := send("192.0.2.1"); code != http.StatusNoContent {
			t.Fatalf("request %d: status %d", i, code)
		}
	}
	if code := send("192.0.2.1"); code != http.StatusTooManyRequests {
		t.Fatalf("third request: status %d", code)
	}
	if code := send("192.0.2.2"); code != http.StatusNoContent {
		t.Fatalf("other client limited: status %d", code)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(0))
	r.GET("/", ok)
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		if w.Code != http.StatusNoContent {
			t.Fatalf("status %d", w.Code)
		}
	}
}

type stubGuard struct {
	session models.Session
	checks  int
}

func (g *stubGuard) Current() models.Session { return g.session }

func (g *stubGuard) ExpireIfStale(context.Context, time.Time) bool {
	g.checks++
	return false
}

func TestRequireSession(t *testing.T) {
	tests := []struct {
		name    string
		session models.Session
		want    int
	}{
		{"anonymous", models.Session{Status: models.SessionAnonymous}, http.StatusUnauthorized},
		{"loading", models.Session{Status: models.SessionLoading}, http.StatusUnauthorized},
		{"signed in", models.Session{Status: models.SessionAuthenticated, Identity: &models.UserIdentity{Email: "a@b.c"}}, http.StatusNoContent},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			guard := &stubGuard{session: tc.session}
			r := gin.New()
			r.Use(RequireSession(guard))
			r.GET("/", ok)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d", w.Code, tc.want)
			}
			if guard.checks != 1 {
				t.Fatalf("ExpireIfStale called %d times", guard.checks)
			}
			if tc.want == http.StatusUnauthorized {
				var body utils.ErrorResponse
				_ = json.Unmarshal(w.Body.Bytes(), &body)
				if body.Redirect != "/login" {
					t.Fatalf("body = %+v", body)
				}
			}
		})
	}
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()))
	r.GET("/", func(c *gin.Context) {
		if _, ok := c.Get("logger"); !ok {
			t.Error("logger not set")
		}
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Header().Get(requestIDHeader) == "" {
		t.Fatal("no request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get(requestIDHeader) != "abc" {
		t.Fatalf("request id = %q", w.Header().Get(requestIDHeader))
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173"}))
	r.GET("/", ok)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("allow origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("foreign origin status = %d", w.Code)
	}
}
