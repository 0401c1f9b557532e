package middleware

import (
	"context"
	"net/http"
	"time"

	"stayease/models"
	"stayease/utils"

	"github.com/gin-gonic/gin"
)

// SessionGuard is the part of the session store the route guard uses.
type SessionGuard interface {
	Current() models.Session
	ExpireIfStale(ctx context.Context, now time.Time) bool
}

// RequireSession rejects requests without a signed-in user, telling the UI shell to go to
// the login page. An expired credential is refreshed or dropped first.
func RequireSession(sessions SessionGuard) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessions.ExpireIfStale(c.Request.Context(), time.Now())
		sess := sessions.Current()
		if !sess.Authenticated() {
			utils.JSONRedirectError(c, http.StatusUnauthorized, "Please sign in to continue", "/login")
			return
		}
		c.Set("session", sess)
		c.Next()
	}
}
