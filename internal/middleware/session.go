// Package middleware holds the gin middleware shared by the routes.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// sessionCookie is the opaque per-browser-session identifier. It is the
// sole basis for vote deduplication and NOT a security credential.
const sessionCookie = "uid"

const sessionContextKey = "session_id"

// Session issues a uid cookie on first contact and exposes the value on
// the gin context for handlers.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(sessionCookie)
		if err != nil || id == "" {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			// Not HttpOnly: the browser client reads it to label its
			// own websocket join.
			c.SetCookie(sessionCookie, id, 0, "/", "", false, false)
		}
		c.Set(sessionContextKey, id)
		c.Next()
	}
}

// SessionID returns the request's session identifier, or "" when the
// Session middleware did not run.
func SessionID(c *gin.Context) string {
	if v, ok := c.Get(sessionContextKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
