package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionCookie is the cookie carrying the session token.
const SessionCookie = "session"

// userIDKey is the gin context key the resolved user id is stored under.
const userIDKey = "user_id"

// TokenValidator validates a session token and returns the user id it
// carries.
type TokenValidator interface {
	ValidateToken(token string) (uuid.UUID, error)
}

// tokenFromRequest extracts the session token from the Authorization header
// or the session cookie.
func tokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

// CurrentUser resolves the session user, if any, and stores the id in the
// request context. Unauthenticated requests pass through.
func CurrentUser(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := tokenFromRequest(c); token != "" {
			if userID, err := validator.ValidateToken(token); err == nil {
				c.Set(userIDKey, userID)
			}
		}
		c.Next()
	}
}

// RequireAuth gates an endpoint on an authenticated session. Requests
// without one are redirected to the login page with a next parameter.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(userIDKey); !ok {
			next := url.QueryEscape(c.Request.URL.Path)
			c.Redirect(http.StatusFound, "/login?next="+next)
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user's id from the request context.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// SafeNext returns target if it is a local path, else the fallback. Keeps
// login redirects on this site.
func SafeNext(target, fallback string) string {
	if target == "" {
		return fallback
	}
	u, err := url.Parse(target)
	if err != nil || u.Host != "" || u.Scheme != "" || !strings.HasPrefix(u.Path, "/") {
		return fallback
	}
	return u.Path
}
