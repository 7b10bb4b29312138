package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PathGuard rejects request paths containing characters outside the
// allow-list with a 404 before they reach the router. Unregistered routes are
// denied by the router's NoRoute handler, so no substring deny-list is
// maintained.
func PathGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, r := range c.Request.URL.Path {
			if !allowedPathRune(r) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
		}
		c.Next()
	}
}

func allowedPathRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '/' || r == '_' || r == '-':
		return true
	}
	return false
}
