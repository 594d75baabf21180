package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminOnly rejects requests without a valid admin session cookie.
func AdminOnly(signingKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(CookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		if err := ParseToken(token, signingKey); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			return
		}
		c.Next()
	}
}
