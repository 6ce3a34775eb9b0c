package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hacktoberfest-api/auth-service/internal/config"
	"github.com/hacktoberfest-api/auth-service/internal/sessions"
	"github.com/hacktoberfest-api/auth-service/internal/tokens"
)

// SessionAuth returns a Gin middleware that verifies first-party session
// tokens (Bearer) and rejects revoked ones. On success the request context
// carries "claims" (map with sub/email) and "sessionToken" (the raw token,
// used by logout to revoke it).
func SessionAuth(cfg *config.Config, revoked *sessions.RevokedStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			return
		}
		// Expect 'Bearer <token>'
		var raw string
		if n, _ := fmt.Sscanf(auth, "Bearer %s", &raw); n != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header"})
			return
		}

		claims, err := tokens.Parse(cfg, raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		if isRevoked, err := revoked.IsRevoked(c.Request.Context(), raw); err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session check failed"})
			return
		} else if isRevoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session revoked"})
			return
		}

		c.Set("claims", map[string]interface{}{"sub": claims.UserID, "email": claims.Email})
		c.Set("sessionToken", raw)
		c.Set("sessionExpiry", claims.Expiry)
		c.Next()
	}
}
