package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"attendanceportal/internal/session"
)

// Context keys set by SessionAuth.
const (
	ContextClaims  = "claims"
	ContextSession = "session"
)

// SessionAuth enforces bearer JWT tokens and loads the backing session.
// A token whose session has been logged out (back in the auth view) or
// expired is rejected, so logout invalidates outstanding tokens.
func SessionAuth(signingKey, issuer string, sessions session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" || !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tokenStr := strings.TrimSpace(authz[len("bearer "):])
		claims, err := Parse(tokenStr, signingKey, issuer)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		sess, err := sessions.Get(c.Request.Context(), claims.SessionID)
		if err != nil || sess.View != session.ViewDashboard || sess.EmployeeID != claims.EmployeeID {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			return
		}
		c.Set(ContextClaims, claims)
		c.Set(ContextSession, sess)
		c.Next()
	}
}
