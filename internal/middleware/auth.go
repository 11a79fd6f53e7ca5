package middleware

import (
	"net/http"
	"strings"

	"threadnest/internal/pkg"

	"github.com/gin-gonic/gin"
)

const ContextSubjectKey = "subject"

// AuthMiddleware validates the identity provider's session token and
// injects the provider subject id into the request context.
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "invalid authorization format"})
			c.Abort()
			return
		}

		subject, err := pkg.ParseSession(secret, parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "invalid or expired session"})
			c.Abort()
			return
		}

		// 注入 subject
		c.Set(ContextSubjectKey, subject)
		c.Next()
	}
}
