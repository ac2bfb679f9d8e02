package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hisakawa/tsunagari/internal/services"
)

// callerIDKey is the gin context key holding the authenticated user id.
const callerIDKey = "callerID"

// RequireAuth validates the bearer token and stores the caller's user id in
// the gin context. Requests without a valid token get 401.
func RequireAuth(authService services.AuthServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "missing bearer token",
			})
			return
		}

		userID, err := authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "invalid or expired token",
			})
			return
		}

		c.Set(callerIDKey, userID)
		c.Next()
	}
}

// callerID returns the authenticated user id stored by RequireAuth.
func callerID(c *gin.Context) string {
	return c.GetString(callerIDKey)
}
