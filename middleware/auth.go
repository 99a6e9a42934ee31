package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"gatherly/utils"
)

// ContextUserIDKey is where the authenticated user's id is stored on the
// request context.
const ContextUserIDKey = "userID"

// JWTAuthMiddleware validates the bearer token and stores the subject user
// id on the context.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		userID, err := utils.VerifyToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}

// AuthenticatedUserID returns the user id set by JWTAuthMiddleware.
func AuthenticatedUserID(c *gin.Context) string {
	return c.GetString(ContextUserIDKey)
}
