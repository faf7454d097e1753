package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/threadboard/comments/internal/auth"
)

// UserIDKey is where the authenticated principal lands in the gin context.
const UserIDKey = "user_id"

// AuthMiddleware resolves the calling principal from the Bearer token and
// threads the opaque user id into the request context. Nothing past this
// point ever reads ambient session state.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		userID, err := auth.GetUserIDFromToken(tokenString, []byte(jwtSecret))
		if err != nil || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}
