package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mmynk/moneybalancer/internal/auth"
)

const (
	// userIDKey is the gin context key for the authenticated user ID.
	userIDKey = "user_id"
	// usernameKey is the gin context key for the authenticated username.
	usernameKey = "username"
)

// UserID extracts the authenticated user ID from the request context.
// Returns empty string if not set.
func UserID(c *gin.Context) string {
	userID, _ := c.Value(userIDKey).(string)
	return userID
}

// Username extracts the authenticated username from the request context.
// Returns empty string if not set.
func Username(c *gin.Context) string {
	username, _ := c.Value(usernameKey).(string)
	return username
}

// RequireAuth returns a middleware that validates JWT bearer tokens and
// requires authentication. It extracts the token from the Authorization
// header, validates it, and stores the user ID and username in the request
// context.
func RequireAuth(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrMissingToken.Error()})
			return
		}

		// Parse Bearer token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidToken.Error()})
			return
		}

		claims, err := jwtManager.Validate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidToken.Error()})
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(usernameKey, claims.Username)
		c.Next()
	}
}
