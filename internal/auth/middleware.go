package auth

import (
	"net/http"
	"strings"

	"lookbook/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// Middleware validates the Bearer token and sets the userID in the context,
// aborting with 401 when the token is missing or invalid.
func Middleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := bearerUserID(c, jwtSecret)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing token"})
			return
		}
		c.Set("userID", userID)
		c.Next()
	}
}

// OptionalMiddleware inspects for a token and sets the userID if present and
// valid, but does not fail if the token is missing or invalid. Handlers
// behind it treat the request as anonymous when no userID is set.
func OptionalMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := bearerUserID(c, jwtSecret); ok {
			c.Set("userID", userID)
		}
		c.Next()
	}
}

func bearerUserID(c *gin.Context, jwtSecret string) (uint, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return 0, false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, false
	}
	userID, err := jwt.ParseToken(parts[1], jwtSecret)
	if err != nil {
		return 0, false
	}
	return userID, true
}
