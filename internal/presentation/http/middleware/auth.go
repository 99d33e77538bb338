package middleware

import (
	"net/http"

	"github.com/classguru/adserve-go/internal/infrastructure/security"
	"github.com/classguru/adserve-go/pkg/config"
	"github.com/gin-gonic/gin"
)

const (
	userIDKey = "userID"
	bearerKey = "bearerToken"
)

// OptionalAuthMiddleware extracts the user identity from a Bearer token when
// one is present. Missing or invalid tokens degrade to an anonymous request
// rather than rejecting it; serving and click tracking work unauthenticated.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		bearer := security.ExtractBearerToken(c.GetHeader("Authorization"))
		if bearer != "" {
			if claims, err := security.ValidateJWT(bearer, config.JWTSecret); err == nil {
				c.Set(userIDKey, security.UserIDFromClaims(claims))
				c.Set(bearerKey, bearer)
			}
		}
		c.Next()
	}
}

// RequireAuthMiddleware rejects requests without a valid Bearer token.
func RequireAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		bearer := security.ExtractBearerToken(c.GetHeader("Authorization"))
		if bearer == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Missing authorization token",
			})
			return
		}

		claims, err := security.ValidateJWT(bearer, config.JWTSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Invalid or expired token",
			})
			return
		}

		c.Set(userIDKey, security.UserIDFromClaims(claims))
		c.Set(bearerKey, bearer)
		c.Next()
	}
}

// GetUserID returns the authenticated user id, "" when anonymous.
func GetUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// GetBearerToken returns the verified raw bearer token, "" when anonymous.
func GetBearerToken(c *gin.Context) string {
	return c.GetString(bearerKey)
}
