// Package security provides JWT token utilities
package security

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// ErrInvalidToken is returned when a token fails verification or is
// missing required claims.
var ErrInvalidToken = errors.New("invalid token")

// ValidateJWT validates an HS256 token and returns its claims. Tokens must
// carry sub, iss, iat, and exp.
func ValidateJWT(tokenString, jwtSecret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	for _, required := range []string{"sub", "iss", "iat", "exp"} {
		if _, exists := claims[required]; !exists {
			return nil, ErrInvalidToken
		}
	}
	return claims, nil
}

// UserIDFromClaims extracts the subject (user id) from verified claims.
func UserIDFromClaims(claims jwt.MapClaims) string {
	if sub, ok := claims["sub"].(string); ok {
		return sub
	}
	return ""
}

// ExtractBearerToken pulls the raw token out of an Authorization header,
// returning "" when the header is absent or not a Bearer credential.
func ExtractBearerToken(authHeader string) string {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// GenerateTestToken creates a signed token for development and tests.
func GenerateTestToken(userID, jwtSecret string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": userID,
		"iss": "classguru-ad-service",
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}
