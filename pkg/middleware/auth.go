package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/gatherly/ticketing/pkg/response"
)

const (
	// ContextKeyUserID is the gin context key carrying the
	// authenticated user id.
	ContextKeyUserID = "user_id"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid bearer token")
)

// AuthConfig holds configuration for the auth middleware
type AuthConfig struct {
	// Secret is the HMAC key used to verify tokens issued by the auth
	// service.
	Secret string
	// Issuer, when set, is required to match the token's iss claim.
	Issuer string
}

// Auth verifies the bearer token and places the subject claim in the
// request context as the authenticated user id. Identity is issued by
// the external auth service; this core only verifies and extracts it.
func Auth(cfg *AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := extractBearerToken(c)
		if err != nil {
			response.Unauthorized(c, err.Error())
			c.Abort()
			return
		}

		opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
		if cfg.Issuer != "" {
			opts = append(opts, jwt.WithIssuer(cfg.Issuer))
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(cfg.Secret), nil
		}, opts...)
		if err != nil || !token.Valid {
			response.Unauthorized(c, ErrInvalidToken.Error())
			c.Abort()
			return
		}

		sub, err := claims.GetSubject()
		if err != nil || sub == "" {
			response.Unauthorized(c, ErrInvalidToken.Error())
			c.Abort()
			return
		}

		c.Set(ContextKeyUserID, sub)
		c.Next()
	}
}

// GetUserID returns the authenticated user id from the gin context.
func GetUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(ContextKeyUserID)
	return userID, userID != ""
}

func extractBearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", ErrMissingToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", ErrInvalidToken
	}
	return parts[1], nil
}
