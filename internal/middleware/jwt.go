package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/eduplatform-api/internal/models"
	appErrors "github.com/noah-isme/eduplatform-api/pkg/errors"
	"github.com/noah-isme/eduplatform-api/pkg/logger"
	"github.com/noah-isme/eduplatform-api/pkg/response"
)

// ContextUserKey is the gin context key storing JWT claims.
const ContextUserKey = "currentUser"

// TokenCookieName is the cookie carrying the access token for browser flows.
const TokenCookieName = "token"

type tokenValidator interface {
	ValidateToken(tokenString string) (*models.JWTClaims, error)
}

// JWT protects routes by requiring a valid access token, read from the
// Authorization header or, failing that, the token cookie.
func JWT(auth tokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractToken(c)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		attach(c, claims)
		c.Next()
	}
}

// OptionalJWT attaches claims when present but does not block.
func OptionalJWT(auth tokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractToken(c)
		if err != nil {
			c.Next()
			return
		}
		if claims, err := auth.ValidateToken(token); err == nil {
			attach(c, claims)
		}
		c.Next()
	}
}

// CurrentIdentity returns the caller identity attached by JWT.
func CurrentIdentity(c *gin.Context) (models.Identity, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return models.Identity{}, false
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok || claims == nil {
		return models.Identity{}, false
	}
	return claims.Identity(), true
}

func attach(c *gin.Context, claims *models.JWTClaims) {
	c.Set(ContextUserKey, claims)
	c.Set(logger.UserFieldKey, claims.Email)
}

func extractToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header")
		}
		return strings.TrimSpace(parts[1]), nil
	}
	if cookie, err := c.Cookie(TokenCookieName); err == nil && cookie != "" {
		return cookie, nil
	}
	return "", appErrors.ErrUnauthorized
}
