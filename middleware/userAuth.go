package middleware

import (
	"context"
	"strings"
	"time"

	"barkbox/models"
	"barkbox/utils"
	"barkbox/utils/apperr"
	"barkbox/utils/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by JWTAuthMiddleware.
const (
	actorKey       = "actor"
	tokenHashKey   = "tokenHash"
	tokenExpiryKey = "tokenExpiry"
)

// TokenVerifier validates a bearer token.
type TokenVerifier interface {
	Verify(token string) (*utils.Claims, error)
}

// RevocationChecker reports whether a token was logged out.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenHash string) (bool, error)
}

var errUnauthenticated = apperr.Unauthorized("insufficient authorization")

// JWTAuthMiddleware authenticates the bearer token and stores the actor in the context.
func JWTAuthMiddleware(tokens TokenVerifier, revoked RevocationChecker, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			response.Abort(c, errUnauthenticated)
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if tokenString == "" {
			response.Abort(c, errUnauthenticated)
			return
		}

		claims, err := tokens.Verify(tokenString)
		if err != nil {
			response.Abort(c, apperr.Unauthorized("invalid or expired token"))
			return
		}

		hash := utils.HashToken(tokenString)
		if revoked != nil {
			isRevoked, err := revoked.IsRevoked(c.Request.Context(), hash)
			switch {
			case err != nil:
				// Redis outage: the signature and expiry were already checked.
				logger.Warn("Token revocation check failed", zap.String("personID", claims.Subject), zap.Error(err))
			case isRevoked:
				response.Abort(c, apperr.Unauthorized("token has been revoked"))
				return
			}
		}

		c.Set(actorKey, models.Actor{ID: claims.Subject, Role: claims.Role})
		c.Set(tokenHashKey, hash)
		c.Set(tokenExpiryKey, claims.Expiry())
		c.Next()
	}
}

// ActorFromContext returns the authenticated actor.
func ActorFromContext(c *gin.Context) (models.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return models.Actor{}, false
	}
	a, ok := v.(models.Actor)
	return a, ok
}

// TokenFromContext returns the hash and expiry of the request's token.
func TokenFromContext(c *gin.Context) (string, time.Time, bool) {
	hash := c.GetString(tokenHashKey)
	exp, ok := c.Get(tokenExpiryKey)
	if hash == "" || !ok {
		return "", time.Time{}, false
	}
	t, ok := exp.(time.Time)
	return hash, t, ok
}
