package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	appshared "github.com/rentwise/backend/internal/application/shared"
	"github.com/rentwise/backend/internal/domain/identity"
	"github.com/rentwise/backend/internal/domain/shared"
	"github.com/rentwise/backend/internal/infrastructure/auth"
	"github.com/rentwise/backend/internal/infrastructure/logger"
	"github.com/rentwise/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Context keys set by Auth
const (
	ClaimsKey = "jwt_claims"
	ActorKey  = "actor"
)

// BearerPrefix precedes the token in the Authorization header
const BearerPrefix = "Bearer "

// Authenticator validates an access token, including revocation
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*auth.Claims, error)
}

// Auth requires a valid bearer token and stores the caller's claims and Actor in the context
func Auth(authenticator Authenticator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			abort(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}

		claims, err := authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			code, message := AuthFailure(err)
			log.Debug("Authentication failed",
				zap.String("path", c.Request.URL.Path),
				zap.String("code", code),
				zap.Error(err),
			)
			abort(c, http.StatusUnauthorized, code, message)
			return
		}

		actor, err := ActorFromClaims(claims)
		if err != nil {
			abort(c, http.StatusUnauthorized, dto.ErrCodeInvalidToken, "Invalid token claims")
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(ActorKey, actor)
		c.Set(logger.GinAgencyIDKey, claims.AgencyID)
		c.Set(logger.GinUserIDKey, claims.UserID)

		ctx := logger.WithAgencyID(c.Request.Context(), claims.AgencyID)
		ctx = logger.WithUserID(ctx, claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// BearerToken extracts the token from an Authorization header value
func BearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	return token, token != ""
}

// ActorFromClaims turns validated claims into the caller of a use case
func ActorFromClaims(claims *auth.Claims) (appshared.Actor, error) {
	agencyID, err := claims.AgencyUUID()
	if err != nil {
		return appshared.Actor{}, err
	}
	userID, err := claims.UserUUID()
	if err != nil {
		return appshared.Actor{}, err
	}
	role := identity.Role(claims.Role)
	if !role.IsValid() {
		return appshared.Actor{}, auth.ErrInvalidClaims
	}
	return appshared.Actor{AgencyID: agencyID, UserID: userID, Role: role}, nil
}

// AuthFailure maps an authentication error onto an error code and client message
func AuthFailure(err error) (string, string) {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrTokenRevoked):
		return dto.ErrCodeInvalidToken, "Token has been revoked"
	}
	var de *shared.DomainError
	if errors.As(err, &de) {
		return dto.ErrCodeInvalidToken, de.Message
	}
	return dto.ErrCodeInvalidToken, "Invalid token"
}

// GetActor returns the authenticated caller
func GetActor(c *gin.Context) (appshared.Actor, bool) {
	v, ok := c.Get(ActorKey)
	if !ok {
		return appshared.Actor{}, false
	}
	actor, ok := v.(appshared.Actor)
	return actor, ok
}

// GetClaims returns the validated access token claims
func GetClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(ClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// RequireRoles lets only the given roles through. It must run after Auth.
func RequireRoles(roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			abort(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		if err := actor.Require(roles...); err != nil {
			abort(c, http.StatusForbidden, dto.ErrCodeForbidden, err.Error())
			return
		}
		c.Next()
	}
}
