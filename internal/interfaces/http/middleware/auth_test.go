package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/domain/identity"
	"github.com/rentwise/backend/internal/infrastructure/auth"
	"github.com/rentwise/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type jwtAuthenticator struct {
	tokens  *auth.JWTService
	revoked map[string]bool
}

func (a *jwtAuthenticator) Authenticate(_ context.Context, token string) (*auth.Claims, error) {
	claims, err := a.tokens.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}
	if a.revoked[claims.ID] {
		return nil, auth.ErrTokenRevoked
	}
	return claims, nil
}

func newJWT(access time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-that-is-long-enough",
		AccessTokenExpiration:  access,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "rentwise-test",
		MaxRefreshCount:        3,
	})
}

func TestAuth(t *testing.T) {
	tokens := newJWT(time.Minute)
	authn := &jwtAuthenticator{tokens: tokens, revoked: map[string]bool{}}
	sub := auth.Subject{AgencyID: uuid.New(), UserID: uuid.New(), Email: "a@example.com", Role: "agent"}
	pair, err := tokens.GenerateTokenPair(sub)
	require.NoError(t, err)

	r := gin.New()
	r.Use(RequestID(), Auth(authn, zap.NewNop()))
	r.GET("/me", func(c *gin.Context) {
		actor, ok := GetActor(c)
		require.True(t, ok)
		require.NotNil(t, GetClaims(c))
		c.JSON(http.StatusOK, gin.H{"user": actor.UserID, "role": actor.Role})
	})

	tests := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{"missing header", "", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"refresh token is not an access token", "Bearer " + pair.RefreshToken, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"valid", "Bearer " + pair.AccessToken, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := serve(r, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.code != "" {
				assert.Equal(t, tt.code, decodeEnvelope(t, w).Error.Code)
			} else {
				assert.Contains(t, w.Body.String(), sub.UserID.String())
			}
		})
	}

	t.Run("revoked token", func(t *testing.T) {
		claims, err := tokens.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)
		authn.revoked[claims.ID] = true
		defer delete(authn.revoked, claims.ID)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		w := serve(r, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Token has been revoked", decodeEnvelope(t, w).Error.Message)
	})
}

func TestAuth_ExpiredToken(t *testing.T) {
	tokens := newJWT(-time.Minute)
	pair, err := tokens.GenerateTokenPair(auth.Subject{AgencyID: uuid.New(), UserID: uuid.New(), Role: "tenant"})
	require.NoError(t, err)

	r := gin.New()
	r.Use(Auth(&jwtAuthenticator{tokens: tokens}, zap.NewNop()))
	r.GET("/me", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := serve(r, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "TOKEN_EXPIRED", decodeEnvelope(t, w).Error.Code)
}

func TestActorFromClaims(t *testing.T) {
	agency, user := uuid.New(), uuid.New()

	actor, err := ActorFromClaims(&auth.Claims{AgencyID: agency.String(), UserID: user.String(), Role: "landlord"})
	require.NoError(t, err)
	assert.Equal(t, agency, actor.AgencyID)
	assert.Equal(t, user, actor.UserID)
	assert.Equal(t, identity.RoleLandlord, actor.Role)

	_, err = ActorFromClaims(&auth.Claims{AgencyID: agency.String(), UserID: user.String(), Role: "admin"})
	assert.Error(t, err)

	_, err = ActorFromClaims(&auth.Claims{AgencyID: "nope", UserID: user.String(), Role: "agent"})
	assert.Error(t, err)
}

func TestBearerToken(t *testing.T) {
	tok, ok := BearerToken("Bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	_, ok = BearerToken("Bearer   ")
	assert.False(t, ok)
	_, ok = BearerToken("bearer abc")
	assert.False(t, ok)
}

func TestRequireRoles(t *testing.T) {
	withRole := func(role identity.Role) gin.HandlerFunc {
		return func(c *gin.Context) {
			if role != "" {
				c.Set(ActorKey, appActor(role))
			}
			c.Next()
		}
	}

	tests := []struct {
		role   identity.Role
		status int
	}{
		{identity.RoleAgent, http.StatusOK},
		{identity.RoleLandlord, http.StatusOK},
		{identity.RoleTenant, http.StatusForbidden},
		{"", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			r := gin.New()
			r.GET("/x", withRole(tt.role), RequireRoles(identity.RoleAgent, identity.RoleLandlord), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})
			w := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
