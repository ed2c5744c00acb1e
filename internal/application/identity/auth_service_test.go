package identity

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	appshared "github.com/rentwise/backend/internal/application/shared"
	"github.com/rentwise/backend/internal/domain/identity"
	"github.com/rentwise/backend/internal/domain/shared"
	"github.com/rentwise/backend/internal/infrastructure/auth"
	"github.com/rentwise/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testPassword = "Secret123"

type authFixture struct {
	svc       *AuthService
	users     *MockUserRepository
	logins    *MockLoginRecordRepository
	resets    *MockPasswordResetRepository
	notifier  *MockNotifier
	tokens    *auth.JWTService
	blacklist *auth.InMemoryTokenBlacklist
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{
		users:    new(MockUserRepository),
		logins:   new(MockLoginRecordRepository),
		resets:   new(MockPasswordResetRepository),
		notifier: new(MockNotifier),
		tokens: auth.NewJWTService(config.JWTConfig{
			Secret:                 "test-secret-key-at-least-32-chars",
			AccessTokenExpiration:  15 * time.Minute,
			RefreshTokenExpiration: 24 * time.Hour,
			Issuer:                 "rentwise-test",
			MaxRefreshCount:        1,
		}),
		blacklist: auth.NewInMemoryTokenBlacklist(),
	}
	cfg := DefaultAuthServiceConfig()
	cfg.ResetURLBase = "https://app.example.com/reset"
	f.svc = NewAuthService(f.users, f.logins, f.resets, f.tokens, f.blacklist, f.notifier, cfg, zap.NewNop())
	return f
}

func newTestUser(t *testing.T, agencyID uuid.UUID, role identity.Role) *identity.User {
	t.Helper()
	u, err := identity.NewUser(agencyID, "jane@example.com", testPassword, role)
	require.NoError(t, err)
	u.ClearDomainEvents()
	return u
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	agencyID := uuid.New()

	t.Run("creates the account", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.On("ExistsByEmail", ctx, agencyID, "jane@example.com").Return(false, nil)
		f.users.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

		resp, err := f.svc.Register(ctx, RegisterRequest{
			AgencyID:  agencyID,
			Email:     "Jane@Example.com",
			Password:  testPassword,
			Role:      "tenant",
			FirstName: "Jane",
		})
		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", resp.Email)
		assert.Equal(t, identity.RoleTenant, resp.Role)
		assert.Equal(t, "Jane", resp.FirstName)
		f.users.AssertExpectations(t)
	})

	t.Run("rejects a taken email", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.On("ExistsByEmail", ctx, agencyID, "jane@example.com").Return(true, nil)

		_, err := f.svc.Register(ctx, RegisterRequest{AgencyID: agencyID, Email: "jane@example.com", Password: testPassword, Role: "tenant"})
		assert.Equal(t, "ALREADY_EXISTS", shared.ErrorCode(err))
		f.users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects an unknown role", func(t *testing.T) {
		f := newAuthFixture(t)
		_, err := f.svc.Register(ctx, RegisterRequest{AgencyID: agencyID, Email: "jane@example.com", Password: testPassword, Role: "admin"})
		assert.Error(t, err)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	agencyID := uuid.New()

	t.Run("success issues tokens carrying agency, user and role", func(t *testing.T) {
		f := newAuthFixture(t)
		user := newTestUser(t, agencyID, identity.RoleLandlord)
		f.users.On("FindByEmail", ctx, agencyID, "jane@example.com").Return(user, nil)
		f.users.On("Save", ctx, user).Return(nil)
		f.logins.On("Append", ctx, mock.MatchedBy(func(r *identity.LoginRecord) bool {
			return r.Success && r.IP == "10.0.0.1"
		})).Return(nil).Once()

		resp, err := f.svc.Login(ctx, LoginRequest{AgencyID: agencyID, Email: "jane@example.com", Password: testPassword, IP: "10.0.0.1", UserAgent: "test"})
		require.NoError(t, err)

		claims, err := f.tokens.ValidateAccessToken(resp.Tokens.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, agencyID.String(), claims.AgencyID)
		assert.Equal(t, user.ID.String(), claims.UserID)
		assert.Equal(t, "landlord", claims.Role)
		assert.NotNil(t, user.LastLoginAt)
		f.logins.AssertExpectations(t)
	})

	t.Run("unknown email is recorded and rejected", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.On("FindByEmail", ctx, agencyID, "nobody@example.com").Return(nil, shared.ErrNotFound)
		f.logins.On("Append", ctx, mock.MatchedBy(func(r *identity.LoginRecord) bool {
			return !r.Success && r.FailureReason == identity.LoginFailureUnknownUser && r.UserID == nil
		})).Return(nil).Once()

		_, err := f.svc.Login(ctx, LoginRequest{AgencyID: agencyID, Email: "nobody@example.com", Password: "x"})
		assert.Equal(t, "INVALID_CREDENTIALS", shared.ErrorCode(err))
		f.logins.AssertExpectations(t)
	})

	t.Run("locks after five failures", func(t *testing.T) {
		f := newAuthFixture(t)
		user := newTestUser(t, agencyID, identity.RoleTenant)
		f.users.On("FindByEmail", ctx, agencyID, "jane@example.com").Return(user, nil)
		f.users.On("Save", ctx, user).Return(nil)
		f.logins.On("Append", ctx, mock.Anything).Return(nil)

		for i := 0; i < 4; i++ {
			_, err := f.svc.Login(ctx, LoginRequest{AgencyID: agencyID, Email: "jane@example.com", Password: "wrong-pass1"})
			assert.Equal(t, "INVALID_CREDENTIALS", shared.ErrorCode(err))
		}
		_, err := f.svc.Login(ctx, LoginRequest{AgencyID: agencyID, Email: "jane@example.com", Password: "wrong-pass1"})
		assert.Equal(t, "ACCOUNT_LOCKED", shared.ErrorCode(err))
		require.NotNil(t, user.LockedUntil)
		assert.WithinDuration(t, time.Now().Add(15*time.Minute), *user.LockedUntil, 5*time.Second)

		// the right password does not help while locked
		_, err = f.svc.Login(ctx, LoginRequest{AgencyID: agencyID, Email: "jane@example.com", Password: testPassword})
		assert.Equal(t, "ACCOUNT_LOCKED", shared.ErrorCode(err))
		f.logins.AssertNumberOfCalls(t, "Append", 6)
	})

	t.Run("deactivated account", func(t *testing.T) {
		f := newAuthFixture(t)
		user := newTestUser(t, agencyID, identity.RoleTenant)
		require.NoError(t, user.Deactivate())
		f.users.On("FindByEmail", ctx, agencyID, "jane@example.com").Return(user, nil)
		f.logins.On("Append", ctx, mock.Anything).Return(nil)

		_, err := f.svc.Login(ctx, LoginRequest{AgencyID: agencyID, Email: "jane@example.com", Password: testPassword})
		assert.Equal(t, "ACCOUNT_DEACTIVATED", shared.ErrorCode(err))
	})
}

func (f *authFixture) login(t *testing.T, user *identity.User) *auth.TokenPair {
	t.Helper()
	pair, err := f.tokens.GenerateTokenPair(subjectOf(user))
	require.NoError(t, err)
	return pair
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	user := newTestUser(t, uuid.New(), identity.RoleAgent)
	f.users.On("FindByID", ctx, user.ID).Return(user, nil)
	pair := f.login(t, user)

	rotated, err := f.svc.RefreshToken(ctx, RefreshRequest{RefreshToken: pair.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	t.Run("old refresh token is single use", func(t *testing.T) {
		_, err := f.svc.RefreshToken(ctx, RefreshRequest{RefreshToken: pair.RefreshToken})
		assert.Equal(t, "INVALID_TOKEN", shared.ErrorCode(err))
	})

	t.Run("max refresh count", func(t *testing.T) {
		_, err := f.svc.RefreshToken(ctx, RefreshRequest{RefreshToken: rotated.RefreshToken})
		assert.Equal(t, "INVALID_TOKEN", shared.ErrorCode(err))
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := f.svc.RefreshToken(ctx, RefreshRequest{RefreshToken: "not-a-token"})
		assert.Equal(t, "INVALID_TOKEN", shared.ErrorCode(err))
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	user := newTestUser(t, uuid.New(), identity.RoleTenant)
	pair := f.login(t, user)

	claims, err := f.svc.Authenticate(ctx, pair.AccessToken)
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, claims, LogoutRequest{RefreshToken: pair.RefreshToken}))

	_, err = f.svc.Authenticate(ctx, pair.AccessToken)
	assert.Equal(t, "INVALID_TOKEN", shared.ErrorCode(err))
	_, err = f.svc.RefreshToken(ctx, RefreshRequest{RefreshToken: pair.RefreshToken})
	assert.Equal(t, "INVALID_TOKEN", shared.ErrorCode(err))
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	user := newTestUser(t, uuid.New(), identity.RoleTenant)
	actor := appshared.Actor{AgencyID: user.AgencyID, UserID: user.ID, Role: user.Role}
	f.users.On("FindByIDForAgency", ctx, user.AgencyID, user.ID).Return(user, nil)
	f.users.On("Save", ctx, user).Return(nil)

	err := f.svc.ChangePassword(ctx, actor, ChangePasswordRequest{OldPassword: "nope12345", NewPassword: "NewSecret456"})
	assert.Equal(t, "INVALID_PASSWORD", shared.ErrorCode(err))

	require.NoError(t, f.svc.ChangePassword(ctx, actor, ChangePasswordRequest{OldPassword: testPassword, NewPassword: "NewSecret456"}))
	assert.True(t, user.VerifyPassword("NewSecret456"))

	revoked, err := f.blacklist.IsUserRevoked(ctx, user.ID.String(), time.Now().Add(-2*time.Second))
	require.NoError(t, err)
	assert.True(t, revoked, "tokens issued before the change are revoked")
}

func TestAuthService_PasswordReset(t *testing.T) {
	ctx := context.Background()
	agencyID := uuid.New()

	t.Run("unknown email still reports success", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.On("FindByEmail", ctx, agencyID, "ghost@example.com").Return(nil, shared.ErrNotFound)

		require.NoError(t, f.svc.RequestPasswordReset(ctx, PasswordResetRequest{AgencyID: agencyID, Email: "ghost@example.com"}))
		f.notifier.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("full flow", func(t *testing.T) {
		f := newAuthFixture(t)
		user := newTestUser(t, agencyID, identity.RoleTenant)
		f.users.On("FindByEmail", ctx, agencyID, "jane@example.com").Return(user, nil)
		f.users.On("FindByIDForAgency", ctx, agencyID, user.ID).Return(user, nil)
		f.users.On("Save", ctx, user).Return(nil)
		f.resets.On("InvalidateForUser", ctx, user.ID).Return(nil)

		var stored *identity.PasswordResetToken
		f.resets.On("Save", ctx, mock.AnythingOfType("*identity.PasswordResetToken")).
			Run(func(args mock.Arguments) { stored = args.Get(1).(*identity.PasswordResetToken) }).
			Return(nil)

		var body string
		f.notifier.On("SendEmail", ctx, "jane@example.com", "Reset your password", mock.Anything).
			Run(func(args mock.Arguments) { body = args.String(3) }).
			Return(nil).Once()

		require.NoError(t, f.svc.RequestPasswordReset(ctx, PasswordResetRequest{AgencyID: agencyID, Email: "jane@example.com"}))
		require.NotNil(t, stored)

		const marker = "https://app.example.com/reset?token="
		idx := strings.Index(body, marker)
		require.GreaterOrEqual(t, idx, 0, body)
		raw := strings.Fields(body[idx+len(marker):])[0]
		assert.Equal(t, stored.TokenHash, identity.HashResetToken(raw))

		f.resets.On("FindByHash", ctx, stored.TokenHash).Return(stored, nil)
		require.NoError(t, f.svc.ResetPassword(ctx, ResetPasswordRequest{Token: raw, NewPassword: "Brand9New9"}))
		assert.True(t, user.VerifyPassword("Brand9New9"))
		assert.NotNil(t, stored.UsedAt)

		err := f.svc.ResetPassword(ctx, ResetPasswordRequest{Token: raw, NewPassword: "Another123"})
		assert.Equal(t, "INVALID_TOKEN", shared.ErrorCode(err))
	})

	t.Run("unknown token", func(t *testing.T) {
		f := newAuthFixture(t)
		f.resets.On("FindByHash", ctx, mock.Anything).Return(nil, shared.ErrNotFound)

		err := f.svc.ResetPassword(ctx, ResetPasswordRequest{Token: "bogus", NewPassword: "Another123"})
		assert.Equal(t, "INVALID_TOKEN", shared.ErrorCode(err))
	})
}
