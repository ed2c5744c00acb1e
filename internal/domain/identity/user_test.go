package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	agencyID := uuid.New()

	t.Run("creates user with valid email and password", func(t *testing.T) {
		user, err := NewUser(agencyID, "Jane.Doe@Example.com ", "Password123", RoleTenant)

		require.NoError(t, err)
		assert.Equal(t, agencyID, user.AgencyID)
		assert.Equal(t, "jane.doe@example.com", user.Email)
		assert.Equal(t, RoleTenant, user.Role)
		assert.Equal(t, UserStatusActive, user.Status)
		assert.NotEqual(t, "Password123", user.PasswordHash)

		events := user.GetDomainEvents()
		require.Len(t, events, 1)
		evt, ok := events[0].(*UserRegisteredEvent)
		require.True(t, ok)
		assert.Equal(t, user.ID, evt.AggregateID())
		assert.Equal(t, agencyID, evt.AgencyID())
	})

	tests := []struct {
		name     string
		email    string
		password string
		role     Role
		code     string
	}{
		{"empty email", "", "Password123", RoleAgent, "INVALID_EMAIL"},
		{"malformed email", "not-an-email", "Password123", RoleAgent, "INVALID_EMAIL"},
		{"short password", "a@b.io", "Pass1", RoleAgent, "INVALID_PASSWORD"},
		{"password without digit", "a@b.io", "Passwordonly", RoleAgent, "INVALID_PASSWORD"},
		{"unknown role", "a@b.io", "Password123", Role("admin"), "INVALID_ROLE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser(agencyID, tt.email, tt.password, tt.role)
			require.Error(t, err)
			assert.Equal(t, tt.code, shared.ErrorCode(err))
		})
	}
}

func TestUser_Passwords(t *testing.T) {
	user, err := NewUser(uuid.New(), "owner@example.com", "Password123", RoleLandlord)
	require.NoError(t, err)

	assert.True(t, user.VerifyPassword("Password123"))
	assert.False(t, user.VerifyPassword("wrong"))

	t.Run("change requires current password", func(t *testing.T) {
		err := user.ChangePassword("nope", "NewPassword456")
		require.Error(t, err)
		assert.Equal(t, "INVALID_PASSWORD", shared.ErrorCode(err))
	})

	t.Run("change succeeds with current password", func(t *testing.T) {
		version := user.Version
		require.NoError(t, user.ChangePassword("Password123", "NewPassword456"))
		assert.True(t, user.VerifyPassword("NewPassword456"))
		assert.Greater(t, user.Version, version)
	})
}

func TestUser_LoginLockout(t *testing.T) {
	user, err := NewUser(uuid.New(), "agent@example.com", "Password123", RoleAgent)
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		assert.False(t, user.RecordLoginFailure(5, time.Minute))
	}
	assert.True(t, user.CanLogin())

	assert.True(t, user.RecordLoginFailure(5, time.Minute))
	assert.True(t, user.IsLocked())
	assert.False(t, user.CanLogin())

	t.Run("expired lock allows login", func(t *testing.T) {
		past := time.Now().Add(-time.Second)
		user.LockedUntil = &past
		assert.False(t, user.IsLocked())
		assert.True(t, user.CanLogin())
	})

	t.Run("success clears the lock", func(t *testing.T) {
		user.RecordLoginSuccess("10.0.0.1")
		assert.Equal(t, UserStatusActive, user.Status)
		assert.Zero(t, user.FailedAttempts)
		assert.Equal(t, "10.0.0.1", user.LastLoginIP)
		require.NotNil(t, user.LastLoginAt)
	})

	t.Run("password reset clears the lock", func(t *testing.T) {
		user.RecordLoginFailure(1, time.Hour)
		require.True(t, user.IsLocked())
		require.NoError(t, user.SetPassword("Another789"))
		assert.False(t, user.IsLocked())
	})
}

func TestUser_ActivateDeactivate(t *testing.T) {
	user, err := NewUser(uuid.New(), "t@example.com", "Password123", RoleTenant)
	require.NoError(t, err)

	assert.Error(t, user.Activate())
	require.NoError(t, user.Deactivate())
	assert.False(t, user.CanLogin())
	assert.Error(t, user.Deactivate())
	require.NoError(t, user.Activate())
	assert.True(t, user.CanLogin())
}

func TestUser_Profile(t *testing.T) {
	user, err := NewUser(uuid.New(), "t@example.com", "Password123", RoleTenant)
	require.NoError(t, err)

	assert.Equal(t, "t@example.com", user.FullName())
	require.NoError(t, user.UpdateProfile(" Ada ", "Lovelace", "+61 400 000 000"))
	assert.Equal(t, "Ada Lovelace", user.FullName())
	assert.True(t, user.HasRole(RoleTenant))
	assert.False(t, user.HasRole(RoleAgent))
}

func TestPasswordResetToken(t *testing.T) {
	user, err := NewUser(uuid.New(), "t@example.com", "Password123", RoleTenant)
	require.NoError(t, err)

	token, raw, err := NewPasswordResetToken(user, time.Hour)
	require.NoError(t, err)
	assert.Len(t, raw, 64)
	assert.Equal(t, HashResetToken(raw), token.TokenHash)
	assert.NotEqual(t, raw, token.TokenHash)

	now := time.Now()
	assert.True(t, token.IsUsable(now))
	assert.False(t, token.IsUsable(now.Add(2*time.Hour)))

	token.MarkUsed(now)
	assert.False(t, token.IsUsable(now))
}

func TestLoginRecords(t *testing.T) {
	user, err := NewUser(uuid.New(), "t@example.com", "Password123", RoleTenant)
	require.NoError(t, err)

	ok := NewSuccessfulLogin(user, "1.2.3.4", "curl")
	assert.True(t, ok.Success)
	require.NotNil(t, ok.UserID)
	assert.Equal(t, user.ID, *ok.UserID)

	unknown := NewFailedLogin(user.AgencyID, nil, "ghost@example.com", "1.2.3.4", "curl", LoginFailureUnknownUser)
	assert.False(t, unknown.Success)
	assert.Nil(t, unknown.UserID)
	assert.Equal(t, LoginFailureUnknownUser, unknown.FailureReason)
}
