package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	appshared "github.com/rentwise/backend/internal/application/shared"
	"github.com/rentwise/backend/internal/domain/identity"
	"github.com/rentwise/backend/internal/domain/shared"
	"github.com/rentwise/backend/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newUserService() (*UserService, *MockUserRepository, *MockLoginRecordRepository, *auth.InMemoryTokenBlacklist) {
	users := new(MockUserRepository)
	logins := new(MockLoginRecordRepository)
	blacklist := auth.NewInMemoryTokenBlacklist()
	return NewUserService(users, logins, blacklist, time.Hour, zap.NewNop()), users, logins, blacklist
}

func TestUserService_ListUsers(t *testing.T) {
	ctx := context.Background()
	agencyID := uuid.New()
	svc, users, _, _ := newUserService()

	agent := appshared.Actor{AgencyID: agencyID, UserID: uuid.New(), Role: identity.RoleAgent}
	tenant := newTestUser(t, agencyID, identity.RoleTenant)

	roleFilter := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["role"] == "tenant" && f.Page == 2 && f.PageSize == 100
	})
	users.On("FindAllForAgency", mock.Anything, agencyID, roleFilter).Return([]identity.User{*tenant}, nil)
	users.On("CountForAgency", mock.Anything, agencyID, roleFilter).Return(int64(101), nil)

	page, err := svc.ListUsers(ctx, agent, UserListFilter{Role: "tenant", Page: 2, PageSize: 500})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, int64(101), page.Total)
	assert.Equal(t, 2, page.TotalPages)

	_, err = svc.ListUsers(ctx, appshared.Actor{AgencyID: agencyID, Role: identity.RoleTenant}, UserListFilter{})
	assert.Equal(t, "FORBIDDEN", shared.ErrorCode(err))
}

func TestUserService_GetUser_OnlySelfUnlessAgent(t *testing.T) {
	ctx := context.Background()
	svc, users, _, _ := newUserService()
	user := newTestUser(t, uuid.New(), identity.RoleTenant)
	users.On("FindByIDForAgency", ctx, user.AgencyID, user.ID).Return(user, nil)

	self := appshared.Actor{AgencyID: user.AgencyID, UserID: user.ID, Role: identity.RoleTenant}
	got, err := svc.GetUser(ctx, self, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	other := appshared.Actor{AgencyID: user.AgencyID, UserID: uuid.New(), Role: identity.RoleLandlord}
	_, err = svc.GetUser(ctx, other, user.ID)
	assert.Equal(t, "FORBIDDEN", shared.ErrorCode(err))

	agent := appshared.Actor{AgencyID: user.AgencyID, UserID: uuid.New(), Role: identity.RoleAgent}
	_, err = svc.GetUser(ctx, agent, user.ID)
	assert.NoError(t, err)
}

func TestUserService_ListLoginHistory(t *testing.T) {
	ctx := context.Background()
	svc, _, logins, _ := newUserService()
	agencyID, userID := uuid.New(), uuid.New()

	records := []identity.LoginRecord{{ID: uuid.New(), Email: "jane@example.com", Success: true}}
	logins.On("FindByUser", ctx, agencyID, userID, mock.Anything).Return(records, int64(1), nil)

	page, err := svc.ListLoginHistory(ctx, appshared.Actor{AgencyID: agencyID, UserID: userID, Role: identity.RoleTenant}, uuid.Nil, 0, 0)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.True(t, page.Items[0].Success)

	_, err = svc.ListLoginHistory(ctx, appshared.Actor{AgencyID: agencyID, UserID: uuid.New(), Role: identity.RoleTenant}, userID, 1, 20)
	assert.Equal(t, "FORBIDDEN", shared.ErrorCode(err))
}

func TestUserService_Deactivate(t *testing.T) {
	ctx := context.Background()
	svc, users, _, blacklist := newUserService()
	user := newTestUser(t, uuid.New(), identity.RoleTenant)
	agent := appshared.Actor{AgencyID: user.AgencyID, UserID: uuid.New(), Role: identity.RoleAgent}
	users.On("FindByIDForAgency", ctx, user.AgencyID, user.ID).Return(user, nil)
	users.On("Save", ctx, user).Return(nil)

	resp, err := svc.DeactivateUser(ctx, agent, user.ID)
	require.NoError(t, err)
	assert.Equal(t, identity.UserStatusDeactivated, resp.Status)

	revoked, err := blacklist.IsUserRevoked(ctx, user.ID.String(), time.Now().Add(-2*time.Second))
	require.NoError(t, err)
	assert.True(t, revoked)

	_, err = svc.DeactivateUser(ctx, agent, user.ID)
	assert.Equal(t, "ALREADY_DEACTIVATED", shared.ErrorCode(err))

	resp, err = svc.ActivateUser(ctx, agent, user.ID)
	require.NoError(t, err)
	assert.Equal(t, identity.UserStatusActive, resp.Status)

	_, err = svc.DeactivateUser(ctx, agent, agent.UserID)
	assert.Equal(t, "INVALID_OPERATION", shared.ErrorCode(err))

	tenant := appshared.Actor{AgencyID: user.AgencyID, UserID: uuid.New(), Role: identity.RoleTenant}
	_, err = svc.DeactivateUser(ctx, tenant, user.ID)
	assert.Equal(t, "FORBIDDEN", shared.ErrorCode(err))
}
