package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	appshared "github.com/rentwise/backend/internal/application/shared"
	"github.com/rentwise/backend/internal/domain/identity"
	"github.com/rentwise/backend/internal/domain/shared"
	"github.com/rentwise/backend/internal/infrastructure/auth"
	"github.com/rentwise/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// UserService manages accounts after registration
type UserService struct {
	users     identity.UserRepository
	logins    identity.LoginRecordRepository
	blacklist auth.TokenBlacklist
	revokeTTL time.Duration
	logger    *zap.Logger
}

// NewUserService creates a new UserService. revokeTTL is how long a deactivation
// keeps previously issued tokens revoked, normally the refresh token lifetime.
func NewUserService(
	users identity.UserRepository,
	logins identity.LoginRecordRepository,
	blacklist auth.TokenBlacklist,
	revokeTTL time.Duration,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		users:     users,
		logins:    logins,
		blacklist: blacklist,
		revokeTTL: revokeTTL,
		logger:    logger,
	}
}

// GetUser returns a user of the actor's agency. Tenants and landlords may only read themselves.
func (s *UserService) GetUser(ctx context.Context, actor appshared.Actor, id uuid.UUID) (*UserResponse, error) {
	if id != actor.UserID && !actor.Is(identity.RoleAgent) {
		return nil, appshared.ErrForbidden
	}
	user, err := s.users.FindByIDForAgency(ctx, actor.AgencyID, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// ListUsers lists the agency's users; agents only
func (s *UserService) ListUsers(ctx context.Context, actor appshared.Actor, req UserListFilter) (*shared.Paginated[UserResponse], error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "UserService", "ListUsers")
	defer span.End()

	if err := actor.Require(identity.RoleAgent); err != nil {
		return nil, err
	}

	filter := shared.DefaultFilter()
	filter.Page = req.Page
	filter.PageSize = req.PageSize
	filter.Search = req.Search
	if req.Role != "" {
		filter = filter.With("role", req.Role)
	}
	filter = filter.Normalize()

	users, err := s.users.FindAllForAgency(ctx, actor.AgencyID, filter)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	total, err := s.users.CountForAgency(ctx, actor.AgencyID, filter)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	items := make([]UserResponse, len(users))
	for i := range users {
		items[i] = ToUserResponse(&users[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// UpdateProfile edits the caller's own name and phone
func (s *UserService) UpdateProfile(ctx context.Context, actor appshared.Actor, req UpdateProfileRequest) (*UserResponse, error) {
	user, err := s.users.FindByIDForAgency(ctx, actor.AgencyID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if err := user.UpdateProfile(req.FirstName, req.LastName, req.Phone); err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// ListLoginHistory returns a user's login attempts. Users see their own; agents see anyone's.
func (s *UserService) ListLoginHistory(ctx context.Context, actor appshared.Actor, userID uuid.UUID, page, pageSize int) (*shared.Paginated[LoginRecordResponse], error) {
	if userID == uuid.Nil {
		userID = actor.UserID
	}
	if userID != actor.UserID && !actor.Is(identity.RoleAgent) {
		return nil, appshared.ErrForbidden
	}

	filter := shared.DefaultFilter()
	filter.Page = page
	filter.PageSize = pageSize
	filter = filter.Normalize()

	records, total, err := s.logins.FindByUser(ctx, actor.AgencyID, userID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]LoginRecordResponse, len(records))
	for i, r := range records {
		items[i] = ToLoginRecordResponse(r)
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// ActivateUser re-enables a deactivated account
func (s *UserService) ActivateUser(ctx context.Context, actor appshared.Actor, id uuid.UUID) (*UserResponse, error) {
	return s.setActive(ctx, actor, id, true)
}

// DeactivateUser disables an account and revokes its outstanding tokens
func (s *UserService) DeactivateUser(ctx context.Context, actor appshared.Actor, id uuid.UUID) (*UserResponse, error) {
	if id == actor.UserID {
		return nil, shared.NewDomainError("INVALID_OPERATION", "You cannot deactivate your own account")
	}
	return s.setActive(ctx, actor, id, false)
}

func (s *UserService) setActive(ctx context.Context, actor appshared.Actor, id uuid.UUID, active bool) (*UserResponse, error) {
	if err := actor.Require(identity.RoleAgent); err != nil {
		return nil, err
	}
	user, err := s.users.FindByIDForAgency(ctx, actor.AgencyID, id)
	if err != nil {
		return nil, err
	}
	if active {
		err = user.Activate()
	} else {
		err = user.Deactivate()
	}
	if err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	if !active {
		if err := s.blacklist.RevokeUser(ctx, user.ID.String(), s.revokeTTL); err != nil {
			s.logger.Error("Failed to revoke tokens of deactivated user", zap.String("user_id", user.ID.String()), zap.Error(err))
		}
	}
	s.logger.Info("User status changed",
		zap.String("user_id", user.ID.String()),
		zap.String("status", string(user.Status)),
		zap.String("actor_id", actor.UserID.String()),
	)
	resp := ToUserResponse(user)
	return &resp, nil
}
