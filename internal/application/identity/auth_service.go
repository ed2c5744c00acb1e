package identity

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	appshared "github.com/rentwise/backend/internal/application/shared"
	"github.com/rentwise/backend/internal/domain/identity"
	"github.com/rentwise/backend/internal/domain/shared"
	"github.com/rentwise/backend/internal/infrastructure/auth"
	"github.com/rentwise/backend/internal/infrastructure/notification"
	"go.uber.org/zap"
)

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	MaxLoginAttempts int
	LockDuration     time.Duration
	ResetTokenTTL    time.Duration
	ResetURLBase     string
}

// DefaultAuthServiceConfig returns 5 attempts, a 15 minute lock and a 1 hour reset token
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
		ResetTokenTTL:    time.Hour,
	}
}

var (
	errInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	errInvalidToken       = shared.NewDomainError("INVALID_TOKEN", "Token is invalid or has expired")
)

// AuthService handles registration, authentication and password recovery
type AuthService struct {
	users     identity.UserRepository
	logins    identity.LoginRecordRepository
	resets    identity.PasswordResetRepository
	tokens    *auth.JWTService
	blacklist auth.TokenBlacklist
	notifier  notification.Notifier
	events    shared.EventPublisher
	config    AuthServiceConfig
	logger    *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	users identity.UserRepository,
	logins identity.LoginRecordRepository,
	resets identity.PasswordResetRepository,
	tokens *auth.JWTService,
	blacklist auth.TokenBlacklist,
	notifier notification.Notifier,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		logins:    logins,
		resets:    resets,
		tokens:    tokens,
		blacklist: blacklist,
		notifier:  notifier,
		config:    config,
		logger:    logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *AuthService) SetEventPublisher(p shared.EventPublisher) {
	s.events = p
}

// Register creates a new account. The email must be free within the agency.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	user, err := identity.NewUser(req.AgencyID, req.Email, req.Password, identity.Role(req.Role))
	if err != nil {
		return nil, err
	}
	if err := user.UpdateProfile(req.FirstName, req.LastName, req.Phone); err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByEmail(ctx, req.AgencyID, user.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An account with this email already exists")
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	s.publish(ctx, user)

	s.logger.Info("User registered",
		zap.String("agency_id", user.AgencyID.String()),
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)
	resp := ToUserResponse(user)
	return &resp, nil
}

// Login authenticates by email and password. Every attempt is appended to the login history.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.AgencyID, req.Email)
	if errors.Is(err, shared.ErrNotFound) {
		s.recordLogin(ctx, identity.NewFailedLogin(req.AgencyID, nil, req.Email, req.IP, req.UserAgent, identity.LoginFailureUnknownUser))
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if user.IsDeactivated() {
		s.recordLogin(ctx, identity.NewFailedLogin(req.AgencyID, user, user.Email, req.IP, req.UserAgent, identity.LoginFailureDeactivated))
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}
	if user.IsLocked() {
		s.recordLogin(ctx, identity.NewFailedLogin(req.AgencyID, user, user.Email, req.IP, req.UserAgent, identity.LoginFailureLocked))
		return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked. Please try again later")
	}

	if !user.VerifyPassword(req.Password) {
		locked := user.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration)
		if err := s.users.Save(ctx, user); err != nil {
			s.logger.Error("Failed to update user after login failure", zap.Error(err))
		}
		s.recordLogin(ctx, identity.NewFailedLogin(req.AgencyID, user, user.Email, req.IP, req.UserAgent, identity.LoginFailureBadPassword))
		if locked {
			s.logger.Warn("Account locked after too many failed attempts",
				zap.String("user_id", user.ID.String()),
				zap.Int("attempts", user.FailedAttempts),
			)
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Too many failed login attempts. Account has been locked")
		}
		return nil, errInvalidCredentials
	}

	pair, err := s.tokens.GenerateTokenPair(subjectOf(user))
	if err != nil {
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens", err)
	}

	user.RecordLoginSuccess(req.IP)
	if err := s.users.Save(ctx, user); err != nil {
		s.logger.Error("Failed to update user after successful login", zap.Error(err))
	}
	s.recordLogin(ctx, identity.NewSuccessfulLogin(user, req.IP, req.UserAgent))

	s.logger.Info("User logged in", zap.String("user_id", user.ID.String()))
	return &LoginResponse{Tokens: pair, User: ToUserResponse(user)}, nil
}

// RefreshToken rotates a refresh token. The presented token is revoked so it can be used once.
func (s *AuthService) RefreshToken(ctx context.Context, req RefreshRequest) (*auth.TokenPair, error) {
	claims, err := s.tokens.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, errInvalidToken
	}
	if err := s.checkNotRevoked(ctx, claims); err != nil {
		return nil, err
	}

	userID, err := claims.UserUUID()
	if err != nil {
		return nil, errInvalidToken
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, errInvalidToken
	}
	if !user.CanLogin() {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Account is no longer active")
	}

	pair, err := s.tokens.RotateTokenPair(claims, subjectOf(user))
	if errors.Is(err, auth.ErrMaxRefreshExceeded) {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Maximum token refresh count exceeded. Please log in again")
	}
	if err != nil {
		return nil, errInvalidToken
	}

	if err := s.blacklist.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		s.logger.Error("Failed to revoke rotated refresh token", zap.Error(err))
	}
	return pair, nil
}

// Logout revokes the presented access token, and the refresh token when given, until they expire
func (s *AuthService) Logout(ctx context.Context, access *auth.Claims, req LogoutRequest) error {
	if err := s.blacklist.Revoke(ctx, access.ID, access.RemainingTTL()); err != nil {
		return shared.WrapDomainError("INTERNAL_ERROR", "Failed to revoke token", err)
	}
	if req.RefreshToken != "" {
		if refresh, err := s.tokens.ValidateRefreshToken(req.RefreshToken); err == nil && refresh.UserID == access.UserID {
			if err := s.blacklist.Revoke(ctx, refresh.ID, refresh.RemainingTTL()); err != nil {
				s.logger.Warn("Failed to revoke refresh token on logout", zap.Error(err))
			}
		}
	}
	s.logger.Info("User logged out", zap.String("user_id", access.UserID))
	return nil
}

// ChangePassword changes the caller's password and revokes every token issued before
func (s *AuthService) ChangePassword(ctx context.Context, actor appshared.Actor, req ChangePasswordRequest) error {
	user, err := s.users.FindByIDForAgency(ctx, actor.AgencyID, actor.UserID)
	if err != nil {
		return err
	}
	if err := user.ChangePassword(req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}
	s.publish(ctx, user)
	s.revokeUserTokens(ctx, user.ID)

	s.logger.Info("User password changed", zap.String("user_id", user.ID.String()))
	return nil
}

// RequestPasswordReset emails a reset link. It reports success whether or not the account exists.
func (s *AuthService) RequestPasswordReset(ctx context.Context, req PasswordResetRequest) error {
	user, err := s.users.FindByEmail(ctx, req.AgencyID, req.Email)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Error("Password reset lookup failed", zap.Error(err))
		}
		return nil
	}
	if user.IsDeactivated() {
		return nil
	}

	token, raw, err := identity.NewPasswordResetToken(user, s.config.ResetTokenTTL)
	if err != nil {
		s.logger.Error("Failed to generate reset token", zap.Error(err))
		return nil
	}
	if err := s.resets.InvalidateForUser(ctx, user.ID); err != nil {
		s.logger.Warn("Failed to invalidate previous reset tokens", zap.Error(err))
	}
	if err := s.resets.Save(ctx, token); err != nil {
		s.logger.Error("Failed to store reset token", zap.Error(err))
		return nil
	}
	if s.events != nil {
		if err := s.events.Publish(ctx, identity.NewPasswordResetRequestedEvent(user, token)); err != nil {
			s.logger.Warn("Failed to publish password reset event", zap.Error(err))
		}
	}

	body := fmt.Sprintf("Hello %s,\n\nUse the link below to choose a new password. It expires in %s.\n\n%s\n\nIf you did not ask for this, you can ignore this email.\n",
		user.FullName(), s.config.ResetTokenTTL, s.resetLink(raw))
	if err := s.notifier.SendEmail(ctx, user.Email, "Reset your password", body); err != nil {
		s.logger.Error("Failed to send password reset email",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
	}
	return nil
}

// ResetPassword sets a new password with a single-use token
func (s *AuthService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	token, err := s.resets.FindByHash(ctx, identity.HashResetToken(req.Token))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return errInvalidToken
		}
		return err
	}
	now := time.Now()
	if !token.IsUsable(now) {
		return errInvalidToken
	}

	user, err := s.users.FindByIDForAgency(ctx, token.AgencyID, token.UserID)
	if err != nil {
		return errInvalidToken
	}
	if err := user.SetPassword(req.NewPassword); err != nil {
		return err
	}

	token.MarkUsed(now)
	if err := s.resets.Save(ctx, token); err != nil {
		return err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}
	s.publish(ctx, user)
	s.revokeUserTokens(ctx, user.ID)

	s.logger.Info("Password reset completed", zap.String("user_id", user.ID.String()))
	return nil
}

// GetCurrentUser returns the caller's account
func (s *AuthService) GetCurrentUser(ctx context.Context, actor appshared.Actor) (*UserResponse, error) {
	user, err := s.users.FindByIDForAgency(ctx, actor.AgencyID, actor.UserID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// Authenticate validates an access token against signature, expiry and revocation
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*auth.Claims, error) {
	claims, err := s.tokens.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, err
	}
	if err := s.checkNotRevoked(ctx, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *AuthService) checkNotRevoked(ctx context.Context, claims *auth.Claims) error {
	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return shared.WrapDomainError("INTERNAL_ERROR", "Failed to check token revocation", err)
	}
	if !revoked {
		revoked, err = s.blacklist.IsUserRevoked(ctx, claims.UserID, claims.IssuedAtTime())
		if err != nil {
			return shared.WrapDomainError("INTERNAL_ERROR", "Failed to check token revocation", err)
		}
	}
	if revoked {
		return shared.NewDomainError("INVALID_TOKEN", auth.ErrTokenRevoked.Error())
	}
	return nil
}

func (s *AuthService) revokeUserTokens(ctx context.Context, userID uuid.UUID) {
	if err := s.blacklist.RevokeUser(ctx, userID.String(), s.tokens.RefreshTokenExpiration()); err != nil {
		s.logger.Error("Failed to revoke user tokens", zap.String("user_id", userID.String()), zap.Error(err))
	}
}

func (s *AuthService) recordLogin(ctx context.Context, rec *identity.LoginRecord) {
	if err := s.logins.Append(ctx, rec); err != nil {
		s.logger.Error("Failed to append login record", zap.Error(err))
	}
}

func (s *AuthService) publish(ctx context.Context, user *identity.User) {
	appshared.PublishEvents(ctx, s.events, s.logger, user)
}

func (s *AuthService) resetLink(raw string) string {
	if s.config.ResetURLBase == "" {
		return raw
	}
	u, err := url.Parse(s.config.ResetURLBase)
	if err != nil {
		return s.config.ResetURLBase + "?token=" + url.QueryEscape(raw)
	}
	q := u.Query()
	q.Set("token", raw)
	u.RawQuery = q.Encode()
	return u.String()
}

func subjectOf(u *identity.User) auth.Subject {
	return auth.Subject{
		AgencyID: u.AgencyID,
		UserID:   u.ID,
		Email:    u.Email,
		Role:     string(u.Role),
	}
}
