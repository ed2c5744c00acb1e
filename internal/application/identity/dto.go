package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/domain/identity"
	"github.com/rentwise/backend/internal/infrastructure/auth"
)

// RegisterRequest creates an account in an agency
type RegisterRequest struct {
	AgencyID  uuid.UUID `json:"agency_id" binding:"required"`
	Email     string    `json:"email" binding:"required,email,max=200"`
	Password  string    `json:"password" binding:"required,min=8,max=72"`
	Role      string    `json:"role" binding:"required,oneof=tenant landlord agent"`
	FirstName string    `json:"first_name" binding:"max=100"`
	LastName  string    `json:"last_name" binding:"max=100"`
	Phone     string    `json:"phone" binding:"max=50"`
}

// LoginRequest carries credentials; IP and UserAgent are filled in by the transport
type LoginRequest struct {
	AgencyID  uuid.UUID `json:"agency_id" binding:"required"`
	Email     string    `json:"email" binding:"required"`
	Password  string    `json:"password" binding:"required"`
	IP        string    `json:"-"`
	UserAgent string    `json:"-"`
}

// LoginResponse is returned by a successful login
type LoginResponse struct {
	Tokens *auth.TokenPair `json:"tokens"`
	User   UserResponse    `json:"user"`
}

// RefreshRequest carries a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest optionally carries the refresh token so it is revoked too
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ChangePasswordRequest changes the caller's password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// PasswordResetRequest asks for a reset link
type PasswordResetRequest struct {
	AgencyID uuid.UUID `json:"agency_id" binding:"required"`
	Email    string    `json:"email" binding:"required,email"`
}

// ResetPasswordRequest consumes a reset token
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// UpdateProfileRequest edits the caller's own profile
type UpdateProfileRequest struct {
	FirstName string `json:"first_name" binding:"max=100"`
	LastName  string `json:"last_name" binding:"max=100"`
	Phone     string `json:"phone" binding:"max=50"`
}

// UserListFilter lists users of the agency
type UserListFilter struct {
	Role     string `form:"role" json:"role" binding:"omitempty,oneof=tenant landlord agent"`
	Search   string `form:"search" json:"search"`
	Page     int    `form:"page" json:"page"`
	PageSize int    `form:"page_size" json:"page_size"`
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID          uuid.UUID           `json:"id"`
	AgencyID    uuid.UUID           `json:"agency_id"`
	Email       string              `json:"email"`
	FirstName   string              `json:"first_name"`
	LastName    string              `json:"last_name"`
	Phone       string              `json:"phone,omitempty"`
	Role        identity.Role       `json:"role"`
	Status      identity.UserStatus `json:"status"`
	LastLoginAt *time.Time          `json:"last_login_at,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

// ToUserResponse converts a domain user
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		AgencyID:    u.AgencyID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Phone:       u.Phone,
		Role:        u.Role,
		Status:      u.Status,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// LoginRecordResponse is one entry of the login history
type LoginRecordResponse struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	IP            string    `json:"ip"`
	UserAgent     string    `json:"user_agent"`
	Success       bool      `json:"success"`
	FailureReason string    `json:"failure_reason,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// ToLoginRecordResponse converts a domain login record
func ToLoginRecordResponse(r identity.LoginRecord) LoginRecordResponse {
	return LoginRecordResponse{
		ID:            r.ID,
		Email:         r.Email,
		IP:            r.IP,
		UserAgent:     r.UserAgent,
		Success:       r.Success,
		FailureReason: r.FailureReason,
		OccurredAt:    r.OccurredAt,
	}
}
