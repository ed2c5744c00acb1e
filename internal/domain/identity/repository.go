package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/domain/shared"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	shared.AgencyRepository[User]

	// FindByID finds a user by ID regardless of agency (token refresh)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	// FindByEmail finds a user by email within an agency
	FindByEmail(ctx context.Context, agencyID uuid.UUID, email string) (*User, error)
	// ExistsByEmail checks whether an email is taken within an agency
	ExistsByEmail(ctx context.Context, agencyID uuid.UUID, email string) (bool, error)
	// FindByIDs loads several users at once
	FindByIDs(ctx context.Context, agencyID uuid.UUID, ids []uuid.UUID) ([]User, error)
}

// LoginRecordRepository stores the login history
type LoginRecordRepository interface {
	Append(ctx context.Context, record *LoginRecord) error
	FindByUser(ctx context.Context, agencyID, userID uuid.UUID, filter shared.Filter) ([]LoginRecord, int64, error)
}

// PasswordResetRepository stores password reset tokens
type PasswordResetRepository interface {
	Save(ctx context.Context, token *PasswordResetToken) error
	FindByHash(ctx context.Context, tokenHash string) (*PasswordResetToken, error)
	// InvalidateForUser marks all outstanding tokens of a user as used
	InvalidateForUser(ctx context.Context, userID uuid.UUID) error
}
