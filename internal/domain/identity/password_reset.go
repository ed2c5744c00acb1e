package identity

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

const resetTokenBytes = 32

// PasswordResetToken is a single-use token that lets a user set a new password.
// Only the SHA-256 of the raw token is stored.
type PasswordResetToken struct {
	ID        uuid.UUID
	AgencyID  uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// NewPasswordResetToken issues a token for user valid for ttl.
// It returns the token entity and the raw token to deliver to the user.
func NewPasswordResetToken(user *User, ttl time.Duration) (*PasswordResetToken, string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, "", err
	}
	raw := hex.EncodeToString(buf)
	now := time.Now()

	return &PasswordResetToken{
		ID:        uuid.New(),
		AgencyID:  user.AgencyID,
		UserID:    user.ID,
		TokenHash: HashResetToken(raw),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}, raw, nil
}

// HashResetToken returns the stored form of a raw reset token
func HashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// IsUsable reports whether the token is unused and unexpired at now
func (t *PasswordResetToken) IsUsable(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}

// MarkUsed consumes the token
func (t *PasswordResetToken) MarkUsed(now time.Time) {
	t.UsedAt = &now
}
