package identity

import (
	"time"

	"github.com/google/uuid"
)

// Login failure reasons recorded in the login history
const (
	LoginFailureUnknownUser = "unknown_user"
	LoginFailureBadPassword = "bad_password"
	LoginFailureLocked      = "account_locked"
	LoginFailureDeactivated = "account_deactivated"
)

// LoginRecord is an append-only entry in a user's login history.
// UserID is nil when the attempt named an email with no account.
type LoginRecord struct {
	ID            uuid.UUID
	AgencyID      uuid.UUID
	UserID        *uuid.UUID
	Email         string
	IP            string
	UserAgent     string
	Success       bool
	FailureReason string
	OccurredAt    time.Time
}

// NewSuccessfulLogin records a successful login for user
func NewSuccessfulLogin(user *User, ip, userAgent string) *LoginRecord {
	userID := user.ID
	return &LoginRecord{
		ID:         uuid.New(),
		AgencyID:   user.AgencyID,
		UserID:     &userID,
		Email:      user.Email,
		IP:         ip,
		UserAgent:  userAgent,
		Success:    true,
		OccurredAt: time.Now(),
	}
}

// NewFailedLogin records a failed attempt; user may be nil
func NewFailedLogin(agencyID uuid.UUID, user *User, email, ip, userAgent, reason string) *LoginRecord {
	rec := &LoginRecord{
		ID:            uuid.New(),
		AgencyID:      agencyID,
		Email:         email,
		IP:            ip,
		UserAgent:     userAgent,
		FailureReason: reason,
		OccurredAt:    time.Now(),
	}
	if user != nil {
		userID := user.ID
		rec.UserID = &userID
	}
	return rec
}
