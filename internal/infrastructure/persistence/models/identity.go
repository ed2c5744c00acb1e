package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User aggregate
type UserModel struct {
	AgencyAggregateModel
	Email          string              `gorm:"type:varchar(200);not null;uniqueIndex:idx_users_agency_email"`
	PasswordHash   string              `gorm:"type:varchar(255);not null"`
	FirstName      string              `gorm:"type:varchar(100)"`
	LastName       string              `gorm:"type:varchar(100)"`
	Phone          string              `gorm:"type:varchar(50)"`
	Role           identity.Role       `gorm:"type:varchar(20);not null;index"`
	Status         identity.UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	FailedAttempts int                 `gorm:"not null;default:0"`
	LockedUntil    *time.Time
	LastLoginAt    *time.Time
	LastLoginIP    string `gorm:"type:varchar(45)"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// UserModelFromDomain creates a persistence model from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Email:          u.Email,
		PasswordHash:   u.PasswordHash,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Phone:          u.Phone,
		Role:           u.Role,
		Status:         u.Status,
		FailedAttempts: u.FailedAttempts,
		LockedUntil:    u.LockedUntil,
		LastLoginAt:    u.LastLoginAt,
		LastLoginIP:    u.LastLoginIP,
	}
	m.FromDomainAggregate(u.AgencyAggregateRoot)
	return m
}

// ToDomain converts the model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		AgencyAggregateRoot: m.ToDomainAggregate(),
		Email:               m.Email,
		PasswordHash:        m.PasswordHash,
		FirstName:           m.FirstName,
		LastName:            m.LastName,
		Phone:               m.Phone,
		Role:                m.Role,
		Status:              m.Status,
		FailedAttempts:      m.FailedAttempts,
		LockedUntil:         m.LockedUntil,
		LastLoginAt:         m.LastLoginAt,
		LastLoginIP:         m.LastLoginIP,
	}
}

// LoginRecordModel is an append-only row of the login history
type LoginRecordModel struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	AgencyID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	UserID        *uuid.UUID `gorm:"type:uuid;index"`
	Email         string     `gorm:"type:varchar(200);not null"`
	IP            string     `gorm:"type:varchar(45)"`
	UserAgent     string     `gorm:"type:varchar(500)"`
	Success       bool       `gorm:"not null"`
	FailureReason string     `gorm:"type:varchar(50)"`
	OccurredAt    time.Time  `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (LoginRecordModel) TableName() string {
	return "login_records"
}

// LoginRecordModelFromDomain creates a persistence model from a domain LoginRecord
func LoginRecordModelFromDomain(r *identity.LoginRecord) *LoginRecordModel {
	return &LoginRecordModel{
		ID:            r.ID,
		AgencyID:      r.AgencyID,
		UserID:        r.UserID,
		Email:         r.Email,
		IP:            r.IP,
		UserAgent:     truncate(r.UserAgent, 500),
		Success:       r.Success,
		FailureReason: r.FailureReason,
		OccurredAt:    r.OccurredAt,
	}
}

// ToDomain converts the model to a domain LoginRecord
func (m *LoginRecordModel) ToDomain() identity.LoginRecord {
	return identity.LoginRecord{
		ID:            m.ID,
		AgencyID:      m.AgencyID,
		UserID:        m.UserID,
		Email:         m.Email,
		IP:            m.IP,
		UserAgent:     m.UserAgent,
		Success:       m.Success,
		FailureReason: m.FailureReason,
		OccurredAt:    m.OccurredAt,
	}
}

// PasswordResetTokenModel stores the hash of a reset token, never the token itself
type PasswordResetTokenModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	AgencyID  uuid.UUID `gorm:"type:uuid;not null"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	TokenHash string    `gorm:"type:char(64);not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
	UsedAt    *time.Time
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PasswordResetTokenModel) TableName() string {
	return "password_reset_tokens"
}

// PasswordResetTokenModelFromDomain creates a persistence model from a domain token
func PasswordResetTokenModelFromDomain(t *identity.PasswordResetToken) *PasswordResetTokenModel {
	return &PasswordResetTokenModel{
		ID:        t.ID,
		AgencyID:  t.AgencyID,
		UserID:    t.UserID,
		TokenHash: t.TokenHash,
		ExpiresAt: t.ExpiresAt,
		UsedAt:    t.UsedAt,
		CreatedAt: t.CreatedAt,
	}
}

// ToDomain converts the model to a domain PasswordResetToken
func (m *PasswordResetTokenModel) ToDomain() *identity.PasswordResetToken {
	return &identity.PasswordResetToken{
		ID:        m.ID,
		AgencyID:  m.AgencyID,
		UserID:    m.UserID,
		TokenHash: m.TokenHash,
		ExpiresAt: m.ExpiresAt,
		UsedAt:    m.UsedAt,
		CreatedAt: m.CreatedAt,
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
