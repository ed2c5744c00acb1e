package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/domain/identity"
	"github.com/rentwise/backend/internal/domain/shared"
	"github.com/rentwise/backend/internal/infrastructure/persistence/agency"
	"github.com/rentwise/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by ID regardless of agency
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var m models.UserModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindByIDForAgency finds a user by ID within an agency
func (r *GormUserRepository) FindByIDForAgency(ctx context.Context, agencyID, id uuid.UUID) (*identity.User, error) {
	var m models.UserModel
	if err := r.db.WithContext(ctx).
		Scopes(agency.ByID(agencyID, id)).
		First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindByEmail finds a user by email (case-insensitive) within an agency
func (r *GormUserRepository) FindByEmail(ctx context.Context, agencyID uuid.UUID, email string) (*identity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, shared.ErrNotFound
	}
	var m models.UserModel
	if err := r.db.WithContext(ctx).
		Scopes(agency.Scope(agencyID)).Where("email = ?", email).
		First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// ExistsByEmail checks whether an email is taken within an agency
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, agencyID uuid.UUID, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Scopes(agency.Scope(agencyID)).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByIDs loads several users of an agency at once
func (r *GormUserRepository) FindByIDs(ctx context.Context, agencyID uuid.UUID, ids []uuid.UUID) ([]identity.User, error) {
	if len(ids) == 0 {
		return []identity.User{}, nil
	}
	var rows []models.UserModel
	if err := r.db.WithContext(ctx).
		Scopes(agency.Scope(agencyID)).Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return usersToDomain(rows), nil
}

// FindAllForAgency lists users. Filter keys: "role", "status".
func (r *GormUserRepository) FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]identity.User, error) {
	var rows []models.UserModel
	query := page(r.scope(ctx, agencyID, filter), filter, UserSortFields)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return usersToDomain(rows), nil
}

// CountForAgency counts users matching the filter
func (r *GormUserRepository) CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.scope(ctx, agencyID, filter).Count(&count).Error
	return count, err
}

// Save inserts or updates a user
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	return r.db.WithContext(ctx).Save(models.UserModelFromDomain(user)).Error
}

func (r *GormUserRepository) scope(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.UserModel{}).Scopes(agency.Scope(agencyID))
	query = equals(query, filter.Filters, "role", "status")
	return search(query, filter.Search, "email", "first_name", "last_name")
}

func usersToDomain(rows []models.UserModel) []identity.User {
	users := make([]identity.User, len(rows))
	for i := range rows {
		users[i] = *rows[i].ToDomain()
	}
	return users
}

// GormLoginRecordRepository implements identity.LoginRecordRepository
type GormLoginRecordRepository struct {
	db *gorm.DB
}

// NewGormLoginRecordRepository creates a new GormLoginRecordRepository
func NewGormLoginRecordRepository(db *gorm.DB) *GormLoginRecordRepository {
	return &GormLoginRecordRepository{db: db}
}

// Append stores a login attempt
func (r *GormLoginRecordRepository) Append(ctx context.Context, record *identity.LoginRecord) error {
	return r.db.WithContext(ctx).Create(models.LoginRecordModelFromDomain(record)).Error
}

// FindByUser returns a user's login history, newest first
func (r *GormLoginRecordRepository) FindByUser(ctx context.Context, agencyID, userID uuid.UUID, filter shared.Filter) ([]identity.LoginRecord, int64, error) {
	filter = filter.Normalize()
	query := r.db.WithContext(ctx).Model(&models.LoginRecordModel{}).
		Scopes(agency.Scope(agencyID)).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.LoginRecordModel
	if err := query.Order("occurred_at DESC").
		Offset(filter.Offset()).Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	records := make([]identity.LoginRecord, len(rows))
	for i := range rows {
		records[i] = rows[i].ToDomain()
	}
	return records, total, nil
}

// GormPasswordResetRepository implements identity.PasswordResetRepository
type GormPasswordResetRepository struct {
	db *gorm.DB
}

// NewGormPasswordResetRepository creates a new GormPasswordResetRepository
func NewGormPasswordResetRepository(db *gorm.DB) *GormPasswordResetRepository {
	return &GormPasswordResetRepository{db: db}
}

// Save inserts or updates a token
func (r *GormPasswordResetRepository) Save(ctx context.Context, token *identity.PasswordResetToken) error {
	return r.db.WithContext(ctx).Save(models.PasswordResetTokenModelFromDomain(token)).Error
}

// FindByHash finds a token by the SHA-256 of its raw value
func (r *GormPasswordResetRepository) FindByHash(ctx context.Context, tokenHash string) (*identity.PasswordResetToken, error) {
	var m models.PasswordResetTokenModel
	if err := r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// InvalidateForUser marks every outstanding token of the user as used
func (r *GormPasswordResetRepository) InvalidateForUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.PasswordResetTokenModel{}).
		Where("user_id = ? AND used_at IS NULL", userID).
		Update("used_at", time.Now()).Error
}

var (
	_ identity.UserRepository          = (*GormUserRepository)(nil)
	_ identity.LoginRecordRepository   = (*GormLoginRecordRepository)(nil)
	_ identity.PasswordResetRepository = (*GormPasswordResetRepository)(nil)
)
