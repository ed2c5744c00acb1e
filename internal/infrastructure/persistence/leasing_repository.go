package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/domain/leasing"
	"github.com/rentwise/backend/internal/domain/shared"
	"github.com/rentwise/backend/internal/infrastructure/persistence/agency"
	"github.com/rentwise/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormApplicationRepository implements leasing.ApplicationRepository using GORM.
// Save is a plain overwrite: concurrent reviewers race and the last write wins.
type GormApplicationRepository struct {
	db *gorm.DB
}

// NewGormApplicationRepository creates a new GormApplicationRepository
func NewGormApplicationRepository(db *gorm.DB) *GormApplicationRepository {
	return &GormApplicationRepository{db: db}
}

// FindByIDForAgency finds an application by ID within an agency
func (r *GormApplicationRepository) FindByIDForAgency(ctx context.Context, agencyID, id uuid.UUID) (*leasing.TenantApplication, error) {
	var m models.TenantApplicationModel
	if err := r.db.WithContext(ctx).Scopes(agency.ByID(agencyID, id)).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindAllForAgency lists applications
func (r *GormApplicationRepository) FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]leasing.TenantApplication, error) {
	var rows []models.TenantApplicationModel
	if err := page(r.scope(ctx, agencyID, filter), filter, ApplicationSortFields).Find(&rows).Error; err != nil {
		return nil, err
	}
	return applicationsToDomain(rows), nil
}

// CountForAgency counts applications matching the filter
func (r *GormApplicationRepository) CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.scope(ctx, agencyID, filter).Count(&count).Error
	return count, err
}

// FindByListingAndStatuses returns applications for a listing in any of the given statuses
func (r *GormApplicationRepository) FindByListingAndStatuses(ctx context.Context, agencyID, listingID uuid.UUID, statuses []leasing.ApplicationStatus) ([]leasing.TenantApplication, error) {
	if len(statuses) == 0 {
		return []leasing.TenantApplication{}, nil
	}
	var rows []models.TenantApplicationModel
	if err := r.db.WithContext(ctx).
		Scopes(agency.Scope(agencyID)).Where("listing_id = ? AND status IN ?", listingID, statuses).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return applicationsToDomain(rows), nil
}

// ExistsOpenForApplicant reports whether the applicant already has an open,
// non-withdrawn application for the listing
func (r *GormApplicationRepository) ExistsOpenForApplicant(ctx context.Context, agencyID, listingID, applicantID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.TenantApplicationModel{}).
		Scopes(agency.Scope(agencyID)).Where("listing_id = ? AND applicant_id = ?", listingID, applicantID).
		Where("withdrawn_at IS NULL AND status IN ?", leasing.OpenStatuses()).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save inserts or overwrites an application
func (r *GormApplicationRepository) Save(ctx context.Context, a *leasing.TenantApplication) error {
	return r.db.WithContext(ctx).Save(models.TenantApplicationModelFromDomain(a)).Error
}

func (r *GormApplicationRepository) scope(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.TenantApplicationModel{}).Scopes(agency.Scope(agencyID))
	return equals(query, filter.Filters, "listing_id", "applicant_id", "agent_id", "landlord_id", "status")
}

func applicationsToDomain(rows []models.TenantApplicationModel) []leasing.TenantApplication {
	out := make([]leasing.TenantApplication, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// GormLeaseRepository implements leasing.LeaseRepository using GORM
type GormLeaseRepository struct {
	db *gorm.DB
}

// NewGormLeaseRepository creates a new GormLeaseRepository
func NewGormLeaseRepository(db *gorm.DB) *GormLeaseRepository {
	return &GormLeaseRepository{db: db}
}

// FindByIDForAgency finds a lease by ID within an agency
func (r *GormLeaseRepository) FindByIDForAgency(ctx context.Context, agencyID, id uuid.UUID) (*leasing.LeaseAgreement, error) {
	var m models.LeaseAgreementModel
	if err := r.db.WithContext(ctx).Scopes(agency.ByID(agencyID, id)).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindByApplication returns the lease produced by an application
func (r *GormLeaseRepository) FindByApplication(ctx context.Context, agencyID, applicationID uuid.UUID) (*leasing.LeaseAgreement, error) {
	var m models.LeaseAgreementModel
	if err := r.db.WithContext(ctx).
		Scopes(agency.Scope(agencyID)).Where("application_id = ?", applicationID).
		First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// ExpireDue marks active leases whose end date has passed as expired
func (r *GormLeaseRepository) ExpireDue(ctx context.Context, agencyID uuid.UUID, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.LeaseAgreementModel{}).
		Scopes(agency.Scope(agencyID)).
		Where("status = ? AND end_date <= ?", leasing.LeaseStatusActive, now).
		Updates(map[string]any{
			"status":     leasing.LeaseStatusExpired,
			"updated_at": now,
			"version":    gorm.Expr("version + 1"),
		})
	return result.RowsAffected, result.Error
}

// FindAllForAgency lists leases
func (r *GormLeaseRepository) FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]leasing.LeaseAgreement, error) {
	var rows []models.LeaseAgreementModel
	if err := page(r.scope(ctx, agencyID, filter), filter, LeaseSortFields).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]leasing.LeaseAgreement, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountForAgency counts leases matching the filter
func (r *GormLeaseRepository) CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.scope(ctx, agencyID, filter).Count(&count).Error
	return count, err
}

// Save inserts or updates a lease
func (r *GormLeaseRepository) Save(ctx context.Context, l *leasing.LeaseAgreement) error {
	return r.db.WithContext(ctx).Save(models.LeaseAgreementModelFromDomain(l)).Error
}

func (r *GormLeaseRepository) scope(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.LeaseAgreementModel{}).Scopes(agency.Scope(agencyID))
	return equals(query, filter.Filters, "tenant_id", "landlord_id", "property_id", "status")
}

var (
	_ leasing.ApplicationRepository = (*GormApplicationRepository)(nil)
	_ leasing.LeaseRepository       = (*GormLeaseRepository)(nil)
)
