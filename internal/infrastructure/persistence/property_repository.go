package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/domain/property"
	"github.com/rentwise/backend/internal/domain/shared"
	"github.com/rentwise/backend/internal/infrastructure/persistence/agency"
	"github.com/rentwise/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPropertyRepository implements property.PropertyRepository using GORM
type GormPropertyRepository struct {
	db *gorm.DB
}

// NewGormPropertyRepository creates a new GormPropertyRepository
func NewGormPropertyRepository(db *gorm.DB) *GormPropertyRepository {
	return &GormPropertyRepository{db: db}
}

// FindByIDForAgency finds a property by ID within an agency
func (r *GormPropertyRepository) FindByIDForAgency(ctx context.Context, agencyID, id uuid.UUID) (*property.Property, error) {
	var m models.PropertyModel
	if err := r.db.WithContext(ctx).Scopes(agency.ByID(agencyID, id)).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindAllForAgency lists properties
func (r *GormPropertyRepository) FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]property.Property, error) {
	var rows []models.PropertyModel
	if err := page(r.scope(ctx, agencyID, filter), filter, PropertySortFields).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]property.Property, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountForAgency counts properties matching the filter
func (r *GormPropertyRepository) CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.scope(ctx, agencyID, filter).Count(&count).Error
	return count, err
}

// Save inserts or updates a property
func (r *GormPropertyRepository) Save(ctx context.Context, p *property.Property) error {
	return r.db.WithContext(ctx).Save(models.PropertyModelFromDomain(p)).Error
}

func (r *GormPropertyRepository) scope(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.PropertyModel{}).Scopes(agency.Scope(agencyID))
	query = equals(query, filter.Filters, "landlord_id", "status", "kind")
	if city, ok := filter.Filters["city"].(string); ok && city != "" {
		query = query.Where("LOWER(address_city) = LOWER(?)", city)
	}
	return search(query, filter.Search, "name", "address_line1", "address_city")
}

// GormListingRepository implements property.ListingRepository using GORM
type GormListingRepository struct {
	db *gorm.DB
}

// NewGormListingRepository creates a new GormListingRepository
func NewGormListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

// FindByIDForAgency finds a listing by ID within an agency
func (r *GormListingRepository) FindByIDForAgency(ctx context.Context, agencyID, id uuid.UUID) (*property.Listing, error) {
	var m models.ListingModel
	if err := r.db.WithContext(ctx).Scopes(agency.ByID(agencyID, id)).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindAllForAgency lists listings. "min_rent" and "max_rent" filters bound the monthly rent.
func (r *GormListingRepository) FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]property.Listing, error) {
	var rows []models.ListingModel
	if err := page(r.scope(ctx, agencyID, filter), filter, ListingSortFields).Find(&rows).Error; err != nil {
		return nil, err
	}
	return listingsToDomain(rows), nil
}

// CountForAgency counts listings matching the filter
func (r *GormListingRepository) CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.scope(ctx, agencyID, filter).Count(&count).Error
	return count, err
}

// FindActiveByProperty returns the draft or published listings of a property
func (r *GormListingRepository) FindActiveByProperty(ctx context.Context, agencyID, propertyID uuid.UUID) ([]property.Listing, error) {
	var rows []models.ListingModel
	if err := r.db.WithContext(ctx).
		Scopes(agency.Scope(agencyID)).Where("property_id = ? AND status IN ?", propertyID,
			[]property.ListingStatus{property.ListingStatusDraft, property.ListingStatusPublished}).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return listingsToDomain(rows), nil
}

// Save inserts or updates a listing
func (r *GormListingRepository) Save(ctx context.Context, l *property.Listing) error {
	return r.db.WithContext(ctx).Save(models.ListingModelFromDomain(l)).Error
}

func (r *GormListingRepository) scope(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.ListingModel{}).Scopes(agency.Scope(agencyID))
	query = equals(query, filter.Filters, "status", "property_id", "agent_id", "landlord_id")
	if v, ok := filter.Filters["min_rent"]; ok && v != nil {
		query = query.Where("monthly_rent >= ?", v)
	}
	if v, ok := filter.Filters["max_rent"]; ok && v != nil {
		query = query.Where("monthly_rent <= ?", v)
	}
	return search(query, filter.Search, "title", "description")
}

func listingsToDomain(rows []models.ListingModel) []property.Listing {
	out := make([]property.Listing, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// GormInspectionRepository implements property.InspectionRepository using GORM
type GormInspectionRepository struct {
	db *gorm.DB
}

// NewGormInspectionRepository creates a new GormInspectionRepository
func NewGormInspectionRepository(db *gorm.DB) *GormInspectionRepository {
	return &GormInspectionRepository{db: db}
}

// FindByIDForAgency finds an inspection by ID within an agency
func (r *GormInspectionRepository) FindByIDForAgency(ctx context.Context, agencyID, id uuid.UUID) (*property.Inspection, error) {
	var m models.InspectionModel
	if err := r.db.WithContext(ctx).Scopes(agency.ByID(agencyID, id)).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindAllForAgency lists inspections, soonest first unless ordered otherwise
func (r *GormInspectionRepository) FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]property.Inspection, error) {
	if filter.OrderBy == "" {
		filter.OrderBy, filter.OrderDir = "scheduled_at", "asc"
	}
	var rows []models.InspectionModel
	if err := page(r.scope(ctx, agencyID, filter), filter, InspectionSortFields).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]property.Inspection, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountForAgency counts inspections matching the filter
func (r *GormInspectionRepository) CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.scope(ctx, agencyID, filter).Count(&count).Error
	return count, err
}

// Save inserts or updates an inspection
func (r *GormInspectionRepository) Save(ctx context.Context, i *property.Inspection) error {
	return r.db.WithContext(ctx).Save(models.InspectionModelFromDomain(i)).Error
}

func (r *GormInspectionRepository) scope(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.InspectionModel{}).Scopes(agency.Scope(agencyID))
	return equals(query, filter.Filters, "property_id", "inspector_id", "status", "kind")
}

var (
	_ property.PropertyRepository   = (*GormPropertyRepository)(nil)
	_ property.ListingRepository    = (*GormListingRepository)(nil)
	_ property.InspectionRepository = (*GormInspectionRepository)(nil)
)
