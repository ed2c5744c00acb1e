package property

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/application/upload"
	"github.com/rentwise/backend/internal/domain/identity"
	"github.com/rentwise/backend/internal/domain/property"
	"github.com/rentwise/backend/internal/domain/shared"
	"github.com/rentwise/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/mock"
)

type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) FindByIDForAgency(ctx context.Context, agencyID, id uuid.UUID) (*property.Property, error) {
	args := m.Called(ctx, agencyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Property), args.Error(1)
}

func (m *MockPropertyRepository) FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]property.Property, error) {
	args := m.Called(ctx, agencyID, filter)
	return args.Get(0).([]property.Property), args.Error(1)
}

func (m *MockPropertyRepository) CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, agencyID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPropertyRepository) Save(ctx context.Context, p *property.Property) error {
	return m.Called(ctx, p).Error(0)
}

type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) FindByIDForAgency(ctx context.Context, agencyID, id uuid.UUID) (*property.Listing, error) {
	args := m.Called(ctx, agencyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Listing), args.Error(1)
}

func (m *MockListingRepository) FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]property.Listing, error) {
	args := m.Called(ctx, agencyID, filter)
	return args.Get(0).([]property.Listing), args.Error(1)
}

func (m *MockListingRepository) CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, agencyID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockListingRepository) Save(ctx context.Context, l *property.Listing) error {
	return m.Called(ctx, l).Error(0)
}

func (m *MockListingRepository) FindActiveByProperty(ctx context.Context, agencyID, propertyID uuid.UUID) ([]property.Listing, error) {
	args := m.Called(ctx, agencyID, propertyID)
	return args.Get(0).([]property.Listing), args.Error(1)
}

type MockInspectionRepository struct {
	mock.Mock
}

func (m *MockInspectionRepository) FindByIDForAgency(ctx context.Context, agencyID, id uuid.UUID) (*property.Inspection, error) {
	args := m.Called(ctx, agencyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Inspection), args.Error(1)
}

func (m *MockInspectionRepository) FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]property.Inspection, error) {
	args := m.Called(ctx, agencyID, filter)
	return args.Get(0).([]property.Inspection), args.Error(1)
}

func (m *MockInspectionRepository) CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, agencyID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInspectionRepository) Save(ctx context.Context, i *property.Inspection) error {
	return m.Called(ctx, i).Error(0)
}

// MockUserRepository only implements what the property services call
type MockUserRepository struct {
	mock.Mock
	identity.UserRepository
}

func (m *MockUserRepository) FindByIDForAgency(ctx context.Context, agencyID, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, agencyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Geocode(ctx context.Context, address string) (valueobject.GeoPoint, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(valueobject.GeoPoint), args.Error(1)
}

type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) BatchUpload(ctx context.Context, prefix string, files []upload.File) (*upload.BatchResult, error) {
	args := m.Called(ctx, prefix, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*upload.BatchResult), args.Error(1)
}
