package property

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	appshared "github.com/rentwise/backend/internal/application/shared"
	"github.com/rentwise/backend/internal/domain/identity"
	"github.com/rentwise/backend/internal/domain/property"
	"github.com/rentwise/backend/internal/domain/shared"
	"github.com/rentwise/backend/internal/domain/shared/valueobject"
	"github.com/rentwise/backend/internal/infrastructure/geocoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func createRequest() CreatePropertyRequest {
	return CreatePropertyRequest{
		Name:     "Harbour View",
		Kind:     "apartment",
		Bedrooms: 2,
		Address: AddressInput{
			Line1:   "12 Harbour St",
			City:    "Sydney",
			State:   "NSW",
			Country: "Australia",
		},
	}
}

func newProperty(t *testing.T, agencyID, landlordID uuid.UUID) *property.Property {
	t.Helper()
	p, err := property.NewProperty(agencyID, landlordID,
		valueobject.MustNewAddress("12 Harbour St", "Sydney", "Australia"),
		property.Details{Name: "Harbour View", Kind: property.KindApartment})
	require.NoError(t, err)
	p.ClearDomainEvents()
	return p
}

func TestPropertyService_CreateProperty(t *testing.T) {
	ctx := context.Background()
	agencyID := uuid.New()
	landlord := appshared.Actor{AgencyID: agencyID, UserID: uuid.New(), Role: identity.RoleLandlord}

	t.Run("geocodes the address", func(t *testing.T) {
		props, geo := new(MockPropertyRepository), new(MockGeocoder)
		svc := NewPropertyService(props, new(MockUserRepository), geo, zap.NewNop())

		geo.On("Geocode", mock.Anything, "12 Harbour St, Sydney, NSW, Australia").
			Return(valueobject.GeoPoint{Latitude: -33.86, Longitude: 151.21}, nil)
		props.On("Save", mock.Anything, mock.AnythingOfType("*property.Property")).Return(nil)

		resp, err := svc.CreateProperty(ctx, landlord, createRequest())
		require.NoError(t, err)
		assert.Equal(t, landlord.UserID, resp.LandlordID)
		require.NotNil(t, resp.Location)
		assert.InDelta(t, -33.86, resp.Location.Latitude, 1e-9)
	})

	t.Run("geocoding failure never fails the write", func(t *testing.T) {
		props, geo := new(MockPropertyRepository), new(MockGeocoder)
		core, logs := observer.New(zapcore.WarnLevel)
		svc := NewPropertyService(props, new(MockUserRepository), geo, zap.New(core))

		geo.On("Geocode", mock.Anything, mock.Anything).Return(valueobject.GeoPoint{}, errors.New("quota exceeded"))
		props.On("Save", mock.Anything, mock.Anything).Return(nil)

		resp, err := svc.CreateProperty(ctx, landlord, createRequest())
		require.NoError(t, err)
		assert.Nil(t, resp.Location)
		require.Equal(t, 1, logs.FilterMessage("Geocoding failed").Len())
		props.AssertCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("disabled geocoder is silent", func(t *testing.T) {
		props := new(MockPropertyRepository)
		core, logs := observer.New(zapcore.DebugLevel)
		svc := NewPropertyService(props, new(MockUserRepository), geocoding.Noop{}, zap.New(core))
		props.On("Save", mock.Anything, mock.Anything).Return(nil)

		resp, err := svc.CreateProperty(ctx, landlord, createRequest())
		require.NoError(t, err)
		assert.Nil(t, resp.Location)
		assert.Zero(t, logs.FilterMessage("Geocoding failed").Len())
	})

	t.Run("agent must name an existing landlord", func(t *testing.T) {
		props, users := new(MockPropertyRepository), new(MockUserRepository)
		svc := NewPropertyService(props, users, nil, zap.NewNop())
		agent := appshared.Actor{AgencyID: agencyID, UserID: uuid.New(), Role: identity.RoleAgent}

		_, err := svc.CreateProperty(ctx, agent, createRequest())
		assert.Equal(t, "INVALID_LANDLORD", shared.ErrorCode(err))

		tenant, err := identity.NewUser(agencyID, "t@example.com", "Secret123", identity.RoleTenant)
		require.NoError(t, err)
		users.On("FindByIDForAgency", mock.Anything, agencyID, tenant.ID).Return(tenant, nil)
		req := createRequest()
		req.LandlordID = &tenant.ID
		_, err = svc.CreateProperty(ctx, agent, req)
		assert.Equal(t, "INVALID_LANDLORD", shared.ErrorCode(err))

		owner, err := identity.NewUser(agencyID, "l@example.com", "Secret123", identity.RoleLandlord)
		require.NoError(t, err)
		users.On("FindByIDForAgency", mock.Anything, agencyID, owner.ID).Return(owner, nil)
		props.On("Save", mock.Anything, mock.Anything).Return(nil)
		req.LandlordID = &owner.ID
		resp, err := svc.CreateProperty(ctx, agent, req)
		require.NoError(t, err)
		assert.Equal(t, owner.ID, resp.LandlordID)
	})

	t.Run("tenants cannot create properties", func(t *testing.T) {
		svc := NewPropertyService(new(MockPropertyRepository), new(MockUserRepository), nil, zap.NewNop())
		_, err := svc.CreateProperty(ctx, appshared.Actor{AgencyID: agencyID, Role: identity.RoleTenant}, createRequest())
		assert.Equal(t, "FORBIDDEN", shared.ErrorCode(err))
	})
}

func TestPropertyService_UpdateProperty(t *testing.T) {
	ctx := context.Background()
	agencyID, landlordID := uuid.New(), uuid.New()
	p := newProperty(t, agencyID, landlordID)
	p.SetLocation(valueobject.GeoPoint{Latitude: 1, Longitude: 1})

	props, geo := new(MockPropertyRepository), new(MockGeocoder)
	svc := NewPropertyService(props, new(MockUserRepository), geo, zap.NewNop())
	props.On("FindByIDForAgency", ctx, agencyID, p.ID).Return(p, nil)
	props.On("Save", mock.Anything, p).Return(nil)
	geo.On("Geocode", mock.Anything, "1 New Rd, Melbourne, Australia").Return(valueobject.GeoPoint{Latitude: -37.8, Longitude: 144.9}, nil).Once()

	other := appshared.Actor{AgencyID: agencyID, UserID: uuid.New(), Role: identity.RoleLandlord}
	req := UpdatePropertyRequest{Name: "Renamed", Kind: "house", Address: AddressInput{Line1: "1 New Rd", City: "Melbourne", Country: "Australia"}}
	_, err := svc.UpdateProperty(ctx, other, p.ID, req)
	assert.Equal(t, "FORBIDDEN", shared.ErrorCode(err))

	owner := appshared.Actor{AgencyID: agencyID, UserID: landlordID, Role: identity.RoleLandlord}
	resp, err := svc.UpdateProperty(ctx, owner, p.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", resp.Name)
	require.NotNil(t, resp.Location)
	assert.InDelta(t, -37.8, resp.Location.Latitude, 1e-9)
	geo.AssertExpectations(t)
}

func TestPropertyService_ListProperties_LandlordSeesOwn(t *testing.T) {
	ctx := context.Background()
	agencyID, landlordID := uuid.New(), uuid.New()
	props := new(MockPropertyRepository)
	svc := NewPropertyService(props, new(MockUserRepository), nil, zap.NewNop())

	own := mock.MatchedBy(func(f shared.Filter) bool { return f.Filters["landlord_id"] == landlordID })
	props.On("FindAllForAgency", ctx, agencyID, own).Return([]property.Property{*newProperty(t, agencyID, landlordID)}, nil)
	props.On("CountForAgency", ctx, agencyID, own).Return(int64(1), nil)

	someoneElse := uuid.New()
	page, err := svc.ListProperties(ctx, appshared.Actor{AgencyID: agencyID, UserID: landlordID, Role: identity.RoleLandlord},
		PropertyListFilter{LandlordID: &someoneElse})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	props.AssertExpectations(t)
}

func TestPropertyService_ArchiveProperty(t *testing.T) {
	ctx := context.Background()
	agencyID := uuid.New()
	p := newProperty(t, agencyID, uuid.New())
	props := new(MockPropertyRepository)
	svc := NewPropertyService(props, new(MockUserRepository), nil, zap.NewNop())
	props.On("FindByIDForAgency", ctx, agencyID, p.ID).Return(p, nil)
	props.On("Save", ctx, p).Return(nil)

	agent := appshared.Actor{AgencyID: agencyID, UserID: uuid.New(), Role: identity.RoleAgent}
	resp, err := svc.ArchiveProperty(ctx, agent, p.ID)
	require.NoError(t, err)
	assert.Equal(t, property.StatusArchived, resp.Status)

	_, err = svc.ArchiveProperty(ctx, agent, p.ID)
	assert.Equal(t, "INVALID_STATE", shared.ErrorCode(err))

	resp, err = svc.RestoreProperty(ctx, agent, p.ID)
	require.NoError(t, err)
	assert.Equal(t, property.StatusActive, resp.Status)
}
