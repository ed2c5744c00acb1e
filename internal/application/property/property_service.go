// Package property implements the use cases for properties, listings and inspections.
package property

import (
	"context"
	"errors"

	"github.com/google/uuid"
	appshared "github.com/rentwise/backend/internal/application/shared"
	"github.com/rentwise/backend/internal/domain/identity"
	"github.com/rentwise/backend/internal/domain/property"
	"github.com/rentwise/backend/internal/domain/shared"
	"github.com/rentwise/backend/internal/infrastructure/geocoding"
	"github.com/rentwise/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// PropertyService handles property-related business operations
type PropertyService struct {
	properties property.PropertyRepository
	users      identity.UserRepository
	geocoder   geocoding.Geocoder
	events     shared.EventPublisher
	logger     *zap.Logger
}

// NewPropertyService creates a new PropertyService
func NewPropertyService(
	properties property.PropertyRepository,
	users identity.UserRepository,
	geocoder geocoding.Geocoder,
	logger *zap.Logger,
) *PropertyService {
	if geocoder == nil {
		geocoder = geocoding.Noop{}
	}
	return &PropertyService{
		properties: properties,
		users:      users,
		geocoder:   geocoder,
		logger:     logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *PropertyService) SetEventPublisher(p shared.EventPublisher) {
	s.events = p
}

// CreateProperty registers a property. Landlords own what they create; agents name the landlord.
func (s *PropertyService) CreateProperty(ctx context.Context, actor appshared.Actor, req CreatePropertyRequest) (*PropertyResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "PropertyService", "CreateProperty")
	defer span.End()

	if err := actor.Require(identity.RoleLandlord, identity.RoleAgent); err != nil {
		return nil, err
	}

	landlordID := actor.UserID
	if actor.Is(identity.RoleAgent) {
		if req.LandlordID == nil {
			return nil, shared.NewDomainError("INVALID_LANDLORD", "Agents must specify the landlord of the property")
		}
		if err := s.requireLandlord(ctx, actor.AgencyID, *req.LandlordID); err != nil {
			return nil, err
		}
		landlordID = *req.LandlordID
	}

	address, err := req.Address.ToValueObject()
	if err != nil {
		return nil, shared.WrapDomainError("INVALID_ADDRESS", err.Error(), err)
	}
	details := UpdatePropertyRequest{
		Name: req.Name, Kind: req.Kind, Bedrooms: req.Bedrooms, Bathrooms: req.Bathrooms,
		AreaSqm: req.AreaSqm, Description: req.Description,
	}.details()

	p, err := property.NewProperty(actor.AgencyID, landlordID, address, details)
	if err != nil {
		return nil, err
	}
	s.locate(ctx, p)

	if err := s.properties.Save(ctx, p); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.publish(ctx, p)

	s.logger.Info("Property created",
		zap.String("agency_id", p.AgencyID.String()),
		zap.String("property_id", p.ID.String()),
		zap.String("landlord_id", p.LandlordID.String()),
		zap.Bool("geocoded", p.Location != nil),
	)
	resp := ToPropertyResponse(p)
	return &resp, nil
}

// UpdateProperty replaces the property attributes, geocoding again when the address changed
func (s *PropertyService) UpdateProperty(ctx context.Context, actor appshared.Actor, id uuid.UUID, req UpdatePropertyRequest) (*PropertyResponse, error) {
	p, err := s.loadManaged(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	address, err := req.Address.ToValueObject()
	if err != nil {
		return nil, shared.WrapDomainError("INVALID_ADDRESS", err.Error(), err)
	}
	if err := p.Update(address, req.details()); err != nil {
		return nil, err
	}
	if p.Location == nil {
		s.locate(ctx, p)
	}
	if err := s.properties.Save(ctx, p); err != nil {
		return nil, err
	}
	resp := ToPropertyResponse(p)
	return &resp, nil
}

// GetProperty returns a property of the agency
func (s *PropertyService) GetProperty(ctx context.Context, actor appshared.Actor, id uuid.UUID) (*PropertyResponse, error) {
	p, err := s.properties.FindByIDForAgency(ctx, actor.AgencyID, id)
	if err != nil {
		return nil, err
	}
	resp := ToPropertyResponse(p)
	return &resp, nil
}

// ListProperties lists properties. Landlords only ever see their own.
func (s *PropertyService) ListProperties(ctx context.Context, actor appshared.Actor, req PropertyListFilter) (*shared.Paginated[PropertyResponse], error) {
	filter := shared.DefaultFilter()
	filter.Page = req.Page
	filter.PageSize = req.PageSize
	filter.Search = req.Search
	switch {
	case actor.Is(identity.RoleLandlord):
		filter = filter.With("landlord_id", actor.UserID)
	case req.LandlordID != nil:
		filter = filter.With("landlord_id", *req.LandlordID)
	}
	if req.Status != "" {
		filter = filter.With("status", req.Status)
	}
	if req.Kind != "" {
		filter = filter.With("kind", req.Kind)
	}
	filter = filter.Normalize()

	items, err := s.properties.FindAllForAgency(ctx, actor.AgencyID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.properties.CountForAgency(ctx, actor.AgencyID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]PropertyResponse, len(items))
	for i := range items {
		out[i] = ToPropertyResponse(&items[i])
	}
	page := shared.NewPaginated(out, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ArchiveProperty takes a property out of circulation
func (s *PropertyService) ArchiveProperty(ctx context.Context, actor appshared.Actor, id uuid.UUID) (*PropertyResponse, error) {
	p, err := s.loadManaged(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := p.Archive(); err != nil {
		return nil, err
	}
	if err := s.properties.Save(ctx, p); err != nil {
		return nil, err
	}
	s.publish(ctx, p)
	s.logger.Info("Property archived", zap.String("property_id", p.ID.String()))
	resp := ToPropertyResponse(p)
	return &resp, nil
}

// RestoreProperty brings an archived property back
func (s *PropertyService) RestoreProperty(ctx context.Context, actor appshared.Actor, id uuid.UUID) (*PropertyResponse, error) {
	p, err := s.loadManaged(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := p.Restore(); err != nil {
		return nil, err
	}
	if err := s.properties.Save(ctx, p); err != nil {
		return nil, err
	}
	resp := ToPropertyResponse(p)
	return &resp, nil
}

// loadManaged loads a property the actor may change: its landlord or any agent
func (s *PropertyService) loadManaged(ctx context.Context, actor appshared.Actor, id uuid.UUID) (*property.Property, error) {
	if err := actor.Require(identity.RoleLandlord, identity.RoleAgent); err != nil {
		return nil, err
	}
	p, err := s.properties.FindByIDForAgency(ctx, actor.AgencyID, id)
	if err != nil {
		return nil, err
	}
	if actor.Is(identity.RoleLandlord) && p.LandlordID != actor.UserID {
		return nil, appshared.ErrForbidden
	}
	return p, nil
}

func (s *PropertyService) requireLandlord(ctx context.Context, agencyID, userID uuid.UUID) error {
	u, err := s.users.FindByIDForAgency(ctx, agencyID, userID)
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewDomainError("INVALID_LANDLORD", "Landlord not found")
	}
	if err != nil {
		return err
	}
	if !u.HasRole(identity.RoleLandlord) {
		return shared.NewDomainError("INVALID_LANDLORD", "User is not a landlord")
	}
	return nil
}

// locate geocodes the property address. Failures are logged and leave Location empty.
func (s *PropertyService) locate(ctx context.Context, p *property.Property) {
	point, err := s.geocoder.Geocode(ctx, p.Address.FullAddress())
	switch {
	case err == nil:
		p.SetLocation(point)
	case errors.Is(err, geocoding.ErrDisabled):
	case errors.Is(err, geocoding.ErrNoResults):
		s.logger.Info("Address could not be geocoded", zap.String("address", p.Address.FullAddress()))
	default:
		s.logger.Warn("Geocoding failed",
			zap.String("address", p.Address.FullAddress()),
			zap.Error(err),
		)
	}
}

func (s *PropertyService) publish(ctx context.Context, aggs ...shared.AggregateRoot) {
	appshared.PublishEvents(ctx, s.events, s.logger, aggs...)
}
