package property

import (
	"context"
	"errors"

	"github.com/google/uuid"
	appshared "github.com/rentwise/backend/internal/application/shared"
	"github.com/rentwise/backend/internal/application/upload"
	"github.com/rentwise/backend/internal/domain/identity"
	"github.com/rentwise/backend/internal/domain/property"
	"github.com/rentwise/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PhotoUploader stores photo batches
type PhotoUploader interface {
	BatchUpload(ctx context.Context, prefix string, files []upload.File) (*upload.BatchResult, error)
}

// ListingService handles rental listings
type ListingService struct {
	properties property.PropertyRepository
	listings   property.ListingRepository
	uploader   PhotoUploader
	events     shared.EventPublisher
	logger     *zap.Logger
}

// NewListingService creates a new ListingService
func NewListingService(
	properties property.PropertyRepository,
	listings property.ListingRepository,
	uploader PhotoUploader,
	logger *zap.Logger,
) *ListingService {
	return &ListingService{
		properties: properties,
		listings:   listings,
		uploader:   uploader,
		logger:     logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *ListingService) SetEventPublisher(p shared.EventPublisher) {
	s.events = p
}

// CreateListing drafts a listing for a property; the calling agent becomes the listing agent
func (s *ListingService) CreateListing(ctx context.Context, actor appshared.Actor, req CreateListingRequest) (*ListingResponse, error) {
	if err := actor.Require(identity.RoleAgent); err != nil {
		return nil, err
	}
	prop, err := s.properties.FindByIDForAgency(ctx, actor.AgencyID, req.PropertyID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_PROPERTY", "Property not found")
		}
		return nil, err
	}

	l, err := property.NewListing(prop, actor.UserID, req.terms())
	if err != nil {
		return nil, err
	}
	if err := s.listings.Save(ctx, l); err != nil {
		return nil, err
	}
	appshared.PublishEvents(ctx, s.events, s.logger, l)

	s.logger.Info("Listing created",
		zap.String("listing_id", l.ID.String()),
		zap.String("property_id", l.PropertyID.String()),
	)
	resp := ToListingResponse(l)
	return &resp, nil
}

// UpdateListing replaces the listing terms
func (s *ListingService) UpdateListing(ctx context.Context, actor appshared.Actor, id uuid.UUID, req ListingTermsRequest) (*ListingResponse, error) {
	return s.mutate(ctx, actor, id, func(l *property.Listing) error {
		return l.Update(req.terms())
	})
}

// PublishListing opens the listing for applications
func (s *ListingService) PublishListing(ctx context.Context, actor appshared.Actor, id uuid.UUID) (*ListingResponse, error) {
	return s.mutate(ctx, actor, id, (*property.Listing).Publish)
}

// WithdrawListing hides a published listing
func (s *ListingService) WithdrawListing(ctx context.Context, actor appshared.Actor, id uuid.UUID) (*ListingResponse, error) {
	return s.mutate(ctx, actor, id, (*property.Listing).Withdraw)
}

// GetListing returns a listing. Tenants only see published listings.
func (s *ListingService) GetListing(ctx context.Context, actor appshared.Actor, id uuid.UUID) (*ListingResponse, error) {
	l, err := s.listings.FindByIDForAgency(ctx, actor.AgencyID, id)
	if err != nil {
		return nil, err
	}
	if actor.Is(identity.RoleTenant) && !l.IsOpenForApplications() {
		return nil, shared.ErrNotFound
	}
	resp := ToListingResponse(l)
	return &resp, nil
}

// ListListings lists listings by status, property, agent and free text
func (s *ListingService) ListListings(ctx context.Context, actor appshared.Actor, req ListingListFilter) (*shared.Paginated[ListingResponse], error) {
	filter := shared.DefaultFilter()
	filter.Page = req.Page
	filter.PageSize = req.PageSize
	filter.Search = req.Search
	status := req.Status
	if actor.Is(identity.RoleTenant) {
		status = string(property.ListingStatusPublished)
	}
	if status != "" {
		filter = filter.With("status", status)
	}
	if actor.Is(identity.RoleLandlord) {
		filter = filter.With("landlord_id", actor.UserID)
	}
	if req.PropertyID != nil {
		filter = filter.With("property_id", *req.PropertyID)
	}
	if req.AgentID != nil {
		filter = filter.With("agent_id", *req.AgentID)
	}
	filter = filter.Normalize()

	items, err := s.listings.FindAllForAgency(ctx, actor.AgencyID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.listings.CountForAgency(ctx, actor.AgencyID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]ListingResponse, len(items))
	for i := range items {
		out[i] = ToListingResponse(&items[i])
	}
	page := shared.NewPaginated(out, total, filter.Page, filter.PageSize)
	return &page, nil
}

// AttachListingPhotos uploads a batch of photos and attaches the ones that were stored
func (s *ListingService) AttachListingPhotos(ctx context.Context, actor appshared.Actor, id uuid.UUID, files []upload.File) (*PhotoUploadResponse[ListingResponse], error) {
	if err := actor.Require(identity.RoleAgent); err != nil {
		return nil, err
	}
	l, err := s.listings.FindByIDForAgency(ctx, actor.AgencyID, id)
	if err != nil {
		return nil, err
	}

	batch, err := s.uploader.BatchUpload(ctx, upload.AgencyPrefix(l.AgencyID, "listings/"+l.ID.String()), files)
	if err != nil {
		return nil, err
	}
	if keys := batch.Keys(); len(keys) > 0 {
		if err := l.AddPhotos(keys...); err != nil {
			return nil, err
		}
		if err := s.listings.Save(ctx, l); err != nil {
			return nil, err
		}
	}
	return &PhotoUploadResponse[ListingResponse]{
		Resource:  ToListingResponse(l),
		Succeeded: batch.Keys(),
		Failed:    photoFailures(batch),
	}, nil
}

func (s *ListingService) mutate(ctx context.Context, actor appshared.Actor, id uuid.UUID, fn func(*property.Listing) error) (*ListingResponse, error) {
	if err := actor.Require(identity.RoleAgent); err != nil {
		return nil, err
	}
	l, err := s.listings.FindByIDForAgency(ctx, actor.AgencyID, id)
	if err != nil {
		return nil, err
	}
	from := l.Status
	if err := fn(l); err != nil {
		return nil, err
	}
	if err := s.listings.Save(ctx, l); err != nil {
		return nil, err
	}
	appshared.PublishEvents(ctx, s.events, s.logger, l)

	if from != l.Status {
		s.logger.Info("Listing status changed",
			zap.String("listing_id", l.ID.String()),
			zap.String("from", string(from)),
			zap.String("to", string(l.Status)),
		)
	}
	resp := ToListingResponse(l)
	return &resp, nil
}

func photoFailures(batch *upload.BatchResult) []PhotoFailure {
	out := make([]PhotoFailure, len(batch.Failed))
	for i, f := range batch.Failed {
		out[i] = PhotoFailure{Index: f.Index, Name: f.Name, Error: f.Error}
	}
	return out
}
