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

// InspectionService handles property inspections
type InspectionService struct {
	properties  property.PropertyRepository
	inspections property.InspectionRepository
	users       identity.UserRepository
	uploader    PhotoUploader
	events      shared.EventPublisher
	logger      *zap.Logger
}

// NewInspectionService creates a new InspectionService
func NewInspectionService(
	properties property.PropertyRepository,
	inspections property.InspectionRepository,
	users identity.UserRepository,
	uploader PhotoUploader,
	logger *zap.Logger,
) *InspectionService {
	return &InspectionService{
		properties:  properties,
		inspections: inspections,
		users:       users,
		uploader:    uploader,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *InspectionService) SetEventPublisher(p shared.EventPublisher) {
	s.events = p
}

// ScheduleInspection books an inspection with an agent
func (s *InspectionService) ScheduleInspection(ctx context.Context, actor appshared.Actor, req ScheduleInspectionRequest) (*InspectionResponse, error) {
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

	inspectorID := actor.UserID
	if req.InspectorID != nil && *req.InspectorID != actor.UserID {
		inspector, err := s.users.FindByIDForAgency(ctx, actor.AgencyID, *req.InspectorID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_INSPECTOR", "Inspector not found")
			}
			return nil, err
		}
		if !inspector.HasRole(identity.RoleAgent) {
			return nil, shared.NewDomainError("INVALID_INSPECTOR", "Inspections are carried out by agents")
		}
		inspectorID = inspector.ID
	}

	insp, err := property.ScheduleInspection(prop, inspectorID, property.InspectionKind(req.Kind), req.ScheduledAt)
	if err != nil {
		return nil, err
	}
	if err := s.inspections.Save(ctx, insp); err != nil {
		return nil, err
	}
	appshared.PublishEvents(ctx, s.events, s.logger, insp)

	s.logger.Info("Inspection scheduled",
		zap.String("inspection_id", insp.ID.String()),
		zap.String("property_id", insp.PropertyID.String()),
		zap.Time("scheduled_at", insp.ScheduledAt),
	)
	resp := ToInspectionResponse(insp)
	return &resp, nil
}

// CompleteInspection records findings and a condition rating
func (s *InspectionService) CompleteInspection(ctx context.Context, actor appshared.Actor, id uuid.UUID, req CompleteInspectionRequest) (*InspectionResponse, error) {
	return s.mutate(ctx, actor, id, func(i *property.Inspection) error {
		return i.Complete(req.Findings, req.ConditionRating)
	})
}

// CancelInspection calls off a scheduled inspection
func (s *InspectionService) CancelInspection(ctx context.Context, actor appshared.Actor, id uuid.UUID, req CancelInspectionRequest) (*InspectionResponse, error) {
	return s.mutate(ctx, actor, id, func(i *property.Inspection) error {
		return i.Cancel(req.Reason)
	})
}

// RescheduleInspection moves a scheduled inspection
func (s *InspectionService) RescheduleInspection(ctx context.Context, actor appshared.Actor, id uuid.UUID, req RescheduleInspectionRequest) (*InspectionResponse, error) {
	return s.mutate(ctx, actor, id, func(i *property.Inspection) error {
		return i.Reschedule(req.ScheduledAt)
	})
}

// GetInspection returns an inspection to agents and to the landlord of the property
func (s *InspectionService) GetInspection(ctx context.Context, actor appshared.Actor, id uuid.UUID) (*InspectionResponse, error) {
	insp, err := s.inspections.FindByIDForAgency(ctx, actor.AgencyID, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRead(ctx, actor, insp.PropertyID); err != nil {
		return nil, err
	}
	resp := ToInspectionResponse(insp)
	return &resp, nil
}

// ListInspections lists inspections. Landlords must name one of their properties.
func (s *InspectionService) ListInspections(ctx context.Context, actor appshared.Actor, req InspectionListFilter) (*shared.Paginated[InspectionResponse], error) {
	if actor.Is(identity.RoleLandlord) {
		if req.PropertyID == nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "property_id is required")
		}
	}
	if req.PropertyID != nil {
		if err := s.authorizeRead(ctx, actor, *req.PropertyID); err != nil {
			return nil, err
		}
	} else if err := actor.Require(identity.RoleAgent); err != nil {
		return nil, err
	}

	filter := shared.DefaultFilter()
	filter.Page = req.Page
	filter.PageSize = req.PageSize
	filter.OrderBy, filter.OrderDir = "scheduled_at", "asc"
	if req.PropertyID != nil {
		filter = filter.With("property_id", *req.PropertyID)
	}
	if req.InspectorID != nil {
		filter = filter.With("inspector_id", *req.InspectorID)
	}
	if req.Status != "" {
		filter = filter.With("status", req.Status)
	}
	filter = filter.Normalize()

	items, err := s.inspections.FindAllForAgency(ctx, actor.AgencyID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.inspections.CountForAgency(ctx, actor.AgencyID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]InspectionResponse, len(items))
	for i := range items {
		out[i] = ToInspectionResponse(&items[i])
	}
	page := shared.NewPaginated(out, total, filter.Page, filter.PageSize)
	return &page, nil
}

// AttachInspectionPhotos uploads a batch of photos and attaches the ones that were stored
func (s *InspectionService) AttachInspectionPhotos(ctx context.Context, actor appshared.Actor, id uuid.UUID, files []upload.File) (*PhotoUploadResponse[InspectionResponse], error) {
	if err := actor.Require(identity.RoleAgent); err != nil {
		return nil, err
	}
	insp, err := s.inspections.FindByIDForAgency(ctx, actor.AgencyID, id)
	if err != nil {
		return nil, err
	}

	batch, err := s.uploader.BatchUpload(ctx, upload.AgencyPrefix(insp.AgencyID, "inspections/"+insp.ID.String()), files)
	if err != nil {
		return nil, err
	}
	if keys := batch.Keys(); len(keys) > 0 {
		insp.AddPhotos(keys...)
		if err := s.inspections.Save(ctx, insp); err != nil {
			return nil, err
		}
	}
	return &PhotoUploadResponse[InspectionResponse]{
		Resource:  ToInspectionResponse(insp),
		Succeeded: batch.Keys(),
		Failed:    photoFailures(batch),
	}, nil
}

func (s *InspectionService) authorizeRead(ctx context.Context, actor appshared.Actor, propertyID uuid.UUID) error {
	switch actor.Role {
	case identity.RoleAgent:
		return nil
	case identity.RoleLandlord:
		prop, err := s.properties.FindByIDForAgency(ctx, actor.AgencyID, propertyID)
		if err != nil {
			return err
		}
		if prop.LandlordID != actor.UserID {
			return appshared.ErrForbidden
		}
		return nil
	}
	return appshared.ErrForbidden
}

func (s *InspectionService) mutate(ctx context.Context, actor appshared.Actor, id uuid.UUID, fn func(*property.Inspection) error) (*InspectionResponse, error) {
	if err := actor.Require(identity.RoleAgent); err != nil {
		return nil, err
	}
	insp, err := s.inspections.FindByIDForAgency(ctx, actor.AgencyID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(insp); err != nil {
		return nil, err
	}
	if err := s.inspections.Save(ctx, insp); err != nil {
		return nil, err
	}
	appshared.PublishEvents(ctx, s.events, s.logger, insp)
	resp := ToInspectionResponse(insp)
	return &resp, nil
}
