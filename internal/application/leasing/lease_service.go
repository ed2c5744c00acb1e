package leasing

import (
	"context"
	"time"

	"github.com/google/uuid"
	appshared "github.com/rentwise/backend/internal/application/shared"
	"github.com/rentwise/backend/internal/application/upload"
	"github.com/rentwise/backend/internal/domain/identity"
	"github.com/rentwise/backend/internal/domain/leasing"
	"github.com/rentwise/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DocumentStore stores signed lease documents
type DocumentStore interface {
	BatchUpload(ctx context.Context, prefix string, files []upload.File) (*upload.BatchResult, error)
	DownloadURL(ctx context.Context, key string) (string, time.Time, error)
}

// LeaseService handles lease agreements. Leases are created by ApplicationService.Act.
type LeaseService struct {
	leases    leasing.LeaseRepository
	users     identity.UserRepository
	documents DocumentStore
	events    shared.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewLeaseService creates a new LeaseService
func NewLeaseService(leases leasing.LeaseRepository, users identity.UserRepository, documents DocumentStore, logger *zap.Logger) *LeaseService {
	return &LeaseService{
		leases:    leases,
		users:     users,
		documents: documents,
		logger:    logger,
		now:       time.Now,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *LeaseService) SetEventPublisher(p shared.EventPublisher) {
	s.events = p
}

// GetLease returns a lease to one of its parties or any agent.
// An active lease past its end date is expired on read.
func (s *LeaseService) GetLease(ctx context.Context, actor appshared.Actor, id uuid.UUID) (*LeaseResponse, error) {
	l, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if l.ExpireIfDue(s.now()) {
		if err := s.leases.Save(ctx, l); err != nil {
			return nil, err
		}
		s.logger.Info("Lease expired", zap.String("lease_id", l.ID.String()))
	}
	resp := ToLeaseResponse(l)
	return &resp, nil
}

// ListLeases lists leases by property, tenant and status.
// Tenants and landlords only see leases they are party to.
// Active leases past their end date are expired before the query runs.
func (s *LeaseService) ListLeases(ctx context.Context, actor appshared.Actor, req LeaseListFilter) (*shared.Paginated[LeaseResponse], error) {
	filter := shared.DefaultFilter()
	filter.Page = req.Page
	filter.PageSize = req.PageSize
	if req.Status != "" {
		filter = filter.With("status", req.Status)
	}
	if req.PropertyID != nil {
		filter = filter.With("property_id", *req.PropertyID)
	}
	tenant := req.TenantID
	switch actor.Role {
	case identity.RoleTenant:
		tenant = &actor.UserID
	case identity.RoleLandlord:
		filter = filter.With("landlord_id", actor.UserID)
	}
	if tenant != nil {
		filter = filter.With("tenant_id", *tenant)
	}
	filter = filter.Normalize()

	expired, err := s.leases.ExpireDue(ctx, actor.AgencyID, s.now())
	if err != nil {
		return nil, err
	}
	if expired > 0 {
		s.logger.Info("Leases expired", zap.Int64("count", expired))
	}

	items, err := s.leases.FindAllForAgency(ctx, actor.AgencyID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.leases.CountForAgency(ctx, actor.AgencyID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]LeaseResponse, len(items))
	for i := range items {
		out[i] = ToLeaseResponse(&items[i])
	}
	page := shared.NewPaginated(out, total, filter.Page, filter.PageSize)
	return &page, nil
}

// SignLease records the caller's signature; the lease activates once tenant and landlord have signed
func (s *LeaseService) SignLease(ctx context.Context, actor appshared.Actor, id uuid.UUID) (*LeaseResponse, error) {
	if err := actor.Require(identity.RoleTenant, identity.RoleLandlord); err != nil {
		return nil, err
	}
	signer, err := s.users.FindByIDForAgency(ctx, actor.AgencyID, actor.UserID)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, actor, id, func(l *leasing.LeaseAgreement) error {
		return l.Sign(signer)
	})
}

// TerminateLease ends an active lease early. Only agents and the landlord may terminate.
func (s *LeaseService) TerminateLease(ctx context.Context, actor appshared.Actor, id uuid.UUID, req TerminateLeaseRequest) (*LeaseResponse, error) {
	if err := actor.Require(identity.RoleAgent, identity.RoleLandlord); err != nil {
		return nil, err
	}
	return s.mutate(ctx, actor, id, func(l *leasing.LeaseAgreement) error {
		return l.Terminate(req.Reason)
	})
}

// AttachLeaseDocument uploads the signed lease document and records its key
func (s *LeaseService) AttachLeaseDocument(ctx context.Context, actor appshared.Actor, id uuid.UUID, file upload.File) (*LeaseResponse, error) {
	if err := actor.Require(identity.RoleAgent); err != nil {
		return nil, err
	}
	l, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	batch, err := s.documents.BatchUpload(ctx, upload.AgencyPrefix(l.AgencyID, "leases/"+l.ID.String()), []upload.File{file})
	if err != nil {
		return nil, err
	}
	if len(batch.Failed) > 0 {
		return nil, shared.NewDomainError("STORAGE_ERROR", "Failed to store lease document: "+batch.Failed[0].Error)
	}
	if err := l.AttachDocument(batch.Succeeded[0].Key); err != nil {
		return nil, err
	}
	if err := s.leases.Save(ctx, l); err != nil {
		return nil, err
	}
	resp := ToLeaseResponse(l)
	return &resp, nil
}

// LeaseDocumentURL presigns a download link for the lease document
func (s *LeaseService) LeaseDocumentURL(ctx context.Context, actor appshared.Actor, id uuid.UUID) (*DocumentURLResponse, error) {
	l, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if l.DocumentKey == "" {
		return nil, shared.NewDomainError("NOT_FOUND", "Lease has no document")
	}
	url, expires, err := s.documents.DownloadURL(ctx, l.DocumentKey)
	if err != nil {
		return nil, err
	}
	return &DocumentURLResponse{URL: url, ExpiresAt: expires}, nil
}

func (s *LeaseService) mutate(ctx context.Context, actor appshared.Actor, id uuid.UUID, fn func(*leasing.LeaseAgreement) error) (*LeaseResponse, error) {
	l, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	from := l.Status
	if err := fn(l); err != nil {
		return nil, err
	}
	if err := s.leases.Save(ctx, l); err != nil {
		return nil, err
	}
	appshared.PublishEvents(ctx, s.events, s.logger, l)

	if from != l.Status {
		s.logger.Info("Lease status changed",
			zap.String("lease_id", l.ID.String()),
			zap.String("from", string(from)),
			zap.String("to", string(l.Status)),
		)
	}
	resp := ToLeaseResponse(l)
	return &resp, nil
}

// load fetches a lease the caller is party to; agents see every lease
func (s *LeaseService) load(ctx context.Context, actor appshared.Actor, id uuid.UUID) (*leasing.LeaseAgreement, error) {
	l, err := s.leases.FindByIDForAgency(ctx, actor.AgencyID, id)
	if err != nil {
		return nil, err
	}
	if !actor.Is(identity.RoleAgent) && !l.IsParty(actor.UserID) {
		return nil, appshared.ErrForbidden
	}
	return l, nil
}
