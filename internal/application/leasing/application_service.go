// Package leasing implements the tenant application review workflow and lease agreements.
package leasing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/application/messaging"
	appshared "github.com/rentwise/backend/internal/application/shared"
	"github.com/rentwise/backend/internal/domain/identity"
	"github.com/rentwise/backend/internal/domain/leasing"
	"github.com/rentwise/backend/internal/domain/property"
	"github.com/rentwise/backend/internal/domain/shared"
	"github.com/rentwise/backend/internal/infrastructure/notification"
	"github.com/rentwise/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// notifyConcurrency bounds the emails in flight for one rejection notice
const notifyConcurrency = 8

// Broadcaster delivers one message to many users, each in their own conversation
type Broadcaster interface {
	Broadcast(ctx context.Context, sender appshared.Actor, b messaging.Broadcast) (*messaging.BroadcastResult, error)
}

// ApplicationService handles tenant applications
type ApplicationService struct {
	applications leasing.ApplicationRepository
	leases       leasing.LeaseRepository
	listings     property.ListingRepository
	users        identity.UserRepository
	broadcaster  Broadcaster
	notifier     notification.Notifier
	events       shared.EventPublisher
	logger       *zap.Logger
}

// NewApplicationService creates a new ApplicationService
func NewApplicationService(
	applications leasing.ApplicationRepository,
	leases leasing.LeaseRepository,
	listings property.ListingRepository,
	users identity.UserRepository,
	broadcaster Broadcaster,
	notifier notification.Notifier,
	logger *zap.Logger,
) *ApplicationService {
	return &ApplicationService{
		applications: applications,
		leases:       leases,
		listings:     listings,
		users:        users,
		broadcaster:  broadcaster,
		notifier:     notifier,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *ApplicationService) SetEventPublisher(p shared.EventPublisher) {
	s.events = p
}

// Submit applies for a published listing on behalf of the calling tenant
func (s *ApplicationService) Submit(ctx context.Context, actor appshared.Actor, req SubmitApplicationRequest) (*ApplicationResponse, error) {
	if err := actor.Require(identity.RoleTenant); err != nil {
		return nil, err
	}
	listing, err := s.listings.FindByIDForAgency(ctx, actor.AgencyID, req.ListingID)
	if err != nil {
		return nil, err
	}
	applicant, err := s.users.FindByIDForAgency(ctx, actor.AgencyID, actor.UserID)
	if err != nil {
		return nil, err
	}

	exists, err := s.applications.ExistsOpenForApplicant(ctx, actor.AgencyID, listing.ID, applicant.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "You already have an open application for this listing")
	}

	app, err := leasing.SubmitApplication(listing, applicant, req.input())
	if err != nil {
		return nil, err
	}
	if err := s.applications.Save(ctx, app); err != nil {
		return nil, err
	}
	appshared.PublishEvents(ctx, s.events, s.logger, app)

	s.logger.Info("Application submitted",
		zap.String("application_id", app.ID.String()),
		zap.String("listing_id", app.ListingID.String()),
	)
	resp := ToApplicationResponse(app)
	return &resp, nil
}

// Withdraw lets the applicant pull out before the landlord has decided
func (s *ApplicationService) Withdraw(ctx context.Context, actor appshared.Actor, id uuid.UUID) (*ApplicationResponse, error) {
	if err := actor.Require(identity.RoleTenant); err != nil {
		return nil, err
	}
	app, err := s.applications.FindByIDForAgency(ctx, actor.AgencyID, id)
	if err != nil {
		return nil, err
	}
	if err := app.Withdraw(actor.UserID); err != nil {
		return nil, err
	}
	if err := s.applications.Save(ctx, app); err != nil {
		return nil, err
	}
	appshared.PublishEvents(ctx, s.events, s.logger, app)

	resp := ToApplicationResponse(app)
	return &resp, nil
}

// Act runs a review action through the workflow. A no-op transition is
// reported with Changed=false and nothing is stored. Final approval drafts
// the lease and marks the listing leased.
func (s *ApplicationService) Act(ctx context.Context, actor appshared.Actor, id uuid.UUID, req ActRequest) (*ActResponse, error) {
	action := leasing.Action(req.Action)
	if !action.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACTION", fmt.Sprintf("Unknown action: %s", req.Action))
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "ApplicationService", "Act",
		attribute.String("application.id", id.String()),
		attribute.String("application.action", string(action)),
	)
	defer span.End()

	app, err := s.applications.FindByIDForAgency(ctx, actor.AgencyID, id)
	if err != nil {
		return nil, err
	}
	reviewer, err := s.users.FindByIDForAgency(ctx, actor.AgencyID, actor.UserID)
	if err != nil {
		return nil, err
	}

	t, err := app.Apply(action, reviewer, req.Note)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	resp := &ActResponse{Transition: TransitionResponse{
		From:    t.From,
		To:      t.To,
		Step:    t.Step,
		Effect:  t.Effect,
		Changed: t.Changed,
	}}
	if !t.Changed {
		resp.Application = ToApplicationResponse(app)
		return resp, nil
	}

	// The lease is stored before the status so a failed write leaves the
	// application at LANDLORD_APPROVED and final-approve can be retried.
	if t.Effect == leasing.EffectCreateLease {
		lease, err := s.createLease(ctx, app)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		lr := ToLeaseResponse(lease)
		resp.Lease = &lr
	}

	// last write wins: concurrent reviewers overwrite each other
	if err := s.applications.Save(ctx, app); err != nil {
		return nil, err
	}
	appshared.PublishEvents(ctx, s.events, s.logger, app)

	s.logger.Info("Application status changed",
		zap.String("application_id", app.ID.String()),
		zap.String("action", string(action)),
		zap.String("from", string(t.From)),
		zap.String("to", string(t.To)),
	)
	if t.To == leasing.StatusFinalApproved || t.To == leasing.StatusFinalRejected {
		s.notifyDecision(ctx, app)
	}

	resp.Application = ToApplicationResponse(app)
	return resp, nil
}

// createLease drafts the lease for a final approval at the listing's terms
// and takes the listing off the market. A lease left by an earlier attempt
// whose status write failed is returned as is.
func (s *ApplicationService) createLease(ctx context.Context, app *leasing.TenantApplication) (*leasing.LeaseAgreement, error) {
	existing, err := s.leases.FindByApplication(ctx, app.AgencyID, app.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	listing, err := s.listings.FindByIDForAgency(ctx, app.AgencyID, app.ListingID)
	if err != nil {
		return nil, err
	}
	lease, err := leasing.NewLeaseFromApplication(app, listing.MonthlyRent, listing.Deposit)
	if err != nil {
		return nil, err
	}
	if err := s.leases.Save(ctx, lease); err != nil {
		return nil, err
	}
	appshared.PublishEvents(ctx, s.events, s.logger, lease)

	if err := listing.MarkLeased(); err != nil {
		s.logger.Warn("Listing could not be marked leased",
			zap.String("listing_id", listing.ID.String()),
			zap.String("status", string(listing.Status)),
			zap.Error(err),
		)
	} else {
		if err := s.listings.Save(ctx, listing); err != nil {
			return nil, err
		}
		appshared.PublishEvents(ctx, s.events, s.logger, listing)
	}

	s.logger.Info("Lease drafted",
		zap.String("lease_id", lease.ID.String()),
		zap.String("application_id", app.ID.String()),
	)
	return lease, nil
}

// notifyDecision texts the applicant about the final decision. Failures are logged only.
func (s *ApplicationService) notifyDecision(ctx context.Context, app *leasing.TenantApplication) {
	applicant, err := s.users.FindByIDForAgency(ctx, app.AgencyID, app.ApplicantID)
	if err != nil || applicant.Phone == "" {
		return
	}
	body := "Your rental application was approved. Your agent will be in touch about the lease."
	if app.Status == leasing.StatusFinalRejected {
		body = "Your rental application was not successful this time."
	}
	if err := s.notifier.SendSMS(ctx, applicant.Phone, body); err != nil && !errors.Is(err, notification.ErrSMSDisabled) {
		s.logger.Warn("Decision SMS failed",
			zap.String("application_id", app.ID.String()),
			zap.Error(err),
		)
	}
}

// NotifyRejectedApplicants messages every applicant whose application for
// the listing was rejected at any stage, in a conversation with the calling
// agent, and emails them. Applicants are notified concurrently and settle
// independently; the result has exactly one entry per applicant.
func (s *ApplicationService) NotifyRejectedApplicants(ctx context.Context, actor appshared.Actor, listingID uuid.UUID, req NotifyRejectedRequest) (*NotifyResult, error) {
	if err := actor.Require(identity.RoleAgent); err != nil {
		return nil, err
	}
	listing, err := s.listings.FindByIDForAgency(ctx, actor.AgencyID, listingID)
	if err != nil {
		return nil, err
	}
	apps, err := s.applications.FindByListingAndStatuses(ctx, actor.AgencyID, listing.ID, leasing.RejectedStatuses())
	if err != nil {
		return nil, err
	}

	result := &NotifyResult{Notified: []uuid.UUID{}, Failed: []NotifyFailure{}}
	targets := rejectedApplicants(apps)
	if len(targets) == 0 {
		return result, nil
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "ApplicationService", "NotifyRejectedApplicants",
		attribute.String("listing.id", listing.ID.String()),
		attribute.Int("notify.targets", len(targets)),
	)
	defer span.End()

	subject := req.Subject
	if subject == "" {
		subject = "Update on " + listing.Title
	}

	errs := make([]error, len(targets))
	delivery, err := s.broadcaster.Broadcast(ctx, actor, messaging.Broadcast{
		RecipientIDs: targets,
		ListingID:    &listing.ID,
		Subject:      subject,
		Body:         req.Message,
	})
	if err != nil {
		return nil, err
	}
	failedMessages := make(map[uuid.UUID]string, len(delivery.Failed))
	for _, f := range delivery.Failed {
		failedMessages[f.RecipientID] = f.Error
	}

	users, err := s.users.FindByIDs(ctx, actor.AgencyID, targets)
	if err != nil {
		return nil, err
	}
	emails := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		emails[u.ID] = u.Email
	}

	var g errgroup.Group
	g.SetLimit(notifyConcurrency)
	for i, applicantID := range targets {
		g.Go(func() error {
			var msgErr, mailErr error
			if reason, failed := failedMessages[applicantID]; failed {
				msgErr = fmt.Errorf("message: %s", reason)
			}
			if email, ok := emails[applicantID]; ok {
				if err := s.notifier.SendEmail(ctx, email, subject, req.Message); err != nil {
					mailErr = fmt.Errorf("email: %w", err)
				}
			} else {
				mailErr = errors.New("email: applicant not found")
			}
			errs[i] = errors.Join(msgErr, mailErr)
			return nil
		})
	}
	_ = g.Wait()

	for i, applicantID := range targets {
		if errs[i] != nil {
			result.Failed = append(result.Failed, NotifyFailure{ApplicantID: applicantID, Error: errs[i].Error()})
			continue
		}
		result.Notified = append(result.Notified, applicantID)
	}

	span.SetAttributes(
		attribute.Int("notify.notified", len(result.Notified)),
		attribute.Int("notify.failed", len(result.Failed)),
	)
	s.logger.Info("Rejected applicants notified",
		zap.String("listing_id", listing.ID.String()),
		zap.Int("notified", len(result.Notified)),
		zap.Int("failed", len(result.Failed)),
	)
	return result, nil
}

// Get returns an application to its applicant, its landlord or any agent
func (s *ApplicationService) Get(ctx context.Context, actor appshared.Actor, id uuid.UUID) (*ApplicationResponse, error) {
	app, err := s.applications.FindByIDForAgency(ctx, actor.AgencyID, id)
	if err != nil {
		return nil, err
	}
	if !canSee(actor, app) {
		return nil, appshared.ErrForbidden
	}
	resp := ToApplicationResponse(app)
	return &resp, nil
}

// List lists applications by listing, applicant and status.
// Tenants only see their own and landlords only those for their properties.
func (s *ApplicationService) List(ctx context.Context, actor appshared.Actor, req ApplicationListFilter) (*shared.Paginated[ApplicationResponse], error) {
	filter := shared.DefaultFilter()
	filter.Page = req.Page
	filter.PageSize = req.PageSize
	if req.Status != "" {
		if !leasing.ApplicationStatus(req.Status).IsValid() {
			return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown status: %s", req.Status))
		}
		filter = filter.With("status", req.Status)
	}
	if req.ListingID != nil {
		filter = filter.With("listing_id", *req.ListingID)
	}
	applicant := req.ApplicantID
	switch actor.Role {
	case identity.RoleTenant:
		applicant = &actor.UserID
	case identity.RoleLandlord:
		filter = filter.With("landlord_id", actor.UserID)
	}
	if applicant != nil {
		filter = filter.With("applicant_id", *applicant)
	}
	filter = filter.Normalize()

	items, err := s.applications.FindAllForAgency(ctx, actor.AgencyID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.applications.CountForAgency(ctx, actor.AgencyID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]ApplicationResponse, len(items))
	for i := range items {
		out[i] = ToApplicationResponse(&items[i])
	}
	page := shared.NewPaginated(out, total, filter.Page, filter.PageSize)
	return &page, nil
}

func canSee(actor appshared.Actor, app *leasing.TenantApplication) bool {
	switch actor.Role {
	case identity.RoleAgent:
		return true
	case identity.RoleLandlord:
		return app.LandlordID == actor.UserID
	}
	return app.ApplicantID == actor.UserID
}

// rejectedApplicants returns each applicant once, in the order of their first rejected application
func rejectedApplicants(apps []leasing.TenantApplication) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(apps))
	out := make([]uuid.UUID, 0, len(apps))
	for _, a := range apps {
		if a.WithdrawnAt != nil || !a.Status.IsRejection() || seen[a.ApplicantID] {
			continue
		}
		seen[a.ApplicantID] = true
		out = append(out, a.ApplicantID)
	}
	return out
}
