package leasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeApplication = "TenantApplication"
	AggregateTypeLease       = "LeaseAgreement"
)

// Event type constants
const (
	EventTypeApplicationSubmitted     = "ApplicationSubmitted"
	EventTypeApplicationStatusChanged = "ApplicationStatusChanged"
	EventTypeApplicationWithdrawn     = "ApplicationWithdrawn"
	EventTypeLeaseCreated             = "LeaseCreated"
	EventTypeLeaseActivated           = "LeaseActivated"
	EventTypeLeaseTerminated          = "LeaseTerminated"
)

// ApplicationSubmittedEvent is raised when a tenant applies for a listing
type ApplicationSubmittedEvent struct {
	shared.BaseDomainEvent
	ListingID   uuid.UUID `json:"listing_id"`
	ApplicantID uuid.UUID `json:"applicant_id"`
	AgentID     uuid.UUID `json:"agent_id"`
}

// NewApplicationSubmittedEvent creates a new ApplicationSubmittedEvent
func NewApplicationSubmittedEvent(a *TenantApplication) *ApplicationSubmittedEvent {
	return &ApplicationSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeApplicationSubmitted, AggregateTypeApplication, a.ID, a.AgencyID),
		ListingID:       a.ListingID,
		ApplicantID:     a.ApplicantID,
		AgentID:         a.AgentID,
	}
}

// ApplicationStatusChangedEvent is raised for every effective workflow transition
type ApplicationStatusChangedEvent struct {
	shared.BaseDomainEvent
	ListingID   uuid.UUID         `json:"listing_id"`
	ApplicantID uuid.UUID         `json:"applicant_id"`
	From        ApplicationStatus `json:"from"`
	To          ApplicationStatus `json:"to"`
	Step        int               `json:"step"`
	Action      Action            `json:"action"`
	Effect      Effect            `json:"effect"`
	ActorID     uuid.UUID         `json:"actor_id"`
}

// NewApplicationStatusChangedEvent creates a new ApplicationStatusChangedEvent
func NewApplicationStatusChangedEvent(a *TenantApplication, t Transition, action Action, actorID uuid.UUID) *ApplicationStatusChangedEvent {
	return &ApplicationStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeApplicationStatusChanged, AggregateTypeApplication, a.ID, a.AgencyID),
		ListingID:       a.ListingID,
		ApplicantID:     a.ApplicantID,
		From:            t.From,
		To:              t.To,
		Step:            t.Step,
		Action:          action,
		Effect:          t.Effect,
		ActorID:         actorID,
	}
}

// ApplicationWithdrawnEvent is raised when the applicant withdraws
type ApplicationWithdrawnEvent struct {
	shared.BaseDomainEvent
	ListingID   uuid.UUID `json:"listing_id"`
	ApplicantID uuid.UUID `json:"applicant_id"`
}

// NewApplicationWithdrawnEvent creates a new ApplicationWithdrawnEvent
func NewApplicationWithdrawnEvent(a *TenantApplication) *ApplicationWithdrawnEvent {
	return &ApplicationWithdrawnEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeApplicationWithdrawn, AggregateTypeApplication, a.ID, a.AgencyID),
		ListingID:       a.ListingID,
		ApplicantID:     a.ApplicantID,
	}
}

// LeaseCreatedEvent is raised when a draft lease is produced
type LeaseCreatedEvent struct {
	shared.BaseDomainEvent
	ApplicationID uuid.UUID       `json:"application_id"`
	TenantID      uuid.UUID       `json:"tenant_id"`
	LandlordID    uuid.UUID       `json:"landlord_id"`
	MonthlyRent   decimal.Decimal `json:"monthly_rent"`
	StartDate     time.Time       `json:"start_date"`
}

// NewLeaseCreatedEvent creates a new LeaseCreatedEvent
func NewLeaseCreatedEvent(l *LeaseAgreement) *LeaseCreatedEvent {
	return &LeaseCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeaseCreated, AggregateTypeLease, l.ID, l.AgencyID),
		ApplicationID:   l.ApplicationID,
		TenantID:        l.TenantID,
		LandlordID:      l.LandlordID,
		MonthlyRent:     l.MonthlyRent,
		StartDate:       l.StartDate,
	}
}

// LeaseActivatedEvent is raised when both parties have signed
type LeaseActivatedEvent struct {
	shared.BaseDomainEvent
	TenantID   uuid.UUID `json:"tenant_id"`
	LandlordID uuid.UUID `json:"landlord_id"`
}

// NewLeaseActivatedEvent creates a new LeaseActivatedEvent
func NewLeaseActivatedEvent(l *LeaseAgreement) *LeaseActivatedEvent {
	return &LeaseActivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeaseActivated, AggregateTypeLease, l.ID, l.AgencyID),
		TenantID:        l.TenantID,
		LandlordID:      l.LandlordID,
	}
}

// LeaseTerminatedEvent is raised when an active lease is ended early
type LeaseTerminatedEvent struct {
	shared.BaseDomainEvent
	Reason string `json:"reason"`
}

// NewLeaseTerminatedEvent creates a new LeaseTerminatedEvent
func NewLeaseTerminatedEvent(l *LeaseAgreement) *LeaseTerminatedEvent {
	return &LeaseTerminatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeaseTerminated, AggregateTypeLease, l.ID, l.AgencyID),
		Reason:          l.TerminationReason,
	}
}
