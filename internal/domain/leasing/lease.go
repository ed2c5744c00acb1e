package leasing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/domain/identity"
	"github.com/rentwise/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LeaseStatus represents the status of a lease agreement
type LeaseStatus string

const (
	LeaseStatusDraft      LeaseStatus = "draft"
	LeaseStatusActive     LeaseStatus = "active"
	LeaseStatusTerminated LeaseStatus = "terminated"
	LeaseStatusExpired    LeaseStatus = "expired"
)

// DefaultLeaseTerm is used when the application gives no end date
const DefaultLeaseTerm = 12

// LeaseAgreement is the contract produced by a final approval
type LeaseAgreement struct {
	shared.AgencyAggregateRoot
	ApplicationID     uuid.UUID
	ListingID         uuid.UUID
	PropertyID        uuid.UUID
	TenantID          uuid.UUID
	LandlordID        uuid.UUID
	AgentID           uuid.UUID
	MonthlyRent       decimal.Decimal
	Deposit           decimal.Decimal
	StartDate         time.Time
	EndDate           time.Time
	Status            LeaseStatus
	TenantSignedAt    *time.Time
	LandlordSignedAt  *time.Time
	TerminatedAt      *time.Time
	TerminationReason string
	DocumentKey       string
}

// NewLeaseFromApplication drafts a lease for a FINAL_APPROVED application.
// The lease runs DefaultLeaseTerm months from the move-in date (or today).
func NewLeaseFromApplication(app *TenantApplication, rent, deposit decimal.Decimal) (*LeaseAgreement, error) {
	if app.Status != StatusFinalApproved {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot create a lease for an application in %s status", app.Status))
	}
	if !rent.IsPositive() {
		return nil, shared.NewDomainError("INVALID_RENT", "Monthly rent must be positive")
	}

	start := time.Now().UTC().Truncate(24 * time.Hour)
	if app.MoveInDate != nil {
		start = app.MoveInDate.UTC().Truncate(24 * time.Hour)
	}

	lease := &LeaseAgreement{
		AgencyAggregateRoot: shared.NewAgencyAggregateRoot(app.AgencyID),
		ApplicationID:       app.ID,
		ListingID:           app.ListingID,
		PropertyID:          app.PropertyID,
		TenantID:            app.ApplicantID,
		LandlordID:          app.LandlordID,
		AgentID:             app.AgentID,
		MonthlyRent:         rent,
		Deposit:             deposit,
		StartDate:           start,
		EndDate:             start.AddDate(0, DefaultLeaseTerm, 0),
		Status:              LeaseStatusDraft,
	}

	lease.AddDomainEvent(NewLeaseCreatedEvent(lease))

	return lease, nil
}

// Sign records the signature of the tenant or the landlord on a draft lease.
// The lease becomes active once both parties have signed.
func (l *LeaseAgreement) Sign(signer *identity.User) error {
	if l.Status != LeaseStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot sign lease in %s status", l.Status))
	}

	now := time.Now()
	switch {
	case signer.ID == l.TenantID:
		if l.TenantSignedAt != nil {
			return shared.NewDomainError("ALREADY_SIGNED", "Tenant has already signed")
		}
		l.TenantSignedAt = &now
	case signer.ID == l.LandlordID:
		if l.LandlordSignedAt != nil {
			return shared.NewDomainError("ALREADY_SIGNED", "Landlord has already signed")
		}
		l.LandlordSignedAt = &now
	default:
		return shared.NewDomainError("FORBIDDEN", "Only the tenant or landlord can sign this lease")
	}

	if l.TenantSignedAt != nil && l.LandlordSignedAt != nil {
		l.Status = LeaseStatusActive
		l.AddDomainEvent(NewLeaseActivatedEvent(l))
	}
	l.UpdatedAt = now
	l.IncrementVersion()
	return nil
}

// Terminate ends an active lease early
func (l *LeaseAgreement) Terminate(reason string) error {
	if l.Status != LeaseStatusActive {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot terminate lease in %s status", l.Status))
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_INPUT", "Termination reason is required")
	}
	now := time.Now()
	l.Status = LeaseStatusTerminated
	l.TerminatedAt = &now
	l.TerminationReason = reason
	l.UpdatedAt = now
	l.IncrementVersion()
	l.AddDomainEvent(NewLeaseTerminatedEvent(l))
	return nil
}

// ExpireIfDue moves an active lease past its end date to expired
func (l *LeaseAgreement) ExpireIfDue(now time.Time) bool {
	if l.Status != LeaseStatusActive || now.Before(l.EndDate) {
		return false
	}
	l.Status = LeaseStatusExpired
	l.UpdatedAt = now
	l.IncrementVersion()
	return true
}

// AttachDocument stores the blob key of the signed lease document
func (l *LeaseAgreement) AttachDocument(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return shared.NewDomainError("INVALID_INPUT", "Document key is required")
	}
	l.DocumentKey = key
	l.Touch()
	l.IncrementVersion()
	return nil
}

// IsParty reports whether user is the tenant, landlord or agent on the lease
func (l *LeaseAgreement) IsParty(userID uuid.UUID) bool {
	return userID == l.TenantID || userID == l.LandlordID || userID == l.AgentID
}
