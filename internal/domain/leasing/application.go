package leasing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/domain/identity"
	"github.com/rentwise/backend/internal/domain/property"
	"github.com/rentwise/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StatusChange is one entry in an application's review history
type StatusChange struct {
	From      ApplicationStatus `json:"from"`
	To        ApplicationStatus `json:"to"`
	Action    Action            `json:"action"`
	ActorID   uuid.UUID         `json:"actor_id"`
	ActorRole identity.Role     `json:"actor_role"`
	Note      string            `json:"note,omitempty"`
	At        time.Time         `json:"at"`
}

// TenantApplication is a tenant's request to rent a listing
type TenantApplication struct {
	shared.AgencyAggregateRoot
	ListingID     uuid.UUID
	PropertyID    uuid.UUID
	ApplicantID   uuid.UUID
	LandlordID    uuid.UUID
	AgentID       uuid.UUID
	Message       string
	MonthlyIncome decimal.Decimal
	Occupants     int
	MoveInDate    *time.Time
	Status        ApplicationStatus
	Step          int
	DecidedBy     *uuid.UUID
	DecisionNote  string
	WithdrawnAt   *time.Time
	History       []StatusChange
}

// ApplicationInput holds what a tenant supplies when applying
type ApplicationInput struct {
	Message       string
	MonthlyIncome decimal.Decimal
	Occupants     int
	MoveInDate    *time.Time
}

// SubmitApplication creates an UNDETERMINED application for a published listing
func SubmitApplication(listing *property.Listing, applicant *identity.User, in ApplicationInput) (*TenantApplication, error) {
	if !listing.IsOpenForApplications() {
		return nil, shared.NewDomainError("INVALID_STATE", "Listing is not accepting applications")
	}
	if !applicant.HasRole(identity.RoleTenant) {
		return nil, shared.NewDomainError("FORBIDDEN", "Only tenants can apply for listings")
	}
	if applicant.AgencyID != listing.AgencyID {
		return nil, shared.ErrNotFound
	}
	if in.Occupants < 1 {
		in.Occupants = 1
	}
	if in.MonthlyIncome.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Monthly income cannot be negative")
	}
	if len(in.Message) > 2000 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Message cannot exceed 2000 characters")
	}

	app := &TenantApplication{
		AgencyAggregateRoot: shared.NewAgencyAggregateRoot(listing.AgencyID),
		ListingID:           listing.ID,
		PropertyID:          listing.PropertyID,
		ApplicantID:         applicant.ID,
		LandlordID:          listing.LandlordID,
		AgentID:             listing.AgentID,
		Message:             strings.TrimSpace(in.Message),
		MonthlyIncome:       in.MonthlyIncome.Round(2),
		Occupants:           in.Occupants,
		MoveInDate:          in.MoveInDate,
		Status:              StatusUndetermined,
		Step:                StatusUndetermined.Step(),
		History:             make([]StatusChange, 0),
	}

	app.AddDomainEvent(NewApplicationSubmittedEvent(app))

	return app, nil
}

// Apply runs an action through the workflow and records the result.
// A no-op transition leaves the application untouched.
func (a *TenantApplication) Apply(action Action, actor *identity.User, note string) (Transition, error) {
	if a.WithdrawnAt != nil {
		return Transition{}, shared.NewDomainError("INVALID_STATE", "Application has been withdrawn")
	}
	if err := a.checkParticipant(actor); err != nil {
		return Transition{}, err
	}

	t, err := Decide(a.Status, action, actor.Role)
	if err != nil {
		return Transition{}, err
	}
	if !t.Changed {
		return t, nil
	}

	now := time.Now()
	a.History = append(a.History, StatusChange{
		From:      t.From,
		To:        t.To,
		Action:    action,
		ActorID:   actor.ID,
		ActorRole: actor.Role,
		Note:      strings.TrimSpace(note),
		At:        now,
	})
	a.Status = t.To
	a.Step = t.Step
	if t.Effect == EffectReset {
		a.DecidedBy = nil
		a.DecisionNote = ""
	} else {
		actorID := actor.ID
		a.DecidedBy = &actorID
		a.DecisionNote = strings.TrimSpace(note)
	}
	a.UpdatedAt = now
	a.IncrementVersion()

	a.AddDomainEvent(NewApplicationStatusChangedEvent(a, t, action, actor.ID))

	return t, nil
}

// Withdraw lets the applicant pull out before the landlord has decided
func (a *TenantApplication) Withdraw(applicantID uuid.UUID) error {
	if applicantID != a.ApplicantID {
		return shared.NewDomainError("FORBIDDEN", "Only the applicant can withdraw an application")
	}
	if a.WithdrawnAt != nil {
		return shared.NewDomainError("INVALID_STATE", "Application is already withdrawn")
	}
	if a.Step >= StatusLandlordApproved.Step() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot withdraw application in %s status", a.Status))
	}
	now := time.Now()
	a.WithdrawnAt = &now
	a.UpdatedAt = now
	a.IncrementVersion()
	a.AddDomainEvent(NewApplicationWithdrawnEvent(a))
	return nil
}

// IsOpen reports whether the application is still being considered
func (a *TenantApplication) IsOpen() bool {
	return a.WithdrawnAt == nil && a.Status.IsOpen()
}

// checkParticipant ensures the actor is the agent or landlord on this application
func (a *TenantApplication) checkParticipant(actor *identity.User) error {
	if actor.AgencyID != a.AgencyID {
		return shared.ErrNotFound
	}
	switch actor.Role {
	case identity.RoleAgent:
		// any agent of the agency may review
		return nil
	case identity.RoleLandlord:
		if actor.ID != a.LandlordID {
			return shared.NewDomainError("FORBIDDEN", "Only the property's landlord can review this application")
		}
		return nil
	}
	return shared.NewDomainError("FORBIDDEN", "Tenants cannot review applications")
}
