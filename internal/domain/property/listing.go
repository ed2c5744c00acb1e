package property

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ListingStatus represents the status of a rental listing
type ListingStatus string

const (
	ListingStatusDraft     ListingStatus = "draft"
	ListingStatusPublished ListingStatus = "published"
	ListingStatusLeased    ListingStatus = "leased"
	ListingStatusWithdrawn ListingStatus = "withdrawn"
)

// IsValid checks if the status is valid
func (s ListingStatus) IsValid() bool {
	switch s {
	case ListingStatusDraft, ListingStatusPublished, ListingStatusLeased, ListingStatusWithdrawn:
		return true
	}
	return false
}

// String returns the string representation of the status
func (s ListingStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s ListingStatus) CanTransitionTo(target ListingStatus) bool {
	switch s {
	case ListingStatusDraft:
		return target == ListingStatusPublished
	case ListingStatusPublished:
		return target == ListingStatusWithdrawn || target == ListingStatusLeased
	case ListingStatusWithdrawn:
		return target == ListingStatusPublished
	}
	return false
}

const maxListingPhotos = 30

// Listing advertises a property for rent
type Listing struct {
	shared.AgencyAggregateRoot
	PropertyID    uuid.UUID
	AgentID       uuid.UUID
	LandlordID    uuid.UUID
	Title         string
	Description   string
	MonthlyRent   decimal.Decimal
	Deposit       decimal.Decimal
	AvailableFrom *time.Time
	Status        ListingStatus
	PhotoKeys     []string
	PublishedAt   *time.Time
}

// ListingTerms holds the editable attributes of a listing
type ListingTerms struct {
	Title         string
	Description   string
	MonthlyRent   decimal.Decimal
	Deposit       decimal.Decimal
	AvailableFrom *time.Time
}

// NewListing creates a draft listing for an active property
func NewListing(prop *Property, agentID uuid.UUID, terms ListingTerms) (*Listing, error) {
	if !prop.IsActive() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot list an archived property")
	}
	if agentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AGENT", "Agent is required")
	}

	l := &Listing{
		AgencyAggregateRoot: shared.NewAgencyAggregateRoot(prop.AgencyID),
		PropertyID:          prop.ID,
		AgentID:             agentID,
		LandlordID:          prop.LandlordID,
		Status:              ListingStatusDraft,
		PhotoKeys:           make([]string, 0),
	}
	if err := l.applyTerms(terms); err != nil {
		return nil, err
	}

	l.AddDomainEvent(NewListingCreatedEvent(l))

	return l, nil
}

// Update replaces the terms of a listing that is not yet leased
func (l *Listing) Update(terms ListingTerms) error {
	if l.Status == ListingStatusLeased {
		return shared.NewDomainError("INVALID_STATE", "Cannot update a leased listing")
	}
	if err := l.applyTerms(terms); err != nil {
		return err
	}
	l.Touch()
	l.IncrementVersion()
	return nil
}

// Publish makes the listing visible to tenants
func (l *Listing) Publish() error {
	if !l.Status.CanTransitionTo(ListingStatusPublished) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot publish listing in %s status", l.Status))
	}
	if !l.MonthlyRent.IsPositive() {
		return shared.NewDomainError("INVALID_RENT", "Monthly rent must be positive before publishing")
	}

	now := time.Now()
	l.Status = ListingStatusPublished
	l.PublishedAt = &now
	l.Touch()
	l.IncrementVersion()

	l.AddDomainEvent(NewListingStatusChangedEvent(l))

	return nil
}

// Withdraw hides a published listing
func (l *Listing) Withdraw() error {
	return l.transition(ListingStatusWithdrawn)
}

// MarkLeased closes the listing after a lease is agreed
func (l *Listing) MarkLeased() error {
	return l.transition(ListingStatusLeased)
}

// IsOpenForApplications returns true while tenants may apply
func (l *Listing) IsOpenForApplications() bool {
	return l.Status == ListingStatusPublished
}

// AddPhotos appends uploaded photo keys
func (l *Listing) AddPhotos(keys ...string) error {
	if len(l.PhotoKeys)+len(keys) > maxListingPhotos {
		return shared.NewDomainError("TOO_MANY_PHOTOS", fmt.Sprintf("A listing can have at most %d photos", maxListingPhotos))
	}
	for _, k := range keys {
		if strings.TrimSpace(k) == "" {
			return shared.NewDomainError("INVALID_INPUT", "Photo key cannot be empty")
		}
	}
	l.PhotoKeys = append(l.PhotoKeys, keys...)
	l.Touch()
	l.IncrementVersion()
	return nil
}

func (l *Listing) transition(target ListingStatus) error {
	if !l.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot move listing from %s to %s", l.Status, target))
	}
	l.Status = target
	l.Touch()
	l.IncrementVersion()
	l.AddDomainEvent(NewListingStatusChangedEvent(l))
	return nil
}

func (l *Listing) applyTerms(t ListingTerms) error {
	title := strings.TrimSpace(t.Title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Listing title cannot be empty")
	}
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Listing title cannot exceed 200 characters")
	}
	if t.MonthlyRent.IsNegative() || t.Deposit.IsNegative() {
		return shared.NewDomainError("INVALID_RENT", "Rent and deposit cannot be negative")
	}

	l.Title = title
	l.Description = strings.TrimSpace(t.Description)
	l.MonthlyRent = t.MonthlyRent.Round(2)
	l.Deposit = t.Deposit.Round(2)
	l.AvailableFrom = t.AvailableFrom
	return nil
}
