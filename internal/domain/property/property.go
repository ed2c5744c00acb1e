package property

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/domain/shared"
	"github.com/rentwise/backend/internal/domain/shared/valueobject"
)

// Kind is the type of dwelling
type Kind string

const (
	KindApartment  Kind = "apartment"
	KindHouse      Kind = "house"
	KindCondo      Kind = "condo"
	KindTownhouse  Kind = "townhouse"
	KindCommercial Kind = "commercial"
)

// IsValid checks if the kind is known
func (k Kind) IsValid() bool {
	switch k {
	case KindApartment, KindHouse, KindCondo, KindTownhouse, KindCommercial:
		return true
	}
	return false
}

// Status represents whether a property is in use
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// Property is a building or unit owned by a landlord
type Property struct {
	shared.AgencyAggregateRoot
	LandlordID  uuid.UUID
	Name        string
	Address     valueobject.Address
	Location    *valueobject.GeoPoint
	Kind        Kind
	Bedrooms    int
	Bathrooms   int
	AreaSqm     int
	Description string
	Status      Status
}

// Details holds the editable attributes of a property
type Details struct {
	Name        string
	Kind        Kind
	Bedrooms    int
	Bathrooms   int
	AreaSqm     int
	Description string
}

// NewProperty creates a new active property for landlord
func NewProperty(agencyID, landlordID uuid.UUID, address valueobject.Address, details Details) (*Property, error) {
	if landlordID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LANDLORD", "Landlord is required")
	}
	if address.IsEmpty() {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Address is required")
	}

	p := &Property{
		AgencyAggregateRoot: shared.NewAgencyAggregateRoot(agencyID),
		LandlordID:          landlordID,
		Address:             address,
		Status:              StatusActive,
	}
	if err := p.applyDetails(details); err != nil {
		return nil, err
	}

	p.AddDomainEvent(NewPropertyCreatedEvent(p))

	return p, nil
}

// Update replaces the editable attributes and the address
func (p *Property) Update(address valueobject.Address, details Details) error {
	if p.Status == StatusArchived {
		return shared.NewDomainError("INVALID_STATE", "Cannot update an archived property")
	}
	if address.IsEmpty() {
		return shared.NewDomainError("INVALID_ADDRESS", "Address is required")
	}
	if err := p.applyDetails(details); err != nil {
		return err
	}
	if !p.Address.Equals(address) {
		p.Address = address
		p.Location = nil
	}
	p.Touch()
	p.IncrementVersion()
	return nil
}

// SetLocation records the geocoded coordinates of the address
func (p *Property) SetLocation(point valueobject.GeoPoint) {
	p.Location = &point
	p.Touch()
}

// Archive takes the property out of circulation
func (p *Property) Archive() error {
	if p.Status == StatusArchived {
		return shared.NewDomainError("INVALID_STATE", "Property is already archived")
	}
	p.Status = StatusArchived
	p.Touch()
	p.IncrementVersion()
	p.AddDomainEvent(NewPropertyArchivedEvent(p))
	return nil
}

// Restore brings an archived property back
func (p *Property) Restore() error {
	if p.Status != StatusArchived {
		return shared.NewDomainError("INVALID_STATE", "Property is not archived")
	}
	p.Status = StatusActive
	p.Touch()
	p.IncrementVersion()
	return nil
}

// IsActive returns true if the property can be listed
func (p *Property) IsActive() bool {
	return p.Status == StatusActive
}

func (p *Property) applyDetails(d Details) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Property name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Property name cannot exceed 200 characters")
	}
	if !d.Kind.IsValid() {
		return shared.NewDomainError("INVALID_KIND", fmt.Sprintf("Unknown property kind: %s", d.Kind))
	}
	if d.Bedrooms < 0 || d.Bathrooms < 0 || d.AreaSqm < 0 {
		return shared.NewDomainError("INVALID_INPUT", "Room counts and area cannot be negative")
	}

	p.Name = name
	p.Kind = d.Kind
	p.Bedrooms = d.Bedrooms
	p.Bathrooms = d.Bathrooms
	p.AreaSqm = d.AreaSqm
	p.Description = strings.TrimSpace(d.Description)
	return nil
}
