package property

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeProperty   = "Property"
	AggregateTypeListing    = "Listing"
	AggregateTypeInspection = "Inspection"
)

// Event type constants
const (
	EventTypePropertyCreated      = "PropertyCreated"
	EventTypePropertyArchived     = "PropertyArchived"
	EventTypeListingCreated       = "ListingCreated"
	EventTypeListingStatusChanged = "ListingStatusChanged"
	EventTypeInspectionScheduled  = "InspectionScheduled"
	EventTypeInspectionCompleted  = "InspectionCompleted"
)

// PropertyCreatedEvent is raised when a landlord's property is registered
type PropertyCreatedEvent struct {
	shared.BaseDomainEvent
	LandlordID uuid.UUID `json:"landlord_id"`
	Name       string    `json:"name"`
}

// NewPropertyCreatedEvent creates a new PropertyCreatedEvent
func NewPropertyCreatedEvent(p *Property) *PropertyCreatedEvent {
	return &PropertyCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePropertyCreated, AggregateTypeProperty, p.ID, p.AgencyID),
		LandlordID:      p.LandlordID,
		Name:            p.Name,
	}
}

// PropertyArchivedEvent is raised when a property is archived
type PropertyArchivedEvent struct {
	shared.BaseDomainEvent
	LandlordID uuid.UUID `json:"landlord_id"`
}

// NewPropertyArchivedEvent creates a new PropertyArchivedEvent
func NewPropertyArchivedEvent(p *Property) *PropertyArchivedEvent {
	return &PropertyArchivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePropertyArchived, AggregateTypeProperty, p.ID, p.AgencyID),
		LandlordID:      p.LandlordID,
	}
}

// ListingCreatedEvent is raised when a draft listing is created
type ListingCreatedEvent struct {
	shared.BaseDomainEvent
	PropertyID  uuid.UUID       `json:"property_id"`
	AgentID     uuid.UUID       `json:"agent_id"`
	MonthlyRent decimal.Decimal `json:"monthly_rent"`
}

// NewListingCreatedEvent creates a new ListingCreatedEvent
func NewListingCreatedEvent(l *Listing) *ListingCreatedEvent {
	return &ListingCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeListingCreated, AggregateTypeListing, l.ID, l.AgencyID),
		PropertyID:      l.PropertyID,
		AgentID:         l.AgentID,
		MonthlyRent:     l.MonthlyRent,
	}
}

// ListingStatusChangedEvent is raised on publish, withdraw and lease
type ListingStatusChangedEvent struct {
	shared.BaseDomainEvent
	PropertyID uuid.UUID     `json:"property_id"`
	Status     ListingStatus `json:"status"`
}

// NewListingStatusChangedEvent creates a new ListingStatusChangedEvent
func NewListingStatusChangedEvent(l *Listing) *ListingStatusChangedEvent {
	return &ListingStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeListingStatusChanged, AggregateTypeListing, l.ID, l.AgencyID),
		PropertyID:      l.PropertyID,
		Status:          l.Status,
	}
}

// InspectionScheduledEvent is raised when an inspection is booked
type InspectionScheduledEvent struct {
	shared.BaseDomainEvent
	PropertyID  uuid.UUID      `json:"property_id"`
	InspectorID uuid.UUID      `json:"inspector_id"`
	Kind        InspectionKind `json:"kind"`
	ScheduledAt time.Time      `json:"scheduled_at"`
}

// NewInspectionScheduledEvent creates a new InspectionScheduledEvent
func NewInspectionScheduledEvent(i *Inspection) *InspectionScheduledEvent {
	return &InspectionScheduledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInspectionScheduled, AggregateTypeInspection, i.ID, i.AgencyID),
		PropertyID:      i.PropertyID,
		InspectorID:     i.InspectorID,
		Kind:            i.Kind,
		ScheduledAt:     i.ScheduledAt,
	}
}

// InspectionCompletedEvent is raised when findings are recorded
type InspectionCompletedEvent struct {
	shared.BaseDomainEvent
	PropertyID      uuid.UUID `json:"property_id"`
	ConditionRating int       `json:"condition_rating"`
}

// NewInspectionCompletedEvent creates a new InspectionCompletedEvent
func NewInspectionCompletedEvent(i *Inspection) *InspectionCompletedEvent {
	return &InspectionCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInspectionCompleted, AggregateTypeInspection, i.ID, i.AgencyID),
		PropertyID:      i.PropertyID,
		ConditionRating: i.ConditionRating,
	}
}
