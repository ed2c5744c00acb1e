package property

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/domain/property"
	"github.com/rentwise/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// AddressInput is a street address in requests
type AddressInput struct {
	Line1      string `json:"line1" binding:"required,max=200"`
	Line2      string `json:"line2" binding:"max=200"`
	City       string `json:"city" binding:"required,max=100"`
	State      string `json:"state" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"max=20"`
	Country    string `json:"country" binding:"required,max=100"`
}

// ToValueObject validates the input into an Address
func (a AddressInput) ToValueObject() (valueobject.Address, error) {
	return valueobject.NewAddress(a.Line1, a.City, a.Country,
		valueobject.WithLine2(a.Line2),
		valueobject.WithState(a.State),
		valueobject.WithPostalCode(a.PostalCode),
	)
}

// CreatePropertyRequest creates a property. Agents must name the landlord.
type CreatePropertyRequest struct {
	LandlordID  *uuid.UUID   `json:"landlord_id"`
	Name        string       `json:"name" binding:"required,max=200"`
	Kind        string       `json:"kind" binding:"required,oneof=apartment house condo townhouse commercial"`
	Bedrooms    int          `json:"bedrooms" binding:"min=0"`
	Bathrooms   int          `json:"bathrooms" binding:"min=0"`
	AreaSqm     int          `json:"area_sqm" binding:"min=0"`
	Description string       `json:"description" binding:"max=4000"`
	Address     AddressInput `json:"address" binding:"required"`
}

// UpdatePropertyRequest replaces the editable attributes of a property
type UpdatePropertyRequest struct {
	Name        string       `json:"name" binding:"required,max=200"`
	Kind        string       `json:"kind" binding:"required,oneof=apartment house condo townhouse commercial"`
	Bedrooms    int          `json:"bedrooms" binding:"min=0"`
	Bathrooms   int          `json:"bathrooms" binding:"min=0"`
	AreaSqm     int          `json:"area_sqm" binding:"min=0"`
	Description string       `json:"description" binding:"max=4000"`
	Address     AddressInput `json:"address" binding:"required"`
}

func (r UpdatePropertyRequest) details() property.Details {
	return property.Details{
		Name:        r.Name,
		Kind:        property.Kind(r.Kind),
		Bedrooms:    r.Bedrooms,
		Bathrooms:   r.Bathrooms,
		AreaSqm:     r.AreaSqm,
		Description: r.Description,
	}
}

// PropertyListFilter lists properties
type PropertyListFilter struct {
	LandlordID *uuid.UUID `form:"landlord_id" json:"landlord_id"`
	Status     string     `form:"status" json:"status" binding:"omitempty,oneof=active archived"`
	Kind       string     `form:"kind" json:"kind"`
	Search     string     `form:"search" json:"search"`
	Page       int        `form:"page" json:"page"`
	PageSize   int        `form:"page_size" json:"page_size"`
}

// AddressResponse is the public view of an address
type AddressResponse struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country"`
	Full       string `json:"full"`
}

// PropertyResponse is the public view of a property
type PropertyResponse struct {
	ID          uuid.UUID             `json:"id"`
	LandlordID  uuid.UUID             `json:"landlord_id"`
	Name        string                `json:"name"`
	Kind        property.Kind         `json:"kind"`
	Address     AddressResponse       `json:"address"`
	Location    *valueobject.GeoPoint `json:"location,omitempty"`
	Bedrooms    int                   `json:"bedrooms"`
	Bathrooms   int                   `json:"bathrooms"`
	AreaSqm     int                   `json:"area_sqm"`
	Description string                `json:"description"`
	Status      property.Status       `json:"status"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// ToPropertyResponse converts a domain property
func ToPropertyResponse(p *property.Property) PropertyResponse {
	return PropertyResponse{
		ID:         p.ID,
		LandlordID: p.LandlordID,
		Name:       p.Name,
		Kind:       p.Kind,
		Address: AddressResponse{
			Line1:      p.Address.Line1(),
			Line2:      p.Address.Line2(),
			City:       p.Address.City(),
			State:      p.Address.State(),
			PostalCode: p.Address.PostalCode(),
			Country:    p.Address.Country(),
			Full:       p.Address.FullAddress(),
		},
		Location:    p.Location,
		Bedrooms:    p.Bedrooms,
		Bathrooms:   p.Bathrooms,
		AreaSqm:     p.AreaSqm,
		Description: p.Description,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ListingTermsRequest holds the editable terms of a listing
type ListingTermsRequest struct {
	Title         string          `json:"title" binding:"required,max=200"`
	Description   string          `json:"description" binding:"max=4000"`
	MonthlyRent   decimal.Decimal `json:"monthly_rent"`
	Deposit       decimal.Decimal `json:"deposit"`
	AvailableFrom *time.Time      `json:"available_from"`
}

func (r ListingTermsRequest) terms() property.ListingTerms {
	return property.ListingTerms{
		Title:         r.Title,
		Description:   r.Description,
		MonthlyRent:   r.MonthlyRent,
		Deposit:       r.Deposit,
		AvailableFrom: r.AvailableFrom,
	}
}

// CreateListingRequest advertises a property
type CreateListingRequest struct {
	PropertyID uuid.UUID `json:"property_id" binding:"required"`
	ListingTermsRequest
}

// ListingListFilter lists listings
type ListingListFilter struct {
	Status     string     `form:"status" json:"status" binding:"omitempty,oneof=draft published leased withdrawn"`
	PropertyID *uuid.UUID `form:"property_id" json:"property_id"`
	AgentID    *uuid.UUID `form:"agent_id" json:"agent_id"`
	Search     string     `form:"search" json:"search"`
	Page       int        `form:"page" json:"page"`
	PageSize   int        `form:"page_size" json:"page_size"`
}

// ListingResponse is the public view of a listing
type ListingResponse struct {
	ID            uuid.UUID              `json:"id"`
	PropertyID    uuid.UUID              `json:"property_id"`
	AgentID       uuid.UUID              `json:"agent_id"`
	LandlordID    uuid.UUID              `json:"landlord_id"`
	Title         string                 `json:"title"`
	Description   string                 `json:"description"`
	MonthlyRent   decimal.Decimal        `json:"monthly_rent"`
	Deposit       decimal.Decimal        `json:"deposit"`
	AvailableFrom *time.Time             `json:"available_from,omitempty"`
	Status        property.ListingStatus `json:"status"`
	PhotoKeys     []string               `json:"photo_keys"`
	PublishedAt   *time.Time             `json:"published_at,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// ToListingResponse converts a domain listing
func ToListingResponse(l *property.Listing) ListingResponse {
	photos := l.PhotoKeys
	if photos == nil {
		photos = []string{}
	}
	return ListingResponse{
		ID:            l.ID,
		PropertyID:    l.PropertyID,
		AgentID:       l.AgentID,
		LandlordID:    l.LandlordID,
		Title:         l.Title,
		Description:   l.Description,
		MonthlyRent:   l.MonthlyRent,
		Deposit:       l.Deposit,
		AvailableFrom: l.AvailableFrom,
		Status:        l.Status,
		PhotoKeys:     photos,
		PublishedAt:   l.PublishedAt,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}

// ScheduleInspectionRequest books an inspection. InspectorID defaults to the caller.
type ScheduleInspectionRequest struct {
	PropertyID  uuid.UUID  `json:"property_id" binding:"required"`
	InspectorID *uuid.UUID `json:"inspector_id"`
	Kind        string     `json:"kind" binding:"required,oneof=move_in move_out routine"`
	ScheduledAt time.Time  `json:"scheduled_at" binding:"required"`
}

// CompleteInspectionRequest records the outcome of an inspection
type CompleteInspectionRequest struct {
	Findings        string `json:"findings" binding:"max=8000"`
	ConditionRating int    `json:"condition_rating" binding:"required,min=1,max=5"`
}

// CancelInspectionRequest calls off an inspection
type CancelInspectionRequest struct {
	Reason string `json:"reason" binding:"max=1000"`
}

// RescheduleInspectionRequest moves an inspection
type RescheduleInspectionRequest struct {
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
}

// InspectionListFilter lists inspections
type InspectionListFilter struct {
	PropertyID  *uuid.UUID `form:"property_id" json:"property_id"`
	InspectorID *uuid.UUID `form:"inspector_id" json:"inspector_id"`
	Status      string     `form:"status" json:"status" binding:"omitempty,oneof=scheduled completed cancelled"`
	Page        int        `form:"page" json:"page"`
	PageSize    int        `form:"page_size" json:"page_size"`
}

// InspectionResponse is the public view of an inspection
type InspectionResponse struct {
	ID                 uuid.UUID                 `json:"id"`
	PropertyID         uuid.UUID                 `json:"property_id"`
	InspectorID        uuid.UUID                 `json:"inspector_id"`
	Kind               property.InspectionKind   `json:"kind"`
	ScheduledAt        time.Time                 `json:"scheduled_at"`
	Status             property.InspectionStatus `json:"status"`
	Findings           string                    `json:"findings,omitempty"`
	ConditionRating    int                       `json:"condition_rating,omitempty"`
	PhotoKeys          []string                  `json:"photo_keys"`
	CompletedAt        *time.Time                `json:"completed_at,omitempty"`
	CancellationReason string                    `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time                 `json:"created_at"`
}

// ToInspectionResponse converts a domain inspection
func ToInspectionResponse(i *property.Inspection) InspectionResponse {
	photos := i.PhotoKeys
	if photos == nil {
		photos = []string{}
	}
	return InspectionResponse{
		ID:                 i.ID,
		PropertyID:         i.PropertyID,
		InspectorID:        i.InspectorID,
		Kind:               i.Kind,
		ScheduledAt:        i.ScheduledAt,
		Status:             i.Status,
		Findings:           i.Findings,
		ConditionRating:    i.ConditionRating,
		PhotoKeys:          photos,
		CompletedAt:        i.CompletedAt,
		CancellationReason: i.CancellationReason,
		CreatedAt:          i.CreatedAt,
	}
}

// PhotoUploadResponse reports a photo upload together with the updated resource
type PhotoUploadResponse[T any] struct {
	Resource  T              `json:"resource"`
	Succeeded []string       `json:"succeeded"`
	Failed    []PhotoFailure `json:"failed"`
}

// PhotoFailure is a photo that could not be stored
type PhotoFailure struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Error string `json:"error"`
}
