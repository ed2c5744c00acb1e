package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/domain/property"
	"github.com/rentwise/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// AddressColumns flattens an Address into embedded columns
type AddressColumns struct {
	Line1      string `gorm:"column:address_line1;type:varchar(200);not null"`
	Line2      string `gorm:"column:address_line2;type:varchar(200)"`
	City       string `gorm:"column:address_city;type:varchar(100);not null;index"`
	State      string `gorm:"column:address_state;type:varchar(100)"`
	PostalCode string `gorm:"column:address_postal_code;type:varchar(20)"`
	Country    string `gorm:"column:address_country;type:varchar(100);not null"`
}

func addressColumns(a valueobject.Address) AddressColumns {
	d := a.ToDTO()
	return AddressColumns{
		Line1:      d.Line1,
		Line2:      d.Line2,
		City:       d.City,
		State:      d.State,
		PostalCode: d.PostalCode,
		Country:    d.Country,
	}
}

// toDomain rebuilds the value object. Rows are validated on write, so a
// failure here means the row was edited out of band and yields an empty address.
func (c AddressColumns) toDomain() valueobject.Address {
	a, err := valueobject.AddressFromDTO(valueobject.AddressDTO{
		Line1:      c.Line1,
		Line2:      c.Line2,
		City:       c.City,
		State:      c.State,
		PostalCode: c.PostalCode,
		Country:    c.Country,
	})
	if err != nil {
		return valueobject.Address{}
	}
	return a
}

// PropertyModel is the persistence model for the Property aggregate
type PropertyModel struct {
	AgencyAggregateModel
	LandlordID  uuid.UUID      `gorm:"type:uuid;not null;index"`
	Name        string         `gorm:"type:varchar(200);not null"`
	Address     AddressColumns `gorm:"embedded"`
	Latitude    *float64
	Longitude   *float64
	Kind        property.Kind   `gorm:"type:varchar(20);not null"`
	Bedrooms    int             `gorm:"not null;default:0"`
	Bathrooms   int             `gorm:"not null;default:0"`
	AreaSqm     int             `gorm:"not null;default:0"`
	Description string          `gorm:"type:text"`
	Status      property.Status `gorm:"type:varchar(20);not null;index"`
}

// TableName returns the table name for GORM
func (PropertyModel) TableName() string {
	return "properties"
}

// PropertyModelFromDomain creates a persistence model from a domain Property
func PropertyModelFromDomain(p *property.Property) *PropertyModel {
	m := &PropertyModel{
		LandlordID:  p.LandlordID,
		Name:        p.Name,
		Address:     addressColumns(p.Address),
		Kind:        p.Kind,
		Bedrooms:    p.Bedrooms,
		Bathrooms:   p.Bathrooms,
		AreaSqm:     p.AreaSqm,
		Description: p.Description,
		Status:      p.Status,
	}
	if p.Location != nil {
		lat, lng := p.Location.Latitude, p.Location.Longitude
		m.Latitude, m.Longitude = &lat, &lng
	}
	m.FromDomainAggregate(p.AgencyAggregateRoot)
	return m
}

// ToDomain converts the model to a domain Property
func (m *PropertyModel) ToDomain() *property.Property {
	p := &property.Property{
		AgencyAggregateRoot: m.ToDomainAggregate(),
		LandlordID:          m.LandlordID,
		Name:                m.Name,
		Address:             m.Address.toDomain(),
		Kind:                m.Kind,
		Bedrooms:            m.Bedrooms,
		Bathrooms:           m.Bathrooms,
		AreaSqm:             m.AreaSqm,
		Description:         m.Description,
		Status:              m.Status,
	}
	if m.Latitude != nil && m.Longitude != nil {
		p.Location = &valueobject.GeoPoint{Latitude: *m.Latitude, Longitude: *m.Longitude}
	}
	return p
}

// ListingModel is the persistence model for the Listing aggregate
type ListingModel struct {
	AgencyAggregateModel
	PropertyID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	AgentID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	LandlordID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Title         string          `gorm:"type:varchar(200);not null"`
	Description   string          `gorm:"type:text"`
	MonthlyRent   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Deposit       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	AvailableFrom *time.Time
	Status        property.ListingStatus `gorm:"type:varchar(20);not null;index"`
	PhotoKeys     []string               `gorm:"type:text;serializer:json"`
	PublishedAt   *time.Time
}

// TableName returns the table name for GORM
func (ListingModel) TableName() string {
	return "listings"
}

// ListingModelFromDomain creates a persistence model from a domain Listing
func ListingModelFromDomain(l *property.Listing) *ListingModel {
	m := &ListingModel{
		PropertyID:    l.PropertyID,
		AgentID:       l.AgentID,
		LandlordID:    l.LandlordID,
		Title:         l.Title,
		Description:   l.Description,
		MonthlyRent:   l.MonthlyRent,
		Deposit:       l.Deposit,
		AvailableFrom: l.AvailableFrom,
		Status:        l.Status,
		PhotoKeys:     nonNil(l.PhotoKeys),
		PublishedAt:   l.PublishedAt,
	}
	m.FromDomainAggregate(l.AgencyAggregateRoot)
	return m
}

// ToDomain converts the model to a domain Listing
func (m *ListingModel) ToDomain() *property.Listing {
	return &property.Listing{
		AgencyAggregateRoot: m.ToDomainAggregate(),
		PropertyID:          m.PropertyID,
		AgentID:             m.AgentID,
		LandlordID:          m.LandlordID,
		Title:               m.Title,
		Description:         m.Description,
		MonthlyRent:         m.MonthlyRent,
		Deposit:             m.Deposit,
		AvailableFrom:       m.AvailableFrom,
		Status:              m.Status,
		PhotoKeys:           nonNil(m.PhotoKeys),
		PublishedAt:         m.PublishedAt,
	}
}

// InspectionModel is the persistence model for the Inspection aggregate
type InspectionModel struct {
	AgencyAggregateModel
	PropertyID         uuid.UUID                 `gorm:"type:uuid;not null;index"`
	InspectorID        uuid.UUID                 `gorm:"type:uuid;not null;index"`
	Kind               property.InspectionKind   `gorm:"type:varchar(20);not null"`
	ScheduledAt        time.Time                 `gorm:"not null;index"`
	Status             property.InspectionStatus `gorm:"type:varchar(20);not null;index"`
	Findings           string                    `gorm:"type:text"`
	ConditionRating    int                       `gorm:"not null;default:0"`
	PhotoKeys          []string                  `gorm:"type:text;serializer:json"`
	CompletedAt        *time.Time
	CancellationReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (InspectionModel) TableName() string {
	return "inspections"
}

// InspectionModelFromDomain creates a persistence model from a domain Inspection
func InspectionModelFromDomain(i *property.Inspection) *InspectionModel {
	m := &InspectionModel{
		PropertyID:         i.PropertyID,
		InspectorID:        i.InspectorID,
		Kind:               i.Kind,
		ScheduledAt:        i.ScheduledAt,
		Status:             i.Status,
		Findings:           i.Findings,
		ConditionRating:    i.ConditionRating,
		PhotoKeys:          nonNil(i.PhotoKeys),
		CompletedAt:        i.CompletedAt,
		CancellationReason: i.CancellationReason,
	}
	m.FromDomainAggregate(i.AgencyAggregateRoot)
	return m
}

// ToDomain converts the model to a domain Inspection
func (m *InspectionModel) ToDomain() *property.Inspection {
	return &property.Inspection{
		AgencyAggregateRoot: m.ToDomainAggregate(),
		PropertyID:          m.PropertyID,
		InspectorID:         m.InspectorID,
		Kind:                m.Kind,
		ScheduledAt:         m.ScheduledAt,
		Status:              m.Status,
		Findings:            m.Findings,
		ConditionRating:     m.ConditionRating,
		PhotoKeys:           nonNil(m.PhotoKeys),
		CompletedAt:         m.CompletedAt,
		CancellationReason:  m.CancellationReason,
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
