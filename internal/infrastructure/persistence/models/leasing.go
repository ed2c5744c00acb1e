package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/domain/leasing"
	"github.com/shopspring/decimal"
)

// TenantApplicationModel is the persistence model for the TenantApplication aggregate
type TenantApplicationModel struct {
	AgencyAggregateModel
	ListingID     uuid.UUID                 `gorm:"type:uuid;not null;index"`
	PropertyID    uuid.UUID                 `gorm:"type:uuid;not null"`
	ApplicantID   uuid.UUID                 `gorm:"type:uuid;not null;index"`
	LandlordID    uuid.UUID                 `gorm:"type:uuid;not null;index"`
	AgentID       uuid.UUID                 `gorm:"type:uuid;not null;index"`
	Message       string                    `gorm:"type:text"`
	MonthlyIncome decimal.Decimal           `gorm:"type:decimal(12,2);not null;default:0"`
	Occupants     int                       `gorm:"not null;default:1"`
	MoveInDate    *time.Time                `gorm:"type:date"`
	Status        leasing.ApplicationStatus `gorm:"type:varchar(30);not null;index"`
	Step          int                       `gorm:"not null"`
	DecidedBy     *uuid.UUID                `gorm:"type:uuid"`
	DecisionNote  string                    `gorm:"type:text"`
	WithdrawnAt   *time.Time
	History       []leasing.StatusChange `gorm:"type:text;serializer:json"`
}

// TableName returns the table name for GORM
func (TenantApplicationModel) TableName() string {
	return "tenant_applications"
}

// TenantApplicationModelFromDomain creates a persistence model from a domain application
func TenantApplicationModelFromDomain(a *leasing.TenantApplication) *TenantApplicationModel {
	m := &TenantApplicationModel{
		ListingID:     a.ListingID,
		PropertyID:    a.PropertyID,
		ApplicantID:   a.ApplicantID,
		LandlordID:    a.LandlordID,
		AgentID:       a.AgentID,
		Message:       a.Message,
		MonthlyIncome: a.MonthlyIncome,
		Occupants:     a.Occupants,
		MoveInDate:    a.MoveInDate,
		Status:        a.Status,
		Step:          a.Step,
		DecidedBy:     a.DecidedBy,
		DecisionNote:  a.DecisionNote,
		WithdrawnAt:   a.WithdrawnAt,
		History:       nonNil(a.History),
	}
	m.FromDomainAggregate(a.AgencyAggregateRoot)
	return m
}

// ToDomain converts the model to a domain TenantApplication
func (m *TenantApplicationModel) ToDomain() *leasing.TenantApplication {
	return &leasing.TenantApplication{
		AgencyAggregateRoot: m.ToDomainAggregate(),
		ListingID:           m.ListingID,
		PropertyID:          m.PropertyID,
		ApplicantID:         m.ApplicantID,
		LandlordID:          m.LandlordID,
		AgentID:             m.AgentID,
		Message:             m.Message,
		MonthlyIncome:       m.MonthlyIncome,
		Occupants:           m.Occupants,
		MoveInDate:          m.MoveInDate,
		Status:              m.Status,
		Step:                m.Step,
		DecidedBy:           m.DecidedBy,
		DecisionNote:        m.DecisionNote,
		WithdrawnAt:         m.WithdrawnAt,
		History:             nonNil(m.History),
	}
}

// LeaseAgreementModel is the persistence model for the LeaseAgreement aggregate
type LeaseAgreementModel struct {
	AgencyAggregateModel
	ApplicationID     uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex"`
	ListingID         uuid.UUID           `gorm:"type:uuid;not null"`
	PropertyID        uuid.UUID           `gorm:"type:uuid;not null;index"`
	TenantID          uuid.UUID           `gorm:"type:uuid;not null;index"`
	LandlordID        uuid.UUID           `gorm:"type:uuid;not null;index"`
	AgentID           uuid.UUID           `gorm:"type:uuid;not null"`
	MonthlyRent       decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	Deposit           decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	StartDate         time.Time           `gorm:"type:date;not null"`
	EndDate           time.Time           `gorm:"type:date;not null"`
	Status            leasing.LeaseStatus `gorm:"type:varchar(20);not null;index"`
	TenantSignedAt    *time.Time
	LandlordSignedAt  *time.Time
	TerminatedAt      *time.Time
	TerminationReason string `gorm:"type:varchar(500)"`
	DocumentKey       string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (LeaseAgreementModel) TableName() string {
	return "lease_agreements"
}

// LeaseAgreementModelFromDomain creates a persistence model from a domain lease
func LeaseAgreementModelFromDomain(l *leasing.LeaseAgreement) *LeaseAgreementModel {
	m := &LeaseAgreementModel{
		ApplicationID:     l.ApplicationID,
		ListingID:         l.ListingID,
		PropertyID:        l.PropertyID,
		TenantID:          l.TenantID,
		LandlordID:        l.LandlordID,
		AgentID:           l.AgentID,
		MonthlyRent:       l.MonthlyRent,
		Deposit:           l.Deposit,
		StartDate:         l.StartDate,
		EndDate:           l.EndDate,
		Status:            l.Status,
		TenantSignedAt:    l.TenantSignedAt,
		LandlordSignedAt:  l.LandlordSignedAt,
		TerminatedAt:      l.TerminatedAt,
		TerminationReason: l.TerminationReason,
		DocumentKey:       l.DocumentKey,
	}
	m.FromDomainAggregate(l.AgencyAggregateRoot)
	return m
}

// ToDomain converts the model to a domain LeaseAgreement
func (m *LeaseAgreementModel) ToDomain() *leasing.LeaseAgreement {
	return &leasing.LeaseAgreement{
		AgencyAggregateRoot: m.ToDomainAggregate(),
		ApplicationID:       m.ApplicationID,
		ListingID:           m.ListingID,
		PropertyID:          m.PropertyID,
		TenantID:            m.TenantID,
		LandlordID:          m.LandlordID,
		AgentID:             m.AgentID,
		MonthlyRent:         m.MonthlyRent,
		Deposit:             m.Deposit,
		StartDate:           m.StartDate,
		EndDate:             m.EndDate,
		Status:              m.Status,
		TenantSignedAt:      m.TenantSignedAt,
		LandlordSignedAt:    m.LandlordSignedAt,
		TerminatedAt:        m.TerminatedAt,
		TerminationReason:   m.TerminationReason,
		DocumentKey:         m.DocumentKey,
	}
}
