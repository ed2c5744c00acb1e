package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/domain/shared"
)

// BaseModel provides the id and timestamp columns shared by every table
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// AgencyAggregateModel provides the columns of an agency-scoped aggregate root
type AgencyAggregateModel struct {
	BaseModel
	AgencyID uuid.UUID `gorm:"type:uuid;not null;index"`
	Version  int       `gorm:"not null;default:1"`
}

// FromDomainAggregate copies the identity, timestamps, version and agency of a
func (m *AgencyAggregateModel) FromDomainAggregate(a shared.AgencyAggregateRoot) {
	m.ID = a.ID
	m.CreatedAt = a.CreatedAt
	m.UpdatedAt = a.UpdatedAt
	m.Version = a.Version
	m.AgencyID = a.AgencyID
}

// ToDomainAggregate rebuilds the aggregate root without pending events
func (m *AgencyAggregateModel) ToDomainAggregate() shared.AgencyAggregateRoot {
	return shared.AgencyAggregateRoot{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		AgencyID: m.AgencyID,
	}
}
