package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/domain/task"
)

// TaskModel is the persistence model for the Task aggregate
type TaskModel struct {
	AgencyAggregateModel
	Title       string        `gorm:"type:varchar(200);not null"`
	Description string        `gorm:"type:text"`
	AssigneeID  uuid.UUID     `gorm:"type:uuid;not null;index"`
	CreatedBy   uuid.UUID     `gorm:"type:uuid;not null"`
	PropertyID  *uuid.UUID    `gorm:"type:uuid;index"`
	DueAt       *time.Time    `gorm:"index"`
	Priority    task.Priority `gorm:"type:varchar(10);not null"`
	Status      task.Status   `gorm:"type:varchar(20);not null;index"`
	CompletedAt *time.Time
}

// TableName returns the table name for GORM
func (TaskModel) TableName() string {
	return "tasks"
}

// TaskModelFromDomain creates a persistence model from a domain Task
func TaskModelFromDomain(t *task.Task) *TaskModel {
	m := &TaskModel{
		Title:       t.Title,
		Description: t.Description,
		AssigneeID:  t.AssigneeID,
		CreatedBy:   t.CreatedBy,
		PropertyID:  t.PropertyID,
		DueAt:       t.DueAt,
		Priority:    t.Priority,
		Status:      t.Status,
		CompletedAt: t.CompletedAt,
	}
	m.FromDomainAggregate(t.AgencyAggregateRoot)
	return m
}

// ToDomain converts the model to a domain Task
func (m *TaskModel) ToDomain() *task.Task {
	return &task.Task{
		AgencyAggregateRoot: m.ToDomainAggregate(),
		Title:               m.Title,
		Description:         m.Description,
		AssigneeID:          m.AssigneeID,
		CreatedBy:           m.CreatedBy,
		PropertyID:          m.PropertyID,
		DueAt:               m.DueAt,
		Priority:            m.Priority,
		Status:              m.Status,
		CompletedAt:         m.CompletedAt,
	}
}
