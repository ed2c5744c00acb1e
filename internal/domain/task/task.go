package task

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/domain/shared"
)

// Priority of a task
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid checks if the priority is known
func (p Priority) IsValid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Status of a task
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusCancelled  Status = "cancelled"
)

// IsValid checks if the status is known
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusDone, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusOpen:
		return target == StatusInProgress || target == StatusDone || target == StatusCancelled
	case StatusInProgress:
		return target == StatusDone || target == StatusCancelled
	case StatusDone, StatusCancelled:
		return target == StatusOpen
	}
	return false
}

// Task is a to-do item for an agent or landlord, optionally tied to a property
type Task struct {
	shared.AgencyAggregateRoot
	Title       string
	Description string
	AssigneeID  uuid.UUID
	CreatedBy   uuid.UUID
	PropertyID  *uuid.UUID
	DueAt       *time.Time
	Priority    Priority
	Status      Status
	CompletedAt *time.Time
}

// Fields holds the editable attributes of a task
type Fields struct {
	Title       string
	Description string
	PropertyID  *uuid.UUID
	DueAt       *time.Time
	Priority    Priority
}

// NewTask creates an open task
func NewTask(agencyID, createdBy, assigneeID uuid.UUID, f Fields) (*Task, error) {
	if assigneeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ASSIGNEE", "Assignee is required")
	}
	t := &Task{
		AgencyAggregateRoot: shared.NewAgencyAggregateRoot(agencyID),
		AssigneeID:          assigneeID,
		CreatedBy:           createdBy,
		Status:              StatusOpen,
	}
	if err := t.apply(f); err != nil {
		return nil, err
	}
	return t, nil
}

// Update replaces the editable fields
func (t *Task) Update(f Fields) error {
	if err := t.apply(f); err != nil {
		return err
	}
	t.Touch()
	t.IncrementVersion()
	return nil
}

// Reassign hands the task to someone else
func (t *Task) Reassign(assigneeID uuid.UUID) error {
	if assigneeID == uuid.Nil {
		return shared.NewDomainError("INVALID_ASSIGNEE", "Assignee is required")
	}
	t.AssigneeID = assigneeID
	t.Touch()
	t.IncrementVersion()
	return nil
}

// Start moves an open task to in progress
func (t *Task) Start() error { return t.transition(StatusInProgress) }

// Complete marks the task done
func (t *Task) Complete() error { return t.transition(StatusDone) }

// Cancel abandons the task
func (t *Task) Cancel() error { return t.transition(StatusCancelled) }

// Reopen brings back a done or cancelled task
func (t *Task) Reopen() error { return t.transition(StatusOpen) }

// IsOverdue reports whether the task is unfinished past its due time
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueAt == nil || t.Status == StatusDone || t.Status == StatusCancelled {
		return false
	}
	return now.After(*t.DueAt)
}

func (t *Task) transition(target Status) error {
	if !t.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot move task from %s to %s", t.Status, target))
	}
	now := time.Now()
	t.Status = target
	if target == StatusDone {
		t.CompletedAt = &now
	} else {
		t.CompletedAt = nil
	}
	t.UpdatedAt = now
	t.IncrementVersion()
	return nil
}

func (t *Task) apply(f Fields) error {
	title := strings.TrimSpace(f.Title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Task title cannot be empty")
	}
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Task title cannot exceed 200 characters")
	}
	if f.Priority == "" {
		f.Priority = PriorityMedium
	}
	if !f.Priority.IsValid() {
		return shared.NewDomainError("INVALID_PRIORITY", fmt.Sprintf("Unknown priority: %s", f.Priority))
	}
	t.Title = title
	t.Description = strings.TrimSpace(f.Description)
	t.PropertyID = f.PropertyID
	t.DueAt = f.DueAt
	t.Priority = f.Priority
	return nil
}

// Repository defines the interface for task persistence.
// Supported filter keys: "assignee_id", "status", "property_id", "priority".
type Repository interface {
	shared.AgencyRepository[Task]
	Delete(ctx context.Context, agencyID, id uuid.UUID) error
}
