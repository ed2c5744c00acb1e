package task

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/domain/task"
)

// TaskRequest holds the editable attributes of a task. AssigneeID defaults to the caller.
type TaskRequest struct {
	Title       string     `json:"title" binding:"required,max=200"`
	Description string     `json:"description" binding:"max=4000"`
	AssigneeID  *uuid.UUID `json:"assignee_id"`
	PropertyID  *uuid.UUID `json:"property_id"`
	DueAt       *time.Time `json:"due_at"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high"`
}

func (r TaskRequest) fields() task.Fields {
	return task.Fields{
		Title:       r.Title,
		Description: r.Description,
		PropertyID:  r.PropertyID,
		DueAt:       r.DueAt,
		Priority:    task.Priority(r.Priority),
	}
}

// Transition names a status change requested through a single endpoint
type Transition string

const (
	TransitionStart    Transition = "start"
	TransitionComplete Transition = "complete"
	TransitionCancel   Transition = "cancel"
	TransitionReopen   Transition = "reopen"
)

// TaskListFilter lists tasks
type TaskListFilter struct {
	AssigneeID *uuid.UUID `form:"assignee_id" json:"assignee_id"`
	PropertyID *uuid.UUID `form:"property_id" json:"property_id"`
	Status     string     `form:"status" json:"status" binding:"omitempty,oneof=open in_progress done cancelled"`
	Priority   string     `form:"priority" json:"priority" binding:"omitempty,oneof=low medium high"`
	Overdue    bool       `form:"overdue" json:"overdue"`
	Search     string     `form:"search" json:"search"`
	OrderBy    string     `form:"order_by" json:"order_by"`
	OrderDir   string     `form:"order_dir" json:"order_dir" binding:"omitempty,oneof=asc desc"`
	Page       int        `form:"page" json:"page"`
	PageSize   int        `form:"page_size" json:"page_size"`
}

// TaskResponse is the public view of a task
type TaskResponse struct {
	ID          uuid.UUID     `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	AssigneeID  uuid.UUID     `json:"assignee_id"`
	CreatedBy   uuid.UUID     `json:"created_by"`
	PropertyID  *uuid.UUID    `json:"property_id,omitempty"`
	DueAt       *time.Time    `json:"due_at,omitempty"`
	Priority    task.Priority `json:"priority"`
	Status      task.Status   `json:"status"`
	Overdue     bool          `json:"overdue"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// ToTaskResponse converts a domain task
func ToTaskResponse(t *task.Task, now time.Time) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		AssigneeID:  t.AssigneeID,
		CreatedBy:   t.CreatedBy,
		PropertyID:  t.PropertyID,
		DueAt:       t.DueAt,
		Priority:    t.Priority,
		Status:      t.Status,
		Overdue:     t.IsOverdue(now),
		CompletedAt: t.CompletedAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
