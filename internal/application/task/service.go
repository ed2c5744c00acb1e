// Package task implements to-do items for agents and landlords.
package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	appshared "github.com/rentwise/backend/internal/application/shared"
	"github.com/rentwise/backend/internal/domain/identity"
	"github.com/rentwise/backend/internal/domain/property"
	"github.com/rentwise/backend/internal/domain/shared"
	"github.com/rentwise/backend/internal/domain/task"
	"go.uber.org/zap"
)

// Service handles tasks. Tenants have no access to tasks.
// Agents see every task of the agency; landlords see the tasks they
// created or were assigned.
type Service struct {
	tasks      task.Repository
	users      identity.UserRepository
	properties property.PropertyRepository
	logger     *zap.Logger
	now        func() time.Time
}

// NewService creates a new task Service
func NewService(tasks task.Repository, users identity.UserRepository, properties property.PropertyRepository, logger *zap.Logger) *Service {
	return &Service{
		tasks:      tasks,
		users:      users,
		properties: properties,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateTask creates an open task
func (s *Service) CreateTask(ctx context.Context, actor appshared.Actor, req TaskRequest) (*TaskResponse, error) {
	if err := actor.Require(identity.RoleAgent, identity.RoleLandlord); err != nil {
		return nil, err
	}
	assignee := actor.UserID
	if req.AssigneeID != nil {
		assignee = *req.AssigneeID
	}
	if err := s.checkAssignee(ctx, actor, assignee); err != nil {
		return nil, err
	}
	if err := s.checkProperty(ctx, actor, req.PropertyID); err != nil {
		return nil, err
	}

	t, err := task.NewTask(actor.AgencyID, actor.UserID, assignee, req.fields())
	if err != nil {
		return nil, err
	}
	if err := s.tasks.Save(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("Task created",
		zap.String("task_id", t.ID.String()),
		zap.String("assignee_id", t.AssigneeID.String()),
	)
	resp := ToTaskResponse(t, s.now())
	return &resp, nil
}

// UpdateTask replaces the editable fields and reassigns when AssigneeID is set
func (s *Service) UpdateTask(ctx context.Context, actor appshared.Actor, id uuid.UUID, req TaskRequest) (*TaskResponse, error) {
	if err := s.checkProperty(ctx, actor, req.PropertyID); err != nil {
		return nil, err
	}
	return s.mutate(ctx, actor, id, func(t *task.Task) error {
		if err := t.Update(req.fields()); err != nil {
			return err
		}
		if req.AssigneeID == nil || *req.AssigneeID == t.AssigneeID {
			return nil
		}
		if err := s.checkAssignee(ctx, actor, *req.AssigneeID); err != nil {
			return err
		}
		return t.Reassign(*req.AssigneeID)
	})
}

// StartTask moves an open task to in progress
func (s *Service) StartTask(ctx context.Context, actor appshared.Actor, id uuid.UUID) (*TaskResponse, error) {
	return s.mutate(ctx, actor, id, (*task.Task).Start)
}

// CompleteTask marks the task done
func (s *Service) CompleteTask(ctx context.Context, actor appshared.Actor, id uuid.UUID) (*TaskResponse, error) {
	return s.mutate(ctx, actor, id, (*task.Task).Complete)
}

// CancelTask abandons the task
func (s *Service) CancelTask(ctx context.Context, actor appshared.Actor, id uuid.UUID) (*TaskResponse, error) {
	return s.mutate(ctx, actor, id, (*task.Task).Cancel)
}

// ReopenTask brings back a done or cancelled task
func (s *Service) ReopenTask(ctx context.Context, actor appshared.Actor, id uuid.UUID) (*TaskResponse, error) {
	return s.mutate(ctx, actor, id, (*task.Task).Reopen)
}

// TransitionTask dispatches a named transition
func (s *Service) TransitionTask(ctx context.Context, actor appshared.Actor, id uuid.UUID, tr Transition) (*TaskResponse, error) {
	switch tr {
	case TransitionStart:
		return s.StartTask(ctx, actor, id)
	case TransitionComplete:
		return s.CompleteTask(ctx, actor, id)
	case TransitionCancel:
		return s.CancelTask(ctx, actor, id)
	case TransitionReopen:
		return s.ReopenTask(ctx, actor, id)
	}
	return nil, shared.NewDomainError("INVALID_ACTION", fmt.Sprintf("Unknown task transition: %s", tr))
}

// DeleteTask removes a task. Only the creator or an agent may delete.
func (s *Service) DeleteTask(ctx context.Context, actor appshared.Actor, id uuid.UUID) error {
	t, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if !actor.Is(identity.RoleAgent) && t.CreatedBy != actor.UserID {
		return appshared.ErrForbidden
	}
	if err := s.tasks.Delete(ctx, actor.AgencyID, id); err != nil {
		return err
	}
	s.logger.Info("Task deleted", zap.String("task_id", id.String()))
	return nil
}

// GetTask returns a task the caller can see
func (s *Service) GetTask(ctx context.Context, actor appshared.Actor, id uuid.UUID) (*TaskResponse, error) {
	t, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	resp := ToTaskResponse(t, s.now())
	return &resp, nil
}

// ListTasks lists tasks by assignee, status and property. Landlords only see their own.
func (s *Service) ListTasks(ctx context.Context, actor appshared.Actor, req TaskListFilter) (*shared.Paginated[TaskResponse], error) {
	if err := actor.Require(identity.RoleAgent, identity.RoleLandlord); err != nil {
		return nil, err
	}
	filter := shared.DefaultFilter()
	filter.Page = req.Page
	filter.PageSize = req.PageSize
	filter.Search = req.Search
	if req.OrderBy != "" {
		filter.OrderBy = req.OrderBy
		filter.OrderDir = req.OrderDir
	}
	assignee := req.AssigneeID
	if actor.Is(identity.RoleLandlord) {
		assignee = &actor.UserID
	}
	if assignee != nil {
		filter = filter.With("assignee_id", *assignee)
	}
	if req.PropertyID != nil {
		filter = filter.With("property_id", *req.PropertyID)
	}
	if req.Status != "" {
		filter = filter.With("status", req.Status)
	}
	if req.Priority != "" {
		filter = filter.With("priority", req.Priority)
	}
	if req.Overdue {
		filter = filter.With("overdue", true)
	}
	filter = filter.Normalize()

	items, err := s.tasks.FindAllForAgency(ctx, actor.AgencyID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.tasks.CountForAgency(ctx, actor.AgencyID, filter)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]TaskResponse, len(items))
	for i := range items {
		out[i] = ToTaskResponse(&items[i], now)
	}
	page := shared.NewPaginated(out, total, filter.Page, filter.PageSize)
	return &page, nil
}

func (s *Service) mutate(ctx context.Context, actor appshared.Actor, id uuid.UUID, fn func(*task.Task) error) (*TaskResponse, error) {
	t, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	from := t.Status
	if err := fn(t); err != nil {
		return nil, err
	}
	if err := s.tasks.Save(ctx, t); err != nil {
		return nil, err
	}
	if from != t.Status {
		s.logger.Info("Task status changed",
			zap.String("task_id", t.ID.String()),
			zap.String("from", string(from)),
			zap.String("to", string(t.Status)),
		)
	}
	resp := ToTaskResponse(t, s.now())
	return &resp, nil
}

// load fetches a task and checks the caller may see it
func (s *Service) load(ctx context.Context, actor appshared.Actor, id uuid.UUID) (*task.Task, error) {
	if err := actor.Require(identity.RoleAgent, identity.RoleLandlord); err != nil {
		return nil, err
	}
	t, err := s.tasks.FindByIDForAgency(ctx, actor.AgencyID, id)
	if err != nil {
		return nil, err
	}
	if actor.Is(identity.RoleLandlord) && t.AssigneeID != actor.UserID && t.CreatedBy != actor.UserID {
		return nil, appshared.ErrForbidden
	}
	return t, nil
}

// checkAssignee ensures tasks go to active agents or landlords of the agency.
// Landlords can only assign to themselves.
func (s *Service) checkAssignee(ctx context.Context, actor appshared.Actor, assigneeID uuid.UUID) error {
	if actor.Is(identity.RoleLandlord) && assigneeID != actor.UserID {
		return shared.NewDomainError("INVALID_ASSIGNEE", "Landlords can only assign tasks to themselves")
	}
	if assigneeID == actor.UserID {
		return nil
	}
	u, err := s.users.FindByIDForAgency(ctx, actor.AgencyID, assigneeID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_ASSIGNEE", "Assignee not found")
		}
		return err
	}
	if u.HasRole(identity.RoleTenant) || u.IsDeactivated() {
		return shared.NewDomainError("INVALID_ASSIGNEE", "Tasks can only be assigned to active agents or landlords")
	}
	return nil
}

func (s *Service) checkProperty(ctx context.Context, actor appshared.Actor, propertyID *uuid.UUID) error {
	if propertyID == nil {
		return nil
	}
	p, err := s.properties.FindByIDForAgency(ctx, actor.AgencyID, *propertyID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_PROPERTY", "Property not found")
		}
		return err
	}
	if actor.Is(identity.RoleLandlord) && p.LandlordID != actor.UserID {
		return shared.NewDomainError("INVALID_PROPERTY", "Property not found")
	}
	return nil
}
