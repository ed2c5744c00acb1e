package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/domain/shared"
	"github.com/rentwise/backend/internal/domain/task"
	"github.com/rentwise/backend/internal/infrastructure/persistence/agency"
	"github.com/rentwise/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTaskRepository implements task.Repository using GORM
type GormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GormTaskRepository
func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// FindByIDForAgency finds a task by ID within an agency
func (r *GormTaskRepository) FindByIDForAgency(ctx context.Context, agencyID, id uuid.UUID) (*task.Task, error) {
	var m models.TaskModel
	if err := r.db.WithContext(ctx).Scopes(agency.ByID(agencyID, id)).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindAllForAgency lists tasks. Besides the column filters it understands
// "overdue" (bool) which keeps unfinished tasks past their due time.
func (r *GormTaskRepository) FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]task.Task, error) {
	var rows []models.TaskModel
	if err := page(r.scope(ctx, agencyID, filter), filter, TaskSortFields).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]task.Task, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountForAgency counts tasks matching the filter
func (r *GormTaskRepository) CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.scope(ctx, agencyID, filter).Count(&count).Error
	return count, err
}

// Save inserts or updates a task
func (r *GormTaskRepository) Save(ctx context.Context, t *task.Task) error {
	return r.db.WithContext(ctx).Save(models.TaskModelFromDomain(t)).Error
}

// Delete removes a task
func (r *GormTaskRepository) Delete(ctx context.Context, agencyID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Scopes(agency.ByID(agencyID, id)).Delete(&models.TaskModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormTaskRepository) scope(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.TaskModel{}).Scopes(agency.Scope(agencyID))
	query = equals(query, filter.Filters, "assignee_id", "status", "property_id", "priority", "created_by")
	if overdue, ok := filter.Filters["overdue"].(bool); ok && overdue {
		query = query.Where("due_at < ? AND status IN ?", time.Now(), []task.Status{task.StatusOpen, task.StatusInProgress})
	}
	return search(query, filter.Search, "title", "description")
}

var _ task.Repository = (*GormTaskRepository)(nil)
