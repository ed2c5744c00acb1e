package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/domain/shared"
	"github.com/rentwise/backend/internal/domain/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTaskRepository(t *testing.T) {
	db := newSQLiteDB(t)
	s := seedAgency(t, db)
	repo := NewGormTaskRepository(db)
	ctx := context.Background()

	propertyID := s.property.ID
	fix, err := task.NewTask(s.agencyID, s.landlord.ID, s.agent.ID, task.Fields{Title: "Fix leaking tap", PropertyID: &propertyID})
	require.NoError(t, err)
	call, err := task.NewTask(s.agencyID, s.agent.ID, s.agent.ID, task.Fields{Title: "Call plumber", Priority: task.PriorityHigh})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, fix))
	require.NoError(t, repo.Save(ctx, call))

	t.Run("filters by assignee and priority", func(t *testing.T) {
		count, err := repo.CountForAgency(ctx, s.agencyID, shared.DefaultFilter().With("assignee_id", s.agent.ID))
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		tasks, err := repo.FindAllForAgency(ctx, s.agencyID, shared.DefaultFilter().With("priority", string(task.PriorityHigh)))
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, call.ID, tasks[0].ID)
	})

	t.Run("persists status changes", func(t *testing.T) {
		require.NoError(t, fix.Complete())
		require.NoError(t, repo.Save(ctx, fix))

		found, err := repo.FindByIDForAgency(ctx, s.agencyID, fix.ID)
		require.NoError(t, err)
		assert.Equal(t, task.StatusDone, found.Status)
		assert.NotNil(t, found.CompletedAt)
		require.NotNil(t, found.PropertyID)
		assert.Equal(t, propertyID, *found.PropertyID)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, s.agencyID, call.ID))
		_, err := repo.FindByIDForAgency(ctx, s.agencyID, call.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		assert.ErrorIs(t, repo.Delete(ctx, s.agencyID, uuid.New()), shared.ErrNotFound)
	})
}
