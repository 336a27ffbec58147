package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/neuroexec/execute/internal/error_values"
	"github.com/neuroexec/execute/internal/repository"
	"github.com/neuroexec/execute/pkg/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTask(text, date string) *entity.Task {
	return &entity.Task{
		ID:        uuid.New(),
		Text:      text,
		Priority:  entity.PriorityQ2,
		Energy:    entity.EnergyMedium,
		Subtasks:  []string{},
		Date:      date,
		CreatedAt: time.Now(),
	}
}

func TestTasksRepo(t *testing.T) {
	ctx := context.Background()
	t.Run("insert and get", func(t *testing.T) {
		repo := repository.NewTasksRepo()
		task := newTask("write the report", "2026-08-31")
		require.NoError(t, repo.Insert(ctx, task))
		got, err := repo.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, *task, *got)
	})
	t.Run("unexist task", func(t *testing.T) {
		repo := repository.NewTasksRepo()
		_, err := repo.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, errorvalues.ErrTaskNotFound)
	})
	t.Run("stored task is isolated from caller mutations", func(t *testing.T) {
		repo := repository.NewTasksRepo()
		task := newTask("write the report", "2026-08-31")
		require.NoError(t, repo.Insert(ctx, task))
		task.Text = "changed outside"
		task.Subtasks = append(task.Subtasks, "sneaky step")
		got, err := repo.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "write the report", got.Text)
		assert.Empty(t, got.Subtasks)
	})
	t.Run("update replaces the stored task", func(t *testing.T) {
		repo := repository.NewTasksRepo()
		task := newTask("write the report", "2026-08-31")
		require.NoError(t, repo.Insert(ctx, task))
		task.Completed = true
		require.NoError(t, repo.Update(ctx, task))
		got, err := repo.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.True(t, got.Completed)
	})
	t.Run("update of unexist task", func(t *testing.T) {
		repo := repository.NewTasksRepo()
		assert.ErrorIs(t, repo.Update(ctx, newTask("x", "2026-08-31")), errorvalues.ErrTaskNotFound)
	})
	t.Run("delete removes from listings", func(t *testing.T) {
		repo := repository.NewTasksRepo()
		task := newTask("write the report", "2026-08-31")
		require.NoError(t, repo.Insert(ctx, task))
		require.NoError(t, repo.Delete(ctx, task.ID))
		assert.ErrorIs(t, repo.Delete(ctx, task.ID), errorvalues.ErrTaskNotFound)
		list, err := repo.ListByDate(ctx, "2026-08-31")
		require.NoError(t, err)
		assert.Empty(t, list)
	})
	t.Run("list keeps insertion order and date scope", func(t *testing.T) {
		repo := repository.NewTasksRepo()
		first := newTask("first", "2026-08-31")
		other := newTask("other day", "2026-09-01")
		second := newTask("second", "2026-08-31")
		for _, task := range []*entity.Task{first, other, second} {
			require.NoError(t, repo.Insert(ctx, task))
		}
		list, err := repo.ListByDate(ctx, "2026-08-31")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, first.ID, list[0].ID)
		assert.Equal(t, second.ID, list[1].ID)
	})
}
