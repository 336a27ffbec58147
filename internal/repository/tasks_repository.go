package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	errorvalues "github.com/neuroexec/execute/internal/error_values"
	"github.com/neuroexec/execute/pkg/entity"
)

// TasksRepository is the in-memory task store. Task state is ephemeral per
// session; only the theme setting survives a restart. Listings follow insertion
// order, never a re-sort by priority or time.
type TasksRepository struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]*entity.Task
	order []uuid.UUID
}

func NewTasksRepo() *TasksRepository {
	return &TasksRepository{
		tasks: make(map[uuid.UUID]*entity.Task),
	}
}

func (tr *TasksRepository) Insert(ctx context.Context, task *entity.Task) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	t := cloneTask(task)
	tr.tasks[t.ID] = t
	tr.order = append(tr.order, t.ID)
	return nil
}

func (tr *TasksRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Task, error) {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	t, ok := tr.tasks[id]
	if !ok {
		return nil, errorvalues.ErrTaskNotFound
	}
	return cloneTask(t), nil
}

func (tr *TasksRepository) Update(ctx context.Context, task *entity.Task) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if _, ok := tr.tasks[task.ID]; !ok {
		return errorvalues.ErrTaskNotFound
	}
	tr.tasks[task.ID] = cloneTask(task)
	return nil
}

func (tr *TasksRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if _, ok := tr.tasks[id]; !ok {
		return errorvalues.ErrTaskNotFound
	}
	delete(tr.tasks, id)
	tr.order = slices.DeleteFunc(tr.order, func(existing uuid.UUID) bool {
		return existing == id
	})
	return nil
}

func (tr *TasksRepository) ListByDate(ctx context.Context, date string) ([]*entity.Task, error) {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	result := make([]*entity.Task, 0)
	for _, id := range tr.order {
		t := tr.tasks[id]
		if t.Date == date {
			result = append(result, cloneTask(t))
		}
	}
	return result, nil
}

func cloneTask(t *entity.Task) *entity.Task {
	c := *t
	c.Subtasks = slices.Clone(t.Subtasks)
	return &c
}
