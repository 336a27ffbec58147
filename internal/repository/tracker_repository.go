package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	errorvalues "github.com/neuroexec/execute/internal/error_values"
	"github.com/neuroexec/execute/pkg/entity"
)

// RecurringRepository holds the fixed routines in memory, insertion-ordered.
type RecurringRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*entity.RecurringTask
	order []uuid.UUID
}

func NewRecurringRepo() *RecurringRepository {
	return &RecurringRepository{
		items: make(map[uuid.UUID]*entity.RecurringTask),
	}
}

func (rr *RecurringRepository) Insert(ctx context.Context, task *entity.RecurringTask) error {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	t := cloneRecurring(task)
	rr.items[t.ID] = t
	rr.order = append(rr.order, t.ID)
	return nil
}

func (rr *RecurringRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.RecurringTask, error) {
	rr.mu.RLock()
	defer rr.mu.RUnlock()
	t, ok := rr.items[id]
	if !ok {
		return nil, errorvalues.ErrRecurringNotFound
	}
	return cloneRecurring(t), nil
}

func (rr *RecurringRepository) Update(ctx context.Context, task *entity.RecurringTask) error {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	if _, ok := rr.items[task.ID]; !ok {
		return errorvalues.ErrRecurringNotFound
	}
	rr.items[task.ID] = cloneRecurring(task)
	return nil
}

func (rr *RecurringRepository) Delete(ctx context.Context, id uuid.UUID) error {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	if _, ok := rr.items[id]; !ok {
		return errorvalues.ErrRecurringNotFound
	}
	delete(rr.items, id)
	rr.order = slices.DeleteFunc(rr.order, func(existing uuid.UUID) bool {
		return existing == id
	})
	return nil
}

func (rr *RecurringRepository) List(ctx context.Context) ([]*entity.RecurringTask, error) {
	rr.mu.RLock()
	defer rr.mu.RUnlock()
	result := make([]*entity.RecurringTask, 0, len(rr.order))
	for _, id := range rr.order {
		result = append(result, cloneRecurring(rr.items[id]))
	}
	return result, nil
}

func cloneRecurring(t *entity.RecurringTask) *entity.RecurringTask {
	c := *t
	c.CompletedDates = slices.Clone(t.CompletedDates)
	return &c
}

// HabitsRepository holds the atomic habits in memory, insertion-ordered.
type HabitsRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*entity.Habit
	order []uuid.UUID
}

func NewHabitsRepo() *HabitsRepository {
	return &HabitsRepository{
		items: make(map[uuid.UUID]*entity.Habit),
	}
}

func (hr *HabitsRepository) Insert(ctx context.Context, habit *entity.Habit) error {
	hr.mu.Lock()
	defer hr.mu.Unlock()
	h := cloneHabit(habit)
	hr.items[h.ID] = h
	hr.order = append(hr.order, h.ID)
	return nil
}

func (hr *HabitsRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Habit, error) {
	hr.mu.RLock()
	defer hr.mu.RUnlock()
	h, ok := hr.items[id]
	if !ok {
		return nil, errorvalues.ErrHabitNotFound
	}
	return cloneHabit(h), nil
}

func (hr *HabitsRepository) Update(ctx context.Context, habit *entity.Habit) error {
	hr.mu.Lock()
	defer hr.mu.Unlock()
	if _, ok := hr.items[habit.ID]; !ok {
		return errorvalues.ErrHabitNotFound
	}
	hr.items[habit.ID] = cloneHabit(habit)
	return nil
}

func (hr *HabitsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	hr.mu.Lock()
	defer hr.mu.Unlock()
	if _, ok := hr.items[id]; !ok {
		return errorvalues.ErrHabitNotFound
	}
	delete(hr.items, id)
	hr.order = slices.DeleteFunc(hr.order, func(existing uuid.UUID) bool {
		return existing == id
	})
	return nil
}

func (hr *HabitsRepository) List(ctx context.Context) ([]*entity.Habit, error) {
	hr.mu.RLock()
	defer hr.mu.RUnlock()
	result := make([]*entity.Habit, 0, len(hr.order))
	for _, id := range hr.order {
		result = append(result, cloneHabit(hr.items[id]))
	}
	return result, nil
}

func cloneHabit(h *entity.Habit) *entity.Habit {
	c := *h
	if h.LastCompleted != nil {
		last := *h.LastCompleted
		c.LastCompleted = &last
	}
	return &c
}
