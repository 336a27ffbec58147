package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/neuroexec/execute/internal/assist"
	errorvalues "github.com/neuroexec/execute/internal/error_values"
	"github.com/neuroexec/execute/internal/repository"
	"github.com/neuroexec/execute/pkg/entity"
	"github.com/neuroexec/execute/pkg/metrics"
)

// boostVisibleFor bounds how long an undelivered identity boost stays claimable.
const boostVisibleFor = 8 * time.Second

const boostDeadline = 30 * time.Second

type TasksService struct {
	repo    repository.TasksRepositoryI
	points  *PointsService
	gateway AssistGatewayI

	mu          sync.Mutex
	decomposing map[uuid.UUID]struct{}
	boost       *entity.IdentityBoost
	boostTaskID uuid.UUID
	boostTimer  *time.Timer
}

func NewTasksService(tasksRepo repository.TasksRepositoryI, points *PointsService, gateway AssistGatewayI) *TasksService {
	if tasksRepo == nil {
		log.Fatal("provided nil tasksRepo")
	}
	if points == nil {
		log.Fatal("provided nil points service")
	}
	if gateway == nil {
		log.Fatal("provided nil assist gateway")
	}
	InitValidator()
	return &TasksService{
		repo:        tasksRepo,
		points:      points,
		gateway:     gateway,
		decomposing: make(map[uuid.UUID]struct{}),
	}
}

func (ts *TasksService) CreateTask(ctx context.Context, req *CreateTaskRequest) (*entity.Task, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, errorvalues.ErrEmptyText
	}
	if err := validate.Struct(req); err != nil {
		return nil, errorvalues.ErrInvalidDate
	}
	task := entity.Task{
		ID:        uuid.New(),
		Text:      req.Text,
		Priority:  entity.PriorityQ2,
		Energy:    entity.EnergyMedium,
		Subtasks:  []string{},
		Date:      req.Date,
		CreatedAt: time.Now(),
	}
	if err := ts.repo.Insert(ctx, &task); err != nil {
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	return &task, nil
}

func (ts *TasksService) TasksFor(ctx context.Context, date string) ([]*entity.Task, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, errorvalues.ErrInvalidDate
	}
	tasks, err := ts.repo.ListByDate(ctx, date)
	if err != nil {
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	return tasks, nil
}

// ToggleComplete flips completion. Completing awards points and requests an
// identity boost in the background; uncompleting revokes the same amount.
func (ts *TasksService) ToggleComplete(ctx context.Context, id uuid.UUID) (*entity.Task, error) {
	task, err := ts.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrTaskNotFound) {
			return nil, err
		}
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	task.Completed = !task.Completed
	if err := ts.repo.Update(ctx, task); err != nil {
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	if task.Completed {
		ts.points.Award(PointsTaskCompletion)
		metrics.TasksCompleted.Inc()
		go ts.deliverBoost(task.ID, task.Text)
	} else {
		ts.points.Revoke(PointsTaskCompletion)
		ts.dropBoostFor(task.ID)
	}
	return task, nil
}

// dropBoostFor discards the pending identity boost if it belongs to the given
// task. Called on uncomplete and delete so a stale congratulation never shows
// up for a task that is open again or gone.
func (ts *TasksService) dropBoostFor(id uuid.UUID) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.boost == nil || ts.boostTaskID != id {
		return
	}
	ts.boost = nil
	if ts.boostTimer != nil {
		ts.boostTimer.Stop()
		ts.boostTimer = nil
	}
}

func (ts *TasksService) SetPriority(ctx context.Context, id uuid.UUID, priority entity.Priority) (*entity.Task, error) {
	if !priority.Valid() {
		return nil, errorvalues.ErrInvalidPriority
	}
	task, err := ts.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrTaskNotFound) {
			return nil, err
		}
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	if task.Priority == priority {
		return task, nil
	}
	task.Priority = priority
	if err := ts.repo.Update(ctx, task); err != nil {
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	return task, nil
}

// RemoveTask deletes the task. Points already earned from it stay earned.
func (ts *TasksService) RemoveTask(ctx context.Context, id uuid.UUID) error {
	err := ts.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrTaskNotFound) {
			return err
		}
		return errors.New("tasks repository error: " + err.Error())
	}
	ts.dropBoostFor(id)
	return nil
}

// Decompose fills Subtasks through the assist gateway. At most one decomposition
// per task runs at a time; a gateway failure leaves the task untouched.
func (ts *TasksService) Decompose(ctx context.Context, id uuid.UUID) (*entity.Task, error) {
	ts.mu.Lock()
	if _, busy := ts.decomposing[id]; busy {
		ts.mu.Unlock()
		return nil, errorvalues.ErrDecomposeInFlight
	}
	ts.decomposing[id] = struct{}{}
	ts.mu.Unlock()
	defer func() {
		ts.mu.Lock()
		delete(ts.decomposing, id)
		ts.mu.Unlock()
	}()

	task, err := ts.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrTaskNotFound) {
			return nil, err
		}
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	steps, err := ts.gateway.Decompose(ctx, task.Text)
	if err != nil {
		return nil, err
	}
	task.Subtasks = steps
	if err := ts.repo.Update(ctx, task); err != nil {
		// the task vanished while the gateway call was in flight
		if errors.Is(err, errorvalues.ErrTaskNotFound) {
			return nil, err
		}
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	return task, nil
}

// CategorizeDay sends the date's tasks through the assist gateway and applies the
// suggested quadrants. Energy suggestions are advisory and not written back.
func (ts *TasksService) CategorizeDay(ctx context.Context, date string) ([]*entity.Task, error) {
	tasks, err := ts.TasksFor(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return tasks, nil
	}
	refs := make([]assist.TaskRef, 0, len(tasks))
	byID := make(map[string]*entity.Task, len(tasks))
	for _, task := range tasks {
		refs = append(refs, assist.TaskRef{ID: task.ID.String(), Text: task.Text})
		byID[task.ID.String()] = task
	}
	categorized, err := ts.gateway.Categorize(ctx, refs)
	if err != nil {
		return nil, err
	}
	for _, item := range categorized {
		task, ok := byID[item.ID]
		if !ok || task.Priority == item.Priority {
			continue
		}
		task.Priority = item.Priority
		if err := ts.repo.Update(ctx, task); err != nil {
			// best-effort patch: skip tasks deleted while the call was in flight
			if errors.Is(err, errorvalues.ErrTaskNotFound) {
				continue
			}
			return nil, errors.New("tasks repository error: " + err.Error())
		}
	}
	return ts.TasksFor(ctx, date)
}

// MatrixFor partitions the date's incomplete tasks into the four quadrants.
// Every quadrant is present in the result, empty ones included.
func (ts *TasksService) MatrixFor(ctx context.Context, date string) (*Matrix, error) {
	tasks, err := ts.TasksFor(ctx, date)
	if err != nil {
		return nil, err
	}
	matrix := Matrix{
		Date: date,
		Quadrants: map[entity.Priority][]*entity.Task{
			entity.PriorityQ1: {},
			entity.PriorityQ2: {},
			entity.PriorityQ3: {},
			entity.PriorityQ4: {},
		},
	}
	for _, task := range tasks {
		if task.Completed {
			continue
		}
		matrix.Quadrants[task.Priority] = append(matrix.Quadrants[task.Priority], task)
	}
	return &matrix, nil
}

func (ts *TasksService) Rescue(ctx context.Context, id uuid.UUID, obstacle string) (*entity.PanicSolution, error) {
	if strings.TrimSpace(obstacle) == "" {
		return nil, errorvalues.ErrEmptyText
	}
	task, err := ts.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrTaskNotFound) {
			return nil, err
		}
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	return ts.gateway.Rescue(ctx, task.Text, obstacle)
}

// TakeBoost pops the pending identity boost. Returns nil when none arrived or
// the previous one already expired.
func (ts *TasksService) TakeBoost() *entity.IdentityBoost {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	boost := ts.boost
	ts.boost = nil
	if ts.boostTimer != nil {
		ts.boostTimer.Stop()
		ts.boostTimer = nil
	}
	return boost
}

// deliverBoost runs detached from the toggle request. The result is published
// only if the task still exists and is still completed when it arrives.
func (ts *TasksService) deliverBoost(id uuid.UUID, title string) {
	ctx, cancel := context.WithTimeout(context.Background(), boostDeadline)
	defer cancel()
	text, err := ts.gateway.IdentityBoost(ctx, title)
	if err != nil {
		return
	}
	// check-and-publish under the mailbox lock, so an uncomplete that happens
	// meanwhile either makes the check fail or clears the published boost
	ts.mu.Lock()
	defer ts.mu.Unlock()
	task, err := ts.repo.GetByID(ctx, id)
	if err != nil || !task.Completed {
		return
	}
	boost := &entity.IdentityBoost{Text: text, TaskTitle: title}
	if ts.boostTimer != nil {
		ts.boostTimer.Stop()
	}
	ts.boost = boost
	ts.boostTaskID = id
	ts.boostTimer = time.AfterFunc(boostVisibleFor, func() {
		ts.mu.Lock()
		defer ts.mu.Unlock()
		if ts.boost == boost {
			ts.boost = nil
			ts.boostTimer = nil
		}
	})
}
