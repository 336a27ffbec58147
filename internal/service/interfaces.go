package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/neuroexec/execute/internal/assist"
	"github.com/neuroexec/execute/pkg/entity"
)

type CreateTaskRequest struct {
	Text string
	Date string `validate:"required,datetime=2006-01-02"`
}

type CreateRecurringRequest struct {
	Text      string
	Frequency entity.Frequency `validate:"required,oneof=daily weekly monthly"`
	Priority  entity.Priority  `validate:"required,oneof=Q1 Q2 Q3 Q4"`
}

type CreateHabitRequest struct {
	Text       string
	Anchor     string
	TinyAction string
}

// Matrix is the four-quadrant view of a day's incomplete tasks.
type Matrix struct {
	Date      string                             `json:"date"`
	Quadrants map[entity.Priority][]*entity.Task `json:"quadrants"`
}

// FocusSnapshot is the observable state of the focus countdown.
type FocusSnapshot struct {
	RemainingSeconds int  `json:"remaining_seconds"`
	Running          bool `json:"running"`
}

// AssistGatewayI is what the rules core needs from the text-generation
// collaborator. Failures are enrichment misses, never state corruption.
type AssistGatewayI interface {
	Categorize(ctx context.Context, tasks []assist.TaskRef) ([]assist.Categorization, error)
	Decompose(ctx context.Context, taskText string) ([]string, error)
	Rescue(ctx context.Context, taskText, obstacle string) (*entity.PanicSolution, error)
	IdentityBoost(ctx context.Context, taskText string) (string, error)
}

type TasksServiceI interface {
	// Creates a task with Q2/medium defaults. Blank text is a silent no-op (ErrEmptyText)
	CreateTask(ctx context.Context, req *CreateTaskRequest) (*entity.Task, error)
	// Lists the date's tasks in insertion order
	TasksFor(ctx context.Context, date string) ([]*entity.Task, error)
	// Flips completion; awards or revokes points and fires the identity boost
	ToggleComplete(ctx context.Context, id uuid.UUID) (*entity.Task, error)
	// Reassigns the quadrant; dropping onto the current one is a no-op
	SetPriority(ctx context.Context, id uuid.UUID, priority entity.Priority) (*entity.Task, error)
	// Deletes the task without touching points
	RemoveTask(ctx context.Context, id uuid.UUID) error
	// Populates subtasks through the assist gateway, single-flight per task
	Decompose(ctx context.Context, id uuid.UUID) (*entity.Task, error)
	// Best-effort AI quadrant assignment for the date's tasks
	CategorizeDay(ctx context.Context, date string) ([]*entity.Task, error)
	// Partitions the date's incomplete tasks into the four quadrants
	MatrixFor(ctx context.Context, date string) (*Matrix, error)
	// Asks for an unblocking protocol on a stuck task
	Rescue(ctx context.Context, id uuid.UUID, obstacle string) (*entity.PanicSolution, error)
	// Pops the pending identity boost, if one arrived recently
	TakeBoost() *entity.IdentityBoost
}

type TrackerServiceI interface {
	CreateRecurring(ctx context.Context, req *CreateRecurringRequest) (*entity.RecurringTask, error)
	ListRecurring(ctx context.Context) ([]*entity.RecurringTask, error)
	// Records a check-in for the date; the second call for the same date is a no-op.
	// Returns whether points were awarded.
	CheckIn(ctx context.Context, id uuid.UUID, date string) (*entity.RecurringTask, bool, error)
	RemoveRecurring(ctx context.Context, id uuid.UUID) error
	CreateHabit(ctx context.Context, req *CreateHabitRequest) (*entity.Habit, error)
	ListHabits(ctx context.Context) ([]*entity.Habit, error)
	// Increments the streak and awards 25 + 2×(streak before increment)
	RepeatHabit(ctx context.Context, id uuid.UUID) (*entity.Habit, int, error)
	RemoveHabit(ctx context.Context, id uuid.UUID) error
}

type ProgressServiceI interface {
	Progress() (int, entity.Level)
}

type SettingsServiceI interface {
	Theme(ctx context.Context) (string, error)
	SetTheme(ctx context.Context, theme string) error
}

type FocusServiceI interface {
	Start()
	Pause()
	Reset()
	Snapshot() FocusSnapshot
}
