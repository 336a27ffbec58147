package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/neuroexec/execute/pkg/entity"
)

type TasksRepositoryI interface {
	// Stores a new task, keeping insertion order for listings
	Insert(ctx context.Context, task *entity.Task) error
	// Looks up a task by id
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Task, error)
	// Replaces the stored task with the same id
	Update(ctx context.Context, task *entity.Task) error
	// Deletes a task
	Delete(ctx context.Context, id uuid.UUID) error
	// Lists tasks scoped to an ISO date, in insertion order
	ListByDate(ctx context.Context, date string) ([]*entity.Task, error)
}

type RecurringRepositoryI interface {
	Insert(ctx context.Context, task *entity.RecurringTask) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.RecurringTask, error)
	Update(ctx context.Context, task *entity.RecurringTask) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*entity.RecurringTask, error)
}

type HabitsRepositoryI interface {
	Insert(ctx context.Context, habit *entity.Habit) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Habit, error)
	Update(ctx context.Context, habit *entity.Habit) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*entity.Habit, error)
}

type SettingsRepositoryI interface {
	// Reads a named setting value
	Get(ctx context.Context, name string) (string, error)
	// Writes a named setting value, replacing any previous one
	Set(ctx context.Context, name, value string) error
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
