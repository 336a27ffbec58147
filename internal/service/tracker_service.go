package service

import (
	"context"
	"errors"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	errorvalues "github.com/neuroexec/execute/internal/error_values"
	"github.com/neuroexec/execute/internal/repository"
	"github.com/neuroexec/execute/pkg/entity"
	"github.com/neuroexec/execute/pkg/metrics"
)

// TrackerService owns recurring routines and atomic habits.
type TrackerService struct {
	recurring repository.RecurringRepositoryI
	habits    repository.HabitsRepositoryI
	points    *PointsService
}

func NewTrackerService(recurringRepo repository.RecurringRepositoryI, habitsRepo repository.HabitsRepositoryI, points *PointsService) *TrackerService {
	if recurringRepo == nil {
		log.Fatal("provided nil recurringRepo")
	}
	if habitsRepo == nil {
		log.Fatal("provided nil habitsRepo")
	}
	if points == nil {
		log.Fatal("provided nil points service")
	}
	InitValidator()
	return &TrackerService{
		recurring: recurringRepo,
		habits:    habitsRepo,
		points:    points,
	}
}

func (ts *TrackerService) CreateRecurring(ctx context.Context, req *CreateRecurringRequest) (*entity.RecurringTask, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, errorvalues.ErrEmptyText
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Field() == "Frequency" {
			return nil, errorvalues.ErrInvalidFrequency
		}
		return nil, errorvalues.ErrInvalidPriority
	}
	rt := entity.RecurringTask{
		ID:             uuid.New(),
		Text:           req.Text,
		Frequency:      req.Frequency,
		Priority:       req.Priority,
		Energy:         entity.EnergyMedium,
		CompletedDates: []string{},
	}
	if err := ts.recurring.Insert(ctx, &rt); err != nil {
		return nil, errors.New("recurring repository error: " + err.Error())
	}
	return &rt, nil
}

func (ts *TrackerService) ListRecurring(ctx context.Context) ([]*entity.RecurringTask, error) {
	list, err := ts.recurring.List(ctx)
	if err != nil {
		return nil, errors.New("recurring repository error: " + err.Error())
	}
	return list, nil
}

// CheckIn records a completion of the routine for the given date. The per-date
// ledger makes repeats idempotent: only the first check-in for a date awards
// points. Future dates are rejected.
func (ts *TrackerService) CheckIn(ctx context.Context, id uuid.UUID, date string) (*entity.RecurringTask, bool, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, false, errorvalues.ErrInvalidDate
	}
	// compare calendar dates, not instants: parsing yields UTC midnight while
	// the caller's "today" is the local date, so an instant comparison drifts
	// by a day near the zone boundary
	if date > time.Now().Format("2006-01-02") {
		return nil, false, errorvalues.ErrCheckDateInFuture
	}
	rt, err := ts.recurring.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrRecurringNotFound) {
			return nil, false, err
		}
		return nil, false, errors.New("recurring repository error: " + err.Error())
	}
	if slices.Contains(rt.CompletedDates, date) {
		return rt, false, nil
	}
	rt.CompletedDates = append(rt.CompletedDates, date)
	if err := ts.recurring.Update(ctx, rt); err != nil {
		return nil, false, errors.New("recurring repository error: " + err.Error())
	}
	ts.points.Award(PointsCheckIn)
	metrics.CheckIns.Inc()
	return rt, true, nil
}

func (ts *TrackerService) RemoveRecurring(ctx context.Context, id uuid.UUID) error {
	err := ts.recurring.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrRecurringNotFound) {
			return err
		}
		return errors.New("recurring repository error: " + err.Error())
	}
	return nil
}

func (ts *TrackerService) CreateHabit(ctx context.Context, req *CreateHabitRequest) (*entity.Habit, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, errorvalues.ErrEmptyText
	}
	habit := entity.Habit{
		ID:         uuid.New(),
		Text:       req.Text,
		Anchor:     req.Anchor,
		TinyAction: req.TinyAction,
	}
	if err := ts.habits.Insert(ctx, &habit); err != nil {
		return nil, errors.New("habits repository error: " + err.Error())
	}
	return &habit, nil
}

func (ts *TrackerService) ListHabits(ctx context.Context) ([]*entity.Habit, error) {
	list, err := ts.habits.List(ctx)
	if err != nil {
		return nil, errors.New("habits repository error: " + err.Error())
	}
	return list, nil
}

// RepeatHabit increments the streak and awards a reward that grows with it.
// The reward is computed from the streak before the increment.
func (ts *TrackerService) RepeatHabit(ctx context.Context, id uuid.UUID) (*entity.Habit, int, error) {
	habit, err := ts.habits.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, 0, err
		}
		return nil, 0, errors.New("habits repository error: " + err.Error())
	}
	reward := HabitRepeatReward(habit.Streak)
	habit.Streak++
	today := time.Now().Format("2006-01-02")
	habit.LastCompleted = &today
	if err := ts.habits.Update(ctx, habit); err != nil {
		return nil, 0, errors.New("habits repository error: " + err.Error())
	}
	ts.points.Award(reward)
	metrics.HabitRepeats.Inc()
	return habit, reward, nil
}

func (ts *TrackerService) RemoveHabit(ctx context.Context, id uuid.UUID) error {
	err := ts.habits.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return err
		}
		return errors.New("habits repository error: " + err.Error())
	}
	return nil
}
