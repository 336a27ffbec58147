package service

import (
	"sync"

	"github.com/neuroexec/execute/pkg/entity"
	"github.com/neuroexec/execute/pkg/metrics"
)

// Point awards tied to specific actions. Part of the contract, not tunables.
const (
	PointsTaskCompletion = 15
	PointsCheckIn        = 20
	habitRepeatBase      = 25
	habitRepeatStep      = 2
)

// HabitRepeatReward grows linearly with the streak before the increment.
func HabitRepeatReward(streak int) int {
	return habitRepeatBase + habitRepeatStep*streak
}

// PointsService owns the process-wide score. The total never goes negative:
// the clamp lives here, at the mutation boundary, not in callers.
type PointsService struct {
	mu    sync.Mutex
	total int
}

func NewPointsService() *PointsService {
	return &PointsService{}
}

func (ps *PointsService) Award(amount int) int {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.total += amount
	metrics.PointsAwarded.Add(float64(amount))
	return ps.total
}

func (ps *PointsService) Revoke(amount int) int {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	metrics.PointsRevoked.Add(float64(amount))
	ps.total -= amount
	if ps.total < 0 {
		ps.total = 0
	}
	return ps.total
}

func (ps *PointsService) Total() int {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.total
}

func (ps *PointsService) Progress() (int, entity.Level) {
	total := ps.Total()
	return total, LevelFor(total)
}

// LevelFor maps a points total to its tier: the first threshold exceeding the
// total wins. Thresholds ascend strictly, so tiers are contiguous and exhaustive
// over every total >= 0. The top tier has no upper threshold (Next is 0).
func LevelFor(points int) entity.Level {
	switch {
	case points < 100:
		return entity.Level{Title: "Neural Novice", Next: 100, Color: "slate"}
	case points < 500:
		return entity.Level{Title: "Habit Architect", Next: 500, Color: "sky"}
	case points < 1500:
		return entity.Level{Title: "Execution Master", Next: 1500, Color: "indigo"}
	default:
		return entity.Level{Title: "Neuroplasticity Ninja", Next: 0, Color: "orange"}
	}
}
