// Package metrics holds the process-wide Prometheus collectors. The counters are
// registered through promauto on the default registry and exposed by the API
// server on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PointsAwarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "execute_points_awarded_total",
		Help: "Total points added to the running score.",
	})

	PointsRevoked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "execute_points_revoked_total",
		Help: "Total points subtracted from the running score (before the zero clamp).",
	})

	TasksCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "execute_tasks_completed_total",
		Help: "Task completion toggles in the completed direction.",
	})

	HabitRepeats = promauto.NewCounter(prometheus.CounterOpts{
		Name: "execute_habit_repeats_total",
		Help: "Habit circuit repetitions.",
	})

	CheckIns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "execute_recurring_checkins_total",
		Help: "Recurring-task check-ins that awarded points.",
	})

	AssistRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "execute_assist_requests_total",
		Help: "Assist gateway calls by operation and outcome.",
	}, []string{"operation", "status"})
)
