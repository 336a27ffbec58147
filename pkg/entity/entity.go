package entity

import (
	"time"

	"github.com/google/uuid"
)

// Priority is an Eisenhower-matrix quadrant.
type Priority string

const (
	PriorityQ1 Priority = "Q1" // urgent & important
	PriorityQ2 Priority = "Q2" // strategic
	PriorityQ3 Priority = "Q3" // delegate
	PriorityQ4 Priority = "Q4" // eliminate
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityQ1, PriorityQ2, PriorityQ3, PriorityQ4:
		return true
	}
	return false
}

// Energy is the effort class of a task.
type Energy string

const (
	EnergyLow    Energy = "low"
	EnergyMedium Energy = "medium"
	EnergyHigh   Energy = "high"
)

func (e Energy) Valid() bool {
	switch e {
	case EnergyLow, EnergyMedium, EnergyHigh:
		return true
	}
	return false
}

// Frequency of a recurring task.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// Task is a captured task scoped to a single calendar day. Date is an ISO date
// (YYYY-MM-DD) assigned at creation; no reschedule operation exists. Priority and
// Completed are the only user-mutable fields; Subtasks are set once by decomposition.
type Task struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	Priority  Priority  `json:"priority"`
	Energy    Energy    `json:"energy"`
	Completed bool      `json:"completed"`
	Subtasks  []string  `json:"subtasks"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

// RecurringTask is a fixed routine with an idempotent per-date check-in ledger.
type RecurringTask struct {
	ID             uuid.UUID `json:"id"`
	Text           string    `json:"text"`
	Frequency      Frequency `json:"frequency"`
	Priority       Priority  `json:"priority"`
	Energy         Energy    `json:"energy"`
	CompletedDates []string  `json:"completed_dates"`
}

// Habit is an atomic habit: the behavior, its anchoring cue and the minimal first
// step. Streak only grows via an explicit repeat; no decay rule exists.
type Habit struct {
	ID            uuid.UUID `json:"id"`
	Text          string    `json:"text"`
	Anchor        string    `json:"anchor"`
	TinyAction    string    `json:"tiny_action"`
	Streak        int       `json:"streak"`
	LastCompleted *string   `json:"last_completed"`
}

// Level is derived from the points total, never stored.
// Next holds the threshold of the following tier; 0 means the top tier.
type Level struct {
	Title string `json:"title"`
	Next  int    `json:"next"`
	Color string `json:"color"`
}

// IdentityBoost is the transient congratulatory payload shown after a completion.
type IdentityBoost struct {
	Text      string `json:"text"`
	TaskTitle string `json:"task_title"`
}

// PanicSolution is the rescue protocol for a stuck task.
type PanicSolution struct {
	Diagnosis     string   `json:"diagnosis"`
	Steps         []string `json:"steps"`
	Encouragement string   `json:"encouragement"`
}
