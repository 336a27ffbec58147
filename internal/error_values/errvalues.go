package errorvalues

import "errors"

var (
	ErrEmptyText         = errors.New("text is empty")
	ErrTaskNotFound      = errors.New("task doesn't exist")
	ErrRecurringNotFound = errors.New("recurring task doesn't exist")
	ErrHabitNotFound     = errors.New("habit doesn't exist")
	ErrInvalidPriority   = errors.New("unknown priority value")
	ErrInvalidFrequency  = errors.New("unknown frequency value")
	ErrInvalidDate       = errors.New("date is not a calendar date")
	ErrCheckDateInFuture = errors.New("check-in date is in the future")
	ErrDecomposeInFlight = errors.New("decomposition already in flight")
	ErrAssistUnavailable = errors.New("assist response invalid or unavailable")
	ErrInvalidTheme      = errors.New("unknown theme value")
	ErrSettingNotFound   = errors.New("setting doesn't exist")
)
