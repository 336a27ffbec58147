package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	errorvalues "github.com/neuroexec/execute/internal/error_values"
	"github.com/neuroexec/execute/internal/service"
	"github.com/neuroexec/execute/pkg/entity"
	"github.com/neuroexec/execute/pkg/httputil"
)

type CreateRecurringRequest struct {
	Text      string `json:"text"`
	Frequency string `json:"frequency"`
	Priority  string `json:"priority"`
}

type CheckInRequest struct {
	Date string `json:"date"`
}

type CreateHabitRequest struct {
	Text       string `json:"text"`
	Anchor     string `json:"anchor"`
	TinyAction string `json:"tiny_action"`
}

func (s *Server) CreateRecurring(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req CreateRecurringRequest
	defer r.Body.Close()
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("create recurring error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	rt, err := s.trackerService.CreateRecurring(ctx, &service.CreateRecurringRequest{
		Text:      req.Text,
		Frequency: entity.Frequency(req.Frequency),
		Priority:  entity.Priority(req.Priority),
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrEmptyText):
			w.WriteHeader(http.StatusNoContent)
		case errors.Is(err, errorvalues.ErrInvalidFrequency):
			logger.Error("create recurring error: unknown frequency")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "frequency must be daily, weekly or monthly", nil)
		case errors.Is(err, errorvalues.ErrInvalidPriority):
			logger.Error("create recurring error: unknown priority")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "priority must be Q1, Q2, Q3 or Q4", nil)
		default:
			logger.Error("create recurring error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while creating routine", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, rt)
	logger.Info("recurring task created")
}

func (s *Server) GetRecurring(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	list, err := s.trackerService.ListRecurring(ctx)
	if err != nil {
		logger.Error("get recurring error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting routines", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{"recurring": list})
	logger.Info("recurring tasks provided")
}

func (s *Server) CheckIn(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("check-in error: invalid id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid routine id", nil)
		return
	}
	// a bodyless check-in means "today"
	var req CheckInRequest
	defer r.Body.Close()
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		logger.Error("check-in error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if req.Date == "" {
		req.Date = today()
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	rt, awarded, err := s.trackerService.CheckIn(ctx, id, req.Date)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrInvalidDate):
			logger.Error("check-in error: invalid date")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "date must be YYYY-MM-DD", nil)
		case errors.Is(err, errorvalues.ErrCheckDateInFuture):
			logger.Error("check-in error: future date")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "cannot check in for a future date", nil)
		case errors.Is(err, errorvalues.ErrRecurringNotFound):
			logger.Error("check-in error: unexist routine")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "routine doesn't exist", nil)
		default:
			logger.Error("check-in error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error during check-in", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"recurring": rt,
		"awarded":   awarded,
	})
	logger.Info("check-in recorded")
}

func (s *Server) DeleteRecurring(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("delete recurring error: invalid id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid routine id", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	if err := s.trackerService.RemoveRecurring(ctx, id); err != nil {
		if errors.Is(err, errorvalues.ErrRecurringNotFound) {
			logger.Error("delete recurring error: unexist routine")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "routine doesn't exist", nil)
			return
		}
		logger.Error("delete recurring error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while deleting routine", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("recurring task deleted")
}

func (s *Server) CreateHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req CreateHabitRequest
	defer r.Body.Close()
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("create habit error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	habit, err := s.trackerService.CreateHabit(ctx, &service.CreateHabitRequest{
		Text:       req.Text,
		Anchor:     req.Anchor,
		TinyAction: req.TinyAction,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrEmptyText) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		logger.Error("create habit error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while creating habit", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, habit)
	logger.Info("habit created")
}

func (s *Server) GetHabits(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	habits, err := s.trackerService.ListHabits(ctx)
	if err != nil {
		logger.Error("get habits error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting habits", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{"habits": habits})
	logger.Info("habits provided")
}

func (s *Server) RepeatHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("repeat habit error: invalid id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit id", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	habit, reward, err := s.trackerService.RepeatHabit(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			logger.Error("repeat habit error: unexist habit")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "habit doesn't exist", nil)
			return
		}
		logger.Error("repeat habit error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while repeating habit", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"habit":  habit,
		"reward": reward,
	})
	logger.Info("habit repeated")
}

func (s *Server) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("delete habit error: invalid id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit id", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	if err := s.trackerService.RemoveHabit(ctx, id); err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			logger.Error("delete habit error: unexist habit")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "habit doesn't exist", nil)
			return
		}
		logger.Error("delete habit error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while deleting habit", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("habit deleted")
}
