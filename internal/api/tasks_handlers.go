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

type CreateTaskRequest struct {
	Text string `json:"text"`
	Date string `json:"date"`
}

type SetPriorityRequest struct {
	Priority string `json:"priority"`
}

type MoveTaskRequest struct {
	TaskID   string `json:"task_id"`
	Priority string `json:"priority"`
}

type CategorizeRequest struct {
	Date string `json:"date"`
}

type RescueRequest struct {
	TaskID   string `json:"task_id"`
	Obstacle string `json:"obstacle"`
}

func today() string {
	return time.Now().Format("2006-01-02")
}

func (s *Server) CreateTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req CreateTaskRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("create task error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if req.Date == "" {
		req.Date = today()
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	task, err := s.tasksService.CreateTask(ctx, &service.CreateTaskRequest{
		Text: req.Text,
		Date: req.Date,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrEmptyText):
			// blank capture is a silent no-op
			w.WriteHeader(http.StatusNoContent)
		case errors.Is(err, errorvalues.ErrInvalidDate):
			logger.Error("create task error: invalid date")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "date must be YYYY-MM-DD", nil)
		default:
			logger.Error("create task error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while creating task", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, task)
	logger.Info("task created")
}

func (s *Server) GetTasks(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	date := r.URL.Query().Get("date")
	if date == "" {
		date = today()
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	tasks, err := s.tasksService.TasksFor(ctx, date)
	if err != nil {
		if errors.Is(err, errorvalues.ErrInvalidDate) {
			logger.Error("get tasks error: invalid date")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "date must be YYYY-MM-DD", nil)
			return
		}
		logger.Error("get tasks error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting tasks", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"date":  date,
		"tasks": tasks,
	})
	logger.Info("tasks provided")
}

func (s *Server) ToggleTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("toggle task error: invalid id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task id", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	task, err := s.tasksService.ToggleComplete(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrTaskNotFound) {
			logger.Error("toggle task error: unexist task")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "task doesn't exist", nil)
			return
		}
		logger.Error("toggle task error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while toggling task", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, task)
	logger.Info("task toggled")
}

func (s *Server) SetTaskPriority(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("set priority error: invalid id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task id", nil)
		return
	}
	var req SetPriorityRequest
	defer r.Body.Close()
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("set priority error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	task, err := s.tasksService.SetPriority(ctx, id, entity.Priority(req.Priority))
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrInvalidPriority):
			logger.Error("set priority error: unknown priority")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "priority must be Q1, Q2, Q3 or Q4", nil)
		case errors.Is(err, errorvalues.ErrTaskNotFound):
			logger.Error("set priority error: unexist task")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "task doesn't exist", nil)
		default:
			logger.Error("set priority error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while setting priority", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, task)
	logger.Info("task priority set")
}

func (s *Server) DeleteTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("delete task error: invalid id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task id", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	if err := s.tasksService.RemoveTask(ctx, id); err != nil {
		if errors.Is(err, errorvalues.ErrTaskNotFound) {
			logger.Error("delete task error: unexist task")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "task doesn't exist", nil)
			return
		}
		logger.Error("delete task error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while deleting task", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("task deleted")
}

func (s *Server) DecomposeTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("decompose task error: invalid id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task id", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*40)
	defer cancel()
	task, err := s.tasksService.Decompose(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrTaskNotFound):
			logger.Error("decompose task error: unexist task")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "task doesn't exist", nil)
		case errors.Is(err, errorvalues.ErrDecomposeInFlight):
			logger.Error("decompose task error: already in flight")
			httputil.WriteErrorResponse(w, http.StatusConflict, "decomposition already running for this task", nil)
		case errors.Is(err, errorvalues.ErrAssistUnavailable):
			logger.Error("decompose task error: assist unavailable", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusBadGateway, "assist is unavailable, try again", nil)
		default:
			logger.Error("decompose task error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while decomposing task", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, task)
	logger.Info("task decomposed")
}

func (s *Server) CategorizeTasks(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	// a bodyless categorize means "today"
	var req CategorizeRequest
	defer r.Body.Close()
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		logger.Error("categorize error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if req.Date == "" {
		req.Date = today()
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*40)
	defer cancel()
	tasks, err := s.tasksService.CategorizeDay(ctx, req.Date)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrInvalidDate):
			logger.Error("categorize error: invalid date")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "date must be YYYY-MM-DD", nil)
		case errors.Is(err, errorvalues.ErrAssistUnavailable):
			logger.Error("categorize error: assist unavailable", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusBadGateway, "assist is unavailable, try again", nil)
		default:
			logger.Error("categorize error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while categorizing", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"date":  req.Date,
		"tasks": tasks,
	})
	logger.Info("tasks categorized")
}

func (s *Server) GetMatrix(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	date := r.URL.Query().Get("date")
	if date == "" {
		date = today()
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	matrix, err := s.tasksService.MatrixFor(ctx, date)
	if err != nil {
		if errors.Is(err, errorvalues.ErrInvalidDate) {
			logger.Error("get matrix error: invalid date")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "date must be YYYY-MM-DD", nil)
			return
		}
		logger.Error("get matrix error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while building matrix", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, matrix)
	logger.Info("matrix provided")
}

func (s *Server) MoveTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req MoveTaskRequest
	defer r.Body.Close()
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("move task error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	id, err := uuid.Parse(req.TaskID)
	if err != nil {
		logger.Error("move task error: invalid id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task id", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	task, err := s.tasksService.SetPriority(ctx, id, entity.Priority(req.Priority))
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrInvalidPriority):
			logger.Error("move task error: unknown priority")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "priority must be Q1, Q2, Q3 or Q4", nil)
		case errors.Is(err, errorvalues.ErrTaskNotFound):
			logger.Error("move task error: unexist task")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "task doesn't exist", nil)
		default:
			logger.Error("move task error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while moving task", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, task)
	logger.Info("task moved")
}

func (s *Server) RescueTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req RescueRequest
	defer r.Body.Close()
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("rescue error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	id, err := uuid.Parse(req.TaskID)
	if err != nil {
		logger.Error("rescue error: invalid id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task id", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*40)
	defer cancel()
	solution, err := s.tasksService.Rescue(ctx, id, req.Obstacle)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrEmptyText):
			logger.Error("rescue error: blank obstacle")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "obstacle must not be blank", nil)
		case errors.Is(err, errorvalues.ErrTaskNotFound):
			logger.Error("rescue error: unexist task")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "task doesn't exist", nil)
		case errors.Is(err, errorvalues.ErrAssistUnavailable):
			logger.Error("rescue error: assist unavailable", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusBadGateway, "assist is unavailable, try again", nil)
		default:
			logger.Error("rescue error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error during rescue", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, solution)
	logger.Info("rescue protocol provided")
}
