package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	errorvalues "github.com/neuroexec/execute/internal/error_values"
	"github.com/neuroexec/execute/pkg/httputil"
)

type SetThemeRequest struct {
	Theme string `json:"theme"`
}

func (s *Server) GetTheme(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	theme, err := s.settingsService.Theme(ctx)
	if err != nil {
		logger.Error("get theme error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting theme", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{"theme": theme})
	logger.Info("theme provided")
}

func (s *Server) SetTheme(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req SetThemeRequest
	defer r.Body.Close()
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("set theme error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	if err := s.settingsService.SetTheme(ctx, req.Theme); err != nil {
		if errors.Is(err, errorvalues.ErrInvalidTheme) {
			logger.Error("set theme error: unknown theme")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "theme must be dark or light", nil)
			return
		}
		logger.Error("set theme error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while saving theme", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{"theme": req.Theme})
	logger.Info("theme saved")
}
