package api

import (
	"net/http"

	"github.com/neuroexec/execute/pkg/httputil"
)

func (s *Server) GetProgress(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	points, level := s.progressService.Progress()
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"points": points,
		"level":  level,
	})
	logger.Info("progress provided")
}

func (s *Server) GetBoost(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	boost := s.tasksService.TakeBoost()
	if boost == nil {
		httputil.WriteErrorResponse(w, http.StatusNotFound, "no boost pending", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, boost)
	logger.Info("identity boost delivered")
}
