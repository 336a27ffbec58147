package api

import (
	"net/http"

	"github.com/neuroexec/execute/pkg/httputil"
)

func (s *Server) GetFocus(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONResponse(w, http.StatusOK, s.focusService.Snapshot())
}

func (s *Server) StartFocus(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	s.focusService.Start()
	httputil.WriteJSONResponse(w, http.StatusOK, s.focusService.Snapshot())
	logger.Info("focus session started")
}

func (s *Server) PauseFocus(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	s.focusService.Pause()
	httputil.WriteJSONResponse(w, http.StatusOK, s.focusService.Snapshot())
	logger.Info("focus session paused")
}

func (s *Server) ResetFocus(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	s.focusService.Reset()
	httputil.WriteJSONResponse(w, http.StatusOK, s.focusService.Snapshot())
	logger.Info("focus session reset")
}
