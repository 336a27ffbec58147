package api

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/neuroexec/execute/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

type Server struct {
	mx              *chi.Mux
	tasksService    service.TasksServiceI
	trackerService  service.TrackerServiceI
	progressService service.ProgressServiceI
	settingsService service.SettingsServiceI
	focusService    service.FocusServiceI
}

type ServicesList struct {
	TasksService    service.TasksServiceI
	TrackerService  service.TrackerServiceI
	ProgressService service.ProgressServiceI
	SettingsService service.SettingsServiceI
	FocusService    service.FocusServiceI
}

func New(servicesOptions *ServicesList) *Server {
	return &Server{
		mx:              chi.NewMux(),
		tasksService:    servicesOptions.TasksService,
		trackerService:  servicesOptions.TrackerService,
		progressService: servicesOptions.ProgressService,
		settingsService: servicesOptions.SettingsService,
		focusService:    servicesOptions.FocusService,
	}
}

// Handler builds the full middleware and route tree. Split from Run so tests
// can drive it through httptest.
func (s *Server) Handler() http.Handler {
	s.mx.Use(s.RequestIDMiddleware, s.SettingUpLoggerMiddleware)
	s.mx.Handle("/metrics", promhttp.Handler())
	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", s.CreateTask)
			r.Get("/", s.GetTasks)
			r.Post("/categorize", s.CategorizeTasks)
			r.Route("/{id}", func(r chi.Router) {
				r.Delete("/", s.DeleteTask)
				r.Post("/toggle", s.ToggleTask)
				r.Patch("/priority", s.SetTaskPriority)
				r.Post("/decompose", s.DecomposeTask)
			})
		})
		r.Get("/matrix", s.GetMatrix)
		r.Post("/matrix/move", s.MoveTask)
		r.Route("/recurring", func(r chi.Router) {
			r.Post("/", s.CreateRecurring)
			r.Get("/", s.GetRecurring)
			r.Post("/{id}/checkin", s.CheckIn)
			r.Delete("/{id}", s.DeleteRecurring)
		})
		r.Route("/habits", func(r chi.Router) {
			r.Post("/", s.CreateHabit)
			r.Get("/", s.GetHabits)
			r.Post("/{id}/repeat", s.RepeatHabit)
			r.Delete("/{id}", s.DeleteHabit)
		})
		r.Get("/progress", s.GetProgress)
		r.Get("/progress/boost", s.GetBoost)
		r.Post("/rescue", s.RescueTask)
		r.Route("/focus", func(r chi.Router) {
			r.Get("/", s.GetFocus)
			r.Post("/start", s.StartFocus)
			r.Post("/pause", s.PauseFocus)
			r.Post("/reset", s.ResetFocus)
		})
		r.Route("/settings", func(r chi.Router) {
			r.Get("/theme", s.GetTheme)
			r.Put("/theme", s.SetTheme)
		})
	})
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(s.mx)
}

func (s *Server) Run(address string) error {
	server := &http.Server{
		Addr:              address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Println("listening on " + address)
	return server.ListenAndServe()
}
