package main

import (
	"log"
	"time"

	"github.com/neuroexec/execute/internal/api"
	"github.com/neuroexec/execute/internal/assist"
	"github.com/neuroexec/execute/internal/repository"
	"github.com/neuroexec/execute/internal/service"
	"github.com/neuroexec/execute/pkg/cleanup"
	"github.com/neuroexec/execute/pkg/config"
)

func init() {
	service.InitValidator()
}

func main() {
	cfg := config.New()
	dbCfg := repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
	}
	gateway := assist.New(assist.ClientOpts{
		BaseURL: cfg.GetString("ASSIST_BASE_URL"),
		APIKey:  cfg.GetString("ASSIST_API_KEY"),
		Model:   cfg.GetString("ASSIST_MODEL"),
	})
	pointsService := service.NewPointsService()
	tasksService := service.NewTasksService(repository.NewTasksRepo(), pointsService, gateway)
	trackerService := service.NewTrackerService(repository.NewRecurringRepo(), repository.NewHabitsRepo(), pointsService)
	settingsService := service.NewSettingsService(repository.NewSettingsRepo(&dbCfg))
	serv := api.New(&api.ServicesList{
		TasksService:    tasksService,
		TrackerService:  trackerService,
		ProgressService: pointsService,
		SettingsService: settingsService,
		FocusService:    service.NewFocusService(time.Second),
	})
	err := serv.Run(cfg.GetStringOr("API_ADDRESS", ":8080"))
	if err != nil {
		log.Println("Server error: " + err.Error())
	}
	cleanup.CleanUp()
}
