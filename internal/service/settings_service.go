package service

import (
	"context"
	"errors"
	"log"

	errorvalues "github.com/neuroexec/execute/internal/error_values"
	"github.com/neuroexec/execute/internal/repository"
)

const (
	themeSetting = "theme"
	defaultTheme = "dark"
)

// SettingsService exposes the few durable preferences. Everything else in the
// system is session-scoped; the theme survives restarts.
type SettingsService struct {
	repo repository.SettingsRepositoryI
}

func NewSettingsService(settingsRepo repository.SettingsRepositoryI) *SettingsService {
	if settingsRepo == nil {
		log.Fatal("provided nil settingsRepo")
	}
	return &SettingsService{repo: settingsRepo}
}

func (ss *SettingsService) Theme(ctx context.Context) (string, error) {
	theme, err := ss.repo.Get(ctx, themeSetting)
	if err != nil {
		if errors.Is(err, errorvalues.ErrSettingNotFound) {
			return defaultTheme, nil
		}
		return "", errors.New("settings repository error: " + err.Error())
	}
	return theme, nil
}

func (ss *SettingsService) SetTheme(ctx context.Context, theme string) error {
	if theme != "dark" && theme != "light" {
		return errorvalues.ErrInvalidTheme
	}
	if err := ss.repo.Set(ctx, themeSetting, theme); err != nil {
		return errors.New("settings repository error: " + err.Error())
	}
	return nil
}
