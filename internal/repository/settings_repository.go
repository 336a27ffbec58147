package repository

import (
	"context"
	"errors"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	errorvalues "github.com/neuroexec/execute/internal/error_values"
	"github.com/neuroexec/execute/pkg/cleanup"
)

// SettingsRepository persists the few values that must survive a restart.
// Today that is only the theme preference.
type SettingsRepository struct {
	conn PgConnection
}

func NewSettingsRepo(cfg DBConfig) *SettingsRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for settingsRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for settingsRepo: " + err.Error())
	}
	_, err = pool.Exec(context.Background(),
		`CREATE TABLE IF NOT EXISTS settings (name TEXT PRIMARY KEY, value TEXT NOT NULL);`)
	if err != nil {
		log.Fatal("ensuring settings table error: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &SettingsRepository{
		conn: pool,
	}
}

func NewSettingsRepoWithConn(conn PgConnection) *SettingsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for settingsRepo: " + err.Error())
	}
	return &SettingsRepository{
		conn: conn,
	}
}

func (sr *SettingsRepository) Get(ctx context.Context, name string) (string, error) {
	var value string
	row := sr.conn.QueryRow(ctx, `SELECT value FROM settings WHERE name = $1;`, name)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", errorvalues.ErrSettingNotFound
		}
		return "", errors.New("getting setting error: " + err.Error())
	}
	return value, nil
}

func (sr *SettingsRepository) Set(ctx context.Context, name, value string) error {
	_, err := sr.conn.Exec(ctx,
		`INSERT INTO settings (name, value) VALUES ($1, $2) ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value;`,
		name,
		value,
	)
	if err != nil {
		return errors.New("writing setting error: " + err.Error())
	}
	return nil
}
