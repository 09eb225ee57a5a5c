package main

import (
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/xdoubleu/essentia/v2/pkg/database/postgres"
	"erp.ac-paysages.fr/apps/planning"
	"erp.ac-paysages.fr/internal/auth"
	"erp.ac-paysages.fr/internal/config"
)

type Apps struct {
	apps []App
}

// App is the seam every ERP module plugs into. The business-entity modules
// (clients, services, leads, appointments) live in their own deployments and
// register here the same way.
type App interface {
	Routes(prefix string, mux *http.ServeMux)
	ApplyMigrations(db *pgxpool.Pool) error
	GetName() string
}

func NewApps(
	authService auth.Service,
	logger *slog.Logger,
	cfg config.Config,
	db postgres.DB,
) *Apps {
	apps := &Apps{
		apps: []App{},
	}

	apps.addApp(planning.New(authService, logger, cfg, db))

	return apps
}

func (apps *Apps) ApplyMigrations(db *pgxpool.Pool) error {
	for _, app := range apps.apps {
		err := app.ApplyMigrations(db)
		if err != nil {
			return err
		}
	}
	return nil
}

func (apps *Apps) Routes(mux *http.ServeMux) {
	for _, app := range apps.apps {
		app.Routes(app.GetName(), mux)
	}
}

func (apps *Apps) addApp(app App) {
	apps.apps = append(apps.apps, app)
}

func (apps *Apps) names() []string {
	names := []string{}
	for _, app := range apps.apps {
		names = append(names, app.GetName())
	}
	return names
}
