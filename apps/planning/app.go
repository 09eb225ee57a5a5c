//nolint:revive //it is what it is
package planning

import (
	"embed"
	"log/slog"
	_ "time/tzdata"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/xdoubleu/essentia/v2/pkg/database/postgres"
	"erp.ac-paysages.fr/apps/planning/internal/repositories"
	"erp.ac-paysages.fr/apps/planning/internal/services"
	"erp.ac-paysages.fr/apps/planning/pkg/gcal"
	"erp.ac-paysages.fr/internal/auth"
	"erp.ac-paysages.fr/internal/config"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

type Planning struct {
	logger       *slog.Logger
	Config       config.Config
	Services     *services.Services
	Repositories *repositories.Repositories
}

func New(
	authService auth.Service,
	logger *slog.Logger,
	cfg config.Config,
	db postgres.DB,
) *Planning {
	repos := repositories.New(logger, db)

	app := NewInner(
		authService,
		logger,
		cfg,
		gcal.NewServiceAccountClient,
		repos.EventCache,
	)
	app.Repositories = repos

	return app
}

func NewInner(
	authService auth.Service,
	logger *slog.Logger,
	cfg config.Config,
	newClient services.ClientFactory,
	cache services.EventCache,
) *Planning {
	//nolint:exhaustruct //other fields are optional
	return &Planning{
		logger:   logger,
		Config:   cfg,
		Services: services.New(logger, cfg, newClient, cache, authService),
	}
}

func (app *Planning) ApplyMigrations(db *pgxpool.Pool) error {
	migrationsDB := stdlib.OpenDBFromPool(db)

	goose.SetLogger(slog.NewLogLogger(app.logger.Handler(), slog.LevelInfo))

	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect(string(goose.DialectPostgres)); err != nil {
		return err
	}

	if err := goose.Up(migrationsDB, "migrations"); err != nil {
		return err
	}

	return nil
}

func (app *Planning) GetName() string {
	return "planning"
}
