package repositories

import (
	"log/slog"

	"github.com/xdoubleu/essentia/v2/pkg/database/postgres"
)

type Repositories struct {
	EventCache *EventCacheRepository
}

func New(logger *slog.Logger, db postgres.DB) *Repositories {
	return &Repositories{
		EventCache: &EventCacheRepository{logger: logger, db: db},
	}
}
