package repositories

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/xdoubleu/essentia/v2/pkg/database/postgres"
	"github.com/xdoubleu/essentia/v2/pkg/logging"
	"erp.ac-paysages.fr/apps/planning/internal/models"
)

// EventCacheRepository is the durable implementation of the event cache, so
// cached windows survive restarts and are shared between replicas. Failures
// degrade to a cache miss; the pipeline never depends on the cache working.
type EventCacheRepository struct {
	logger *slog.Logger
	db     postgres.DB
}

func (repo *EventCacheRepository) Get(
	ctx context.Context,
	key string,
) ([]models.Event, bool) {
	// lazy eviction, no background sweep needed
	_, err := repo.db.Exec(ctx, `
		DELETE FROM planning.event_cache
		WHERE key = $1 AND expires_at <= now()
	`, key)
	if err != nil {
		repo.logger.Error("failed to evict expired cache entry", logging.ErrAttr(err))
		return nil, false
	}

	var payload []byte
	err = repo.db.QueryRow(ctx, `
		SELECT events
		FROM planning.event_cache
		WHERE key = $1 AND expires_at > now()
	`, key).Scan(&payload)
	if err != nil {
		return nil, false
	}

	var events []models.Event
	err = json.Unmarshal(payload, &events)
	if err != nil {
		repo.logger.Error("failed to decode cached events", logging.ErrAttr(err))
		return nil, false
	}

	return events, true
}

func (repo *EventCacheRepository) Set(
	ctx context.Context,
	key string,
	events []models.Event,
	ttl time.Duration,
) {
	if ttl <= 0 {
		return
	}

	payload, err := json.Marshal(events)
	if err != nil {
		repo.logger.Error("failed to encode events for cache", logging.ErrAttr(err))
		return
	}

	_, err = repo.db.Exec(ctx, `
		INSERT INTO planning.event_cache (key, events, expires_at)
		VALUES ($1, $2::jsonb, $3)
		ON CONFLICT (key) DO UPDATE SET
		  events = $2::jsonb,
		  expires_at = $3
	`, key, string(payload), time.Now().Add(ttl))
	if err != nil {
		repo.logger.Error("failed to store cache entry", logging.ErrAttr(err))
	}
}
