package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"erp.ac-paysages.fr/apps/planning/internal/models"
)

// EventCache stores one fully normalized, deduplicated and sorted event list
// per (window, alias set) key. Implementations must treat entries as
// immutable once stored.
type EventCache interface {
	Get(ctx context.Context, key string) ([]models.Event, bool)
	Set(ctx context.Context, key string, events []models.Event, ttl time.Duration)
}

// CacheKey is deterministic in the window and the alias set: alias order and
// pagination parameters do not produce distinct entries.
func CacheKey(from, to time.Time, aliases []string) string {
	sorted := make([]string, len(aliases))
	copy(sorted, aliases)
	sort.Strings(sorted)

	return fmt.Sprintf(
		"%s_%s_%s",
		from.UTC().Format(time.RFC3339),
		to.UTC().Format(time.RFC3339),
		strings.Join(sorted, "-"),
	)
}

type memoryCacheEntry struct {
	events    []models.Event
	expiresAt time.Time
}

// MemoryEventCache is the in-process cache used when no database is wired in.
// Expired entries are evicted lazily on the next read; the entry count is
// bounded by the number of distinct (window, alias set) pairs requested.
type MemoryEventCache struct {
	mu      sync.RWMutex
	entries map[string]memoryCacheEntry
}

func NewMemoryEventCache() *MemoryEventCache {
	return &MemoryEventCache{
		entries: map[string]memoryCacheEntry{},
	}
}

func (c *MemoryEventCache) Get(_ context.Context, key string) ([]models.Event, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}

	return entry.events, true
}

func (c *MemoryEventCache) Set(
	_ context.Context,
	key string,
	events []models.Event,
	ttl time.Duration,
) {
	if ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = memoryCacheEntry{
		events:    events,
		expiresAt: time.Now().Add(ttl),
	}
}
