package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/xdoubleu/essentia/v2/pkg/threading"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"erp.ac-paysages.fr/apps/planning/internal/dtos"
	"erp.ac-paysages.fr/apps/planning/internal/models"
	"erp.ac-paysages.fr/internal/config"
)

const (
	maxResultsPerCalendar = 2500
	upstreamCallTimeout   = 10 * time.Second
	defaultMaxRangeDays   = 90
)

// cacheTTLEnvKeys are re-read on every lookup so operators can tune the TTL
// without a restart. The first positive value wins.
//
//nolint:gochecknoglobals //read-only
var cacheTTLEnvKeys = []string{"CACHE_TTL_SECONDS", "CALENDAR_CACHE_TTL_SECONDS"}

type EventService struct {
	logger   *slog.Logger
	config   config.Config
	registry *CalendarRegistry
	cache    EventCache
}

type EventsResult struct {
	Events        []models.Event
	NextPageToken *string
	Calendars     []string
	Warnings      []string
	CurrentPage   int
	TotalPages    int
}

type rawEvent struct {
	event *calendar.Event
	alias string
}

// GetEvents runs the aggregation pipeline: resolve aliases, validate the
// window, serve from cache when fresh, otherwise fan out to every resolved
// calendar, normalize, deduplicate, sort and store. Pagination happens last
// so all pages of one window share a single cache entry.
func (service *EventService) GetEvents(
	ctx context.Context,
	query *dtos.EventsQueryDto,
) (*EventsResult, error) {
	resolved, err := service.registry.Resolve(query.Calendars)
	if err != nil {
		return nil, err
	}

	from, to, err := ValidateWindow(query.From, query.To, service.maxRangeDays())
	if err != nil {
		return nil, err
	}

	aliases := make([]string, 0, len(resolved))
	for _, cal := range resolved {
		aliases = append(aliases, cal.Alias)
	}

	ttl := service.cacheTTL()
	key := CacheKey(from, to, aliases)

	var events []models.Event
	var warnings []string

	cached := false
	if ttl > 0 {
		events, cached = service.cache.Get(ctx, key)
	}

	if !cached {
		var raw []rawEvent
		raw, warnings = service.fetchAll(ctx, resolved, from, to)

		events = make([]models.Event, 0, len(raw))
		for _, item := range raw {
			var event models.Event
			event, err = NormalizeEvent(item.event, item.alias)
			if err != nil {
				return nil, err
			}
			events = append(events, event)
		}

		events = DedupeEvents(events)
		slices.SortStableFunc(events, func(a, b models.Event) int {
			return strings.Compare(a.Start, b.Start)
		})

		if ttl > 0 {
			service.cache.Set(ctx, key, events, ttl)
		}
	}

	page, err := Paginate(events, query.PageSize, query.PageToken)
	if err != nil {
		return nil, err
	}

	if warnings == nil {
		warnings = []string{}
	}

	return &EventsResult{
		Events:        page.Events,
		NextPageToken: page.NextPageToken,
		Calendars:     aliases,
		Warnings:      warnings,
		CurrentPage:   page.CurrentPage,
		TotalPages:    page.TotalPages,
	}, nil
}

// GetUserEvents serves the direct per-user lookup: one alias (or all of them)
// over a fixed window around now, without pagination.
func (service *EventService) GetUserEvents(
	ctx context.Context,
	user string,
) ([]models.Event, []string, error) {
	resolved, err := service.registry.Resolve(user)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	from := now.AddDate(0, 0, -30)
	to := now.AddDate(1, 0, 0)

	raw, warnings := service.fetchAll(ctx, resolved, from, to)

	events := make([]models.Event, 0, len(raw))
	for _, item := range raw {
		event, err := NormalizeEvent(item.event, item.alias)
		if err != nil {
			return nil, nil, err
		}
		events = append(events, event)
	}

	events = DedupeEvents(events)
	slices.SortStableFunc(events, func(a, b models.Event) int {
		return strings.Compare(a.Start, b.Start)
	})

	if warnings == nil {
		warnings = []string{}
	}

	return events, warnings, nil
}

// ValidateWindow parses both bounds and enforces chronological order and the
// configured range ceiling. A window of exactly maxRangeDays is allowed.
func ValidateWindow(
	fromRaw string,
	toRaw string,
	maxRangeDays int,
) (time.Time, time.Time, error) {
	from, err := parseISODatetime(fromRaw)
	if err != nil {
		return time.Time{}, time.Time{}, newCalendarError(
			ErrInvalidDateFormat,
			"invalid date format, use ISO 8601",
		)
	}

	to, err := parseISODatetime(toRaw)
	if err != nil {
		return time.Time{}, time.Time{}, newCalendarError(
			ErrInvalidDateFormat,
			"invalid date format, use ISO 8601",
		)
	}

	if !to.After(from) {
		return time.Time{}, time.Time{}, newCalendarError(
			ErrInvalidRange,
			"'to' must be strictly after 'from'",
		)
	}

	if maxRangeDays <= 0 {
		maxRangeDays = defaultMaxRangeDays
	}

	if to.Sub(from) > time.Duration(maxRangeDays)*24*time.Hour {
		return time.Time{}, time.Time{}, newCalendarError(
			ErrRangeTooLarge,
			"range too large, maximum %d days allowed",
			maxRangeDays,
		)
	}

	return from, to, nil
}

// fetchAll lists every resolved calendar concurrently. One calendar failing
// becomes a warning, never an error: a single unreachable calendar must not
// take down the whole aggregated view.
func (service *EventService) fetchAll(
	ctx context.Context,
	resolved []ResolvedCalendar,
	from time.Time,
	to time.Time,
) ([]rawEvent, []string) {
	workerPool := threading.NewWorkerPool(
		service.logger,
		len(resolved),
		len(resolved),
	)

	mu := sync.Mutex{}
	events := []rawEvent{}
	warnings := []string{}

	for _, cal := range resolved {
		workerPool.EnqueueWork(func(ctx context.Context, _ *slog.Logger) error {
			client, err := service.registry.Client(cal.Alias)
			if err != nil {
				mu.Lock()
				warnings = append(warnings, fmt.Sprintf(
					"calendar %q is not usable: %s", cal.Alias, summarizeError(err),
				))
				mu.Unlock()
				return nil
			}

			callCtx, cancel := context.WithTimeout(ctx, upstreamCallTimeout)
			defer cancel()

			items, err := client.ListEvents(
				callCtx,
				cal.CalendarID,
				from,
				to,
				maxResultsPerCalendar,
			)
			if err != nil {
				mu.Lock()
				warnings = append(warnings, fmt.Sprintf(
					"calendar %q could not be fetched: %s",
					cal.Alias,
					summarizeError(err),
				))
				mu.Unlock()
				return nil
			}

			mu.Lock()
			for _, item := range items {
				events = append(events, rawEvent{event: item, alias: cal.Alias})
			}
			mu.Unlock()

			return nil
		})
	}

	workerPool.WaitUntilDone()

	return events, warnings
}

// DedupeEvents removes events fetched redundantly through the same alias,
// keyed by (id, calendar). The same id under two aliases stays duplicated on
// purpose: those are the same meeting seen from two people's calendars.
// First occurrence wins and input order is preserved.
func DedupeEvents(events []models.Event) []models.Event {
	seen := map[string]bool{}
	unique := []models.Event{}

	for _, event := range events {
		key := event.ID + "_" + event.Calendar
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, event)
	}

	return unique
}

func (service *EventService) maxRangeDays() int {
	if service.config.CalendarMaxRangeDays > 0 {
		return service.config.CalendarMaxRangeDays
	}
	return defaultMaxRangeDays
}

func (service *EventService) cacheTTL() time.Duration {
	for _, key := range cacheTTLEnvKeys {
		value := os.Getenv(key)
		if value == "" {
			continue
		}

		ttl, err := strconv.Atoi(value)
		if err != nil || ttl <= 0 {
			continue
		}

		return time.Duration(ttl) * time.Second
	}

	return time.Duration(service.config.CalendarCacheTTLSeconds) * time.Second
}

// summarizeError keeps provider-internal identifiers and credential material
// out of user-visible warnings.
func summarizeError(err error) string {
	var calendarErr *CalendarError
	if errors.As(err, &calendarErr) {
		return calendarErr.Message
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("provider returned HTTP %d", apiErr.Code)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "upstream call timed out"
	}

	return "upstream call failed"
}
