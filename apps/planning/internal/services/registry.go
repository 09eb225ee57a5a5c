package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/xdoubleu/essentia/v2/pkg/logging"
	"erp.ac-paysages.fr/apps/planning/pkg/gcal"
	"erp.ac-paysages.fr/internal/config"
)

// ClientFactory builds an authenticated provider client from service-account
// credentials. Swapped for a mock in tests.
type ClientFactory func(ctx context.Context, credentialsJSON []byte) (gcal.Client, error)

type ResolvedCalendar struct {
	Alias      string
	CalendarID string
}

type calendarSource struct {
	alias       string
	calendarID  string
	credentials []byte

	mu     sync.Mutex
	client gcal.Client
}

// CalendarRegistry maps lowercase aliases to provider calendar IDs and owns
// one lazily-created client per source. Built once at startup, immutable
// afterwards apart from the cached client handles.
type CalendarRegistry struct {
	logger    *slog.Logger
	newClient ClientFactory
	sources   map[string]*calendarSource
	order     []string
	defaults  []string
}

func NewCalendarRegistry(
	logger *slog.Logger,
	cfg config.Config,
	newClient ClientFactory,
) *CalendarRegistry {
	registry := &CalendarRegistry{
		logger:    logger,
		newClient: newClient,
		sources:   map[string]*calendarSource{},
		order:     []string{},
		defaults:  splitAliases(cfg.CalendarDefaultCalendars),
	}

	for _, alias := range splitAliases(cfg.CalendarAliases) {
		calendarID := cfg.CalendarIDs[alias]
		if calendarID == "" {
			logger.Warn("calendar source has no calendar id, skipping",
				slog.String("alias", alias))
			continue
		}

		credentials, err := loadCredentials(cfg, alias)
		if err != nil {
			logger.Warn("calendar source has no usable credentials, skipping",
				slog.String("alias", alias), logging.ErrAttr(err))
			continue
		}

		if _, ok := registry.sources[alias]; ok {
			continue
		}

		registry.sources[alias] = &calendarSource{
			alias:       alias,
			calendarID:  calendarID,
			credentials: credentials,
		}
		registry.order = append(registry.order, alias)
	}

	return registry
}

func loadCredentials(cfg config.Config, alias string) ([]byte, error) {
	if file := cfg.CalendarCredentialFiles[alias]; file != "" {
		return os.ReadFile(file)
	}

	if raw := cfg.CalendarCredentialJSONs[alias]; raw != "" {
		return []byte(strings.TrimSpace(raw)), nil
	}

	return nil, fmt.Errorf("no credential file or inline JSON for %q", alias)
}

// Resolve turns the caller-supplied calendars parameter into an ordered list
// of (alias, calendar id) pairs. An empty value or "all" falls back to the
// configured defaults, or to every registered source when no defaults exist.
// Unknown aliases are all reported at once.
func (r *CalendarRegistry) Resolve(calendarsParam string) ([]ResolvedCalendar, error) {
	if len(r.sources) == 0 {
		return nil, newCalendarError(
			ErrNoCalendarsConfigured,
			"no calendar sources are configured",
		)
	}

	requested := []string{}
	trimmed := strings.TrimSpace(calendarsParam)
	if trimmed != "" && strings.ToLower(trimmed) != "all" {
		requested = splitAliases(calendarsParam)
	}
	if len(requested) == 0 {
		requested = r.defaults
	}
	if len(requested) == 0 {
		requested = r.order
	}

	invalid := []string{}
	for _, alias := range requested {
		if _, ok := r.sources[alias]; !ok {
			invalid = append(invalid, alias)
		}
	}
	if len(invalid) > 0 {
		return nil, newCalendarError(
			ErrUnknownCalendarAlias,
			"unknown calendars: %s",
			strings.Join(invalid, ", "),
		)
	}

	seen := map[string]bool{}
	resolved := []ResolvedCalendar{}
	for _, alias := range requested {
		if seen[alias] {
			continue
		}
		seen[alias] = true

		resolved = append(resolved, ResolvedCalendar{
			Alias:      alias,
			CalendarID: r.sources[alias].calendarID,
		})
	}

	return resolved, nil
}

// Client returns the provider client for an alias, creating it on first use.
// Handles live as long as the process.
func (r *CalendarRegistry) Client(alias string) (gcal.Client, error) {
	source, ok := r.sources[alias]
	if !ok {
		return nil, newCalendarError(
			ErrUnknownCalendarAlias,
			"unknown calendars: %s",
			alias,
		)
	}

	source.mu.Lock()
	defer source.mu.Unlock()

	if source.client != nil {
		return source.client, nil
	}

	client, err := r.newClient(context.Background(), source.credentials)
	if err != nil {
		return nil, err
	}

	source.client = client
	return client, nil
}

// Aliases returns every registered alias in registration order.
func (r *CalendarRegistry) Aliases() []string {
	aliases := make([]string, len(r.order))
	copy(aliases, r.order)
	return aliases
}

func splitAliases(raw string) []string {
	aliases := []string{}
	for _, alias := range strings.Split(raw, ",") {
		alias = strings.ToLower(strings.TrimSpace(alias))
		if alias == "" {
			continue
		}
		aliases = append(aliases, alias)
	}
	return aliases
}
