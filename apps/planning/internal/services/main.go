package services

import (
	"log/slog"

	"erp.ac-paysages.fr/internal/auth"
	"erp.ac-paysages.fr/internal/config"
)

type Services struct {
	Auth     auth.Service
	Registry *CalendarRegistry
	Events   *EventService
	Proxy    *ProxyService
}

func New(
	logger *slog.Logger,
	cfg config.Config,
	newClient ClientFactory,
	cache EventCache,
	authService auth.Service,
) *Services {
	registry := NewCalendarRegistry(logger, cfg, newClient)

	events := &EventService{
		logger:   logger,
		config:   cfg,
		registry: registry,
		cache:    cache,
	}

	return &Services{
		Auth:     authService,
		Registry: registry,
		Events:   events,
		Proxy: NewProxyService(
			logger,
			cfg.CalendarBaseURL,
			cfg.CalendarDefaultCalendars,
		),
	}
}
