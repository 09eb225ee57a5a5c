package planning

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/xdoubleu/essentia/v2/pkg/communication/httptools"
	"github.com/xdoubleu/essentia/v2/pkg/logging"

	"erp.ac-paysages.fr/apps/planning/internal/dtos"
	"erp.ac-paysages.fr/apps/planning/internal/services"
)

func (app *Planning) calendarRoutes(prefix string, mux *http.ServeMux) {
	mux.HandleFunc(
		"GET "+prefix+"/calendar/events",
		app.Services.Auth.Access(app.eventsHandler),
	)
	mux.HandleFunc(
		"GET "+prefix+"/calendar/google",
		app.Services.Auth.Access(app.googleEventsHandler),
	)
	mux.HandleFunc(
		"GET "+prefix+"/calendar/health",
		app.healthHandler,
	)
}

// eventsHandler serves the aggregated planning feed. When a remote calendar
// service is configured the request is relayed there instead of hitting the
// provider directly.
func (app *Planning) eventsHandler(w http.ResponseWriter, r *http.Request) {
	if app.Services.Proxy.Enabled() {
		err := app.Services.Proxy.ForwardEvents(w, r)
		if err != nil {
			app.writeCalendarError(w, r, err)
		}
		return
	}

	query, errs := dtos.EventsQueryFromRequest(r)
	if errs != nil {
		httptools.FailedValidationResponse(w, r, errs)
		return
	}

	if valid, errs := query.Validate(); !valid {
		httptools.FailedValidationResponse(w, r, errs)
		return
	}

	result, err := app.Services.Events.GetEvents(r.Context(), query)
	if err != nil {
		app.writeCalendarError(w, r, err)
		return
	}

	response := dtos.EventsResponseDto{
		Success:       true,
		Events:        result.Events,
		NextPageToken: result.NextPageToken,
		Range: dtos.RangeDto{
			From:     query.From,
			To:       query.To,
			Timezone: services.DisplayTimezone,
		},
		Source: dtos.SourceDto{
			Calendars:  result.Calendars,
			Aggregated: true,
			LastSync:   time.Now().UTC().Format(time.RFC3339),
			Warnings:   result.Warnings,
		},
		Pagination: dtos.PaginationDto{
			CurrentPage: result.CurrentPage,
			TotalPages:  result.TotalPages,
			HasNext:     result.NextPageToken != nil,
		},
	}

	app.writeJSON(w, r, http.StatusOK, response)
}

// googleEventsHandler serves one user's upcoming events over a fixed window,
// 30 days back and a year ahead, without pagination.
func (app *Planning) googleEventsHandler(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")

	events, warnings, err := app.Services.Events.GetUserEvents(r.Context(), user)
	if err != nil {
		app.writeCalendarError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, dtos.UserEventsResponseDto{
		Events:   events,
		Warnings: warnings,
	})
}

func (app *Planning) healthHandler(w http.ResponseWriter, r *http.Request) {
	mode := "direct"
	if app.Services.Proxy.Enabled() {
		mode = "proxy"
	}

	app.writeJSON(w, r, http.StatusOK, dtos.CalendarHealthDto{
		Status:    "healthy",
		Mode:      mode,
		Calendars: app.Services.Registry.Aliases(),
	})
}

func (app *Planning) writeJSON(
	w http.ResponseWriter,
	_ *http.Request,
	status int,
	value any,
) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(value)
	if err != nil {
		app.logger.Error("failed to write response", logging.ErrAttr(err))
	}
}

// writeCalendarError maps pipeline errors to their status code and a stable
// machine-readable kind. Anything unrecognized falls through to the shared
// error handler.
func (app *Planning) writeCalendarError(
	w http.ResponseWriter,
	r *http.Request,
	err error,
) {
	var calendarErr *services.CalendarError
	if !errors.As(err, &calendarErr) {
		httptools.HandleError(w, r, err)
		return
	}

	if calendarErr.HTTPStatus() >= http.StatusInternalServerError {
		app.logger.Error("calendar pipeline failed", logging.ErrAttr(calendarErr))
	}

	app.writeJSON(w, r, calendarErr.HTTPStatus(), dtos.ErrorResponseDto{
		Success: false,
		Error: dtos.ErrorDetailDto{
			Kind:    string(calendarErr.Kind),
			Message: calendarErr.Message,
		},
	})
}
