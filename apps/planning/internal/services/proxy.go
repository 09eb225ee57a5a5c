package services

import (
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/xdoubleu/essentia/v2/pkg/logging"
)

// ProxyService forwards calendar requests to a dedicated aggregation service
// when one is configured, bypassing the local pipeline entirely. The upstream
// response is relayed verbatim so callers cannot tell the modes apart.
type ProxyService struct {
	logger           *slog.Logger
	baseURL          string
	defaultCalendars string
	client           *http.Client
}

func NewProxyService(
	logger *slog.Logger,
	baseURL string,
	defaultCalendars string,
) *ProxyService {
	//nolint:exhaustruct //other fields are optional
	return &ProxyService{
		logger:           logger,
		baseURL:          baseURL,
		defaultCalendars: defaultCalendars,
		client: &http.Client{
			Timeout: upstreamCallTimeout,
		},
	}
}

func (service *ProxyService) Enabled() bool {
	return service.baseURL != ""
}

// ForwardEvents relays the inbound query to
// {baseURL}/api/calendar?endpoint=events&... and copies the upstream status
// and JSON body through unchanged.
func (service *ProxyService) ForwardEvents(
	w http.ResponseWriter,
	r *http.Request,
) error {
	inbound := r.URL.Query()

	params := url.Values{}
	params.Set("endpoint", "events")
	params.Set("from", inbound.Get("from"))
	params.Set("to", inbound.Get("to"))

	calendars := inbound.Get("calendars")
	if calendars == "" {
		calendars = service.defaultCalendars
	}
	params.Set("calendars", calendars)

	if pageSize := inbound.Get("pageSize"); pageSize != "" {
		params.Set("pageSize", pageSize)
	}
	if pageToken := inbound.Get("pageToken"); pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	upstreamURL := strings.TrimRight(service.baseURL, "/") + "/api/calendar"

	req, err := http.NewRequestWithContext(
		r.Context(),
		http.MethodGet,
		upstreamURL+"?"+params.Encode(),
		nil,
	)
	if err != nil {
		return newCalendarError(
			ErrUpstreamUnavailable,
			"calendar service unreachable",
		)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := service.client.Do(req)
	if err != nil {
		service.logger.Error("calendar proxy call failed", logging.ErrAttr(err))
		return newCalendarError(
			ErrUpstreamUnavailable,
			"calendar service unreachable",
		)
	}
	defer resp.Body.Close()

	if contentType := resp.Header.Get("Content-Type"); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(resp.StatusCode)

	_, err = io.Copy(w, resp.Body)
	if err != nil {
		service.logger.Error(
			"failed to relay calendar response",
			logging.ErrAttr(err),
		)
	}

	return nil
}
