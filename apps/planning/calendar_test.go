package planning_test

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xdoubleu/essentia/v2/pkg/communication/httptools"
	"github.com/xdoubleu/essentia/v2/pkg/logging"
	"github.com/xdoubleu/essentia/v2/pkg/test"
	"erp.ac-paysages.fr/apps/planning"
	"erp.ac-paysages.fr/apps/planning/internal/dtos"
	"erp.ac-paysages.fr/apps/planning/internal/mocks"
	"erp.ac-paysages.fr/apps/planning/internal/services"
	sharedmocks "erp.ac-paysages.fr/internal/mocks"
)

func eventsPath(params url.Values) string {
	return fmt.Sprintf(
		"/%s/api/calendar/events?%s",
		testApp.GetName(),
		params.Encode(),
	)
}

func doEventsRequest(
	t *testing.T,
	params url.Values,
) (*http.Response, dtos.EventsResponseDto) {
	t.Helper()

	tReq := test.CreateRequestTester(
		getRoutes(),
		http.MethodGet,
		eventsPath(params),
	)
	tReq.AddCookie(&accessToken)

	rs := tReq.Do(t)

	var rsData dtos.EventsResponseDto
	if rs.StatusCode == http.StatusOK {
		err := httptools.ReadJSON(rs.Body, &rsData)
		require.NoError(t, err)
	}

	return rs, rsData
}

func doEventsErrorRequest(
	t *testing.T,
	params url.Values,
) (*http.Response, dtos.ErrorResponseDto) {
	t.Helper()

	tReq := test.CreateRequestTester(
		getRoutes(),
		http.MethodGet,
		eventsPath(params),
	)
	tReq.AddCookie(&accessToken)

	rs := tReq.Do(t)

	var rsData dtos.ErrorResponseDto
	err := httptools.ReadJSON(rs.Body, &rsData)
	require.NoError(t, err)

	return rs, rsData
}

func TestEventsHandlerPagination(t *testing.T) {
	params := url.Values{}
	params.Set("from", "2025-01-01T00:00:00Z")
	params.Set("to", "2025-01-02T00:00:00Z")
	params.Set("calendars", "adrien")
	params.Set("pageSize", "1")

	rs, firstPage := doEventsRequest(t, params)

	assert.Equal(t, http.StatusOK, rs.StatusCode)
	assert.True(t, firstPage.Success)
	require.Len(t, firstPage.Events, 1)

	// midnight UTC is 01:00 in Paris, so the all-day event sorts first
	assert.Equal(t, "2", firstPage.Events[0].ID)
	assert.Equal(t, "Sans titre", firstPage.Events[0].Title)
	assert.True(t, firstPage.Events[0].AllDay)
	assert.Equal(t, "2025-01-01T01:00:00+01:00", firstPage.Events[0].Start)

	assert.Equal(t, "Europe/Paris", firstPage.Range.Timezone)
	assert.Equal(t, []string{"adrien"}, firstPage.Source.Calendars)
	assert.True(t, firstPage.Source.Aggregated)
	assert.Empty(t, firstPage.Source.Warnings)

	assert.Equal(t, 1, firstPage.Pagination.CurrentPage)
	assert.Equal(t, 2, firstPage.Pagination.TotalPages)
	assert.True(t, firstPage.Pagination.HasNext)
	require.NotNil(t, firstPage.NextPageToken)

	params.Set("pageToken", *firstPage.NextPageToken)
	rs, secondPage := doEventsRequest(t, params)

	assert.Equal(t, http.StatusOK, rs.StatusCode)
	require.Len(t, secondPage.Events, 1)
	assert.Equal(t, "1", secondPage.Events[0].ID)
	assert.Equal(t, "Chantier Bastille", secondPage.Events[0].Title)
	assert.False(t, secondPage.Events[0].AllDay)
	assert.Equal(t, "2025-01-01T11:00:00+01:00", secondPage.Events[0].Start)

	assert.Equal(t, 2, secondPage.Pagination.CurrentPage)
	assert.False(t, secondPage.Pagination.HasNext)
	assert.Nil(t, secondPage.NextPageToken)
}

func TestEventsHandlerAggregatesDefaults(t *testing.T) {
	params := url.Values{}
	params.Set("from", "2025-01-01T00:00:00Z")
	params.Set("to", "2025-01-02T00:00:00Z")

	rs, rsData := doEventsRequest(t, params)

	assert.Equal(t, http.StatusOK, rs.StatusCode)
	assert.Equal(t, []string{"adrien", "clement"}, rsData.Source.Calendars)
	require.Len(t, rsData.Events, 3)

	// sorted on the rendered start, interleaving both calendars
	assert.Equal(t, "2", rsData.Events[0].ID)
	assert.Equal(t, "1", rsData.Events[1].ID)
	assert.Equal(t, "7", rsData.Events[2].ID)
	assert.Equal(t, "clement", rsData.Events[2].Calendar)
}

func TestEventsHandlerUnknownAliases(t *testing.T) {
	params := url.Values{}
	params.Set("from", "2025-01-01T00:00:00Z")
	params.Set("to", "2025-01-02T00:00:00Z")
	params.Set("calendars", "adrien,bob,eve")

	rs, rsData := doEventsErrorRequest(t, params)

	assert.Equal(t, http.StatusBadRequest, rs.StatusCode)
	assert.False(t, rsData.Success)
	assert.Equal(t, "UnknownCalendarAlias", rsData.Error.Kind)
	assert.Equal(t, "unknown calendars: bob, eve", rsData.Error.Message)
}

func TestEventsHandlerMissingWindow(t *testing.T) {
	tReq := test.CreateRequestTester(
		getRoutes(),
		http.MethodGet,
		eventsPath(url.Values{}),
	)
	tReq.AddCookie(&accessToken)

	rs := tReq.Do(t)
	assert.Equal(t, http.StatusUnprocessableEntity, rs.StatusCode)
}

func TestEventsHandlerInvalidRange(t *testing.T) {
	params := url.Values{}
	params.Set("from", "2025-01-02T00:00:00Z")
	params.Set("to", "2025-01-01T00:00:00Z")

	rs, rsData := doEventsErrorRequest(t, params)

	assert.Equal(t, http.StatusBadRequest, rs.StatusCode)
	assert.Equal(t, "InvalidRange", rsData.Error.Kind)
}

func TestEventsHandlerRangeTooLarge(t *testing.T) {
	params := url.Values{}
	params.Set("from", "2025-01-01T00:00:00Z")
	params.Set("to", "2025-04-02T00:00:00Z")

	rs, rsData := doEventsErrorRequest(t, params)

	assert.Equal(t, http.StatusBadRequest, rs.StatusCode)
	assert.Equal(t, "RangeTooLarge", rsData.Error.Kind)
}

func TestEventsHandlerInvalidPageToken(t *testing.T) {
	params := url.Values{}
	params.Set("from", "2025-01-01T00:00:00Z")
	params.Set("to", "2025-01-02T00:00:00Z")
	params.Set("pageToken", "not base64!")

	rs, rsData := doEventsErrorRequest(t, params)

	assert.Equal(t, http.StatusBadRequest, rs.StatusCode)
	assert.Equal(t, "InvalidPageToken", rsData.Error.Kind)
}

func TestEventsHandlerPartialFailure(t *testing.T) {
	mockCalendar.SetError(clementCalendarID, errors.New("boom"))
	defer mockCalendar.SetError(clementCalendarID, nil)

	params := url.Values{}
	params.Set("from", "2025-01-01T00:00:00Z")
	params.Set("to", "2025-01-02T00:00:00Z")

	rs, rsData := doEventsRequest(t, params)

	assert.Equal(t, http.StatusOK, rs.StatusCode)
	require.Len(t, rsData.Events, 2)
	require.Len(t, rsData.Source.Warnings, 1)
	assert.Contains(t, rsData.Source.Warnings[0], `calendar "clement"`)
}

func TestGoogleEventsHandler(t *testing.T) {
	tReq := test.CreateRequestTester(
		getRoutes(),
		http.MethodGet,
		fmt.Sprintf("/%s/api/calendar/google?user=clement", testApp.GetName()),
	)
	tReq.AddCookie(&accessToken)

	rs := tReq.Do(t)
	assert.Equal(t, http.StatusOK, rs.StatusCode)

	var rsData dtos.UserEventsResponseDto
	err := httptools.ReadJSON(rs.Body, &rsData)
	require.NoError(t, err)

	require.Len(t, rsData.Events, 1)
	assert.Equal(t, "7", rsData.Events[0].ID)
	assert.Equal(t, "clement", rsData.Events[0].Calendar)
	assert.Empty(t, rsData.Warnings)
}

func TestHealthHandler(t *testing.T) {
	tReq := test.CreateRequestTester(
		getRoutes(),
		http.MethodGet,
		fmt.Sprintf("/%s/api/calendar/health", testApp.GetName()),
	)

	rs := tReq.Do(t)
	assert.Equal(t, http.StatusOK, rs.StatusCode)

	var rsData dtos.CalendarHealthDto
	err := httptools.ReadJSON(rs.Body, &rsData)
	require.NoError(t, err)

	assert.Equal(t, "healthy", rsData.Status)
	assert.Equal(t, "direct", rsData.Mode)
	assert.Equal(t, []string{"adrien", "clement"}, rsData.Calendars)
}

func TestEventsHandlerProxyMode(t *testing.T) {
	var upstreamQuery url.Values

	upstream := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			upstreamQuery = r.URL.Query()

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			//nolint:errcheck //test server
			w.Write([]byte(`{"success":true,"events":[]}`))
		},
	))
	defer upstream.Close()

	proxyApp := newProxyApp(t, upstream.URL)

	mux := http.NewServeMux()
	proxyApp.Routes(proxyApp.GetName(), mux)

	params := url.Values{}
	params.Set("from", "2025-01-01T00:00:00Z")
	params.Set("to", "2025-01-02T00:00:00Z")

	tReq := test.CreateRequestTester(
		mux,
		http.MethodGet,
		fmt.Sprintf(
			"/%s/api/calendar/events?%s",
			proxyApp.GetName(),
			params.Encode(),
		),
	)
	tReq.AddCookie(&accessToken)

	rs := tReq.Do(t)
	assert.Equal(t, http.StatusOK, rs.StatusCode)

	body, err := io.ReadAll(rs.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"events":[]}`, string(body))

	assert.Equal(t, "events", upstreamQuery.Get("endpoint"))
	assert.Equal(t, "2025-01-01T00:00:00Z", upstreamQuery.Get("from"))
	assert.Equal(t, "2025-01-02T00:00:00Z", upstreamQuery.Get("to"))
	assert.Equal(t, "adrien,clement", upstreamQuery.Get("calendars"))
}

func TestEventsHandlerProxyUnreachable(t *testing.T) {
	unreachable := httptest.NewServer(http.NotFoundHandler())
	unreachable.Close()

	proxyApp := newProxyApp(t, unreachable.URL)

	mux := http.NewServeMux()
	proxyApp.Routes(proxyApp.GetName(), mux)

	params := url.Values{}
	params.Set("from", "2025-01-01T00:00:00Z")
	params.Set("to", "2025-01-02T00:00:00Z")

	tReq := test.CreateRequestTester(
		mux,
		http.MethodGet,
		fmt.Sprintf(
			"/%s/api/calendar/events?%s",
			proxyApp.GetName(),
			params.Encode(),
		),
	)
	tReq.AddCookie(&accessToken)

	rs := tReq.Do(t)
	assert.Equal(t, http.StatusBadGateway, rs.StatusCode)

	var rsData dtos.ErrorResponseDto
	err := httptools.ReadJSON(rs.Body, &rsData)
	require.NoError(t, err)
	assert.Equal(t, "UpstreamUnavailable", rsData.Error.Kind)
}

func newProxyApp(t *testing.T, baseURL string) *planning.Planning {
	t.Helper()

	cfg := testConfig()
	cfg.CalendarBaseURL = baseURL

	return planning.NewInner(
		sharedmocks.NewMockedAuthService(userID),
		logging.NewNopLogger(),
		cfg,
		mocks.NewMockCalendarClient(nil).Factory,
		services.NewMemoryEventCache(),
	)
}
