package mocks

import (
	"context"
	"sync"
	"time"

	"google.golang.org/api/calendar/v3"

	"erp.ac-paysages.fr/apps/planning/pkg/gcal"
)

// MockCalendarClient serves canned events per calendar ID and counts how
// often it is asked, so tests can assert on cache hits and fan-out.
type MockCalendarClient struct {
	mu     sync.Mutex
	events map[string][]*calendar.Event
	errs   map[string]error
	calls  int
}

func NewMockCalendarClient(
	events map[string][]*calendar.Event,
) *MockCalendarClient {
	//nolint:exhaustruct //other fields are optional
	return &MockCalendarClient{
		events: events,
		errs:   map[string]error{},
	}
}

// SetError makes every ListEvents call for calendarID fail with err.
func (client *MockCalendarClient) SetError(calendarID string, err error) {
	client.mu.Lock()
	defer client.mu.Unlock()

	client.errs[calendarID] = err
}

func (client *MockCalendarClient) ListEvents(
	_ context.Context,
	calendarID string,
	_ time.Time,
	_ time.Time,
	_ int64,
) ([]*calendar.Event, error) {
	client.mu.Lock()
	defer client.mu.Unlock()

	client.calls++

	if err := client.errs[calendarID]; err != nil {
		return nil, err
	}

	return client.events[calendarID], nil
}

func (client *MockCalendarClient) Calls() int {
	client.mu.Lock()
	defer client.mu.Unlock()

	return client.calls
}

// Factory matches services.ClientFactory and hands back the mock itself,
// whatever credentials it is given.
func (client *MockCalendarClient) Factory(
	_ context.Context,
	_ []byte,
) (gcal.Client, error) {
	return client, nil
}
