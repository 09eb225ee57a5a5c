package gcal

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

type client struct {
	service *calendar.Service
}

// NewServiceAccountClient builds a read-only Calendar client from
// service-account JSON credentials.
func NewServiceAccountClient(
	ctx context.Context,
	credentialsJSON []byte,
) (Client, error) {
	credentials, err := google.CredentialsFromJSON(
		ctx,
		credentialsJSON,
		calendar.CalendarReadonlyScope,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}

	service, err := calendar.NewService(ctx, option.WithCredentials(credentials))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	return client{service: service}, nil
}

// ListEvents lists a window of a single calendar. Recurring events are
// expanded into concrete instances and ordered by start time on the provider
// side.
func (c client) ListEvents(
	ctx context.Context,
	calendarID string,
	from time.Time,
	to time.Time,
	maxResults int64,
) ([]*calendar.Event, error) {
	result, err := c.service.Events.List(calendarID).
		ShowDeleted(false).
		SingleEvents(true).
		TimeMin(from.UTC().Format(time.RFC3339)).
		TimeMax(to.UTC().Format(time.RFC3339)).
		MaxResults(maxResults).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	return result.Items, nil
}
