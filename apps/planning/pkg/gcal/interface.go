package gcal

import (
	"context"
	"time"

	"google.golang.org/api/calendar/v3"
)

type Client interface {
	ListEvents(
		ctx context.Context,
		calendarID string,
		from time.Time,
		to time.Time,
		maxResults int64,
	) ([]*calendar.Event, error)
}
