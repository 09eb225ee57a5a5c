package models

import (
	"google.golang.org/api/calendar/v3"
)

const (
	RecurrenceRecurring = "recurring"
	RecurrenceNone      = "none"
)

// Event is the provider-agnostic calendar event served to the frontend. IDs
// are only unique per source calendar, so (ID, Calendar) identifies an entry.
// Provider metadata that the frontend consumes untouched (attachments,
// reminders, conference data, extended properties) keeps the raw API shape.
type Event struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Start       string     `json:"start"`
	End         string     `json:"end"`
	AllDay      bool       `json:"allDay"`
	Recurrence  string     `json:"recurrence"`
	Location    *string    `json:"location"`
	Organizer   *string    `json:"organizer"`
	Attendees   []Attendee `json:"attendees"`
	HTMLLink    *string    `json:"htmlLink"`
	HangoutLink *string    `json:"hangoutLink"`
	Status      string     `json:"status"`
	UpdatedAt   *string    `json:"updatedAt"`
	CreatedAt   *string    `json:"createdAt"`
	Calendar    string     `json:"calendar"`

	ColorID            *string                           `json:"colorId"`
	RecurrenceRules    []string                          `json:"recurrenceRules"`
	RecurringEventID   *string                           `json:"recurringEventId"`
	ICalUID            *string                           `json:"iCalUID"`
	Transparency       *string                           `json:"transparency"`
	Visibility         *string                           `json:"visibility"`
	Attachments        []*calendar.EventAttachment       `json:"attachments"`
	Reminders          *calendar.EventReminders          `json:"reminders"`
	ConferenceData     *calendar.ConferenceData          `json:"conferenceData"`
	ExtendedProperties *calendar.EventExtendedProperties `json:"extendedProperties"`
}

type Attendee struct {
	Name           *string `json:"name"`
	Email          string  `json:"email"`
	ResponseStatus string  `json:"responseStatus"`
}
