package services

import (
	"google.golang.org/api/calendar/v3"
	"erp.ac-paysages.fr/apps/planning/internal/models"
)

const untitledEvent = "Sans titre"

// NormalizeEvent maps one raw provider event onto the canonical shape,
// converting timestamps to the display timezone and tagging the event with
// the alias it was fetched through. It performs no I/O; the only failure mode
// is a timestamp the provider should never have sent.
func NormalizeEvent(raw *calendar.Event, alias string) (models.Event, error) {
	start, allDay, err := extractEventTime(raw.Start)
	if err != nil {
		return models.Event{}, err
	}

	end, _, err := extractEventTime(raw.End)
	if err != nil {
		return models.Event{}, err
	}
	if end == "" {
		end = start
	}

	createdAt, err := convertOptionalDatetime(raw.Created)
	if err != nil {
		return models.Event{}, err
	}

	updatedAt, err := convertOptionalDatetime(raw.Updated)
	if err != nil {
		return models.Event{}, err
	}

	title := raw.Summary
	if title == "" {
		title = untitledEvent
	}

	status := raw.Status
	if status == "" {
		status = "confirmed"
	}

	recurrence := models.RecurrenceNone
	if len(raw.Recurrence) > 0 {
		recurrence = models.RecurrenceRecurring
	}

	var organizer *string
	if raw.Organizer != nil {
		organizer = optionalString(raw.Organizer.Email)
	}

	attendees := []models.Attendee{}
	for _, attendee := range raw.Attendees {
		responseStatus := attendee.ResponseStatus
		if responseStatus == "" {
			responseStatus = "needsAction"
		}

		attendees = append(attendees, models.Attendee{
			Name:           optionalString(attendee.DisplayName),
			Email:          attendee.Email,
			ResponseStatus: responseStatus,
		})
	}

	recurrenceRules := raw.Recurrence
	if recurrenceRules == nil {
		recurrenceRules = []string{}
	}

	attachments := raw.Attachments
	if attachments == nil {
		attachments = []*calendar.EventAttachment{}
	}

	return models.Event{
		ID:          raw.Id,
		Title:       title,
		Description: optionalString(raw.Description),
		Start:       start,
		End:         end,
		AllDay:      allDay,
		Recurrence:  recurrence,
		Location:    optionalString(raw.Location),
		Organizer:   organizer,
		Attendees:   attendees,
		HTMLLink:    optionalString(raw.HtmlLink),
		HangoutLink: optionalString(raw.HangoutLink),
		Status:      status,
		UpdatedAt:   updatedAt,
		CreatedAt:   createdAt,
		Calendar:    alias,

		ColorID:            optionalString(raw.ColorId),
		RecurrenceRules:    recurrenceRules,
		RecurringEventID:   optionalString(raw.RecurringEventId),
		ICalUID:            optionalString(raw.ICalUID),
		Transparency:       optionalString(raw.Transparency),
		Visibility:         optionalString(raw.Visibility),
		Attachments:        attachments,
		Reminders:          raw.Reminders,
		ConferenceData:     raw.ConferenceData,
		ExtendedProperties: raw.ExtendedProperties,
	}, nil
}

// extractEventTime resolves a raw start/end payload: a dateTime field makes a
// timed event, a date field an all-day one. Neither present means the field
// stays empty.
func extractEventTime(payload *calendar.EventDateTime) (string, bool, error) {
	if payload == nil {
		return "", false, nil
	}

	if payload.DateTime != "" {
		t, err := parseISODatetime(payload.DateTime)
		if err != nil {
			return "", false, newCalendarError(
				ErrMalformedTimestamp,
				"provider sent a malformed timestamp: %s",
				err.Error(),
			)
		}
		return formatInDisplayTimezone(t), false, nil
	}

	if payload.Date != "" {
		t, err := parseISODatetime(payload.Date)
		if err != nil {
			return "", false, newCalendarError(
				ErrMalformedTimestamp,
				"provider sent a malformed date: %s",
				err.Error(),
			)
		}
		return formatInDisplayTimezone(t), true, nil
	}

	return "", false, nil
}

func convertOptionalDatetime(raw string) (*string, error) {
	if raw == "" {
		return nil, nil
	}

	t, err := parseISODatetime(raw)
	if err != nil {
		return nil, newCalendarError(
			ErrMalformedTimestamp,
			"provider sent a malformed timestamp: %s",
			err.Error(),
		)
	}

	formatted := formatInDisplayTimezone(t)
	return &formatted, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
