package services

import (
	"fmt"
	"net/http"
)

type ErrorKind string

const (
	ErrUnknownCalendarAlias  ErrorKind = "UnknownCalendarAlias"
	ErrInvalidDateFormat     ErrorKind = "InvalidDateFormat"
	ErrInvalidRange          ErrorKind = "InvalidRange"
	ErrRangeTooLarge         ErrorKind = "RangeTooLarge"
	ErrInvalidPageToken      ErrorKind = "InvalidPageToken"
	ErrNoCalendarsConfigured ErrorKind = "NoCalendarsConfigured"
	ErrMalformedTimestamp    ErrorKind = "MalformedTimestamp"
	ErrUpstreamUnavailable   ErrorKind = "UpstreamUnavailable"
)

// CalendarError carries a machine-readable kind next to the human-readable
// message so handlers can map it to a status code without string matching.
type CalendarError struct {
	Kind    ErrorKind
	Message string
}

func (e *CalendarError) Error() string {
	return e.Message
}

func (e *CalendarError) HTTPStatus() int {
	switch e.Kind {
	case ErrUnknownCalendarAlias,
		ErrInvalidDateFormat,
		ErrInvalidRange,
		ErrRangeTooLarge,
		ErrInvalidPageToken:
		return http.StatusBadRequest
	case ErrUpstreamUnavailable:
		return http.StatusBadGateway
	case ErrNoCalendarsConfigured, ErrMalformedTimestamp:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func newCalendarError(kind ErrorKind, format string, args ...any) *CalendarError {
	return &CalendarError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}
