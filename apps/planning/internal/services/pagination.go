package services

import (
	"encoding/base64"
	"strconv"

	"erp.ac-paysages.fr/apps/planning/internal/models"
)

const (
	DefaultPageSize = 100
	MaxPageSize     = 1000
)

type Page struct {
	Events        []models.Event
	NextPageToken *string
	CurrentPage   int
	TotalPages    int
}

// Paginate slices an event list by an opaque offset cursor. Tokens are a pure
// function of the offset, so they survive cache eviction and restarts as long
// as the caller replays the same (from, to, calendars) triple.
func Paginate(events []models.Event, pageSize int, pageToken string) (*Page, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	offset, err := DecodePageToken(pageToken)
	if err != nil {
		return nil, err
	}

	total := len(events)
	if offset > total {
		offset = total
	}

	end := offset + pageSize
	if end > total {
		end = total
	}

	var nextPageToken *string
	if end < total {
		token := EncodePageToken(end)
		nextPageToken = &token
	}

	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	currentPage := 1
	if total > 0 {
		currentPage = offset/pageSize + 1
		if currentPage > totalPages {
			currentPage = totalPages
		}
	}

	return &Page{
		Events:        events[offset:end],
		NextPageToken: nextPageToken,
		CurrentPage:   currentPage,
		TotalPages:    totalPages,
	}, nil
}

func EncodePageToken(offset int) string {
	return base64.StdEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}

// DecodePageToken rejects undecodable tokens instead of silently restarting
// at offset 0, which would mask client bugs. An absent token means offset 0.
func DecodePageToken(token string) (int, error) {
	if token == "" {
		return 0, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return 0, newCalendarError(ErrInvalidPageToken, "invalid page token")
	}

	offset, err := strconv.Atoi(string(decoded))
	if err != nil {
		return 0, newCalendarError(ErrInvalidPageToken, "invalid page token")
	}

	if offset < 0 {
		return 0, nil
	}

	return offset, nil
}
