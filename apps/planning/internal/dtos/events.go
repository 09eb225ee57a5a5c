package dtos

import (
	"net/http"
	"strconv"

	"github.com/xdoubleu/essentia/v2/pkg/validate"
	"erp.ac-paysages.fr/apps/planning/internal/models"
)

type EventsQueryDto struct {
	From      string
	To        string
	Calendars string
	PageSize  int
	PageToken string
}

// EventsQueryFromRequest reads the aggregation query parameters. A pageSize
// that is not an integer is reported through the validation errors map; the
// semantic checks (window, aliases, token) live in the service layer.
func EventsQueryFromRequest(r *http.Request) (*EventsQueryDto, map[string]string) {
	query := r.URL.Query()

	dto := &EventsQueryDto{
		From:      query.Get("from"),
		To:        query.Get("to"),
		Calendars: query.Get("calendars"),
		PageToken: query.Get("pageToken"),
	}

	if raw := query.Get("pageSize"); raw != "" {
		pageSize, err := strconv.Atoi(raw)
		if err != nil {
			return nil, map[string]string{"pageSize": "must be an integer"}
		}
		dto.PageSize = pageSize
	}

	return dto, nil
}

func (dto *EventsQueryDto) Validate() (bool, map[string]string) {
	v := validate.New()

	validate.Check(v, "from", dto.From, validate.IsNotEmpty)
	validate.Check(v, "to", dto.To, validate.IsNotEmpty)

	return v.Valid(), v.Errors()
}

type EventsResponseDto struct {
	Success       bool           `json:"success"`
	Events        []models.Event `json:"events"`
	NextPageToken *string        `json:"nextPageToken"`
	Range         RangeDto       `json:"range"`
	Source        SourceDto      `json:"source"`
	Pagination    PaginationDto  `json:"pagination"`
}

type RangeDto struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Timezone string `json:"timezone"`
}

type SourceDto struct {
	Calendars  []string `json:"calendars"`
	Aggregated bool     `json:"aggregated"`
	LastSync   string   `json:"lastSync"`
	Warnings   []string `json:"warnings"`
}

type PaginationDto struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	HasNext     bool `json:"hasNext"`
}

type UserEventsResponseDto struct {
	Events   []models.Event `json:"events"`
	Warnings []string       `json:"warnings"`
}

type CalendarHealthDto struct {
	Status    string   `json:"status"`
	Mode      string   `json:"mode"`
	Calendars []string `json:"calendars"`
}

type ErrorResponseDto struct {
	Success bool           `json:"success"`
	Error   ErrorDetailDto `json:"error"`
}

type ErrorDetailDto struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
