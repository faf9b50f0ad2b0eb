package request

import "time"

type PerformanceRequest struct {
	PlayID        string    `json:"play" validate:"required,uuid"`
	TheatreHallID string    `json:"theatre_hall" validate:"required,uuid"`
	ShowTime      time.Time `json:"show_time" validate:"required"`
}

// PerformanceQuery holds the raw listing filters from the query string.
type PerformanceQuery struct {
	Play string `validate:"omitempty,uuid"`
	Hall string `validate:"omitempty,uuid"`
	Date string `validate:"omitempty,datetime=2006-01-02"`
	PaginatedRequest
}
