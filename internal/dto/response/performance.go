package response

import (
	"time"

	"theatre-booking/internal/data/entity"
	"theatre-booking/internal/domain"
)

type SeatResponse struct {
	Row  int `json:"row"`
	Seat int `json:"seat"`
}

type PerformanceListResponse struct {
	ID                  string    `json:"id"`
	ShowTime            time.Time `json:"show_time"`
	PlayTitle           string    `json:"play_title"`
	TheatreHallName     string    `json:"theatre_hall_name"`
	TheatreHallCapacity int       `json:"theatre_hall_capacity"`
	TicketsAvailable    int       `json:"tickets_available"`
}

type PerformanceDetailResponse struct {
	ID               string              `json:"id"`
	ShowTime         time.Time           `json:"show_time"`
	Play             PlayDetailResponse  `json:"play"`
	TheatreHall      TheatreHallResponse `json:"theatre_hall"`
	TicketsAvailable int                 `json:"tickets_available"`
	TakenPlaces      []SeatResponse      `json:"taken_places"`
}

// SeatMapResponse is the ledger view of one performance.
type SeatMapResponse struct {
	PerformanceID    string         `json:"performance_id"`
	Rows             int            `json:"rows"`
	SeatsInRow       int            `json:"seats_in_row"`
	Capacity         int            `json:"capacity"`
	TicketsAvailable int            `json:"tickets_available"`
	TakenPlaces      []SeatResponse `json:"taken_places"`
}

func PerformanceToListResponse(view *entity.PerformanceView) PerformanceListResponse {
	return PerformanceListResponse{
		ID:                  view.ID.String(),
		ShowTime:            view.ShowTime,
		PlayTitle:           view.PlayTitle,
		TheatreHallName:     view.Hall.Name,
		TheatreHallCapacity: view.Hall.Capacity(),
		TicketsAvailable:    domain.AvailableCount(view.Hall.Capacity(), view.TicketsSold),
	}
}

func PerformanceToDetailResponse(view *entity.PerformanceView, play *entity.Play, taken []*entity.Ticket) PerformanceDetailResponse {
	return PerformanceDetailResponse{
		ID:               view.ID.String(),
		ShowTime:         view.ShowTime,
		Play:             PlayToDetailResponse(play),
		TheatreHall:      HallToResponse(&view.Hall),
		TicketsAvailable: domain.AvailableCount(view.Hall.Capacity(), view.TicketsSold),
		TakenPlaces:      TicketsToSeats(taken),
	}
}

func TicketsToSeats(tickets []*entity.Ticket) []SeatResponse {
	seats := make([]SeatResponse, len(tickets))
	for i, t := range tickets {
		seats[i] = SeatResponse{Row: t.Row, Seat: t.Seat}
	}
	return seats
}
