package response

import (
	"time"

	"theatre-booking/internal/data/entity"

	"github.com/google/uuid"
)

type TicketResponse struct {
	ID          string                  `json:"id"`
	Row         int                     `json:"row"`
	Seat        int                     `json:"seat"`
	Performance PerformanceListResponse `json:"performance"`
}

type ReservationResponse struct {
	ID        string           `json:"id"`
	Tickets   []TicketResponse `json:"tickets"`
	CreatedAt time.Time        `json:"created_at"`
}

// ReservationToResponse keeps tickets in the given order. Performances
// missing from the map render with only their id.
func ReservationToResponse(reservation *entity.Reservation, tickets []*entity.Ticket, performances map[uuid.UUID]*entity.PerformanceView) ReservationResponse {
	resp := ReservationResponse{
		ID:        reservation.ID.String(),
		Tickets:   make([]TicketResponse, len(tickets)),
		CreatedAt: reservation.CreatedAt,
	}
	for i, t := range tickets {
		perf := PerformanceListResponse{ID: t.PerformanceID.String()}
		if view, ok := performances[t.PerformanceID]; ok {
			perf = PerformanceToListResponse(view)
		}
		resp.Tickets[i] = TicketResponse{
			ID:          t.ID.String(),
			Row:         t.Row,
			Seat:        t.Seat,
			Performance: perf,
		}
	}
	return resp
}
