package request

// CreateReservationRequest is an ordered batch of seat claims. Row and seat
// ranges are checked against the hall, not here.
type CreateReservationRequest struct {
	Tickets []TicketRequest `json:"tickets" validate:"dive"`
}

type TicketRequest struct {
	PerformanceID string `json:"performance" validate:"required,uuid"`
	Row           int    `json:"row"`
	Seat          int    `json:"seat"`
}
