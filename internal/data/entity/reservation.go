package entity

import "github.com/google/uuid"

// Reservation groups the tickets bought in one checkout. Immutable once created.
type Reservation struct {
	BaseSimple
	UserID uuid.UUID `db:"user_id"`
}

type Ticket struct {
	BaseSimple
	Row           int       `db:"row_number"`
	Seat          int       `db:"seat_number"`
	Position      int       `db:"position"` // index within the reservation request
	PerformanceID uuid.UUID `db:"performance_id"`
	ReservationID uuid.UUID `db:"reservation_id"`
}
