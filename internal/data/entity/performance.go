package entity

import (
	"time"

	"github.com/google/uuid"
)

type Performance struct {
	Base
	PlayID        uuid.UUID `db:"play_id"`
	TheatreHallID uuid.UUID `db:"theatre_hall_id"`
	ShowTime      time.Time `db:"show_time"`
}

// PerformanceView is a performance joined with its play title, its hall and
// the number of tickets sold, as read by listings and the reservation engine.
type PerformanceView struct {
	Performance
	PlayTitle   string
	Hall        TheatreHall
	TicketsSold int
}
