package repository

import (
	"theatre-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User        UserRepository
	Session     SessionRepository
	Hall        TheatreHallRepository
	Genre       GenreRepository
	Actor       ActorRepository
	Play        PlayRepository
	Performance PerformanceRepository
	Ticket      TicketRepository
	Reservation ReservationRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:        NewUserRepository(db, log),
		Session:     NewSessionRepository(db, log),
		Hall:        NewTheatreHallRepository(db, log),
		Genre:       NewGenreRepository(db, log),
		Actor:       NewActorRepository(db, log),
		Play:        NewPlayRepository(db, log),
		Performance: NewPerformanceRepository(db, log),
		Ticket:      NewTicketRepository(db, log),
		Reservation: NewReservationRepository(db, log),
	}
}
