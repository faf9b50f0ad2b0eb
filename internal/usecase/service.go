package usecase

import (
	"theatre-booking/internal/data/repository"
	"theatre-booking/pkg/events"
	"theatre-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth        AuthService
	User        UserService
	Hall        HallService
	Catalog     CatalogService
	Play        PlayService
	Performance PerformanceService
	Seat        SeatService
	Reservation ReservationService
}

func NewService(repo *repository.Repository, publisher events.Publisher, config *utils.Config, log *zap.Logger) *Service {
	if publisher == nil {
		publisher = events.Nop()
	}
	return &Service{
		Auth:        NewAuthService(repo, config, log),
		User:        NewUserService(repo.User, log),
		Hall:        NewHallService(repo, log),
		Catalog:     NewCatalogService(repo, log),
		Play:        NewPlayService(repo, log),
		Performance: NewPerformanceService(repo, log),
		Seat:        NewSeatService(repo, log),
		Reservation: NewReservationService(repo, publisher, log),
	}
}
