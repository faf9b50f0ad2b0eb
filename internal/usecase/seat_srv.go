package usecase

import (
	"context"
	"fmt"

	"theatre-booking/internal/data/entity"
	"theatre-booking/internal/data/repository"
	"theatre-booking/internal/domain"
	"theatre-booking/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SeatService is the read side of the seat ledger. Reads are read-committed
// snapshots; the reservation path re-checks every seat on write.
type SeatService interface {
	AvailableCount(ctx context.Context, performanceID uuid.UUID) (int, error)
	TakenSeats(ctx context.Context, performanceID uuid.UUID) ([]response.SeatResponse, error)
	SeatMap(ctx context.Context, performanceID string) (*response.SeatMapResponse, error)
	// Resolve parses the id and checks that the performance exists.
	Resolve(ctx context.Context, performanceID string) (uuid.UUID, error)
}

type seatService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewSeatService(repo *repository.Repository, log *zap.Logger) SeatService {
	return &seatService{
		repo: repo,
		log:  log.With(zap.String("service", "seat")),
	}
}

func (s *seatService) AvailableCount(ctx context.Context, performanceID uuid.UUID) (int, error) {
	hall, err := s.hallOf(ctx, performanceID)
	if err != nil {
		return 0, err
	}

	counts, err := s.repo.Ticket.CountByPerformances(ctx, []uuid.UUID{performanceID})
	if err != nil {
		return 0, fmt.Errorf("count tickets of performance %s: %w", performanceID, err)
	}

	return domain.AvailableCount(hall.Capacity(), counts[performanceID]), nil
}

func (s *seatService) TakenSeats(ctx context.Context, performanceID uuid.UUID) ([]response.SeatResponse, error) {
	tickets, err := s.repo.Ticket.TakenSeats(ctx, performanceID)
	if err != nil {
		s.log.Error("Failed to load taken seats", zap.Error(err), zap.String("performance_id", performanceID.String()))
		return nil, fmt.Errorf("taken seats of performance %s: %w", performanceID, err)
	}
	return response.TicketsToSeats(tickets), nil
}

func (s *seatService) SeatMap(ctx context.Context, performanceID string) (*response.SeatMapResponse, error) {
	id, err := uuid.Parse(performanceID)
	if err != nil {
		return nil, domain.NewInvalidError("id", err)
	}

	hall, err := s.hallOf(ctx, id)
	if err != nil {
		return nil, err
	}

	taken, err := s.TakenSeats(ctx, id)
	if err != nil {
		return nil, err
	}

	return &response.SeatMapResponse{
		PerformanceID:    id.String(),
		Rows:             hall.Rows,
		SeatsInRow:       hall.SeatsInRow,
		Capacity:         hall.Capacity(),
		TicketsAvailable: domain.AvailableCount(hall.Capacity(), len(taken)),
		TakenPlaces:      taken,
	}, nil
}

func (s *seatService) Resolve(ctx context.Context, performanceID string) (uuid.UUID, error) {
	id, err := uuid.Parse(performanceID)
	if err != nil {
		return uuid.Nil, domain.NewInvalidError("id", err)
	}
	if _, err := s.hallOf(ctx, id); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (s *seatService) hallOf(ctx context.Context, performanceID uuid.UUID) (*entity.TheatreHall, error) {
	view, err := s.repo.Performance.FindByID(ctx, performanceID)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, fmt.Errorf("performance %s: %w", performanceID, domain.ErrNotFound)
	}
	return &view.Hall, nil
}
