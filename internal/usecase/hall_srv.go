package usecase

import (
	"context"
	"fmt"
	"time"

	"theatre-booking/internal/data/entity"
	"theatre-booking/internal/data/repository"
	"theatre-booking/internal/domain"
	"theatre-booking/internal/dto/request"
	"theatre-booking/internal/dto/response"
	"theatre-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type HallService interface {
	ListHalls(ctx context.Context) ([]response.TheatreHallResponse, error)
	GetHall(ctx context.Context, hallID string) (*response.TheatreHallResponse, error)
	CreateHall(ctx context.Context, req *request.TheatreHallRequest) (*response.TheatreHallResponse, error)
	UpdateHall(ctx context.Context, hallID string, req *request.TheatreHallRequest) (*response.TheatreHallResponse, error)
	DeleteHall(ctx context.Context, hallID string) error
}

type hallService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewHallService(repo *repository.Repository, log *zap.Logger) HallService {
	return &hallService{
		repo: repo,
		log:  log.With(zap.String("service", "theatre_hall")),
		now:  time.Now,
	}
}

func (s *hallService) ListHalls(ctx context.Context) ([]response.TheatreHallResponse, error) {
	halls, err := s.repo.Hall.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to list theatre halls", zap.Error(err))
		return nil, fmt.Errorf("list theatre halls: %w", err)
	}

	resp := make([]response.TheatreHallResponse, len(halls))
	for i, hall := range halls {
		resp[i] = response.HallToResponse(hall)
	}
	return resp, nil
}

func (s *hallService) GetHall(ctx context.Context, hallID string) (*response.TheatreHallResponse, error) {
	hall, err := s.findHall(ctx, hallID)
	if err != nil {
		return nil, err
	}
	resp := response.HallToResponse(hall)
	return &resp, nil
}

func (s *hallService) CreateHall(ctx context.Context, req *request.TheatreHallRequest) (*response.TheatreHallResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, &domain.RequestError{Fields: errs}
	}

	hall := &entity.TheatreHall{
		Base:       entity.NewBase(s.now()),
		Name:       req.Name,
		Rows:       req.Rows,
		SeatsInRow: req.SeatsInRow,
	}
	if err := s.repo.Hall.Create(ctx, hall); err != nil {
		return nil, err
	}

	s.log.Info("Theatre hall created",
		zap.String("hall_id", hall.ID.String()),
		zap.String("name", hall.Name),
		zap.Int("capacity", hall.Capacity()),
	)

	resp := response.HallToResponse(hall)
	return &resp, nil
}

// UpdateHall refuses to shrink the grid under tickets that are already sold,
// so every persisted ticket stays inside its hall.
func (s *hallService) UpdateHall(ctx context.Context, hallID string, req *request.TheatreHallRequest) (*response.TheatreHallResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, &domain.RequestError{Fields: errs}
	}

	hall, err := s.findHall(ctx, hallID)
	if err != nil {
		return nil, err
	}

	if req.Rows < hall.Rows || req.SeatsInRow < hall.SeatsInRow {
		orphaned, err := s.repo.Ticket.CountOutsideGeometry(ctx, hall.ID, req.Rows, req.SeatsInRow)
		if err != nil {
			s.log.Error("Failed to check sold tickets before resize",
				zap.Error(err),
				zap.String("hall_id", hallID),
			)
			return nil, fmt.Errorf("check theatre hall %s tickets: %w", hallID, err)
		}
		if orphaned > 0 {
			s.log.Warn("Theatre hall shrink rejected",
				zap.String("hall_id", hallID),
				zap.Int("orphaned_tickets", orphaned),
			)
			return nil, fmt.Errorf("%d tickets outside %dx%d: %w", orphaned, req.Rows, req.SeatsInRow, domain.ErrHallShrink)
		}
	}

	hall.Name = req.Name
	hall.Rows = req.Rows
	hall.SeatsInRow = req.SeatsInRow
	hall.UpdatedAt = s.now()

	if err := s.repo.Hall.Update(ctx, hall); err != nil {
		return nil, err
	}

	s.log.Info("Theatre hall updated",
		zap.String("hall_id", hall.ID.String()),
		zap.Int("rows", hall.Rows),
		zap.Int("seats_in_row", hall.SeatsInRow),
	)

	resp := response.HallToResponse(hall)
	return &resp, nil
}

func (s *hallService) DeleteHall(ctx context.Context, hallID string) error {
	id, err := uuid.Parse(hallID)
	if err != nil {
		return domain.NewInvalidError("id", err)
	}
	if err := s.repo.Hall.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("Theatre hall deleted", zap.String("hall_id", hallID))
	return nil
}

func (s *hallService) findHall(ctx context.Context, hallID string) (*entity.TheatreHall, error) {
	id, err := uuid.Parse(hallID)
	if err != nil {
		return nil, domain.NewInvalidError("id", err)
	}

	hall, err := s.repo.Hall.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if hall == nil {
		return nil, fmt.Errorf("theatre hall %s: %w", hallID, domain.ErrNotFound)
	}
	return hall, nil
}

