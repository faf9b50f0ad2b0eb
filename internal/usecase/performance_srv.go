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

type PerformanceService interface {
	ListPerformances(ctx context.Context, query request.PerformanceQuery) (*response.PaginatedResponse[response.PerformanceListResponse], error)
	GetPerformance(ctx context.Context, performanceID string) (*response.PerformanceDetailResponse, error)
	CreatePerformance(ctx context.Context, req *request.PerformanceRequest) (*response.PerformanceListResponse, error)
	UpdatePerformance(ctx context.Context, performanceID string, req *request.PerformanceRequest) (*response.PerformanceListResponse, error)
	DeletePerformance(ctx context.Context, performanceID string) error
}

type performanceService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewPerformanceService(repo *repository.Repository, log *zap.Logger) PerformanceService {
	return &performanceService{
		repo: repo,
		log:  log.With(zap.String("service", "performance")),
		now:  time.Now,
	}
}

func (s *performanceService) ListPerformances(ctx context.Context, query request.PerformanceQuery) (*response.PaginatedResponse[response.PerformanceListResponse], error) {
	if errs := utils.ValidateStruct(query); len(errs) > 0 {
		return nil, &domain.RequestError{Fields: errs}
	}

	var filter repository.PerformanceFilter
	if query.Play != "" {
		id := uuid.MustParse(query.Play)
		filter.PlayID = &id
	}
	if query.Hall != "" {
		id := uuid.MustParse(query.Hall)
		filter.HallID = &id
	}
	if query.Date != "" {
		date, err := time.Parse(time.DateOnly, query.Date)
		if err != nil {
			return nil, domain.NewInvalidError("date", err)
		}
		filter.Date = &date
	}

	// tickets_available comes from the same aggregate query as the page
	views, err := s.repo.Performance.List(ctx, filter, query.Limit(), query.Offset())
	if err != nil {
		s.log.Error("Failed to list performances", zap.Error(err))
		return nil, fmt.Errorf("list performances: %w", err)
	}

	total, err := s.repo.Performance.Count(ctx, filter)
	if err != nil {
		s.log.Error("Failed to count performances", zap.Error(err))
		return nil, fmt.Errorf("count performances: %w", err)
	}

	resp := make([]response.PerformanceListResponse, len(views))
	for i, v := range views {
		resp[i] = response.PerformanceToListResponse(v)
	}

	return response.NewPaginatedResponse(resp, query.Page, query.Limit(), total), nil
}

func (s *performanceService) GetPerformance(ctx context.Context, performanceID string) (*response.PerformanceDetailResponse, error) {
	view, err := s.findView(ctx, performanceID)
	if err != nil {
		return nil, err
	}

	play, err := s.repo.Play.FindByID(ctx, view.PlayID)
	if err != nil {
		return nil, err
	}
	if play == nil {
		return nil, fmt.Errorf("play %s: %w", view.PlayID, domain.ErrNotFound)
	}

	taken, err := s.repo.Ticket.TakenSeats(ctx, view.ID)
	if err != nil {
		return nil, fmt.Errorf("taken seats of performance %s: %w", view.ID, err)
	}

	resp := response.PerformanceToDetailResponse(view, play, taken)
	return &resp, nil
}

func (s *performanceService) CreatePerformance(ctx context.Context, req *request.PerformanceRequest) (*response.PerformanceListResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, &domain.RequestError{Fields: errs}
	}

	performance := &entity.Performance{
		Base:     entity.NewBase(s.now()),
		ShowTime: req.ShowTime,
	}
	if _, err := s.resolveRefs(ctx, performance, req); err != nil {
		return nil, err
	}

	if err := s.repo.Performance.Create(ctx, performance); err != nil {
		return nil, err
	}

	s.log.Info("Performance created",
		zap.String("performance_id", performance.ID.String()),
		zap.String("play_id", performance.PlayID.String()),
		zap.String("hall_id", performance.TheatreHallID.String()),
		zap.Time("show_time", performance.ShowTime),
	)

	return s.listView(ctx, performance.ID)
}

// UpdatePerformance may move a performance to another hall only when every
// sold seat fits the new hall.
func (s *performanceService) UpdatePerformance(ctx context.Context, performanceID string, req *request.PerformanceRequest) (*response.PerformanceListResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, &domain.RequestError{Fields: errs}
	}

	view, err := s.findView(ctx, performanceID)
	if err != nil {
		return nil, err
	}

	performance := view.Performance
	performance.ShowTime = req.ShowTime
	performance.UpdatedAt = s.now()
	hall, err := s.resolveRefs(ctx, &performance, req)
	if err != nil {
		return nil, err
	}

	if hall.ID != view.Hall.ID && view.TicketsSold > 0 {
		taken, err := s.repo.Ticket.TakenSeats(ctx, performance.ID)
		if err != nil {
			return nil, fmt.Errorf("taken seats of performance %s: %w", performance.ID, err)
		}
		for _, t := range taken {
			if err := domain.ValidateSeat(t.Row, t.Seat, hall); err != nil {
				s.log.Warn("Performance move rejected",
					zap.String("performance_id", performanceID),
					zap.String("hall_id", hall.ID.String()),
					zap.Error(err),
				)
				return nil, fmt.Errorf("move to theatre hall %s: %w", hall.ID, domain.ErrHallShrink)
			}
		}
	}

	if err := s.repo.Performance.Update(ctx, &performance); err != nil {
		return nil, err
	}

	s.log.Info("Performance updated", zap.String("performance_id", performanceID))
	return s.listView(ctx, performance.ID)
}

func (s *performanceService) DeletePerformance(ctx context.Context, performanceID string) error {
	id, err := uuid.Parse(performanceID)
	if err != nil {
		return domain.NewInvalidError("id", err)
	}
	if err := s.repo.Performance.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("Performance deleted", zap.String("performance_id", performanceID))
	return nil
}

// resolveRefs points the performance at the requested play and hall,
// both of which must exist.
func (s *performanceService) resolveRefs(ctx context.Context, performance *entity.Performance, req *request.PerformanceRequest) (*entity.TheatreHall, error) {
	playID := uuid.MustParse(req.PlayID)
	hallID := uuid.MustParse(req.TheatreHallID)

	play, err := s.repo.Play.FindByID(ctx, playID)
	if err != nil {
		return nil, err
	}
	if play == nil {
		return nil, &domain.ValidationError{Index: -1, Field: "play", Reason: domain.ReasonNotFound, Err: domain.ErrNotFound}
	}

	hall, err := s.repo.Hall.FindByID(ctx, hallID)
	if err != nil {
		return nil, err
	}
	if hall == nil {
		return nil, &domain.ValidationError{Index: -1, Field: "theatre_hall", Reason: domain.ReasonNotFound, Err: domain.ErrNotFound}
	}

	performance.PlayID = play.ID
	performance.TheatreHallID = hall.ID
	return hall, nil
}

func (s *performanceService) findView(ctx context.Context, performanceID string) (*entity.PerformanceView, error) {
	id, err := uuid.Parse(performanceID)
	if err != nil {
		return nil, domain.NewInvalidError("id", err)
	}

	view, err := s.repo.Performance.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, fmt.Errorf("performance %s: %w", performanceID, domain.ErrNotFound)
	}
	return view, nil
}

func (s *performanceService) listView(ctx context.Context, id uuid.UUID) (*response.PerformanceListResponse, error) {
	view, err := s.findView(ctx, id.String())
	if err != nil {
		return nil, err
	}
	resp := response.PerformanceToListResponse(view)
	return &resp, nil
}
