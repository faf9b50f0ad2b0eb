package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"theatre-booking/internal/data/entity"
	"theatre-booking/internal/data/repository"
	"theatre-booking/internal/domain"
	"theatre-booking/internal/dto/request"
	"theatre-booking/internal/dto/response"
	"theatre-booking/pkg/events"
	"theatre-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const publishTimeout = 3 * time.Second

type ReservationService interface {
	// CreateReservation books every requested seat or none of them.
	CreateReservation(ctx context.Context, userID uuid.UUID, req *request.CreateReservationRequest) (*response.ReservationResponse, error)
	ListUserReservations(ctx context.Context, userID uuid.UUID, req request.PaginatedRequest) (*response.PaginatedResponse[response.ReservationResponse], error)
}

type reservationService struct {
	repo      *repository.Repository
	publisher events.Publisher
	log       *zap.Logger
	now       func() time.Time
}

func NewReservationService(repo *repository.Repository, publisher events.Publisher, log *zap.Logger) ReservationService {
	return &reservationService{
		repo:      repo,
		publisher: publisher,
		log:       log.With(zap.String("service", "reservation")),
		now:       time.Now,
	}
}

func (s *reservationService) CreateReservation(ctx context.Context, userID uuid.UUID, req *request.CreateReservationRequest) (*response.ReservationResponse, error) {
	// 1. At least one ticket
	if req == nil || len(req.Tickets) == 0 {
		return nil, domain.NewEmptyBatchError()
	}

	// 2. Shape of every ticket, in input order
	claims := make([]domain.SeatClaim, len(req.Tickets))
	for i, t := range req.Tickets {
		if errs := utils.ValidateStruct(t); len(errs) > 0 {
			return nil, &domain.ValidationError{
				Index:  i,
				Field:  "performance",
				Reason: domain.ReasonInvalid,
				Err:    errors.New(utils.FormatValidationErrors(errs)),
			}
		}
		claims[i] = domain.SeatClaim{
			PerformanceID: uuid.MustParse(t.PerformanceID),
			Row:           t.Row,
			Seat:          t.Seat,
		}
	}

	// 3. Halls of all performances in one query
	views, err := s.repo.Performance.FindByIDs(ctx, distinctPerformances(claims))
	if err != nil {
		s.log.Error("Failed to resolve performances", zap.Error(err))
		return nil, fmt.Errorf("resolve performances: %w", err)
	}

	// 4. Geometry, first failure aborts the batch
	for i, c := range claims {
		view, ok := views[c.PerformanceID]
		if !ok {
			return nil, &domain.ValidationError{
				Index:  i,
				Field:  "performance",
				Reason: domain.ReasonNotFound,
				Err:    fmt.Errorf("performance %s: %w", c.PerformanceID, domain.ErrNotFound),
			}
		}
		if err := domain.ValidateSeat(c.Row, c.Seat, &view.Hall); err != nil {
			return nil, &domain.TicketError{Index: i, Err: err}
		}
	}

	// 5. The same seat twice in one batch can never succeed
	if i := domain.FirstDuplicate(claims); i >= 0 {
		c := claims[i]
		return nil, &domain.ConflictError{Index: i, PerformanceID: c.PerformanceID, Row: c.Row, Seat: c.Seat}
	}

	// 6. One transaction; the unique (performance, row, seat) constraint
	// decides races with concurrent reservations
	now := s.now()
	reservation := &entity.Reservation{BaseSimple: entity.NewBaseSimple(now), UserID: userID}
	tickets := make([]*entity.Ticket, len(claims))
	for i, c := range claims {
		tickets[i] = &entity.Ticket{
			BaseSimple:    entity.NewBaseSimple(now),
			Row:           c.Row,
			Seat:          c.Seat,
			Position:      i,
			PerformanceID: c.PerformanceID,
			ReservationID: reservation.ID,
		}
	}

	if err := s.repo.Reservation.CreateWithTickets(ctx, reservation, tickets); err != nil {
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			s.log.Info("Reservation lost seat race",
				zap.String("user_id", userID.String()),
				zap.String("performance_id", conflict.PerformanceID.String()),
				zap.Int("row", conflict.Row),
				zap.Int("seat", conflict.Seat),
			)
			return nil, err
		}
		s.log.Error("Failed to create reservation", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("create reservation: %w", err)
	}

	s.log.Info("Reservation created",
		zap.String("reservation_id", reservation.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Int("tickets", len(tickets)),
	)

	// 7. Committed; notify without letting a broker outage fail the request
	s.publish(ctx, reservation, tickets)

	// 8. Views were read before the insert, count this batch in
	sold := make(map[uuid.UUID]int, len(views))
	for _, t := range tickets {
		sold[t.PerformanceID]++
	}
	updated := make(map[uuid.UUID]*entity.PerformanceView, len(views))
	for id, v := range views {
		cp := *v
		cp.TicketsSold += sold[id]
		updated[id] = &cp
	}

	resp := response.ReservationToResponse(reservation, tickets, updated)
	return &resp, nil
}

func (s *reservationService) ListUserReservations(ctx context.Context, userID uuid.UUID, req request.PaginatedRequest) (*response.PaginatedResponse[response.ReservationResponse], error) {
	reservations, err := s.repo.Reservation.FindByUserID(ctx, userID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}

	total, err := s.repo.Reservation.CountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count reservations: %w", err)
	}

	reservationIDs := make([]uuid.UUID, len(reservations))
	for i, r := range reservations {
		reservationIDs[i] = r.ID
	}

	// tickets and performances for the whole page, not per reservation
	tickets, err := s.repo.Ticket.FindByReservationIDs(ctx, reservationIDs)
	if err != nil {
		return nil, fmt.Errorf("load reservation tickets: %w", err)
	}

	byReservation := make(map[uuid.UUID][]*entity.Ticket, len(reservations))
	claims := make([]domain.SeatClaim, len(tickets))
	for i, t := range tickets {
		byReservation[t.ReservationID] = append(byReservation[t.ReservationID], t)
		claims[i] = domain.SeatClaim{PerformanceID: t.PerformanceID}
	}

	views, err := s.repo.Performance.FindByIDs(ctx, distinctPerformances(claims))
	if err != nil {
		return nil, fmt.Errorf("load reservation performances: %w", err)
	}

	resp := make([]response.ReservationResponse, len(reservations))
	for i, r := range reservations {
		ts := byReservation[r.ID]
		sort.SliceStable(ts, func(a, b int) bool { return ts[a].Position < ts[b].Position })
		resp[i] = response.ReservationToResponse(r, ts, views)
	}

	return response.NewPaginatedResponse(resp, req.Page, req.Limit(), total), nil
}

func (s *reservationService) publish(ctx context.Context, reservation *entity.Reservation, tickets []*entity.Ticket) {
	event := events.ReservationCreated{
		ReservationID: reservation.ID,
		UserID:        reservation.UserID,
		Seats:         make([]events.SeatClaimed, len(tickets)),
		CreatedAt:     reservation.CreatedAt,
	}
	for i, t := range tickets {
		event.Seats[i] = events.SeatClaimed{PerformanceID: t.PerformanceID, Row: t.Row, Seat: t.Seat}
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.publisher.PublishReservationCreated(pubCtx, event); err != nil {
		s.log.Warn("Failed to publish reservation event",
			zap.Error(err),
			zap.String("reservation_id", reservation.ID.String()),
		)
	}
}

func distinctPerformances(claims []domain.SeatClaim) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(claims))
	ids := make([]uuid.UUID, 0, len(claims))
	for _, c := range claims {
		if _, ok := seen[c.PerformanceID]; ok {
			continue
		}
		seen[c.PerformanceID] = struct{}{}
		ids = append(ids, c.PerformanceID)
	}
	return ids
}
