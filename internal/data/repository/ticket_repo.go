package repository

import (
	"context"
	"fmt"

	"theatre-booking/internal/data/entity"
	"theatre-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TicketRepository is read-only. Tickets are written exclusively by
// ReservationRepository.CreateWithTickets.
type TicketRepository interface {
	TakenSeats(ctx context.Context, performanceID uuid.UUID) ([]*entity.Ticket, error)
	CountByPerformances(ctx context.Context, performanceIDs []uuid.UUID) (map[uuid.UUID]int, error)
	FindByReservationIDs(ctx context.Context, reservationIDs []uuid.UUID) ([]*entity.Ticket, error)
	CountOutsideGeometry(ctx context.Context, hallID uuid.UUID, rows, seatsInRow int) (int, error)
}

type ticketRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTicketRepository(db database.PgxIface, log *zap.Logger) TicketRepository {
	return &ticketRepository{
		db:  db,
		log: log.With(zap.String("repository", "ticket")),
	}
}

const ticketColumns = `id, row_number, seat_number, position, performance_id, reservation_id, created_at`

func (r *ticketRepository) scan(ctx context.Context, query string, args ...any) ([]*entity.Ticket, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to query tickets", zap.Error(err))
		return nil, fmt.Errorf("query tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*entity.Ticket
	for rows.Next() {
		var t entity.Ticket
		if err := rows.Scan(&t.ID, &t.Row, &t.Seat, &t.Position, &t.PerformanceID, &t.ReservationID, &t.CreatedAt); err != nil {
			r.log.Error("Failed to scan ticket row", zap.Error(err))
			return nil, fmt.Errorf("scan ticket row: %w", err)
		}
		tickets = append(tickets, &t)
	}

	return tickets, rows.Err()
}

func (r *ticketRepository) TakenSeats(ctx context.Context, performanceID uuid.UUID) ([]*entity.Ticket, error) {
	return r.scan(ctx, `
		SELECT `+ticketColumns+`
		FROM tickets
		WHERE performance_id = $1
		ORDER BY row_number, seat_number
	`, performanceID)
}

// CountByPerformances counts sold tickets per performance in one aggregate
// query. Performances without tickets map to 0.
func (r *ticketRepository) CountByPerformances(ctx context.Context, performanceIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int, len(performanceIDs))
	if len(performanceIDs) == 0 {
		return counts, nil
	}
	for _, id := range performanceIDs {
		counts[id] = 0
	}

	rows, err := r.db.Query(ctx, `
		SELECT performance_id, COUNT(*)
		FROM tickets
		WHERE performance_id = ANY($1)
		GROUP BY performance_id
	`, performanceIDs)
	if err != nil {
		r.log.Error("Failed to count tickets by performance", zap.Error(err))
		return nil, fmt.Errorf("count tickets by performance: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scan ticket count row: %w", err)
		}
		counts[id] = n
	}

	return counts, rows.Err()
}

func (r *ticketRepository) FindByReservationIDs(ctx context.Context, reservationIDs []uuid.UUID) ([]*entity.Ticket, error) {
	if len(reservationIDs) == 0 {
		return nil, nil
	}
	return r.scan(ctx, `
		SELECT `+ticketColumns+`
		FROM tickets
		WHERE reservation_id = ANY($1)
		ORDER BY reservation_id, position
	`, reservationIDs)
}

// CountOutsideGeometry counts tickets of any performance in the hall that
// would fall outside a rows x seatsInRow grid.
func (r *ticketRepository) CountOutsideGeometry(ctx context.Context, hallID uuid.UUID, rows, seatsInRow int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM tickets t
		JOIN performances p ON p.id = t.performance_id
		WHERE p.theatre_hall_id = $1
		  AND (t.row_number > $2 OR t.seat_number > $3)
	`

	var n int
	if err := r.db.QueryRow(ctx, query, hallID, rows, seatsInRow).Scan(&n); err != nil {
		r.log.Error("Failed to count tickets outside geometry",
			zap.Error(err),
			zap.String("hall_id", hallID.String()),
		)
		return 0, fmt.Errorf("count tickets outside geometry of hall %s: %w", hallID, err)
	}
	return n, nil
}
