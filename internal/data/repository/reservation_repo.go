package repository

import (
	"context"
	"fmt"

	"theatre-booking/internal/data/entity"
	"theatre-booking/internal/domain"
	"theatre-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReservationRepository interface {
	// CreateWithTickets inserts the reservation and all of its tickets in a
	// single transaction. A seat that is already sold yields
	// *domain.ConflictError and nothing is persisted.
	CreateWithTickets(ctx context.Context, reservation *entity.Reservation, tickets []*entity.Ticket) error
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Reservation, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
}

type reservationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReservationRepository(db database.PgxIface, log *zap.Logger) ReservationRepository {
	return &reservationRepository{
		db:  db,
		log: log.With(zap.String("repository", "reservation")),
	}
}

// seatConstraint is the unique (performance_id, row_number, seat_number)
// constraint on tickets.
const seatConstraint = "tickets_performance_row_seat_key"

const insertTicketSQL = `
	INSERT INTO tickets (id, row_number, seat_number, position, performance_id, reservation_id, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
`

func (r *reservationRepository) CreateWithTickets(ctx context.Context, reservation *entity.Reservation, tickets []*entity.Ticket) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.Error("Failed to begin reservation transaction", zap.Error(err))
		return fmt.Errorf("begin reservation %s: %w", reservation.ID, err)
	}
	// no-op once committed
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO reservations (id, user_id, created_at) VALUES ($1, $2, $3)`,
		reservation.ID, reservation.UserID, reservation.CreatedAt,
	); err != nil {
		r.log.Error("Failed to insert reservation",
			zap.Error(err),
			zap.String("reservation_id", reservation.ID.String()),
			zap.String("user_id", reservation.UserID.String()),
		)
		return fmt.Errorf("create reservation %s: %w", reservation.ID, err)
	}

	batch := &pgx.Batch{}
	for i, t := range tickets {
		t.Position = i
		batch.Queue(insertTicketSQL, t.ID, t.Row, t.Seat, t.Position, t.PerformanceID, reservation.ID, t.CreatedAt)
	}

	results := tx.SendBatch(ctx, batch)
	for i, t := range tickets {
		if _, err := results.Exec(); err != nil {
			results.Close()
			if conflict := seatConflict(err, i, t); conflict != nil {
				r.log.Info("Seat already taken",
					zap.String("performance_id", t.PerformanceID.String()),
					zap.Int("row", t.Row),
					zap.Int("seat", t.Seat),
				)
				return conflict
			}
			r.log.Error("Failed to insert ticket",
				zap.Error(err),
				zap.Int("index", i),
				zap.String("reservation_id", reservation.ID.String()),
			)
			return fmt.Errorf("create ticket %d of reservation %s: %w", i, reservation.ID, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("close ticket batch of reservation %s: %w", reservation.ID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.log.Error("Failed to commit reservation",
			zap.Error(err),
			zap.String("reservation_id", reservation.ID.String()),
		)
		return fmt.Errorf("commit reservation %s: %w", reservation.ID, err)
	}

	for _, t := range tickets {
		t.ReservationID = reservation.ID
	}
	return nil
}

// seatConflict returns a ConflictError for ticket i only when err violates
// the seat constraint. Any other unique violation stays a storage failure.
func seatConflict(err error, i int, t *entity.Ticket) *domain.ConflictError {
	constraint, dup := database.ConstraintViolation(err)
	if !dup || constraint != seatConstraint {
		return nil
	}
	return &domain.ConflictError{Index: i, PerformanceID: t.PerformanceID, Row: t.Row, Seat: t.Seat}
}

func (r *reservationRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Reservation, error) {
	query := `
		SELECT id, user_id, created_at
		FROM reservations
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find reservations by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find reservations by user ID %s: %w", userID, err)
	}
	defer rows.Close()

	var reservations []*entity.Reservation
	for rows.Next() {
		var res entity.Reservation
		if err := rows.Scan(&res.ID, &res.UserID, &res.CreatedAt); err != nil {
			r.log.Error("Failed to scan reservation row", zap.Error(err))
			return nil, fmt.Errorf("scan reservation row: %w", err)
		}
		reservations = append(reservations, &res)
	}

	return reservations, rows.Err()
}

func (r *reservationRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reservations WHERE user_id = $1`, userID).Scan(&count); err != nil {
		r.log.Error("Failed to count reservations by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count reservations by user ID %s: %w", userID, err)
	}
	return count, nil
}
