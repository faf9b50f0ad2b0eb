package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"theatre-booking/internal/data/entity"
	"theatre-booking/internal/domain"
	"theatre-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// PerformanceFilter narrows the performance listing. Date matches the
// calendar day of show_time, not the full timestamp.
type PerformanceFilter struct {
	PlayID *uuid.UUID
	HallID *uuid.UUID
	Date   *time.Time
}

func (f PerformanceFilter) where() (string, []any) {
	var conds []string
	var args []any

	if f.PlayID != nil {
		args = append(args, *f.PlayID)
		conds = append(conds, fmt.Sprintf("p.play_id = $%d", len(args)))
	}
	if f.HallID != nil {
		args = append(args, *f.HallID)
		conds = append(conds, fmt.Sprintf("p.theatre_hall_id = $%d", len(args)))
	}
	if f.Date != nil {
		args = append(args, f.Date.Format("2006-01-02"))
		conds = append(conds, fmt.Sprintf("p.show_time::date = $%d::date", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type PerformanceRepository interface {
	Create(ctx context.Context, performance *entity.Performance) error
	Update(ctx context.Context, performance *entity.Performance) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.PerformanceView, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.PerformanceView, error)
	List(ctx context.Context, filter PerformanceFilter, limit, offset int) ([]*entity.PerformanceView, error)
	Count(ctx context.Context, filter PerformanceFilter) (int64, error)
}

type performanceRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPerformanceRepository(db database.PgxIface, log *zap.Logger) PerformanceRepository {
	return &performanceRepository{
		db:  db,
		log: log.With(zap.String("repository", "performance")),
	}
}

// performanceViewSelect joins play and hall and counts sold tickets in the
// same statement, so a page of performances costs one round trip.
const performanceViewSelect = `
	SELECT p.id, p.play_id, p.theatre_hall_id, p.show_time, p.created_at, p.updated_at,
	       pl.title,
	       h.id, h.name, h.rows, h.seats_in_row, h.created_at, h.updated_at,
	       COUNT(t.id)
	FROM performances p
	JOIN plays pl ON pl.id = p.play_id
	JOIN theatre_halls h ON h.id = p.theatre_hall_id
	LEFT JOIN tickets t ON t.performance_id = p.id
`

const performanceViewGroup = ` GROUP BY p.id, pl.id, h.id`

func scanPerformanceView(row pgx.Row) (*entity.PerformanceView, error) {
	var v entity.PerformanceView
	if err := row.Scan(
		&v.ID,
		&v.PlayID,
		&v.TheatreHallID,
		&v.ShowTime,
		&v.CreatedAt,
		&v.UpdatedAt,
		&v.PlayTitle,
		&v.Hall.ID,
		&v.Hall.Name,
		&v.Hall.Rows,
		&v.Hall.SeatsInRow,
		&v.Hall.CreatedAt,
		&v.Hall.UpdatedAt,
		&v.TicketsSold,
	); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *performanceRepository) Create(ctx context.Context, performance *entity.Performance) error {
	query := `
		INSERT INTO performances (id, play_id, theatre_hall_id, show_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		performance.ID,
		performance.PlayID,
		performance.TheatreHallID,
		performance.ShowTime,
		performance.CreatedAt,
		performance.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create performance",
			zap.Error(err),
			zap.String("play_id", performance.PlayID.String()),
			zap.String("hall_id", performance.TheatreHallID.String()),
		)
		return fmt.Errorf("create performance of play %s: %w", performance.PlayID, err)
	}

	return nil
}

func (r *performanceRepository) Update(ctx context.Context, performance *entity.Performance) error {
	query := `
		UPDATE performances
		SET play_id = $2, theatre_hall_id = $3, show_time = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		performance.ID,
		performance.PlayID,
		performance.TheatreHallID,
		performance.ShowTime,
		performance.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update performance",
			zap.Error(err),
			zap.String("performance_id", performance.ID.String()),
		)
		return fmt.Errorf("update performance %s: %w", performance.ID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("performance %s: %w", performance.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete cascades to the performance's tickets.
func (r *performanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM performances WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete performance", zap.Error(err), zap.String("performance_id", id.String()))
		return fmt.Errorf("delete performance %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("performance %s: %w", id, domain.ErrNotFound)
	}

	r.log.Info("Performance deleted", zap.String("performance_id", id.String()))
	return nil
}

func (r *performanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.PerformanceView, error) {
	query := performanceViewSelect + ` WHERE p.id = $1` + performanceViewGroup

	view, err := scanPerformanceView(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find performance by ID",
			zap.Error(err),
			zap.String("performance_id", id.String()),
		)
		return nil, fmt.Errorf("find performance by ID %s: %w", id, err)
	}

	return view, nil
}

// FindByIDs resolves many performances at once; missing ids are absent from
// the map.
func (r *performanceRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.PerformanceView, error) {
	views := make(map[uuid.UUID]*entity.PerformanceView, len(ids))
	if len(ids) == 0 {
		return views, nil
	}

	query := performanceViewSelect + ` WHERE p.id = ANY($1)` + performanceViewGroup
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		r.log.Error("Failed to find performances by IDs", zap.Error(err), zap.Int("count", len(ids)))
		return nil, fmt.Errorf("find performances by IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		view, err := scanPerformanceView(rows)
		if err != nil {
			r.log.Error("Failed to scan performance row", zap.Error(err))
			return nil, fmt.Errorf("scan performance row: %w", err)
		}
		views[view.ID] = view
	}

	return views, rows.Err()
}

func (r *performanceRepository) List(ctx context.Context, filter PerformanceFilter, limit, offset int) ([]*entity.PerformanceView, error) {
	where, args := filter.where()
	args = append(args, limit, offset)
	query := performanceViewSelect + where + performanceViewGroup +
		fmt.Sprintf(` ORDER BY p.show_time DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list performances", zap.Error(err))
		return nil, fmt.Errorf("list performances: %w", err)
	}
	defer rows.Close()

	var views []*entity.PerformanceView
	for rows.Next() {
		view, err := scanPerformanceView(rows)
		if err != nil {
			r.log.Error("Failed to scan performance row", zap.Error(err))
			return nil, fmt.Errorf("scan performance row: %w", err)
		}
		views = append(views, view)
	}

	return views, rows.Err()
}

func (r *performanceRepository) Count(ctx context.Context, filter PerformanceFilter) (int64, error) {
	where, args := filter.where()

	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM performances p`+where, args...).Scan(&count); err != nil {
		r.log.Error("Failed to count performances", zap.Error(err))
		return 0, fmt.Errorf("count performances: %w", err)
	}
	return count, nil
}
