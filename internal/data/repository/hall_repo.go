package repository

import (
	"context"
	"errors"
	"fmt"

	"theatre-booking/internal/data/entity"
	"theatre-booking/internal/domain"
	"theatre-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type TheatreHallRepository interface {
	Create(ctx context.Context, hall *entity.TheatreHall) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.TheatreHall, error)
	FindAll(ctx context.Context) ([]*entity.TheatreHall, error)
	Update(ctx context.Context, hall *entity.TheatreHall) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type hallRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTheatreHallRepository(db database.PgxIface, log *zap.Logger) TheatreHallRepository {
	return &hallRepository{
		db:  db,
		log: log.With(zap.String("repository", "theatre_hall")),
	}
}

const hallColumns = `id, name, rows, seats_in_row, created_at, updated_at`

func scanHall(row pgx.Row) (*entity.TheatreHall, error) {
	var hall entity.TheatreHall
	if err := row.Scan(
		&hall.ID,
		&hall.Name,
		&hall.Rows,
		&hall.SeatsInRow,
		&hall.CreatedAt,
		&hall.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &hall, nil
}

func (r *hallRepository) Create(ctx context.Context, hall *entity.TheatreHall) error {
	query := `
		INSERT INTO theatre_halls (` + hallColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		hall.ID,
		hall.Name,
		hall.Rows,
		hall.SeatsInRow,
		hall.CreatedAt,
		hall.UpdatedAt,
	)
	if _, dup := database.ConstraintViolation(err); dup {
		return fmt.Errorf("theatre hall %q: %w", hall.Name, domain.ErrAlreadyExists)
	}
	if err != nil {
		r.log.Error("Failed to create theatre hall",
			zap.Error(err),
			zap.String("name", hall.Name),
		)
		return fmt.Errorf("create theatre hall %s: %w", hall.Name, err)
	}

	return nil
}

func (r *hallRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.TheatreHall, error) {
	query := `SELECT ` + hallColumns + ` FROM theatre_halls WHERE id = $1`

	hall, err := scanHall(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find theatre hall by ID",
			zap.Error(err),
			zap.String("hall_id", id.String()),
		)
		return nil, fmt.Errorf("find theatre hall by ID %s: %w", id.String(), err)
	}

	return hall, nil
}

func (r *hallRepository) FindAll(ctx context.Context) ([]*entity.TheatreHall, error) {
	query := `SELECT ` + hallColumns + ` FROM theatre_halls ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list theatre halls", zap.Error(err))
		return nil, fmt.Errorf("list theatre halls: %w", err)
	}
	defer rows.Close()

	var halls []*entity.TheatreHall
	for rows.Next() {
		hall, err := scanHall(rows)
		if err != nil {
			r.log.Error("Failed to scan theatre hall row", zap.Error(err))
			return nil, fmt.Errorf("scan theatre hall row: %w", err)
		}
		halls = append(halls, hall)
	}

	return halls, rows.Err()
}

func (r *hallRepository) Update(ctx context.Context, hall *entity.TheatreHall) error {
	query := `
		UPDATE theatre_halls
		SET name = $2, rows = $3, seats_in_row = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		hall.ID,
		hall.Name,
		hall.Rows,
		hall.SeatsInRow,
		hall.UpdatedAt,
	)
	if _, dup := database.ConstraintViolation(err); dup {
		return fmt.Errorf("theatre hall %q: %w", hall.Name, domain.ErrAlreadyExists)
	}
	if err != nil {
		r.log.Error("Failed to update theatre hall",
			zap.Error(err),
			zap.String("hall_id", hall.ID.String()),
		)
		return fmt.Errorf("update theatre hall %s: %w", hall.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("theatre hall %s: %w", hall.ID.String(), domain.ErrNotFound)
	}

	return nil
}

// Delete cascades to the hall's performances and their tickets.
func (r *hallRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM theatre_halls WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete theatre hall",
			zap.Error(err),
			zap.String("hall_id", id.String()),
		)
		return fmt.Errorf("delete theatre hall %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("theatre hall %s: %w", id.String(), domain.ErrNotFound)
	}

	r.log.Info("Theatre hall deleted", zap.String("hall_id", id.String()))
	return nil
}
