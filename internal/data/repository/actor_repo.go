package repository

import (
	"context"
	"fmt"

	"theatre-booking/internal/data/entity"
	"theatre-booking/internal/domain"
	"theatre-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ActorRepository interface {
	Create(ctx context.Context, actor *entity.Actor) error
	FindAll(ctx context.Context) ([]*entity.Actor, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Actor, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type actorRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewActorRepository(db database.PgxIface, log *zap.Logger) ActorRepository {
	return &actorRepository{
		db:  db,
		log: log.With(zap.String("repository", "actor")),
	}
}

func (r *actorRepository) Create(ctx context.Context, actor *entity.Actor) error {
	query := `INSERT INTO actors (id, first_name, last_name, created_at) VALUES ($1, $2, $3, $4)`

	if _, err := r.db.Exec(ctx, query, actor.ID, actor.FirstName, actor.LastName, actor.CreatedAt); err != nil {
		r.log.Error("Failed to create actor", zap.Error(err), zap.String("full_name", actor.FullName()))
		return fmt.Errorf("create actor %s: %w", actor.FullName(), err)
	}

	return nil
}

func (r *actorRepository) FindAll(ctx context.Context) ([]*entity.Actor, error) {
	return r.query(ctx, `
		SELECT id, first_name, last_name, created_at
		FROM actors
		ORDER BY last_name, first_name
	`)
}

func (r *actorRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Actor, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.query(ctx, `
		SELECT id, first_name, last_name, created_at
		FROM actors
		WHERE id = ANY($1)
		ORDER BY last_name, first_name
	`, ids)
}

func (r *actorRepository) query(ctx context.Context, query string, args ...any) ([]*entity.Actor, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to query actors", zap.Error(err))
		return nil, fmt.Errorf("query actors: %w", err)
	}
	defer rows.Close()

	var actors []*entity.Actor
	for rows.Next() {
		var actor entity.Actor
		if err := rows.Scan(&actor.ID, &actor.FirstName, &actor.LastName, &actor.CreatedAt); err != nil {
			r.log.Error("Failed to scan actor row", zap.Error(err))
			return nil, fmt.Errorf("scan actor row: %w", err)
		}
		actors = append(actors, &actor)
	}

	return actors, rows.Err()
}

func (r *actorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM actors WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete actor", zap.Error(err), zap.String("actor_id", id.String()))
		return fmt.Errorf("delete actor %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("actor %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
