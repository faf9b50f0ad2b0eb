package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"theatre-booking/internal/data/entity"
	"theatre-booking/internal/domain"
	"theatre-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// PlayFilter narrows the play listing. Genre and actor filters match plays
// tagged with any of the given ids.
type PlayFilter struct {
	Title    string
	GenreIDs []uuid.UUID
	ActorIDs []uuid.UUID
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (f PlayFilter) where() (string, []any) {
	var conds []string
	var args []any

	if f.Title != "" {
		args = append(args, "%"+likeEscaper.Replace(f.Title)+"%")
		conds = append(conds, fmt.Sprintf("p.title ILIKE $%d", len(args)))
	}
	if len(f.GenreIDs) > 0 {
		args = append(args, f.GenreIDs)
		conds = append(conds, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM play_genres pg WHERE pg.play_id = p.id AND pg.genre_id = ANY($%d))", len(args)))
	}
	if len(f.ActorIDs) > 0 {
		args = append(args, f.ActorIDs)
		conds = append(conds, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM play_actors pa WHERE pa.play_id = p.id AND pa.actor_id = ANY($%d))", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type PlayRepository interface {
	// Create and Update persist the play together with the ids in
	// play.Actors and play.Genres.
	Create(ctx context.Context, play *entity.Play) error
	Update(ctx context.Context, play *entity.Play) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Play, error)
	List(ctx context.Context, filter PlayFilter, limit, offset int) ([]*entity.Play, error)
	Count(ctx context.Context, filter PlayFilter) (int64, error)
}

type playRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPlayRepository(db database.PgxIface, log *zap.Logger) PlayRepository {
	return &playRepository{
		db:  db,
		log: log.With(zap.String("repository", "play")),
	}
}

func (r *playRepository) Create(ctx context.Context, play *entity.Play) error {
	return r.write(ctx, play, `
		INSERT INTO plays (id, title, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, play.ID, play.Title, play.Description, play.CreatedAt, play.UpdatedAt)
}

func (r *playRepository) Update(ctx context.Context, play *entity.Play) error {
	return r.write(ctx, play, `
		UPDATE plays SET title = $2, description = $3, updated_at = $4
		WHERE id = $1
	`, play.ID, play.Title, play.Description, play.UpdatedAt)
}

// write runs the play statement and rewrites both association sets in one
// transaction.
func (r *playRepository) write(ctx context.Context, play *entity.Play, stmt string, args ...any) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin play tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, stmt, args...)
	if _, dup := database.ConstraintViolation(err); dup {
		return fmt.Errorf("play %q: %w", play.Title, domain.ErrAlreadyExists)
	}
	if err != nil {
		r.log.Error("Failed to write play", zap.Error(err), zap.String("title", play.Title))
		return fmt.Errorf("write play %s: %w", play.Title, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("play %s: %w", play.ID, domain.ErrNotFound)
	}

	actorIDs := make([]uuid.UUID, len(play.Actors))
	for i, a := range play.Actors {
		actorIDs[i] = a.ID
	}
	genreIDs := make([]uuid.UUID, len(play.Genres))
	for i, g := range play.Genres {
		genreIDs[i] = g.ID
	}

	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM play_actors WHERE play_id = $1`, play.ID)
	batch.Queue(`DELETE FROM play_genres WHERE play_id = $1`, play.ID)
	batch.Queue(`
		INSERT INTO play_actors (play_id, actor_id)
		SELECT $1, unnest($2::uuid[])
		ON CONFLICT DO NOTHING
	`, play.ID, actorIDs)
	batch.Queue(`
		INSERT INTO play_genres (play_id, genre_id)
		SELECT $1, unnest($2::uuid[])
		ON CONFLICT DO NOTHING
	`, play.ID, genreIDs)

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		r.log.Error("Failed to write play associations", zap.Error(err), zap.String("play_id", play.ID.String()))
		return fmt.Errorf("write play %s associations: %w", play.ID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit play %s: %w", play.ID, err)
	}
	return nil
}

func (r *playRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Play, error) {
	query := `SELECT id, title, description, created_at, updated_at FROM plays WHERE id = $1`

	var play entity.Play
	err := r.db.QueryRow(ctx, query, id).Scan(
		&play.ID,
		&play.Title,
		&play.Description,
		&play.CreatedAt,
		&play.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find play by ID", zap.Error(err), zap.String("play_id", id.String()))
		return nil, fmt.Errorf("find play by ID %s: %w", id, err)
	}

	if err := r.loadAssociations(ctx, []*entity.Play{&play}); err != nil {
		return nil, err
	}
	return &play, nil
}

func (r *playRepository) List(ctx context.Context, filter PlayFilter, limit, offset int) ([]*entity.Play, error) {
	where, args := filter.where()
	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT p.id, p.title, p.description, p.created_at, p.updated_at
		FROM plays p%s
		ORDER BY p.title
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list plays", zap.Error(err))
		return nil, fmt.Errorf("list plays: %w", err)
	}
	defer rows.Close()

	var plays []*entity.Play
	for rows.Next() {
		var play entity.Play
		if err := rows.Scan(&play.ID, &play.Title, &play.Description, &play.CreatedAt, &play.UpdatedAt); err != nil {
			r.log.Error("Failed to scan play row", zap.Error(err))
			return nil, fmt.Errorf("scan play row: %w", err)
		}
		plays = append(plays, &play)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate play rows: %w", err)
	}

	if err := r.loadAssociations(ctx, plays); err != nil {
		return nil, err
	}
	return plays, nil
}

func (r *playRepository) Count(ctx context.Context, filter PlayFilter) (int64, error) {
	where, args := filter.where()

	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM plays p`+where, args...).Scan(&count); err != nil {
		r.log.Error("Failed to count plays", zap.Error(err))
		return 0, fmt.Errorf("count plays: %w", err)
	}
	return count, nil
}

// loadAssociations fills Actors and Genres for every play with two queries.
func (r *playRepository) loadAssociations(ctx context.Context, plays []*entity.Play) error {
	if len(plays) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*entity.Play, len(plays))
	ids := make([]uuid.UUID, len(plays))
	for i, p := range plays {
		byID[p.ID] = p
		ids[i] = p.ID
	}

	actorRows, err := r.db.Query(ctx, `
		SELECT pa.play_id, a.id, a.first_name, a.last_name, a.created_at
		FROM play_actors pa
		JOIN actors a ON a.id = pa.actor_id
		WHERE pa.play_id = ANY($1)
		ORDER BY a.last_name, a.first_name
	`, ids)
	if err != nil {
		return fmt.Errorf("load play actors: %w", err)
	}
	defer actorRows.Close()

	for actorRows.Next() {
		var playID uuid.UUID
		var actor entity.Actor
		if err := actorRows.Scan(&playID, &actor.ID, &actor.FirstName, &actor.LastName, &actor.CreatedAt); err != nil {
			return fmt.Errorf("scan play actor row: %w", err)
		}
		byID[playID].Actors = append(byID[playID].Actors, &actor)
	}
	if err := actorRows.Err(); err != nil {
		return fmt.Errorf("iterate play actors: %w", err)
	}

	genreRows, err := r.db.Query(ctx, `
		SELECT pg.play_id, g.id, g.name, g.created_at
		FROM play_genres pg
		JOIN genres g ON g.id = pg.genre_id
		WHERE pg.play_id = ANY($1)
		ORDER BY g.name
	`, ids)
	if err != nil {
		return fmt.Errorf("load play genres: %w", err)
	}
	defer genreRows.Close()

	for genreRows.Next() {
		var playID uuid.UUID
		var genre entity.Genre
		if err := genreRows.Scan(&playID, &genre.ID, &genre.Name, &genre.CreatedAt); err != nil {
			return fmt.Errorf("scan play genre row: %w", err)
		}
		byID[playID].Genres = append(byID[playID].Genres, &genre)
	}
	return genreRows.Err()
}
