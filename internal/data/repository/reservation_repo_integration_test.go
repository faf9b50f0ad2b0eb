package repository

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"theatre-booking/internal/data/entity"
	"theatre-booking/internal/domain"
	"theatre-booking/pkg/database"
	"theatre-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Run with INTEGRATION_TEST=true against a disposable database
// described by TEST_DB_HOST, TEST_DB_PORT, TEST_DB_NAME, TEST_DB_USER and TEST_DB_PASSWORD.
func setupTestDB(t *testing.T) database.PgxIface {
	t.Helper()
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run.")
	}

	db, err := database.InitDB(utils.DatabaseConfig{
		Host:     envOr("TEST_DB_HOST", "localhost"),
		Port:     envOr("TEST_DB_PORT", "5432"),
		Name:     envOr("TEST_DB_NAME", "theatre_test"),
		User:     envOr("TEST_DB_USER", "postgres"),
		Password: envOr("TEST_DB_PASSWORD", "postgres"),
		MaxConns: 10,
	})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	schema, err := os.ReadFile("../../../migrations/001_init.sql")
	require.NoError(t, err)
	_, err = db.Exec(context.Background(), string(schema))
	require.NoError(t, err)

	return db
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type seeded struct {
	user        uuid.UUID
	performance uuid.UUID
}

func seed(t *testing.T, db database.PgxIface) seeded {
	t.Helper()
	ctx := context.Background()
	s := seeded{user: uuid.New(), performance: uuid.New()}
	hall, play := uuid.New(), uuid.New()
	suffix := s.user.String()[:8]

	_, err := db.Exec(ctx, `INSERT INTO users (id, username, email, password) VALUES ($1, $2, $3, 'x')`,
		s.user, "it-"+suffix, "it-"+suffix+"@example.com")
	require.NoError(t, err)
	_, err = db.Exec(ctx, `INSERT INTO theatre_halls (id, name, rows, seats_in_row) VALUES ($1, $2, 5, 5)`,
		hall, "Hall "+suffix)
	require.NoError(t, err)
	_, err = db.Exec(ctx, `INSERT INTO plays (id, title) VALUES ($1, $2)`, play, "Play "+suffix)
	require.NoError(t, err)
	_, err = db.Exec(ctx, `INSERT INTO performances (id, play_id, theatre_hall_id, show_time) VALUES ($1, $2, $3, $4)`,
		s.performance, play, hall, time.Now().Add(24*time.Hour))
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = db.Exec(context.Background(), `DELETE FROM plays WHERE id = $1`, play)
		_, _ = db.Exec(context.Background(), `DELETE FROM theatre_halls WHERE id = $1`, hall)
		_, _ = db.Exec(context.Background(), `DELETE FROM users WHERE id = $1`, s.user)
	})
	return s
}

func newBatch(s seeded, seats ...[2]int) (*entity.Reservation, []*entity.Ticket) {
	now := time.Now()
	reservation := &entity.Reservation{BaseSimple: entity.NewBaseSimple(now), UserID: s.user}
	tickets := make([]*entity.Ticket, len(seats))
	for i, seat := range seats {
		tickets[i] = &entity.Ticket{
			BaseSimple:    entity.NewBaseSimple(now),
			Row:           seat[0],
			Seat:          seat[1],
			PerformanceID: s.performance,
		}
	}
	return reservation, tickets
}

func TestReservationRepository_Integration(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db, zap.NewNop())
	ctx := context.Background()

	t.Run("conflict rolls back the whole batch", func(t *testing.T) {
		s := seed(t, db)

		res, tickets := newBatch(s, [2]int{1, 1})
		require.NoError(t, repo.Reservation.CreateWithTickets(ctx, res, tickets))

		res, tickets = newBatch(s, [2]int{1, 2}, [2]int{1, 1})
		err := repo.Reservation.CreateWithTickets(ctx, res, tickets)

		var conflict *domain.ConflictError
		require.True(t, errors.As(err, &conflict))
		assert.Equal(t, 1, conflict.Index)

		taken, err := repo.Ticket.TakenSeats(ctx, s.performance)
		require.NoError(t, err)
		require.Len(t, taken, 1)
		assert.Equal(t, 1, taken[0].Seat)

		total, err := repo.Reservation.CountByUserID(ctx, s.user)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("reused ticket id is a storage failure, not a seat conflict", func(t *testing.T) {
		s := seed(t, db)

		res, tickets := newBatch(s, [2]int{4, 1})
		require.NoError(t, repo.Reservation.CreateWithTickets(ctx, res, tickets))
		usedID := tickets[0].ID

		res, tickets = newBatch(s, [2]int{4, 2})
		tickets[0].ID = usedID
		err := repo.Reservation.CreateWithTickets(ctx, res, tickets)

		require.Error(t, err)
		var conflict *domain.ConflictError
		assert.False(t, errors.As(err, &conflict))
	})

	t.Run("one winner for a contested seat", func(t *testing.T) {
		s := seed(t, db)
		const callers = 6

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			successes int
			conflicts int
		)
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				res, tickets := newBatch(s, [2]int{3, 3})
				err := repo.Reservation.CreateWithTickets(ctx, res, tickets)

				mu.Lock()
				defer mu.Unlock()
				var conflict *domain.ConflictError
				switch {
				case err == nil:
					successes++
				case errors.As(err, &conflict):
					conflicts++
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, successes)
		assert.Equal(t, callers-1, conflicts)

		counts, err := repo.Ticket.CountByPerformances(ctx, []uuid.UUID{s.performance})
		require.NoError(t, err)
		assert.Equal(t, 1, counts[s.performance])
	})

	t.Run("tickets keep submitted order", func(t *testing.T) {
		s := seed(t, db)

		res, tickets := newBatch(s, [2]int{2, 5}, [2]int{2, 1}, [2]int{2, 3})
		require.NoError(t, repo.Reservation.CreateWithTickets(ctx, res, tickets))

		loaded, err := repo.Ticket.FindByReservationIDs(ctx, []uuid.UUID{res.ID})
		require.NoError(t, err)
		require.Len(t, loaded, 3)
		assert.Equal(t, []int{5, 1, 3}, []int{loaded[0].Seat, loaded[1].Seat, loaded[2].Seat})
		assert.Equal(t, []int{0, 1, 2}, []int{loaded[0].Position, loaded[1].Position, loaded[2].Position})
	})
}
