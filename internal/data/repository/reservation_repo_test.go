package repository

import (
	"errors"
	"fmt"
	"testing"

	"theatre-booking/internal/data/entity"
	"theatre-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeatConflict(t *testing.T) {
	ticket := &entity.Ticket{PerformanceID: uuid.New(), Row: 2, Seat: 7}

	tests := []struct {
		name         string
		err          error
		wantConflict bool
	}{
		{
			name:         "seat constraint",
			err:          &pgconn.PgError{Code: database.UniqueViolation, ConstraintName: seatConstraint},
			wantConflict: true,
		},
		{
			name:         "wrapped seat constraint",
			err:          fmt.Errorf("exec batch: %w", &pgconn.PgError{Code: database.UniqueViolation, ConstraintName: seatConstraint}),
			wantConflict: true,
		},
		{
			name: "primary key collision",
			err:  &pgconn.PgError{Code: database.UniqueViolation, ConstraintName: "tickets_pkey"},
		},
		{
			name: "foreign key",
			err:  &pgconn.PgError{Code: "23503", ConstraintName: "tickets_performance_id_fkey"},
		},
		{
			name: "not a postgres error",
			err:  errors.New("connection reset by peer"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conflict := seatConflict(tt.err, 3, ticket)

			if !tt.wantConflict {
				assert.Nil(t, conflict)
				return
			}
			require.NotNil(t, conflict)
			assert.Equal(t, 3, conflict.Index)
			assert.Equal(t, ticket.PerformanceID, conflict.PerformanceID)
			assert.Equal(t, 2, conflict.Row)
			assert.Equal(t, 7, conflict.Seat)
		})
	}
}
