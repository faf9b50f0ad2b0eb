package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestFieldErrors(t *testing.T) {
	perf := uuid.New()

	tests := []struct {
		name string
		err  error
		want map[string]string
	}{
		{
			name: "geometry inside ticket",
			err:  &TicketError{Index: 1, Err: &GeometryError{Field: "seat", Value: 9, Min: 1, Max: 5, HallAttr: "seats_in_row"}},
			want: map[string]string{"tickets[1].seat": "seat number must be in available range: (1, seats_in_row): (1, 5)"},
		},
		{
			name: "conflict with index",
			err:  &ConflictError{Index: 0, PerformanceID: perf, Row: 1, Seat: 1},
			want: map[string]string{"tickets[0]": fmt.Sprintf("seat already taken: performance %s, row 1, seat 1", perf)},
		},
		{
			name: "empty batch",
			err:  NewEmptyBatchError(),
			want: map[string]string{"tickets": ErrEmptyBatch.Error()},
		},
		{
			name: "request fields",
			err:  fmt.Errorf("wrapped: %w", &RequestError{Fields: map[string]string{"Name": "This field is required"}}),
			want: map[string]string{"Name": "This field is required"},
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FieldErrors(tt.err))
		})
	}
}

func TestValidationError_Unwrap(t *testing.T) {
	err := fmt.Errorf("create: %w", NewEmptyBatchError())

	assert.ErrorIs(t, err, ErrEmptyBatch)
	assert.Contains(t, err.Error(), "validation failed")
}
