package events

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReservationCreated_ByPerformance(t *testing.T) {
	p1, p2 := uuid.New(), uuid.New()
	ev := ReservationCreated{
		ReservationID: uuid.New(),
		Seats: []SeatClaimed{
			{PerformanceID: p2, Row: 1, Seat: 1},
			{PerformanceID: p1, Row: 2, Seat: 3},
			{PerformanceID: p2, Row: 1, Seat: 2},
		},
	}

	got := ev.ByPerformance()

	require.Len(t, got, 2)
	assert.Equal(t, p2, got[0].PerformanceID)
	assert.Equal(t, [][2]int{{1, 1}, {1, 2}}, got[0].Seats)
	assert.Equal(t, p1, got[1].PerformanceID)
	assert.Equal(t, [][2]int{{2, 3}}, got[1].Seats)
	assert.Equal(t, ev.ReservationID, got[1].ReservationID)
}

type countingPublisher struct {
	calls int
	err   error
}

func (p *countingPublisher) PublishReservationCreated(context.Context, ReservationCreated) error {
	p.calls++
	return p.err
}

func (p *countingPublisher) Close() error { return p.err }

func TestMulti(t *testing.T) {
	ok := &countingPublisher{}
	failing := &countingPublisher{err: errors.New("broker down")}

	m := Multi(ok, nil, failing)
	err := m.PublishReservationCreated(context.Background(), ReservationCreated{})

	assert.ErrorIs(t, err, failing.err)
	assert.Equal(t, 1, ok.calls)
	assert.Equal(t, 1, failing.calls)
	assert.ErrorIs(t, m.Close(), failing.err)
}

func TestMulti_EmptyIsNop(t *testing.T) {
	m := Multi()

	assert.NoError(t, m.PublishReservationCreated(context.Background(), ReservationCreated{}))
	assert.NoError(t, m.Close())
}
