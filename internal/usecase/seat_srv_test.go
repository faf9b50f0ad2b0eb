package usecase

import (
	"context"
	"testing"

	"theatre-booking/internal/domain"
	"theatre-booking/internal/dto/response"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSeatMap(t *testing.T) {
	f := newReservationFixture(t)
	ctx := context.Background()

	_, err := f.service.CreateReservation(ctx, f.user, f.tickets([2]int{2, 5}, [2]int{1, 4}))
	require.NoError(t, err)

	seatMap, err := f.seats.SeatMap(ctx, f.perf.String())

	require.NoError(t, err)
	assert.Equal(t, 25, seatMap.Capacity)
	assert.Equal(t, 23, seatMap.TicketsAvailable)
	assert.Equal(t, []response.SeatResponse{{Row: 1, Seat: 4}, {Row: 2, Seat: 5}}, seatMap.TakenPlaces)
}

func TestSeatMap_UnknownPerformance(t *testing.T) {
	svc := NewSeatService(newMemStore().repository(), zap.NewNop())

	_, err := svc.SeatMap(context.Background(), uuid.NewString())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAvailableCount_NegativeAfterShrink(t *testing.T) {
	f := newReservationFixture(t)
	ctx := context.Background()

	_, err := f.service.CreateReservation(ctx, f.user, f.tickets([2]int{1, 1}, [2]int{1, 2}, [2]int{2, 1}))
	require.NoError(t, err)

	// geometry edited behind the service's back
	f.store.mu.Lock()
	for _, h := range f.store.halls {
		h.Rows, h.SeatsInRow = 1, 1
	}
	f.store.mu.Unlock()

	n, err := f.seats.AvailableCount(ctx, f.perf)
	require.NoError(t, err)
	assert.Equal(t, -2, n)
}


func TestResolve(t *testing.T) {
	f := newReservationFixture(t)
	ctx := context.Background()

	id, err := f.seats.Resolve(ctx, f.perf.String())
	require.NoError(t, err)
	assert.Equal(t, f.perf, id)

	_, err = f.seats.Resolve(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.seats.Resolve(ctx, "nope")
	var validErr *domain.ValidationError
	assert.ErrorAs(t, err, &validErr)
}
