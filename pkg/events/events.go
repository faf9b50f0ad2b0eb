// Package events broadcasts committed reservations to other processes.
// Publishing happens after the database commit and is best effort: a failed
// publish never undoes a reservation.
package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type SeatClaimed struct {
	PerformanceID uuid.UUID `json:"performance_id"`
	Row           int       `json:"row"`
	Seat          int       `json:"seat"`
}

type ReservationCreated struct {
	ReservationID uuid.UUID     `json:"reservation_id"`
	UserID        uuid.UUID     `json:"user_id"`
	Seats         []SeatClaimed `json:"seats"`
	CreatedAt     time.Time     `json:"created_at"`
}

// SeatsTaken is the per-performance payload pushed to seat-map subscribers.
type SeatsTaken struct {
	PerformanceID uuid.UUID `json:"performance_id"`
	ReservationID uuid.UUID `json:"reservation_id"`
	Seats         [][2]int  `json:"seats"`
}

// ByPerformance splits a reservation into one SeatsTaken per performance,
// keeping the order in which performances first appear.
func (e ReservationCreated) ByPerformance() []SeatsTaken {
	index := make(map[uuid.UUID]int)
	var out []SeatsTaken
	for _, s := range e.Seats {
		i, ok := index[s.PerformanceID]
		if !ok {
			i = len(out)
			index[s.PerformanceID] = i
			out = append(out, SeatsTaken{PerformanceID: s.PerformanceID, ReservationID: e.ReservationID})
		}
		out[i].Seats = append(out[i].Seats, [2]int{s.Row, s.Seat})
	}
	return out
}

type Publisher interface {
	PublishReservationCreated(ctx context.Context, event ReservationCreated) error
	Close() error
}

// SeatSubscriber streams SeatsTaken payloads (raw JSON) for one performance.
// The returned cancel func must be called to release the subscription.
type SeatSubscriber interface {
	SubscribeSeats(ctx context.Context, performanceID uuid.UUID) (<-chan []byte, func(), error)
}

type nopPublisher struct{}

// Nop discards every event.
func Nop() Publisher { return nopPublisher{} }

func (nopPublisher) PublishReservationCreated(context.Context, ReservationCreated) error { return nil }
func (nopPublisher) Close() error                                                     { return nil }

type multiPublisher []Publisher

// Multi fans an event out to every publisher and joins their errors.
func Multi(publishers ...Publisher) Publisher {
	var ps multiPublisher
	for _, p := range publishers {
		if p != nil {
			ps = append(ps, p)
		}
	}
	if len(ps) == 0 {
		return Nop()
	}
	return ps
}

func (m multiPublisher) PublishReservationCreated(ctx context.Context, event ReservationCreated) error {
	var errs []error
	for _, p := range m {
		if err := p.PublishReservationCreated(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m multiPublisher) Close() error {
	var errs []error
	for _, p := range m {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
