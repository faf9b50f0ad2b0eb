package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"theatre-booking/internal/data/entity"
	"theatre-booking/internal/data/repository"
	"theatre-booking/internal/domain"
	"theatre-booking/pkg/events"

	"github.com/google/uuid"
)

type seatKey struct {
	performance uuid.UUID
	row, seat   int
}

// memStore is an in-memory stand-in for Postgres. Its seats map plays the
// role of the unique (performance, row, seat) constraint and every write
// holds mu, so a batch is applied entirely or not at all.
type memStore struct {
	mu           sync.Mutex
	halls        map[uuid.UUID]*entity.TheatreHall
	plays        map[uuid.UUID]*entity.Play
	performances map[uuid.UUID]*entity.Performance
	reservations map[uuid.UUID]*entity.Reservation
	tickets      []*entity.Ticket
	seats        map[seatKey]struct{}

	// failWrite makes the next CreateWithTickets fail after validation.
	failWrite error
}

func newMemStore() *memStore {
	return &memStore{
		halls:        make(map[uuid.UUID]*entity.TheatreHall),
		plays:        make(map[uuid.UUID]*entity.Play),
		performances: make(map[uuid.UUID]*entity.Performance),
		reservations: make(map[uuid.UUID]*entity.Reservation),
		seats:        make(map[seatKey]struct{}),
	}
}

func (s *memStore) repository() *repository.Repository {
	return &repository.Repository{
		Hall:        memHalls{s},
		Play:        memPlays{s},
		Performance: memPerformances{s},
		Ticket:      memTickets{s},
		Reservation: memReservations{s},
	}
}

func (s *memStore) addHall(rows, seats int) *entity.TheatreHall {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := &entity.TheatreHall{Base: entity.Base{ID: uuid.New()}, Name: fmt.Sprintf("Hall %dx%d", rows, seats), Rows: rows, SeatsInRow: seats}
	s.halls[h.ID] = h
	return h
}

func (s *memStore) addPlay(title string) *entity.Play {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &entity.Play{Base: entity.Base{ID: uuid.New()}, Title: title}
	s.plays[p.ID] = p
	return p
}

func (s *memStore) addPerformance(h *entity.TheatreHall) *entity.Performance {
	return s.addShow(h, s.addPlay("Hamlet"), time.Date(2030, 5, 1, 19, 0, 0, 0, time.UTC))
}

func (s *memStore) addShow(h *entity.TheatreHall, play *entity.Play, showTime time.Time) *entity.Performance {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &entity.Performance{Base: entity.Base{ID: uuid.New()}, PlayID: play.ID, TheatreHallID: h.ID, ShowTime: showTime}
	s.performances[p.ID] = p
	return p
}

// sell records sold seats directly, bypassing the reservation flow.
func (s *memStore) sell(performanceID uuid.UUID, seats ...[2]int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reservation := &entity.Reservation{BaseSimple: entity.BaseSimple{ID: uuid.New()}}
	s.reservations[reservation.ID] = reservation
	for _, seat := range seats {
		s.seats[seatKey{performanceID, seat[0], seat[1]}] = struct{}{}
		s.tickets = append(s.tickets, &entity.Ticket{
			BaseSimple:    entity.BaseSimple{ID: uuid.New()},
			Row:           seat[0],
			Seat:          seat[1],
			PerformanceID: performanceID,
			ReservationID: reservation.ID,
		})
	}
}

func (s *memStore) counts() (reservations, tickets int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reservations), len(s.tickets)
}

func (s *memStore) soldLocked(performanceID uuid.UUID) int {
	n := 0
	for _, t := range s.tickets {
		if t.PerformanceID == performanceID {
			n++
		}
	}
	return n
}

func (s *memStore) viewLocked(p *entity.Performance) *entity.PerformanceView {
	return &entity.PerformanceView{
		Performance: *p,
		PlayTitle:   s.plays[p.PlayID].Title,
		Hall:        *s.halls[p.TheatreHallID],
		TicketsSold: s.soldLocked(p.ID),
	}
}

type memHalls struct{ s *memStore }

func (m memHalls) Create(ctx context.Context, hall *entity.TheatreHall) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.halls[hall.ID] = hall
	return nil
}

func (m memHalls) FindByID(ctx context.Context, id uuid.UUID) (*entity.TheatreHall, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	h, ok := m.s.halls[id]
	if !ok {
		return nil, nil
	}
	cp := *h
	return &cp, nil
}

func (m memHalls) FindAll(ctx context.Context) ([]*entity.TheatreHall, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []*entity.TheatreHall
	for _, h := range m.s.halls {
		out = append(out, h)
	}
	return out, nil
}

func (m memHalls) Update(ctx context.Context, hall *entity.TheatreHall) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.halls[hall.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *hall
	m.s.halls[hall.ID] = &cp
	return nil
}

func (m memHalls) Delete(ctx context.Context, id uuid.UUID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	delete(m.s.halls, id)
	return nil
}

type memPerformances struct{ s *memStore }

func (m memPerformances) Create(ctx context.Context, p *entity.Performance) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.performances[p.ID] = p
	return nil
}

func (m memPerformances) Update(ctx context.Context, p *entity.Performance) error {
	return m.Create(ctx, p)
}

func (m memPerformances) Delete(ctx context.Context, id uuid.UUID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	delete(m.s.performances, id)
	return nil
}

func (m memPerformances) FindByID(ctx context.Context, id uuid.UUID) (*entity.PerformanceView, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	p, ok := m.s.performances[id]
	if !ok {
		return nil, nil
	}
	return m.s.viewLocked(p), nil
}

func (m memPerformances) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.PerformanceView, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := make(map[uuid.UUID]*entity.PerformanceView, len(ids))
	for _, id := range ids {
		if p, ok := m.s.performances[id]; ok {
			out[id] = m.s.viewLocked(p)
		}
	}
	return out, nil
}

func matchesFilter(p *entity.Performance, f repository.PerformanceFilter) bool {
	if f.PlayID != nil && p.PlayID != *f.PlayID {
		return false
	}
	if f.HallID != nil && p.TheatreHallID != *f.HallID {
		return false
	}
	if f.Date != nil && p.ShowTime.Format(time.DateOnly) != f.Date.Format(time.DateOnly) {
		return false
	}
	return true
}

func (m memPerformances) List(ctx context.Context, filter repository.PerformanceFilter, limit, offset int) ([]*entity.PerformanceView, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []*entity.PerformanceView
	for _, p := range m.s.performances {
		if matchesFilter(p, filter) {
			out = append(out, m.s.viewLocked(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ShowTime.After(out[j].ShowTime) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m memPerformances) Count(ctx context.Context, filter repository.PerformanceFilter) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var n int64
	for _, p := range m.s.performances {
		if matchesFilter(p, filter) {
			n++
		}
	}
	return n, nil
}

type memPlays struct{ s *memStore }

func (m memPlays) Create(ctx context.Context, play *entity.Play) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.plays[play.ID] = play
	return nil
}

func (m memPlays) Update(ctx context.Context, play *entity.Play) error {
	return m.Create(ctx, play)
}

func (m memPlays) FindByID(ctx context.Context, id uuid.UUID) (*entity.Play, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	p, ok := m.s.plays[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m memPlays) List(ctx context.Context, filter repository.PlayFilter, limit, offset int) ([]*entity.Play, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []*entity.Play
	for _, p := range m.s.plays {
		out = append(out, p)
	}
	return out, nil
}

func (m memPlays) Count(ctx context.Context, filter repository.PlayFilter) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return int64(len(m.s.plays)), nil
}

type memTickets struct{ s *memStore }

func (m memTickets) TakenSeats(ctx context.Context, performanceID uuid.UUID) ([]*entity.Ticket, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []*entity.Ticket
	for _, t := range m.s.tickets {
		if t.PerformanceID == performanceID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Seat < out[j].Seat
	})
	return out, nil
}

func (m memTickets) CountByPerformances(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := make(map[uuid.UUID]int, len(ids))
	for _, id := range ids {
		out[id] = m.s.soldLocked(id)
	}
	return out, nil
}

func (m memTickets) FindByReservationIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Ticket, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []*entity.Ticket
	for _, t := range m.s.tickets {
		if want[t.ReservationID] {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m memTickets) CountOutsideGeometry(ctx context.Context, hallID uuid.UUID, rows, seatsInRow int) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	n := 0
	for _, t := range m.s.tickets {
		p := m.s.performances[t.PerformanceID]
		if p == nil || p.TheatreHallID != hallID {
			continue
		}
		if t.Row > rows || t.Seat > seatsInRow {
			n++
		}
	}
	return n, nil
}

type memReservations struct{ s *memStore }

func (m memReservations) CreateWithTickets(ctx context.Context, reservation *entity.Reservation, tickets []*entity.Ticket) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if m.s.failWrite != nil {
		err := m.s.failWrite
		m.s.failWrite = nil
		return err
	}

	pending := make(map[seatKey]struct{}, len(tickets))
	for i, t := range tickets {
		k := seatKey{t.PerformanceID, t.Row, t.Seat}
		_, sold := m.s.seats[k]
		_, dup := pending[k]
		if sold || dup {
			return &domain.ConflictError{Index: i, PerformanceID: t.PerformanceID, Row: t.Row, Seat: t.Seat}
		}
		pending[k] = struct{}{}
	}

	m.s.reservations[reservation.ID] = reservation
	for k := range pending {
		m.s.seats[k] = struct{}{}
	}
	for i, t := range tickets {
		t.Position = i
		t.ReservationID = reservation.ID
		m.s.tickets = append(m.s.tickets, t)
	}
	return nil
}

func (m memReservations) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Reservation, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []*entity.Reservation
	for _, r := range m.s.reservations {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m memReservations) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	rs, _ := m.FindByUserID(ctx, userID, 0, 0)
	return int64(len(rs)), nil
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.ReservationCreated
	err    error
}

func (p *recordingPublisher) PublishReservationCreated(ctx context.Context, event events.ReservationCreated) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() []events.ReservationCreated {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.ReservationCreated(nil), p.events...)
}

var errStorage = errors.New("connection reset by peer")
