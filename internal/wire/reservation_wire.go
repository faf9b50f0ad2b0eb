package wire

import (
	"theatre-booking/internal/adaptor"
	"theatre-booking/internal/data/repository"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireReservation mounts the checkout routes; any authenticated user may book.
func wireReservation(
	r chi.Router,
	reservationHandler *adaptor.ReservationHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	r.Route("/api/reservations", func(r chi.Router) {
		r.Use(authenticated(repo, log))

		r.Get("/", reservationHandler.ListReservations)
		r.Post("/", reservationHandler.CreateReservation)
	})
}
