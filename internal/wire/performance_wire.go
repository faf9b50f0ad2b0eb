package wire

import (
	"theatre-booking/internal/adaptor"
	"theatre-booking/internal/data/repository"
	"theatre-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wirePerformance(
	r chi.Router,
	performanceHandler *adaptor.PerformanceHandler,
	seatHandler *adaptor.SeatHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	r.Route("/api/performances", func(r chi.Router) {
		r.Use(authenticated(repo, log))
		r.Use(middleware.AdminWrites(log))

		r.Get("/", performanceHandler.ListPerformances)   // ?play=&theatre_hall=&date=YYYY-MM-DD
		r.Post("/", performanceHandler.CreatePerformance) // admin
		r.Get("/{id}", performanceHandler.GetPerformance)
		r.Put("/{id}", performanceHandler.UpdatePerformance)    // admin
		r.Delete("/{id}", performanceHandler.DeletePerformance) // admin

		r.Get("/{id}/seats", seatHandler.SeatMap)
		r.Get("/{id}/seats/stream", seatHandler.StreamSeats)
	})
}
