package wire

import (
	"theatre-booking/internal/adaptor"
	"theatre-booking/internal/data/repository"
	"theatre-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireCatalog mounts genres, actors, theatre halls and plays. Reads need a
// session, writes need the admin role.
func wireCatalog(
	r chi.Router,
	handler *adaptor.Handler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticated(repo, log))
		r.Use(middleware.AdminWrites(log))

		r.Route("/api/genres", func(r chi.Router) {
			r.Get("/", handler.Catalog.ListGenres)
			r.Post("/", handler.Catalog.CreateGenre)
			r.Delete("/{id}", handler.Catalog.DeleteGenre)
		})

		r.Route("/api/actors", func(r chi.Router) {
			r.Get("/", handler.Catalog.ListActors)
			r.Post("/", handler.Catalog.CreateActor)
			r.Delete("/{id}", handler.Catalog.DeleteActor)
		})

		r.Route("/api/theatre-halls", func(r chi.Router) {
			r.Get("/", handler.Hall.ListHalls)
			r.Post("/", handler.Hall.CreateHall)
			r.Get("/{id}", handler.Hall.GetHall)
			r.Put("/{id}", handler.Hall.UpdateHall)
			r.Delete("/{id}", handler.Hall.DeleteHall)
		})

		// plays cannot be deleted
		r.Route("/api/plays", func(r chi.Router) {
			r.Get("/", handler.Play.ListPlays)
			r.Post("/", handler.Play.CreatePlay)
			r.Get("/{id}", handler.Play.GetPlay)
			r.Put("/{id}", handler.Play.UpdatePlay)
		})
	})
}
