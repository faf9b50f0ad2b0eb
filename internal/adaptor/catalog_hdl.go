package adaptor

import (
	"net/http"

	"theatre-booking/internal/dto/request"
	"theatre-booking/internal/usecase"
	"theatre-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CatalogHandler serves genres and actors.
type CatalogHandler struct {
	service usecase.CatalogService
	log     *zap.Logger
}

func NewCatalogHandler(service usecase.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		log:     log.With(zap.String("handler", "catalog")),
	}
}

// ListGenres handles GET /api/genres
func (h *CatalogHandler) ListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.service.ListGenres(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list genres")
		return
	}
	utils.ResponseSuccess(w, "Genres retrieved successfully", genres)
}

// CreateGenre handles POST /api/genres (admin only)
func (h *CatalogHandler) CreateGenre(w http.ResponseWriter, r *http.Request) {
	var req request.GenreRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, req) {
		return
	}

	genre, err := h.service.CreateGenre(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create genre")
		return
	}
	utils.ResponseCreated(w, "Genre created successfully", genre)
}

// DeleteGenre handles DELETE /api/genres/{id} (admin only)
func (h *CatalogHandler) DeleteGenre(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteGenre(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete genre")
		return
	}
	utils.ResponseSuccess(w, "Genre deleted successfully", nil)
}

// ListActors handles GET /api/actors
func (h *CatalogHandler) ListActors(w http.ResponseWriter, r *http.Request) {
	actors, err := h.service.ListActors(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list actors")
		return
	}
	utils.ResponseSuccess(w, "Actors retrieved successfully", actors)
}

// CreateActor handles POST /api/actors (admin only)
func (h *CatalogHandler) CreateActor(w http.ResponseWriter, r *http.Request) {
	var req request.ActorRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, req) {
		return
	}

	actor, err := h.service.CreateActor(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create actor")
		return
	}
	utils.ResponseCreated(w, "Actor created successfully", actor)
}

// DeleteActor handles DELETE /api/actors/{id} (admin only)
func (h *CatalogHandler) DeleteActor(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteActor(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete actor")
		return
	}
	utils.ResponseSuccess(w, "Actor deleted successfully", nil)
}
