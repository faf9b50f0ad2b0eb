package adaptor

import (
	"net/http"

	"theatre-booking/internal/dto/request"
	"theatre-booking/internal/usecase"
	"theatre-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PlayHandler struct {
	service usecase.PlayService
	log     *zap.Logger
}

func NewPlayHandler(service usecase.PlayService, log *zap.Logger) *PlayHandler {
	return &PlayHandler{
		service: service,
		log:     log.With(zap.String("handler", "play")),
	}
}

// ListPlays handles GET /api/plays?title=&genres=id1,id2&actors=id1&page=1
func (h *PlayHandler) ListPlays(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := request.PlayQuery{
		Title:            query.Get("title"),
		Genres:           query.Get("genres"),
		Actors:           query.Get("actors"),
		PaginatedRequest: pageFromQuery(r),
	}

	plays, err := h.service.ListPlays(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list plays")
		return
	}
	utils.ResponseSuccess(w, "Plays retrieved successfully", plays)
}

// GetPlay handles GET /api/plays/{id}
func (h *PlayHandler) GetPlay(w http.ResponseWriter, r *http.Request) {
	play, err := h.service.GetPlay(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get play")
		return
	}
	utils.ResponseSuccess(w, "Play retrieved successfully", play)
}

// CreatePlay handles POST /api/plays (admin only)
func (h *PlayHandler) CreatePlay(w http.ResponseWriter, r *http.Request) {
	var req request.PlayRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, req) {
		return
	}

	play, err := h.service.CreatePlay(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create play")
		return
	}
	utils.ResponseCreated(w, "Play created successfully", play)
}

// UpdatePlay handles PUT /api/plays/{id} (admin only)
func (h *PlayHandler) UpdatePlay(w http.ResponseWriter, r *http.Request) {
	var req request.PlayRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, req) {
		return
	}

	play, err := h.service.UpdatePlay(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update play")
		return
	}
	utils.ResponseSuccess(w, "Play updated successfully", play)
}
