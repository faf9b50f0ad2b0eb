package adaptor

import (
	"net/http"

	"theatre-booking/internal/dto/request"
	"theatre-booking/internal/usecase"
	"theatre-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type HallHandler struct {
	service usecase.HallService
	log     *zap.Logger
}

func NewHallHandler(service usecase.HallService, log *zap.Logger) *HallHandler {
	return &HallHandler{
		service: service,
		log:     log.With(zap.String("handler", "theatre_hall")),
	}
}

// ListHalls handles GET /api/theatre-halls
func (h *HallHandler) ListHalls(w http.ResponseWriter, r *http.Request) {
	halls, err := h.service.ListHalls(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list theatre halls")
		return
	}
	utils.ResponseSuccess(w, "Theatre halls retrieved successfully", halls)
}

// GetHall handles GET /api/theatre-halls/{id}
func (h *HallHandler) GetHall(w http.ResponseWriter, r *http.Request) {
	hall, err := h.service.GetHall(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get theatre hall")
		return
	}
	utils.ResponseSuccess(w, "Theatre hall retrieved successfully", hall)
}

// CreateHall handles POST /api/theatre-halls (admin only)
func (h *HallHandler) CreateHall(w http.ResponseWriter, r *http.Request) {
	var req request.TheatreHallRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, req) {
		return
	}

	hall, err := h.service.CreateHall(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create theatre hall")
		return
	}
	utils.ResponseCreated(w, "Theatre hall created successfully", hall)
}

// UpdateHall handles PUT /api/theatre-halls/{id} (admin only)
func (h *HallHandler) UpdateHall(w http.ResponseWriter, r *http.Request) {
	var req request.TheatreHallRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, req) {
		return
	}

	hall, err := h.service.UpdateHall(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update theatre hall")
		return
	}
	utils.ResponseSuccess(w, "Theatre hall updated successfully", hall)
}

// DeleteHall handles DELETE /api/theatre-halls/{id} (admin only)
func (h *HallHandler) DeleteHall(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteHall(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete theatre hall")
		return
	}
	utils.ResponseSuccess(w, "Theatre hall deleted successfully", nil)
}
