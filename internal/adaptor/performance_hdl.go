package adaptor

import (
	"net/http"

	"theatre-booking/internal/dto/request"
	"theatre-booking/internal/usecase"
	"theatre-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PerformanceHandler struct {
	service usecase.PerformanceService
	log     *zap.Logger
}

func NewPerformanceHandler(service usecase.PerformanceService, log *zap.Logger) *PerformanceHandler {
	return &PerformanceHandler{
		service: service,
		log:     log.With(zap.String("handler", "performance")),
	}
}

// ListPerformances handles GET /api/performances?play=&theatre_hall=&date=YYYY-MM-DD
func (h *PerformanceHandler) ListPerformances(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := request.PerformanceQuery{
		Play:             query.Get("play"),
		Hall:             query.Get("theatre_hall"),
		Date:             query.Get("date"),
		PaginatedRequest: pageFromQuery(r),
	}
	if !validateRequest(w, req) {
		return
	}

	performances, err := h.service.ListPerformances(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list performances")
		return
	}
	utils.ResponseSuccess(w, "Performances retrieved successfully", performances)
}

// GetPerformance handles GET /api/performances/{id}
func (h *PerformanceHandler) GetPerformance(w http.ResponseWriter, r *http.Request) {
	performance, err := h.service.GetPerformance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get performance")
		return
	}
	utils.ResponseSuccess(w, "Performance retrieved successfully", performance)
}

// CreatePerformance handles POST /api/performances (admin only)
func (h *PerformanceHandler) CreatePerformance(w http.ResponseWriter, r *http.Request) {
	var req request.PerformanceRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, req) {
		return
	}

	performance, err := h.service.CreatePerformance(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create performance")
		return
	}
	utils.ResponseCreated(w, "Performance created successfully", performance)
}

// UpdatePerformance handles PUT /api/performances/{id} (admin only)
func (h *PerformanceHandler) UpdatePerformance(w http.ResponseWriter, r *http.Request) {
	var req request.PerformanceRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, req) {
		return
	}

	performance, err := h.service.UpdatePerformance(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update performance")
		return
	}
	utils.ResponseSuccess(w, "Performance updated successfully", performance)
}

// DeletePerformance handles DELETE /api/performances/{id} (admin only)
func (h *PerformanceHandler) DeletePerformance(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeletePerformance(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete performance")
		return
	}
	utils.ResponseSuccess(w, "Performance deleted successfully", nil)
}
