package adaptor

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"theatre-booking/internal/usecase"
	"theatre-booking/pkg/events"
	"theatre-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const streamKeepAlive = 25 * time.Second

type SeatHandler struct {
	service    usecase.SeatService
	subscriber events.SeatSubscriber
	log        *zap.Logger
}

func NewSeatHandler(service usecase.SeatService, subscriber events.SeatSubscriber, log *zap.Logger) *SeatHandler {
	return &SeatHandler{
		service:    service,
		subscriber: subscriber,
		log:        log.With(zap.String("handler", "seat")),
	}
}

// SeatMap handles GET /api/performances/{id}/seats
func (h *SeatHandler) SeatMap(w http.ResponseWriter, r *http.Request) {
	seatMap, err := h.service.SeatMap(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get seat map")
		return
	}
	utils.ResponseSuccess(w, "Seat map retrieved successfully", seatMap)
}

// StreamSeats handles GET /api/performances/{id}/seats/stream as server-sent
// events: one "snapshot" with the current seat map, then a "seats_taken"
// event for every reservation committed on the performance.
func (h *SeatHandler) StreamSeats(w http.ResponseWriter, r *http.Request) {
	if h.subscriber == nil {
		utils.ResponseJSON(w, http.StatusServiceUnavailable, false, "Live seat updates are disabled", nil, nil)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.ResponseInternalError(w, "Streaming unsupported")
		return
	}

	performanceID := chi.URLParam(r, "id")
	id, err := h.service.Resolve(r.Context(), performanceID)
	if err != nil {
		handleServiceError(w, h.log, err, "resolve performance")
		return
	}

	// subscribe before the snapshot so no reservation falls in between
	updates, cancel, err := h.subscriber.SubscribeSeats(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.log, err, "subscribe seats")
		return
	}
	defer cancel()

	seatMap, err := h.service.SeatMap(r.Context(), id.String())
	if err != nil {
		handleServiceError(w, h.log, err, "get seat map")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	snapshot, err := json.Marshal(seatMap)
	if err != nil {
		h.log.Error("Failed to encode seat map", zap.Error(err))
		return
	}
	writeEvent(w, "snapshot", snapshot)
	flusher.Flush()

	h.log.Debug("Seat stream opened", zap.String("performance_id", performanceID))

	ticker := time.NewTicker(streamKeepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			h.log.Debug("Seat stream closed", zap.String("performance_id", performanceID))
			return
		case payload, ok := <-updates:
			if !ok {
				return
			}
			writeEvent(w, "seats_taken", payload)
			flusher.Flush()
		case <-ticker.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, name string, data []byte) {
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
}
