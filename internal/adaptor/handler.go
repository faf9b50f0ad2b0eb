package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"theatre-booking/internal/domain"
	"theatre-booking/internal/usecase"
	"theatre-booking/pkg/events"
	"theatre-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth        *AuthHandler
	User        *UserHandler
	Hall        *HallHandler
	Catalog     *CatalogHandler
	Play        *PlayHandler
	Performance *PerformanceHandler
	Seat        *SeatHandler
	Reservation *ReservationHandler
}

// NewHandler builds every handler. subscriber may be nil, which disables the
// live seat stream.
func NewHandler(service *usecase.Service, subscriber events.SeatSubscriber, log *zap.Logger) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(service.Auth, log),
		User:        NewUserHandler(service.User, log),
		Hall:        NewHallHandler(service.Hall, log),
		Catalog:     NewCatalogHandler(service.Catalog, log),
		Play:        NewPlayHandler(service.Play, log),
		Performance: NewPerformanceHandler(service.Performance, log),
		Seat:        NewSeatHandler(service.Seat, subscriber, log),
		Reservation: NewReservationHandler(service.Reservation, log),
	}
}

// decodeJSON reads the request body into dst and answers 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

// validateRequest answers 400 with field messages when dst fails its tags.
func validateRequest(w http.ResponseWriter, dst any) bool {
	if validationErrors := utils.ValidateStruct(dst); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return false
	}
	return true
}

// handleServiceError maps service errors onto HTTP statuses. Anything that
// is not a domain error is answered with an opaque 500.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var (
		conflictErr *domain.ConflictError
		geomErr     *domain.GeometryError
		ticketErr   *domain.TicketError
		validErr    *domain.ValidationError
		requestErr  *domain.RequestError
	)

	switch {
	case errors.As(err, &conflictErr):
		log.Info(operation+" failed - seat taken", zap.Error(err))
		utils.ResponseConflict(w, conflictErr.Error(), domain.FieldErrors(err))

	case errors.As(err, &requestErr),
		errors.As(err, &ticketErr),
		errors.As(err, &geomErr),
		errors.As(err, &validErr):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, "Validation failed", domain.FieldErrors(err))

	case errors.Is(err, domain.ErrHallShrink):
		log.Warn(operation+" failed - tickets outside new geometry", zap.Error(err))
		utils.ResponseConflict(w, err.Error(), nil)

	case errors.Is(err, domain.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, domain.ErrAlreadyExists):
		log.Warn(operation+" failed - already exists", zap.Error(err))
		utils.ResponseConflict(w, err.Error(), nil)

	case errors.Is(err, domain.ErrInvalidCredentials):
		log.Warn(operation+" failed - invalid credentials", zap.Error(err))
		utils.ResponseUnauthorized(w, err.Error())

	case errors.Is(err, domain.ErrAccountInactive):
		log.Warn(operation+" failed - account deactivated", zap.Error(err))
		utils.ResponseForbidden(w, err.Error())

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
