package adaptor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"theatre-booking/internal/domain"
	"theatre-booking/internal/dto/request"
	"theatre-booking/internal/dto/response"
	"theatre-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockReservationService is a mock implementation of usecase.ReservationService
type MockReservationService struct {
	CreateReservationFunc    func(ctx context.Context, userID uuid.UUID, req *request.CreateReservationRequest) (*response.ReservationResponse, error)
	ListUserReservationsFunc func(ctx context.Context, userID uuid.UUID, req request.PaginatedRequest) (*response.PaginatedResponse[response.ReservationResponse], error)
}

func (m *MockReservationService) CreateReservation(ctx context.Context, userID uuid.UUID, req *request.CreateReservationRequest) (*response.ReservationResponse, error) {
	if m.CreateReservationFunc != nil {
		return m.CreateReservationFunc(ctx, userID, req)
	}
	return nil, nil
}

func (m *MockReservationService) ListUserReservations(ctx context.Context, userID uuid.UUID, req request.PaginatedRequest) (*response.PaginatedResponse[response.ReservationResponse], error) {
	if m.ListUserReservationsFunc != nil {
		return m.ListUserReservationsFunc(ctx, userID, req)
	}
	return nil, nil
}

func authedRequest(method, target string, body []byte, userID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	ctx := utils.WithPrincipal(req.Context(), utils.Principal{UserID: userID, Role: "customer", Token: uuid.NewString()})
	return req.WithContext(ctx)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) utils.Response {
	t.Helper()
	var resp utils.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestReservationHandler_CreateReservation(t *testing.T) {
	userID := uuid.New()
	perf := uuid.New()
	body := []byte(fmt.Sprintf(`{"tickets":[{"performance":%q,"row":1,"seat":1}]}`, perf))

	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
		wantErrKey string
		wantMsg    string
	}{
		{
			name:       "created",
			wantStatus: http.StatusCreated,
		},
		{
			name:       "seat taken",
			serviceErr: &domain.ConflictError{Index: 0, PerformanceID: perf, Row: 1, Seat: 1},
			wantStatus: http.StatusConflict,
			wantErrKey: "tickets[0]",
		},
		{
			name:       "out of range",
			serviceErr: &domain.TicketError{Index: 0, Err: &domain.GeometryError{Field: "row", Value: 9, Min: 1, Max: 5, HallAttr: "rows"}},
			wantStatus: http.StatusBadRequest,
			wantErrKey: "tickets[0].row",
		},
		{
			name:       "empty batch",
			serviceErr: domain.NewEmptyBatchError(),
			wantStatus: http.StatusBadRequest,
			wantErrKey: "tickets",
		},
		{
			name:       "storage failure",
			serviceErr: errors.New("create reservation: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Internal server error",
		},
		{
			name:       "storage failure mentioning invalid",
			serviceErr: fmt.Errorf("create reservation: %w", errors.New(`ERROR: invalid byte sequence for encoding "UTF8": 0x00 (SQLSTATE 22021)`)),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Internal server error",
		},
		{
			name:       "storage failure mentioning not found",
			serviceErr: fmt.Errorf("create reservation: %w", errors.New(`ERROR: relation "tickets" not found`)),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockReservationService{
				CreateReservationFunc: func(ctx context.Context, gotUser uuid.UUID, req *request.CreateReservationRequest) (*response.ReservationResponse, error) {
					assert.Equal(t, userID, gotUser)
					require.Len(t, req.Tickets, 1)
					assert.Equal(t, perf.String(), req.Tickets[0].PerformanceID)
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return &response.ReservationResponse{ID: uuid.NewString()}, nil
				},
			}
			h := NewReservationHandler(svc, zap.NewNop())

			rec := httptest.NewRecorder()
			h.CreateReservation(rec, authedRequest(http.MethodPost, "/api/reservations", body, userID))

			assert.Equal(t, tt.wantStatus, rec.Code)
			resp := decodeEnvelope(t, rec)
			assert.Equal(t, tt.wantStatus < 300, resp.Status)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, resp.Message)
			}
			if tt.wantErrKey != "" {
				errs, ok := resp.Errors.(map[string]any)
				require.True(t, ok, "errors should be an object, got %T", resp.Errors)
				assert.Contains(t, errs, tt.wantErrKey)
			}
		})
	}
}

func TestReservationHandler_CreateReservation_BadBody(t *testing.T) {
	h := NewReservationHandler(&MockReservationService{}, zap.NewNop())

	rec := httptest.NewRecorder()
	h.CreateReservation(rec, authedRequest(http.MethodPost, "/api/reservations", []byte(`{"tickets":`), uuid.New()))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReservationHandler_RequiresPrincipal(t *testing.T) {
	h := NewReservationHandler(&MockReservationService{}, zap.NewNop())

	rec := httptest.NewRecorder()
	h.ListReservations(rec, httptest.NewRequest(http.MethodGet, "/api/reservations", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestReservationHandler_ListReservations_Pagination(t *testing.T) {
	userID := uuid.New()
	svc := &MockReservationService{
		ListUserReservationsFunc: func(ctx context.Context, gotUser uuid.UUID, req request.PaginatedRequest) (*response.PaginatedResponse[response.ReservationResponse], error) {
			assert.Equal(t, userID, gotUser)
			assert.Equal(t, 2, req.Page)
			assert.Equal(t, utils.MaxPerPage, req.PerPage)
			return response.NewPaginatedResponse[response.ReservationResponse](nil, req.Page, req.PerPage, 0), nil
		},
	}
	h := NewReservationHandler(svc, zap.NewNop())

	rec := httptest.NewRecorder()
	h.ListReservations(rec, authedRequest(http.MethodGet, "/api/reservations?page=2&per_page=500", nil, userID))

	assert.Equal(t, http.StatusOK, rec.Code)
}
