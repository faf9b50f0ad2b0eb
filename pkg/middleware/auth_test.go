package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"theatre-booking/internal/data/entity"
	"theatre-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubSessions struct {
	sessions map[string]*entity.Session
}

func (s *stubSessions) Create(ctx context.Context, session *entity.Session) error { return nil }
func (s *stubSessions) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	return s.sessions[token], nil
}
func (s *stubSessions) Revoke(ctx context.Context, token string) error                     { return nil }
func (s *stubSessions) RevokeAllUserSessions(ctx context.Context, userID uuid.UUID) error { return nil }
func (s *stubSessions) CleanExpiredSessions(ctx context.Context) (int64, error)           { return 0, nil }

type stubUsers struct {
	users map[uuid.UUID]*entity.User
}

func (s *stubUsers) Create(ctx context.Context, user *entity.User) error { return nil }
func (s *stubUsers) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return s.users[id], nil
}
func (s *stubUsers) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return nil, nil
}
func (s *stubUsers) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return nil, nil
}
func (s *stubUsers) FindAll(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	return nil, nil
}
func (s *stubUsers) CountAll(ctx context.Context) (int64, error)    { return 0, nil }
func (s *stubUsers) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func TestAuthSessionAndAdminWrites(t *testing.T) {
	now := time.Now()
	customer := &entity.User{Base: entity.NewBase(now), Role: entity.RoleCustomer, IsActive: true}
	admin := &entity.User{Base: entity.NewBase(now), Role: entity.RoleAdmin, IsActive: true}
	inactive := &entity.User{Base: entity.NewBase(now), Role: entity.RoleCustomer, IsActive: false}

	session := func(u *entity.User, expires time.Time) *entity.Session {
		return &entity.Session{BaseSimple: entity.NewBaseSimple(now), UserID: u.ID, Token: uuid.New(), ExpiresAt: expires}
	}
	customerSession := session(customer, now.Add(time.Hour))
	adminSession := session(admin, now.Add(time.Hour))
	inactiveSession := session(inactive, now.Add(time.Hour))
	expiredSession := session(customer, now.Add(-time.Minute))

	sessions := &stubSessions{sessions: map[string]*entity.Session{}}
	for _, s := range []*entity.Session{customerSession, adminSession, inactiveSession, expiredSession} {
		sessions.sessions[s.Token.String()] = s
	}
	users := &stubUsers{users: map[uuid.UUID]*entity.User{customer.ID: customer, admin.ID: admin, inactive.ID: inactive}}

	var gotUser uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = utils.GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	log := zap.NewNop()
	handler := AuthSession(sessions, users, log)(AdminWrites(log)(next))

	tests := []struct {
		name       string
		method     string
		header     string
		wantStatus int
		wantUser   uuid.UUID
	}{
		{name: "missing header", method: http.MethodGet, wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", method: http.MethodGet, header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "not a uuid", method: http.MethodGet, header: "Bearer xyz", wantStatus: http.StatusUnauthorized},
		{name: "unknown token", method: http.MethodGet, header: "Bearer " + uuid.NewString(), wantStatus: http.StatusUnauthorized},
		{name: "expired", method: http.MethodGet, header: "Bearer " + expiredSession.Token.String(), wantStatus: http.StatusUnauthorized},
		{name: "inactive user", method: http.MethodGet, header: "Bearer " + inactiveSession.Token.String(), wantStatus: http.StatusUnauthorized},
		{name: "customer reads", method: http.MethodGet, header: "Bearer " + customerSession.Token.String(), wantStatus: http.StatusNoContent, wantUser: customer.ID},
		{name: "lowercase scheme", method: http.MethodGet, header: "bearer " + customerSession.Token.String(), wantStatus: http.StatusNoContent, wantUser: customer.ID},
		{name: "customer writes", method: http.MethodPost, header: "Bearer " + customerSession.Token.String(), wantStatus: http.StatusForbidden},
		{name: "admin writes", method: http.MethodDelete, header: "Bearer " + adminSession.Token.String(), wantStatus: http.StatusNoContent, wantUser: admin.ID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUser = uuid.Nil
			req := httptest.NewRequest(tt.method, "/api/plays", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantUser, gotUser)
		})
	}
}
