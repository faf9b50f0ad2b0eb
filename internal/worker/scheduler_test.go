package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"theatre-booking/internal/data/entity"
	"theatre-booking/internal/data/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type cleanupSessions struct {
	calls atomic.Int32
	n     int64
	err   error
}

func (s *cleanupSessions) Create(context.Context, *entity.Session) error { return nil }
func (s *cleanupSessions) FindValidSession(context.Context, string) (*entity.Session, error) {
	return nil, nil
}
func (s *cleanupSessions) Revoke(context.Context, string) error                   { return nil }
func (s *cleanupSessions) RevokeAllUserSessions(context.Context, uuid.UUID) error { return nil }
func (s *cleanupSessions) CleanExpiredSessions(ctx context.Context) (int64, error) {
	s.calls.Add(1)
	return s.n, s.err
}

func TestCleanExpiredSessions_Logs(t *testing.T) {
	tests := []struct {
		name    string
		n       int64
		err     error
		wantMsg string
	}{
		{name: "purged", n: 3, wantMsg: "Expired sessions cleaned"},
		{name: "nothing to purge", n: 0},
		{name: "failure", err: errors.New("db down"), wantMsg: "Failed to clean expired sessions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.InfoLevel)
			sessions := &cleanupSessions{n: tt.n, err: tt.err}
			w, err := NewScheduler(&repository.Repository{Session: sessions}, time.Hour, zap.New(core))
			require.NoError(t, err)
			t.Cleanup(func() { _ = w.Shutdown() })

			w.CleanExpiredSessions()

			assert.Equal(t, int32(1), sessions.calls.Load())
			if tt.wantMsg == "" {
				assert.Zero(t, logs.Len())
				return
			}
			assert.Equal(t, 1, logs.FilterMessage(tt.wantMsg).Len())
		})
	}
}

func TestScheduler_RunsJob(t *testing.T) {
	sessions := &cleanupSessions{}
	w, err := NewScheduler(&repository.Repository{Session: sessions}, 20*time.Millisecond, zap.NewNop())
	require.NoError(t, err)

	w.Start()
	assert.Eventually(t, func() bool { return sessions.calls.Load() > 0 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, w.Shutdown())
}
