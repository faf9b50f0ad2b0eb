// Package worker runs periodic housekeeping next to the HTTP server.
package worker

import (
	"context"
	"fmt"
	"time"

	"theatre-booking/internal/data/repository"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

const cleanupTimeout = 30 * time.Second

type Scheduler struct {
	scheduler gocron.Scheduler
	repo      *repository.Repository
	log       *zap.Logger
}

// NewScheduler registers the session cleanup job. Call Start to run it.
func NewScheduler(repo *repository.Repository, cleanupInterval time.Duration, log *zap.Logger) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	w := &Scheduler{
		scheduler: s,
		repo:      repo,
		log:       log.With(zap.String("worker", "scheduler")),
	}

	if _, err := s.NewJob(
		gocron.DurationJob(cleanupInterval),
		gocron.NewTask(w.CleanExpiredSessions),
		gocron.WithName("clean-expired-sessions"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	); err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("register session cleanup: %w", err)
	}

	return w, nil
}

func (w *Scheduler) Start() {
	w.scheduler.Start()
	w.log.Info("Scheduler started")
}

func (w *Scheduler) Shutdown() error {
	return w.scheduler.Shutdown()
}

// CleanExpiredSessions purges sessions expired or revoked over a week ago.
func (w *Scheduler) CleanExpiredSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()

	n, err := w.repo.Session.CleanExpiredSessions(ctx)
	if err != nil {
		w.log.Error("Failed to clean expired sessions", zap.Error(err))
		return
	}
	if n > 0 {
		w.log.Info("Expired sessions cleaned", zap.Int64("count", n))
	}
}
