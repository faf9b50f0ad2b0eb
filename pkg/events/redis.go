package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"theatre-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SeatChannel is the pub/sub channel carrying seat updates of one performance.
func SeatChannel(performanceID uuid.UUID) string {
	return fmt.Sprintf("performance:%s:seats", performanceID)
}

// NewRedisClient connects and pings; callers treat an error as "feature disabled".
func NewRedisClient(ctx context.Context, cfg utils.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr(), err)
	}
	return client, nil
}

type RedisPublisher struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisPublisher(client *redis.Client, log *zap.Logger) *RedisPublisher {
	return &RedisPublisher{
		client: client,
		log:    log.With(zap.String("publisher", "redis")),
	}
}

func (p *RedisPublisher) PublishReservationCreated(ctx context.Context, event ReservationCreated) error {
	for _, taken := range event.ByPerformance() {
		body, err := json.Marshal(taken)
		if err != nil {
			return fmt.Errorf("marshal seats taken: %w", err)
		}
		channel := SeatChannel(taken.PerformanceID)
		if err := p.client.Publish(ctx, channel, body).Err(); err != nil {
			return fmt.Errorf("publish %s: %w", channel, err)
		}
		p.log.Debug("Seat update published",
			zap.String("channel", channel),
			zap.Int("seats", len(taken.Seats)))
	}
	return nil
}

func (p *RedisPublisher) SubscribeSeats(ctx context.Context, performanceID uuid.UUID) (<-chan []byte, func(), error) {
	pubsub := p.client.Subscribe(ctx, SeatChannel(performanceID))
	// Receive blocks until the subscription is confirmed.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, fmt.Errorf("subscribe %s: %w", SeatChannel(performanceID), err)
	}

	out := make(chan []byte)
	done := make(chan struct{})
	go func() {
		defer close(out)
		msgs := pubsub.Channel()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-done:
					return
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	cancel := func() {
		close(done)
		_ = pubsub.Close()
	}
	return out, cancel, nil
}

// Close releases the underlying client.
func (p *RedisPublisher) Close() error { return p.client.Close() }
