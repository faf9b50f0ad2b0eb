package main

import (
	"context"
	"log"
	"time"

	"theatre-booking/cmd"
	"theatre-booking/internal/data/repository"
	"theatre-booking/internal/wire"
	"theatre-booking/internal/worker"
	"theatre-booking/pkg/database"
	"theatre-booking/pkg/events"
	"theatre-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	repos := repository.NewRepository(db, logger)

	publishers, subscriber := initEvents(config, logger)
	publisher := events.Multi(publishers...)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("Failed to close event publishers", zap.Error(err))
		}
	}()

	scheduler, err := worker.NewScheduler(repos, config.Session.CleanupInterval, logger)
	if err != nil {
		logger.Fatal("Failed to create scheduler", zap.Error(err))
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			logger.Warn("Failed to stop scheduler", zap.Error(err))
		}
	}()

	app := wire.Wiring(repos, publisher, subscriber, config, logger)

	if err := cmd.APIServer(app.Router, config.App.Port, config.App.ShutdownTimeout, logger); err != nil {
		logger.Error("Server stopped", zap.Error(err))
	}
}

// initEvents connects the optional brokers. A broker that is configured but
// unreachable is logged and skipped; reservations never depend on it.
func initEvents(config *utils.Config, logger *zap.Logger) ([]events.Publisher, events.SeatSubscriber) {
	var (
		publishers []events.Publisher
		subscriber events.SeatSubscriber
	)

	if config.Redis.Host != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		client, err := events.NewRedisClient(ctx, config.Redis)
		cancel()
		if err != nil {
			logger.Warn("Redis unavailable, live seat updates disabled", zap.Error(err))
		} else {
			redisPublisher := events.NewRedisPublisher(client, logger)
			publishers = append(publishers, redisPublisher)
			subscriber = redisPublisher
			logger.Info("Redis connected", zap.String("addr", config.Redis.Addr()))
		}
	}

	if config.RabbitMQ.URL != "" {
		rabbit, err := events.NewRabbitPublisher(config.RabbitMQ, logger)
		if err != nil {
			logger.Warn("RabbitMQ unavailable, reservation queue disabled", zap.Error(err))
		} else {
			publishers = append(publishers, rabbit)
			logger.Info("RabbitMQ connected", zap.String("queue", config.RabbitMQ.Queue))
		}
	}

	return publishers, subscriber
}
