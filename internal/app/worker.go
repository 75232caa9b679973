package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"dayflow/internal/config"
	"dayflow/internal/messaging/kafka"
	"dayflow/internal/messaging/kafka/producer"
	"dayflow/internal/shared/connection"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RunWorker relays outbox rows to Kafka until SIGINT or SIGTERM.
func RunWorker(cfg *config.Config) error {
	logger := zap.L().Named("app.worker")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	writer, err := connection.ConnectKafkaWithRetry(cfg.Kafka)
	if err != nil {
		return err
	}
	defer writer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worker := producer.NewWorker(
		kafka.NewOutboxRepository(sqlDB),
		writer,
		cfg.Outbox.PollInterval,
		cfg.Outbox.BatchSize,
		logger,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return worker.Run(gctx) })

	err = g.Wait()
	logger.Info("worker shutting down")
	return err
}
