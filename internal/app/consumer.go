package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"dayflow/internal/config"
	"dayflow/internal/events"
	"dayflow/internal/messaging/kafka/consumer"
	"dayflow/internal/notification"
	"dayflow/internal/shared/connection"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RunConsumer delivers notifications for leave decisions and new
// employees until SIGINT or SIGTERM.
func RunConsumer(cfg *config.Config) error {
	logger := zap.L().Named("app.consumer")

	if !cfg.Kafka.Enabled() {
		return errKafkaRequired
	}

	mailer := notification.NewLogMailer(cfg.Mail.From, logger)

	leaveReader := connection.NewKafkaReader(cfg.Kafka, events.LeaveDecisionTopic, cfg.Kafka.NotificationGroupID)
	defer leaveReader.Close()
	lifecycleReader := connection.NewKafkaReader(cfg.Kafka, events.EmployeeLifecycleTopic, cfg.Kafka.NotificationGroupID)
	defer lifecycleReader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return consumer.Run(gctx, "leave_decision", leaveReader, notification.LeaveDecisionHandler(mailer), logger)
	})
	g.Go(func() error {
		return consumer.Run(gctx, "employee_lifecycle", lifecycleReader, notification.EmployeeLifecycleHandler(mailer), logger)
	})

	err := g.Wait()
	logger.Info("consumer shutting down")
	return err
}
