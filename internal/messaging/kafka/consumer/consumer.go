package consumer

import (
	"context"
	"errors"
	"io"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const fetchRetryDelay = time.Second

// MessageReader is the part of *kafkago.Reader the loop depends on.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type HandlerFunc func(ctx context.Context, msg kafkago.Message) error

// Run fetches messages until ctx is cancelled. Every message is committed
// after its handler returns, even on failure, so one bad payload cannot
// stall the partition.
func Run(ctx context.Context, name string, reader MessageReader, handle HandlerFunc, logger *zap.Logger) error {
	log := logger.Named("kafka.consumer." + name)
	log.Info("consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				log.Info("consumer stopped")
				return nil
			}
			log.Error("fetch message failed", zap.Error(err))
			select {
			case <-ctx.Done():
				log.Info("consumer stopped")
				return nil
			case <-time.After(fetchRetryDelay):
			}
			continue
		}

		if err := handle(ctx, msg); err != nil {
			log.Error("handle message failed",
				zap.String("topic", msg.Topic),
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
				zap.String("event_type", Header(msg, "event_type")),
				zap.Error(err),
			)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				log.Info("consumer stopped")
				return nil
			}
			log.Error("commit message failed", zap.Int64("offset", msg.Offset), zap.Error(err))
		}
	}
}

func Header(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
