package producer

import (
	"context"
	"time"

	"dayflow/internal/messaging/kafka"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultPollInterval = 3 * time.Second
	defaultBatchSize    = 50
	publishConcurrency  = 4
)

type Worker struct {
	repo         kafka.OutboxRepository
	writer       MessageWriter
	pollInterval time.Duration
	batchSize    int
	logger       *zap.Logger
}

func NewWorker(repo kafka.OutboxRepository, writer MessageWriter, pollInterval time.Duration, batchSize int, logger ...*zap.Logger) *Worker {
	l := zap.L().Named("kafka.producer.worker")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("kafka.producer.worker")
	}
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Worker{
		repo:         repo,
		writer:       writer,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		logger:       l,
	}
}

// Run polls the outbox until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("outbox worker started",
		zap.Duration("poll_interval", w.pollInterval),
		zap.Int("batch_size", w.batchSize),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("outbox worker stopped")
			return nil
		case <-ticker.C:
			if _, err := w.ProcessBatch(ctx); err != nil {
				w.logger.Error("process outbox events failed", zap.Error(err))
			}
		}
	}
}

// ProcessBatch publishes one batch of pending events and returns how many
// were sent. Events of one aggregate are published in order; a failure
// holds back the rest of that aggregate until the next poll.
func (w *Worker) ProcessBatch(ctx context.Context) (int, error) {
	events, err := w.repo.ListPending(ctx, w.batchSize)
	if err != nil {
		return 0, err
	}
	if len(events) == 0 {
		return 0, nil
	}

	w.logger.Info("processing pending outbox events", zap.Int("count", len(events)))

	groups := groupByAggregate(events)
	sent := make([]int, len(groups))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(publishConcurrency)
	for i, group := range groups {
		g.Go(func() error {
			sent[i] = w.publishGroup(gctx, group)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	total := 0
	for _, n := range sent {
		total += n
	}
	return total, nil
}

func (w *Worker) publishGroup(ctx context.Context, group []kafka.OutboxEvent) int {
	sent := 0
	for _, event := range group {
		if err := publishEvent(ctx, w.writer, event); err != nil {
			w.logger.Error("publish outbox event failed",
				zap.String("outbox_id", event.ID),
				zap.String("event_type", event.EventType),
				zap.String("topic", event.Topic),
				zap.Error(err),
			)
			if markErr := w.repo.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
				w.logger.Error("mark outbox failed failed", zap.String("outbox_id", event.ID), zap.Error(markErr))
			}
			return sent
		}

		if err := w.repo.MarkSent(ctx, event.ID); err != nil {
			w.logger.Error("mark outbox sent failed",
				zap.String("outbox_id", event.ID),
				zap.Error(err),
			)
			return sent
		}

		sent++
		w.logger.Info("outbox event sent",
			zap.String("outbox_id", event.ID),
			zap.String("event_type", event.EventType),
			zap.String("topic", event.Topic),
			zap.String("request_id", event.RequestID),
		)
	}
	return sent
}

func groupByAggregate(events []kafka.OutboxEvent) [][]kafka.OutboxEvent {
	index := make(map[string]int)
	var groups [][]kafka.OutboxEvent
	for _, e := range events {
		key := e.AggregateType + ":" + e.AggregateID
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], e)
	}
	return groups
}
