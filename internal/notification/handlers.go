package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"dayflow/internal/events"
	"dayflow/internal/messaging/kafka/consumer"
	"dayflow/internal/shared/contextutil"

	kafkago "github.com/segmentio/kafka-go"
)

func withRequestID(ctx context.Context, msg kafkago.Message) context.Context {
	if rid := consumer.Header(msg, "request_id"); rid != "" {
		return contextutil.WithRequestID(ctx, rid)
	}
	return ctx
}

// LeaveDecisionHandler emails the requester about an approval or rejection.
func LeaveDecisionHandler(n Notifier) consumer.HandlerFunc {
	return func(ctx context.Context, msg kafkago.Message) error {
		var e events.LeaveDecidedEvent
		if err := json.Unmarshal(msg.Value, &e); err != nil {
			return fmt.Errorf("decode leave decision: %w", err)
		}
		note, err := ForLeaveDecision(e)
		if err != nil {
			return err
		}
		return n.Notify(withRequestID(ctx, msg), note)
	}
}

// EmployeeLifecycleHandler sends the welcome email for new employees and
// ignores other lifecycle events.
func EmployeeLifecycleHandler(n Notifier) consumer.HandlerFunc {
	return func(ctx context.Context, msg kafkago.Message) error {
		if et := consumer.Header(msg, "event_type"); et != "" && et != events.EventEmployeeCreated {
			return nil
		}
		var e events.EmployeeCreatedEvent
		if err := json.Unmarshal(msg.Value, &e); err != nil {
			return fmt.Errorf("decode employee lifecycle: %w", err)
		}
		if e.EventType != events.EventEmployeeCreated {
			return nil
		}
		return n.Notify(withRequestID(ctx, msg), ForEmployeeCreated(e))
	}
}
