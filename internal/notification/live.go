package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"dayflow/internal/events"
	"dayflow/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
)

type LiveMessage struct {
	Type         string                       `json:"type"`
	LeaveID      string                       `json:"leave_id"`
	Status       string                       `json:"status"`
	LeaveType    string                       `json:"leave_type"`
	StartDate    string                       `json:"start_date"`
	EndDate      string                       `json:"end_date"`
	NumberOfDays int                          `json:"number_of_days"`
	Comments     string                       `json:"comments,omitempty"`
	Balance      *events.LeaveBalanceSnapshot `json:"balance,omitempty"`
}

// LiveLeaveHandler forwards leave decisions to the requester's open
// websocket connections. Nobody connected is not an error.
func LiveLeaveHandler(hub *Hub) consumer.HandlerFunc {
	return func(ctx context.Context, msg kafkago.Message) error {
		var e events.LeaveDecidedEvent
		if err := json.Unmarshal(msg.Value, &e); err != nil {
			return fmt.Errorf("decode leave decision: %w", err)
		}

		body, err := json.Marshal(LiveMessage{
			Type:         e.EventType,
			LeaveID:      e.LeaveID,
			Status:       e.Status,
			LeaveType:    e.LeaveType,
			StartDate:    e.StartDate,
			EndDate:      e.EndDate,
			NumberOfDays: e.NumberOfDays,
			Comments:     e.Comments,
			Balance:      e.Balance,
		})
		if err != nil {
			return err
		}

		hub.Push(e.EmployeeID, body)
		return nil
	}
}
