package notification_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"dayflow/internal/events"
	"dayflow/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordingNotifier struct {
	sent []notification.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n notification.Notification) error {
	r.sent = append(r.sent, n)
	return nil
}

func leaveMessage(t *testing.T, e events.LeaveDecidedEvent) kafkago.Message {
	t.Helper()
	body, err := json.Marshal(e)
	require.NoError(t, err)
	return kafkago.Message{
		Value: body,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(e.EventType)},
			{Key: "request_id", Value: []byte("req-1")},
		},
	}
}

func approved() events.LeaveDecidedEvent {
	return events.LeaveDecidedEvent{
		EventType:      events.EventLeaveApproved,
		LeaveID:        "leave-1",
		EmployeeID:     "emp-1",
		EmployeeName:   "Aisha Khan",
		RecipientEmail: "aisha.khan@dayflow.test",
		LeaveType:      "paid",
		StartDate:      "2026-05-04",
		EndDate:        "2026-05-06",
		NumberOfDays:   3,
		Status:         "approved",
		Comments:       "Enjoy",
		Balance:        &events.LeaveBalanceSnapshot{PaidLeave: 9, SickLeave: 6},
		OccurredAt:     time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestLeaveDecisionHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("approved", func(t *testing.T) {
		rec := &recordingNotifier{}
		err := notification.LeaveDecisionHandler(rec)(ctx, leaveMessage(t, approved()))
		require.NoError(t, err)
		require.Len(t, rec.sent, 1)

		n := rec.sent[0]
		assert.Equal(t, "aisha.khan@dayflow.test", n.Recipient)
		assert.Equal(t, notification.KindLeaveApproved, n.Kind)
		assert.Equal(t, "Leave request approved", n.Subject)
		assert.Contains(t, n.Body, "Paid request from 2026-05-04 to 2026-05-06 (3 day(s))")
		assert.Contains(t, n.Body, "paid 9, sick 6, unpaid 0")
	})

	t.Run("rejected", func(t *testing.T) {
		rec := &recordingNotifier{}
		e := approved()
		e.EventType = events.EventLeaveRejected
		e.Status = "rejected"
		e.Balance = nil

		require.NoError(t, notification.LeaveDecisionHandler(rec)(ctx, leaveMessage(t, e)))
		assert.Equal(t, notification.KindLeaveRejected, rec.sent[0].Kind)
		assert.NotContains(t, rec.sent[0].Body, "Remaining balance")
	})

	t.Run("garbage payload", func(t *testing.T) {
		rec := &recordingNotifier{}
		err := notification.LeaveDecisionHandler(rec)(ctx, kafkago.Message{Value: []byte("{")})
		assert.Error(t, err)
		assert.Empty(t, rec.sent)
	})
}

func TestEmployeeLifecycleHandler(t *testing.T) {
	ctx := context.Background()
	body, err := json.Marshal(events.EmployeeCreatedEvent{
		EventType:   events.EventEmployeeCreated,
		EmployeeID:  "emp-1",
		LoginID:     "DAAK2026001",
		Email:       "aisha.khan@dayflow.test",
		FullName:    "Aisha Khan",
		CompanyName: "Dayflow",
	})
	require.NoError(t, err)

	rec := &recordingNotifier{}
	require.NoError(t, notification.EmployeeLifecycleHandler(rec)(ctx, kafkago.Message{Value: body}))
	require.Len(t, rec.sent, 1)
	assert.Equal(t, notification.KindWelcome, rec.sent[0].Kind)
	assert.Contains(t, rec.sent[0].Body, "DAAK2026001")

	other := kafkago.Message{
		Value:   []byte(`{"event_type":"employee_deleted"}`),
		Headers: []kafkago.Header{{Key: "event_type", Value: []byte("employee_deleted")}},
	}
	require.NoError(t, notification.EmployeeLifecycleHandler(rec)(ctx, other))
	assert.Len(t, rec.sent, 1)
}

func TestLogMailer(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := notification.NewLogMailer("noreply@dayflow.test", zap.New(core))

	err := notification.LeaveDecisionHandler(m)(context.Background(), leaveMessage(t, approved()))
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "noreply@dayflow.test", fields["from"])
	assert.Equal(t, "aisha.khan@dayflow.test", fields["to"])
	assert.Equal(t, "req-1", fields["request_id"])

	assert.ErrorIs(t, m.Notify(context.Background(), notification.Notification{}), notification.ErrNoRecipient)
}
