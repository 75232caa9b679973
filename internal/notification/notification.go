package notification

import (
	"context"

	"dayflow/internal/shared/contextutil"

	"go.uber.org/zap"
)

const (
	KindWelcome       = "welcome"
	KindLeaveApproved = "leave_approved"
	KindLeaveRejected = "leave_rejected"
)

type Notification struct {
	Recipient string
	Kind      string
	Subject   string
	Body      string
	Payload   map[string]any
}

//go:generate mockgen -source=notification.go -destination=mock/notification_mock.go -package=mock
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// LogMailer writes the rendered email to the log instead of sending it.
type LogMailer struct {
	from   string
	logger *zap.Logger
}

func NewLogMailer(from string, logger ...*zap.Logger) *LogMailer {
	l := zap.L().Named("notification.mailer")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.mailer")
	}
	return &LogMailer{from: from, logger: l}
}

func (m *LogMailer) Notify(ctx context.Context, n Notification) error {
	if n.Recipient == "" {
		return ErrNoRecipient
	}
	m.logger.With(contextutil.TraceFields(ctx)...).Info("email sent",
		zap.String("from", m.from),
		zap.String("to", n.Recipient),
		zap.String("kind", n.Kind),
		zap.String("subject", n.Subject),
		zap.String("body", n.Body),
	)
	return nil
}
