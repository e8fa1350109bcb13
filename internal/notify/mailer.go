// Package notify sends customer-facing notifications. Delivery is best-effort
// and runs after the owning transaction commits.
package notify

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Mailer interface {
	SendOrderConfirmation(ctx context.Context, email string, orderID uuid.UUID) error
}

// LogMailer logs the notification instead of sending it. It stands in for a
// real mail provider in development and tests.
type LogMailer struct {
	log *zap.Logger
}

func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendOrderConfirmation(_ context.Context, email string, orderID uuid.UUID) error {
	m.log.Info("order confirmation sent",
		zap.String("email", email),
		zap.String("order_id", orderID.String()),
	)
	return nil
}
