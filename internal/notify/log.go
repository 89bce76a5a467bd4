// Package notify доставляет уведомления клиентам о заказах.
package notify

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/warehouse/internal/domain"
)

// LogNotifier пишет уведомление в лог вместо реальной доставки.
type LogNotifier struct {
	logger *log.Entry
}

// NewLogNotifier создаёт LogNotifier.
func NewLogNotifier(logger *log.Entry) *LogNotifier {
	if logger == nil {
		logger = log.WithField("component", "notifier")
	}
	return &LogNotifier{logger: logger}
}

// NotifyCustomer пишет адресата, номер заказа и текст сообщения.
func (n *LogNotifier) NotifyCustomer(_ context.Context, order domain.Order, message string) error {
	n.logger.WithFields(log.Fields{
		"to":       order.Customer.Email.String(),
		"order_id": order.ID,
	}).Info(message)
	return nil
}

var _ domain.Notifier = (*LogNotifier)(nil)
