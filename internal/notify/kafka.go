package notify

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/warehouse/internal/domain"
	"github.com/vladislavdragonenkov/warehouse/internal/messaging/kafka"
)

// EventPublisher публикует событие в брокер сообщений.
type EventPublisher interface {
	PublishEvent(topic, key string, event any, headers map[string]string) error
}

// KafkaNotifier публикует уведомление как событие в Kafka;
// доставку клиенту выполняет потребитель топика.
type KafkaNotifier struct {
	publisher EventPublisher
	topic     string
	now       func() time.Time
}

// NewKafkaNotifier создаёт KafkaNotifier. Пустой topic заменяется на kafka.TopicOrderEvents.
func NewKafkaNotifier(publisher EventPublisher, topic string) *KafkaNotifier {
	if topic == "" {
		topic = kafka.TopicOrderEvents
	}
	return &KafkaNotifier{publisher: publisher, topic: topic, now: time.Now}
}

// NotifyCustomer публикует событие order.shipped с ключом по ID заказа.
func (n *KafkaNotifier) NotifyCustomer(ctx context.Context, order domain.Order, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	event := kafka.CustomerNotification{
		EventID:    uuid.NewString(),
		EventType:  kafka.EventTypeOrderShipped,
		OrderID:    order.ID,
		CustomerID: order.Customer.ID,
		Email:      order.Customer.Email.String(),
		Address:    order.Customer.Address,
		Message:    message,
		Timestamp:  n.now().UTC(),
	}
	if order.ShippedAt != nil {
		event.ShippedAt = order.ShippedAt.UTC()
	}

	key := strconv.FormatInt(order.ID, 10)
	headers := map[string]string{kafka.HeaderEventID: event.EventID}
	if err := n.publisher.PublishEvent(n.topic, key, event, headers); err != nil {
		return fmt.Errorf("publish notification for order %d: %w", order.ID, err)
	}
	return nil
}

var _ domain.Notifier = (*KafkaNotifier)(nil)
