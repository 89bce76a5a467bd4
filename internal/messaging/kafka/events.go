package kafka

import "time"

// EventType определяет тип события
type EventType string

// EventTypeOrderShipped — заказ отгружен, клиенту отправлено уведомление.
const EventTypeOrderShipped EventType = "order.shipped"

// TopicOrderEvents — топик событий заказов по умолчанию.
const TopicOrderEvents = "warehouse.order.events"

// HeaderEventID — заголовок с идентификатором события для дедупликации на стороне потребителя.
const HeaderEventID = "x-event-id"

// CustomerNotification — уведомление клиента о событии заказа.
type CustomerNotification struct {
	EventID    string    `json:"event_id"`
	EventType  EventType `json:"event_type"`
	OrderID    int64     `json:"order_id"`
	CustomerID int64     `json:"customer_id"`
	Email      string    `json:"email"`
	Address    string    `json:"address,omitempty"`
	Message    string    `json:"message"`
	ShippedAt  time.Time `json:"shipped_at"`
	Timestamp  time.Time `json:"timestamp"`
}
