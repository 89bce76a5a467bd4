// Package shipment отгружает заказы и уведомляет клиентов.
package shipment

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/warehouse/internal/domain"
)

// ShippedMessage — текст уведомления об отгрузке.
const ShippedMessage = "Dear Customer! \n You order has been shipped!"

// Service отгружает заказы.
type Service struct {
	orders   domain.OrderRepository
	notifier domain.Notifier
	now      func() time.Time
	logger   *log.Entry
}

// Option настраивает Service.
type Option func(*Service)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger задаёт логгер.
func WithLogger(logger *log.Entry) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New создаёт сервис отгрузки.
func New(orders domain.OrderRepository, notifier domain.Notifier, opts ...Option) *Service {
	s := &Service{
		orders:   orders,
		notifier: notifier,
		now:      time.Now,
		logger:   log.New().WithField("component", "shipment"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ShipOrder фиксирует время отгрузки, уведомляет клиента и сохраняет заказ.
// Заказ перечитывается из хранилища, поэтому переданное значение используется только ради ID.
// Если уведомление не доставлено, заказ не сохраняется.
func (s *Service) ShipOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	stored, found, err := s.orders.Get(ctx, order.ID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("load order %d: %w", order.ID, err)
	}
	if !found {
		return domain.Order{}, fmt.Errorf("ship order %d: %w", order.ID, domain.ErrOrderNotFound)
	}

	if err := stored.Ship(s.now().UTC()); err != nil {
		return domain.Order{}, fmt.Errorf("ship order %d: %w", order.ID, err)
	}

	if err := s.NotifyCustomer(ctx, stored); err != nil {
		return domain.Order{}, err
	}

	if err := s.orders.Add(ctx, &stored); err != nil {
		return domain.Order{}, fmt.Errorf("save shipped order %d: %w", order.ID, err)
	}

	s.logger.WithFields(log.Fields{
		"order_id":   stored.ID,
		"shipped_at": stored.ShippedAt.Format(time.RFC3339),
	}).Info("order shipped")
	return stored, nil
}

// NotifyCustomer отправляет клиенту сообщение об отгрузке заказа.
func (s *Service) NotifyCustomer(ctx context.Context, order domain.Order) error {
	if err := s.notifier.NotifyCustomer(ctx, order, ShippedMessage); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("customer notification failed")
		return fmt.Errorf("notify customer of order %d: %w", order.ID, err)
	}
	return nil
}
