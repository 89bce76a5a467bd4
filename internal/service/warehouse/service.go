// Package warehouse создаёт клиентов, товары и заказы через репозитории.
package warehouse

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/warehouse/internal/domain"
)

// Service — складской сервис. Транзакцией управляет вызывающий код
// (обычно через uow.UnitOfWork), сервис только пишет через репозитории.
type Service struct {
	customers domain.CustomerRepository
	products  domain.ProductRepository
	orders    domain.OrderRepository
	logger    *log.Entry
}

// New создаёт складской сервис.
func New(
	customers domain.CustomerRepository,
	products domain.ProductRepository,
	orders domain.OrderRepository,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "warehouse")
	}
	return &Service{
		customers: customers,
		products:  products,
		orders:    orders,
		logger:    logger,
	}
}

// CreateCustomer проверяет данные клиента и сохраняет его.
func (s *Service) CreateCustomer(ctx context.Context, name, email, address string) (domain.Customer, error) {
	addr, err := domain.NewEmail(email)
	if err != nil {
		return domain.Customer{}, err
	}
	customer := domain.Customer{
		Name:    strings.TrimSpace(name),
		Email:   addr,
		Address: address,
	}
	if errs := customer.Validate(); len(errs) > 0 {
		return domain.Customer{}, errors.Join(errs...)
	}

	if err := s.customers.Add(ctx, &customer); err != nil {
		return domain.Customer{}, fmt.Errorf("create customer: %w", err)
	}
	s.logger.WithField("customer_id", customer.ID).Info("customer created")
	return customer, nil
}

// CreateProduct проверяет данные товара и сохраняет его.
func (s *Service) CreateProduct(ctx context.Context, name string, quantity int, price decimal.Decimal) (domain.Product, error) {
	product := domain.Product{
		Name:     strings.TrimSpace(name),
		Quantity: quantity,
		Price:    price,
	}
	if errs := product.Validate(); len(errs) > 0 {
		return domain.Product{}, errors.Join(errs...)
	}

	if err := s.products.Add(ctx, &product); err != nil {
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}
	s.logger.WithField("product_id", product.ID).Info("product created")
	return product, nil
}

// CreateOrder создаёт заказ клиента на переданные товары.
// Товары, которых нет в хранилище, в заказ не попадают.
func (s *Service) CreateOrder(ctx context.Context, customer domain.Customer, products []domain.Product) (domain.Order, error) {
	order := domain.Order{Customer: customer}
	for _, p := range products {
		order.AddProduct(p)
	}

	if err := s.orders.Add(ctx, &order); err != nil {
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}
	s.logger.WithFields(log.Fields{
		"order_id":    order.ID,
		"customer_id": customer.ID,
		"products":    len(order.Products),
	}).Info("order created")
	return order, nil
}
