package memory

import (
	"context"
	"fmt"

	"github.com/vladislavdragonenkov/warehouse/internal/domain"
)

// orderRepositoryInMemory — in-memory реализация OrderRepository.
type orderRepositoryInMemory struct {
	store     *Store
	customers domain.CustomerRepository
}

// NewOrderRepository возвращает in-memory репозиторий заказов.
// Клиент заказа читается через customers по сохранённому customer_id.
func NewOrderRepository(store *Store, customers domain.CustomerRepository) domain.OrderRepository {
	return &orderRepositoryInMemory{store: store, customers: customers}
}

func (r *orderRepositoryInMemory) Add(_ context.Context, order *domain.Order) error {
	if order.Customer.ID == 0 {
		return domain.ErrCustomerNotPersisted
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if order.ID != 0 {
		if _, ok := r.store.data.orders[order.ID]; !ok {
			return fmt.Errorf("update order %d: %w", order.ID, domain.ErrOrderNotFound)
		}
	}
	if _, ok := r.store.data.customers[order.Customer.ID]; !ok {
		return fmt.Errorf("order customer %d: %w", order.Customer.ID, domain.ErrCustomerNotFound)
	}

	// Товары, которых нет в хранилище, молча отбрасываются.
	productIDs := make(map[int64]struct{}, len(order.Products))
	for _, id := range order.ProductIDs() {
		if _, ok := r.store.data.products[id]; ok {
			productIDs[id] = struct{}{}
		}
	}

	record := orderRecord{
		id:         order.ID,
		customerID: order.Customer.ID,
		productIDs: productIDs,
	}
	if order.ShippedAt != nil {
		at := *order.ShippedAt
		record.shippedAt = &at
	}
	if record.id == 0 {
		r.store.orderSeq++
		record.id = r.store.orderSeq
	}
	r.store.data.orders[record.id] = record
	order.ID = record.id
	return nil
}

func (r *orderRepositoryInMemory) Get(ctx context.Context, id int64) (domain.Order, bool, error) {
	r.store.mu.Lock()
	record, ok := r.store.data.orders[id]
	var order domain.Order
	if ok {
		order = r.orderFromRecordLocked(record)
	}
	r.store.mu.Unlock()

	if !ok {
		return domain.Order{}, false, nil
	}
	if err := r.attachCustomer(ctx, &order, record.customerID); err != nil {
		return domain.Order{}, false, err
	}
	return order, true, nil
}

func (r *orderRepositoryInMemory) List(ctx context.Context) ([]domain.Order, error) {
	r.store.mu.Lock()
	ids := sortedKeys(r.store.data.orders)
	orders := make([]domain.Order, 0, len(ids))
	customerIDs := make([]int64, 0, len(ids))
	for _, id := range ids {
		record := r.store.data.orders[id]
		orders = append(orders, r.orderFromRecordLocked(record))
		customerIDs = append(customerIDs, record.customerID)
	}
	r.store.mu.Unlock()

	for i := range orders {
		if err := r.attachCustomer(ctx, &orders[i], customerIDs[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// orderFromRecordLocked собирает заказ без клиента; вызывается под store.mu.
func (r *orderRepositoryInMemory) orderFromRecordLocked(record orderRecord) domain.Order {
	order := domain.Order{
		ID:       record.id,
		Products: make([]domain.Product, 0, len(record.productIDs)),
	}
	for _, productID := range sortedKeys(record.productIDs) {
		order.Products = append(order.Products, r.store.data.products[productID])
	}
	if record.shippedAt != nil {
		at := *record.shippedAt
		order.ShippedAt = &at
	}
	return order
}

func (r *orderRepositoryInMemory) attachCustomer(ctx context.Context, order *domain.Order, customerID int64) error {
	customer, found, err := r.customers.Get(ctx, customerID)
	if err != nil {
		return fmt.Errorf("load customer for order %d: %w", order.ID, err)
	}
	if !found {
		return fmt.Errorf("order %d references customer %d: %w", order.ID, customerID, domain.ErrCustomerNotFound)
	}
	order.Customer = customer
	return nil
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
