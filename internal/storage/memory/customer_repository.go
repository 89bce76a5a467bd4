package memory

import (
	"context"
	"fmt"

	"github.com/vladislavdragonenkov/warehouse/internal/domain"
)

// customerRepositoryInMemory — in-memory реализация CustomerRepository.
type customerRepositoryInMemory struct {
	store *Store
}

// NewCustomerRepository возвращает in-memory репозиторий клиентов поверх store.
func NewCustomerRepository(store *Store) domain.CustomerRepository {
	return &customerRepositoryInMemory{store: store}
}

func (r *customerRepositoryInMemory) Add(_ context.Context, customer *domain.Customer) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if customer.ID != 0 {
		if _, ok := r.store.data.customers[customer.ID]; !ok {
			return fmt.Errorf("update customer %d: %w", customer.ID, domain.ErrCustomerNotFound)
		}
		r.store.data.customers[customer.ID] = *customer
		return nil
	}

	r.store.customerSeq++
	stored := *customer
	stored.ID = r.store.customerSeq
	r.store.data.customers[stored.ID] = stored
	customer.ID = stored.ID
	return nil
}

func (r *customerRepositoryInMemory) Get(_ context.Context, id int64) (domain.Customer, bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	customer, ok := r.store.data.customers[id]
	return customer, ok, nil
}

func (r *customerRepositoryInMemory) List(_ context.Context) ([]domain.Customer, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	result := make([]domain.Customer, 0, len(r.store.data.customers))
	for _, id := range sortedKeys(r.store.data.customers) {
		result = append(result, r.store.data.customers[id])
	}
	return result, nil
}

// Remove удаляет клиента и, как ON DELETE CASCADE, все его заказы.
func (r *customerRepositoryInMemory) Remove(_ context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.data.customers[id]; !ok {
		return fmt.Errorf("delete customer %d: %w", id, domain.ErrCustomerNotFound)
	}
	delete(r.store.data.customers, id)
	for orderID, order := range r.store.data.orders {
		if order.customerID == id {
			delete(r.store.data.orders, orderID)
		}
	}
	return nil
}

var _ domain.CustomerRepository = (*customerRepositoryInMemory)(nil)
