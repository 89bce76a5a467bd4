package memory

import (
	"context"
	"fmt"

	"github.com/vladislavdragonenkov/warehouse/internal/domain"
)

// productRepositoryInMemory — in-memory реализация ProductRepository.
type productRepositoryInMemory struct {
	store *Store
}

// NewProductRepository возвращает in-memory репозиторий товаров поверх store.
func NewProductRepository(store *Store) domain.ProductRepository {
	return &productRepositoryInMemory{store: store}
}

func (r *productRepositoryInMemory) Add(_ context.Context, product *domain.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if product.ID != 0 {
		if _, ok := r.store.data.products[product.ID]; !ok {
			return fmt.Errorf("update product %d: %w", product.ID, domain.ErrProductNotFound)
		}
		r.store.data.products[product.ID] = *product
		return nil
	}

	r.store.productSeq++
	stored := *product
	stored.ID = r.store.productSeq
	r.store.data.products[stored.ID] = stored
	product.ID = stored.ID
	return nil
}

func (r *productRepositoryInMemory) Get(_ context.Context, id int64) (domain.Product, bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	product, ok := r.store.data.products[id]
	return product, ok, nil
}

func (r *productRepositoryInMemory) List(_ context.Context) ([]domain.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	result := make([]domain.Product, 0, len(r.store.data.products))
	for _, id := range sortedKeys(r.store.data.products) {
		result = append(result, r.store.data.products[id])
	}
	return result, nil
}

// Remove удаляет товар и его связи с заказами.
func (r *productRepositoryInMemory) Remove(_ context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.data.products[id]; !ok {
		return fmt.Errorf("delete product %d: %w", id, domain.ErrProductNotFound)
	}
	delete(r.store.data.products, id)
	for _, order := range r.store.data.orders {
		delete(order.productIDs, id)
	}
	return nil
}

var _ domain.ProductRepository = (*productRepositoryInMemory)(nil)
