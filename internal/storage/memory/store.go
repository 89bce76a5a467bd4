package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/warehouse/internal/domain"
)

// orderRecord — строка заказа: клиент хранится только как внешний ключ.
type orderRecord struct {
	id         int64
	customerID int64
	shippedAt  *time.Time
	productIDs map[int64]struct{}
}

type tables struct {
	customers map[int64]domain.Customer
	products  map[int64]domain.Product
	orders    map[int64]orderRecord
}

func newTables() tables {
	return tables{
		customers: make(map[int64]domain.Customer),
		products:  make(map[int64]domain.Product),
		orders:    make(map[int64]orderRecord),
	}
}

func (t tables) clone() tables {
	c := newTables()
	for id, customer := range t.customers {
		c.customers[id] = customer
	}
	for id, product := range t.products {
		c.products[id] = product
	}
	for id, order := range t.orders {
		order.productIDs = cloneIDSet(order.productIDs)
		if order.shippedAt != nil {
			at := *order.shippedAt
			order.shippedAt = &at
		}
		c.orders[id] = order
	}
	return c
}

// Store — in-memory хранилище с теми же правилами целостности, что и схема PostgreSQL:
// каскадное удаление заказов клиента и связей товара.
// Begin снимает снимок таблиц, Rollback восстанавливает его.
// Последовательности ID живут вне снимка и после отката не переиспользуются.
type Store struct {
	mu       sync.Mutex
	data     tables
	snapshot *tables

	customerSeq int64
	productSeq  int64
	orderSeq    int64
}

// NewStore создаёт пустое хранилище для локальной разработки и тестов.
func NewStore() *Store {
	return &Store{data: newTables()}
}

// Begin открывает транзакцию. Вложенные транзакции не поддерживаются.
func (s *Store) Begin(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot != nil {
		return domain.ErrTransactionInProgress
	}
	snapshot := s.data.clone()
	s.snapshot = &snapshot
	return nil
}

// Commit фиксирует изменения, сделанные после Begin.
func (s *Store) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot == nil {
		return domain.ErrNoTransaction
	}
	s.snapshot = nil
	return nil
}

// Rollback возвращает таблицы к состоянию на момент Begin.
func (s *Store) Rollback() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot == nil {
		return domain.ErrNoTransaction
	}
	s.data = *s.snapshot
	s.snapshot = nil
	return nil
}

var _ domain.Transactor = (*Store)(nil)

func cloneIDSet(ids map[int64]struct{}) map[int64]struct{} {
	c := make(map[int64]struct{}, len(ids))
	for id := range ids {
		c[id] = struct{}{}
	}
	return c
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
