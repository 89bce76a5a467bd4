package uow_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/warehouse/internal/domain"
	"github.com/vladislavdragonenkov/warehouse/internal/metrics"
	"github.com/vladislavdragonenkov/warehouse/internal/storage/memory"
	"github.com/vladislavdragonenkov/warehouse/internal/uow"
)

type stubTransactor struct {
	calls       []string
	beginErr    error
	commitErr   error
	rollbackErr error
}

func (s *stubTransactor) Begin(context.Context) error {
	s.calls = append(s.calls, "begin")
	return s.beginErr
}

func (s *stubTransactor) Commit() error {
	s.calls = append(s.calls, "commit")
	return s.commitErr
}

func (s *stubTransactor) Rollback() error {
	s.calls = append(s.calls, "rollback")
	return s.rollbackErr
}

func TestDo_CommitsOnSuccess(t *testing.T) {
	tx := &stubTransactor{}
	err := uow.New(tx).Do(context.Background(), func(context.Context) error { return nil })

	require.NoError(t, err)
	require.Equal(t, []string{"begin", "commit"}, tx.calls)
}

func TestDo_RollsBackOnError(t *testing.T) {
	tx := &stubTransactor{}
	boom := errors.New("boom")
	err := uow.New(tx).Do(context.Background(), func(context.Context) error { return boom })

	require.ErrorIs(t, err, boom)
	require.Equal(t, []string{"begin", "rollback"}, tx.calls)
}

func TestDo_JoinsRollbackError(t *testing.T) {
	rbErr := errors.New("connection lost")
	tx := &stubTransactor{rollbackErr: rbErr}
	boom := errors.New("boom")
	err := uow.New(tx).Do(context.Background(), func(context.Context) error { return boom })

	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, err, rbErr)
}

func TestDo_RollsBackAndRepanics(t *testing.T) {
	tx := &stubTransactor{}
	u := uow.New(tx)

	require.PanicsWithValue(t, "boom", func() {
		_ = u.Do(context.Background(), func(context.Context) error { panic("boom") })
	})
	require.Equal(t, []string{"begin", "rollback"}, tx.calls)
}

func TestDo_BeginFailureSkipsFn(t *testing.T) {
	tx := &stubTransactor{beginErr: domain.ErrTransactionInProgress}
	called := false
	err := uow.New(tx).Do(context.Background(), func(context.Context) error {
		called = true
		return nil
	})

	require.ErrorIs(t, err, domain.ErrTransactionInProgress)
	require.False(t, called)
	require.Equal(t, []string{"begin"}, tx.calls)
}

func TestDo_WrapsCommitError(t *testing.T) {
	commitErr := errors.New("serialization failure")
	tx := &stubTransactor{commitErr: commitErr}
	err := uow.New(tx).Do(context.Background(), func(context.Context) error { return nil })

	require.ErrorIs(t, err, commitErr)
	require.Contains(t, err.Error(), "commit unit of work")
}

func TestDo_RecordsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewUnitOfWorkMetricsWithRegisterer(reg)
	u := uow.New(&stubTransactor{}, uow.WithMetrics(m))

	require.NoError(t, u.Do(context.Background(), func(context.Context) error { return nil }))
	require.Error(t, u.Do(context.Background(), func(context.Context) error { return errors.New("boom") }))

	expected := `
# HELP warehouse_uow_total Total number of finished units of work by outcome
# TYPE warehouse_uow_total counter
warehouse_uow_total{outcome="commit"} 1
warehouse_uow_total{outcome="rollback"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "warehouse_uow_total"))
}

func TestDo_MemoryStoreAtomicity(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	customers := memory.NewCustomerRepository(store)
	products := memory.NewProductRepository(store)
	orders := memory.NewOrderRepository(store, customers)
	u := uow.New(store)

	var order domain.Order
	boom := errors.New("boom")
	err := u.Do(ctx, func(ctx context.Context) error {
		customer := domain.Customer{Name: "Ivan Petrov", Email: "ipetrov@example.com", Address: "Moscow, Arbat 1"}
		if err := customers.Add(ctx, &customer); err != nil {
			return err
		}
		laptop := domain.Product{Name: "Laptop", Quantity: 10, Price: decimal.RequireFromString("999.99")}
		if err := products.Add(ctx, &laptop); err != nil {
			return err
		}
		order = domain.Order{Customer: customer, Products: []domain.Product{laptop}}
		if err := orders.Add(ctx, &order); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	allCustomers, err := customers.List(ctx)
	require.NoError(t, err)
	require.Empty(t, allCustomers)
	allProducts, err := products.List(ctx)
	require.NoError(t, err)
	require.Empty(t, allProducts)
	allOrders, err := orders.List(ctx)
	require.NoError(t, err)
	require.Empty(t, allOrders)

	err = u.Do(ctx, func(ctx context.Context) error {
		customer := domain.Customer{Name: "Ivan Petrov", Email: "ipetrov@example.com", Address: "Moscow, Arbat 1"}
		return customers.Add(ctx, &customer)
	})
	require.NoError(t, err)
	allCustomers, err = customers.List(ctx)
	require.NoError(t, err)
	require.Len(t, allCustomers, 1)
}

func TestDo_NestedScopeFails(t *testing.T) {
	store := memory.NewStore()
	u := uow.New(store)

	err := u.Do(context.Background(), func(ctx context.Context) error {
		return u.Do(ctx, func(context.Context) error { return nil })
	})
	require.ErrorIs(t, err, domain.ErrTransactionInProgress)
}
