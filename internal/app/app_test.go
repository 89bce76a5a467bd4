package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/warehouse/internal/domain"
	"github.com/vladislavdragonenkov/warehouse/internal/metrics"
	"github.com/vladislavdragonenkov/warehouse/internal/service/shipment"
)

type recordingNotifier struct {
	messages []string
	err      error
}

func (n *recordingNotifier) NotifyCustomer(_ context.Context, _ domain.Order, message string) error {
	n.messages = append(n.messages, message)
	return n.err
}

func newMemoryDeps(t *testing.T, notifier domain.Notifier) *Dependencies {
	t.Helper()
	deps, err := NewDependencies(context.Background(), DefaultConfig(), log.WithField("component", "app-test"))
	require.NoError(t, err)
	t.Cleanup(deps.Close)
	if notifier != nil {
		deps.Notifier = notifier
	}
	return deps
}

func TestRunScenario_Memory(t *testing.T) {
	notifier := &recordingNotifier{}
	deps := newMemoryDeps(t, notifier)
	reg := prometheus.NewRegistry()
	m := metrics.NewUnitOfWorkMetricsWithRegisterer(reg)
	ctx := context.Background()

	order, err := RunScenario(ctx, deps, m)
	require.NoError(t, err)
	require.NotZero(t, order.ID)
	require.True(t, order.IsShipped())
	require.Equal(t, []string{shipment.ShippedMessage}, notifier.messages)

	stored, found, err := deps.Orders.Get(ctx, order.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Ivan Petrov", stored.Customer.Name)
	require.Equal(t, domain.Email("ipetrov@example.com"), stored.Customer.Email)
	require.Equal(t, "Moscow, Arbat 1", stored.Customer.Address)
	require.Len(t, stored.Products, 1)
	require.Equal(t, "Laptop", stored.Products[0].Name)
	require.Equal(t, 10, stored.Products[0].Quantity)
	require.True(t, stored.Products[0].Price.Equal(decimal.RequireFromString("999.99")))
	require.NotNil(t, stored.ShippedAt)

	count, err := testutil.GatherAndCount(reg, "warehouse_uow_total")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestRunScenario_NotifierFailureRollsBack(t *testing.T) {
	boom := errors.New("notifier down")
	deps := newMemoryDeps(t, &recordingNotifier{err: boom})
	ctx := context.Background()

	_, err := RunScenario(ctx, deps, nil)
	require.ErrorIs(t, err, boom)

	customers, err := deps.Customers.List(ctx)
	require.NoError(t, err)
	require.Empty(t, customers)
	products, err := deps.Products.List(ctx)
	require.NoError(t, err)
	require.Empty(t, products)
	orders, err := deps.Orders.List(ctx)
	require.NoError(t, err)
	require.Empty(t, orders)
}

func TestRun_MemoryWithoutMetricsServer(t *testing.T) {
	require.NoError(t, Run(context.Background(), DefaultConfig()))
}

func TestRun_ServesUntilCanceled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MetricsAddr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, cfg) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
