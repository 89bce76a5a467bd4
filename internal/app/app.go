package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/warehouse/internal/domain"
	"github.com/vladislavdragonenkov/warehouse/internal/metrics"
	"github.com/vladislavdragonenkov/warehouse/internal/service/shipment"
	"github.com/vladislavdragonenkov/warehouse/internal/service/warehouse"
	"github.com/vladislavdragonenkov/warehouse/internal/uow"
)

// Run поднимает зависимости, выполняет демо-сценарий в одной единице работы
// и, если задан MetricsAddr, отдаёт метрики и health checks до отмены ctx.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	deps, err := NewDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	if _, err := RunScenario(ctx, deps, metrics.NewUnitOfWorkMetrics()); err != nil {
		return err
	}

	if cfg.MetricsAddr == "" {
		return nil
	}
	return serveOps(ctx, cfg.MetricsAddr, deps, logger)
}

// RunScenario создаёт клиента, товар и заказ и отгружает заказ.
// Все записи фиксируются вместе: при любой ошибке хранилище остаётся без изменений.
func RunScenario(ctx context.Context, deps *Dependencies, m *metrics.UnitOfWorkMetrics) (domain.Order, error) {
	logger := deps.Logger
	unit := uow.New(deps.Transactor,
		uow.WithLogger(logger.WithField("layer", "uow")),
		uow.WithMetrics(m),
	)
	warehouseSvc := warehouse.New(deps.Customers, deps.Products, deps.Orders, logger.WithField("layer", "warehouse"))
	shipmentSvc := shipment.New(deps.Orders, deps.Notifier, shipment.WithLogger(logger.WithField("layer", "shipment")))

	var shipped domain.Order
	err := unit.Do(ctx, func(ctx context.Context) error {
		customer, err := warehouseSvc.CreateCustomer(ctx, "Ivan Petrov", "ipetrov@example.com", "Moscow, Arbat 1")
		if err != nil {
			return err
		}
		laptop, err := warehouseSvc.CreateProduct(ctx, "Laptop", 10, decimal.RequireFromString("999.99"))
		if err != nil {
			return err
		}
		order, err := warehouseSvc.CreateOrder(ctx, customer, []domain.Product{laptop})
		if err != nil {
			return err
		}
		shipped, err = shipmentSvc.ShipOrder(ctx, order)
		return err
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("demo scenario: %w", err)
	}

	logger.WithFields(log.Fields{
		"order_id":    shipped.ID,
		"customer_id": shipped.Customer.ID,
		"products":    len(shipped.Products),
		"shipped_at":  shipped.ShippedAt.Format(time.RFC3339),
	}).Info("demo scenario completed")
	return shipped, nil
}

// serveOps отдаёт /metrics и health checks, пока не отменён ctx.
func serveOps(ctx context.Context, addr string, deps *Dependencies, logger *log.Entry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	deps.Health.Mount(mux)

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", lis.Addr())
		errCh <- srv.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP сервер")
		shutdownHTTP(srv, logger)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("metrics shutdown with error")
	}
}
