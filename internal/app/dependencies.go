package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/warehouse/internal/domain"
	"github.com/vladislavdragonenkov/warehouse/internal/health"
	"github.com/vladislavdragonenkov/warehouse/internal/notify"
	"github.com/vladislavdragonenkov/warehouse/internal/storage/memory"
	"github.com/vladislavdragonenkov/warehouse/internal/storage/postgres"
	"github.com/vladislavdragonenkov/warehouse/internal/version"
)

// Dependencies содержит все зависимости приложения.
// Репозитории и Transactor работают через одну сессию хранилища,
// поэтому единица работы охватывает записи всех репозиториев.
type Dependencies struct {
	Transactor domain.Transactor
	Customers  domain.CustomerRepository
	Products   domain.ProductRepository
	Orders     domain.OrderRepository
	Notifier   domain.Notifier
	Health     *health.Handler
	Logger     *log.Entry

	closers []func()
}

// NewDependencies создаёт хранилище, репозитории и уведомления по конфигурации.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	deps := &Dependencies{
		Health: health.NewHandler(version.GetVersion()),
		Logger: logger,
	}

	if err := deps.initStorage(ctx, cfg); err != nil {
		return nil, err
	}
	deps.initNotifier(cfg)
	return deps, nil
}

func (d *Dependencies) initStorage(ctx context.Context, cfg Config) error {
	storageLogger := d.Logger.WithField("layer", "storage")

	if !cfg.UsesPostgres() {
		store := memory.NewStore()
		customers := memory.NewCustomerRepository(store)
		d.Transactor = store
		d.Customers = customers
		d.Products = memory.NewProductRepository(store)
		d.Orders = memory.NewOrderRepository(store, customers)
		d.Health.RegisterChecker("storage", health.NewPingChecker("storage", func(context.Context) error { return nil }, 0))
		storageLogger.Info("using in-memory storage")
		return nil
	}

	store, err := postgres.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		return fmt.Errorf("open postgres store: %w", err)
	}
	if cfg.PostgresEnsureSchema {
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return fmt.Errorf("ensure postgres schema: %w", err)
		}
	}

	session := postgres.NewSession(store)
	customers := postgres.NewCustomerRepository(session)
	d.Transactor = session
	d.Customers = customers
	d.Products = postgres.NewProductRepository(session)
	d.Orders = postgres.NewOrderRepository(session, customers)
	d.Health.RegisterChecker("storage", health.NewPingChecker("storage", store.Ping, 0))
	d.closers = append(d.closers, func() {
		if err := store.Close(); err != nil {
			storageLogger.WithError(err).Warn("failed to close postgres store")
		}
	})
	storageLogger.Info("using postgres storage")
	return nil
}

func (d *Dependencies) initNotifier(cfg Config) {
	notifyLogger := d.Logger.WithField("layer", "notify")

	producer, err := initKafkaProducer(cfg.KafkaBrokers, notifyLogger)
	if err != nil || producer == nil {
		d.Notifier = notify.NewLogNotifier(notifyLogger)
		return
	}

	d.Notifier = notify.NewKafkaNotifier(producer, cfg.KafkaTopic)
	d.closers = append(d.closers, func() { closeKafka(producer, notifyLogger) })
}

// Close освобождает ресурсы в порядке, обратном созданию.
func (d *Dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
	d.closers = nil
}
