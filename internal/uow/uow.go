// Package uow задаёт границу согласованности: все записи внутри Do
// фиксируются вместе или не фиксируются вовсе.
package uow

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/warehouse/internal/domain"
	"github.com/vladislavdragonenkov/warehouse/internal/metrics"
)

// UnitOfWork управляет транзакцией сессии хранилища, общей для репозиториев.
// Не предназначен для одновременного использования из нескольких горутин.
type UnitOfWork struct {
	tx      domain.Transactor
	logger  *log.Entry
	metrics *metrics.UnitOfWorkMetrics

	started time.Time
}

// Option настраивает UnitOfWork.
type Option func(*UnitOfWork)

// WithLogger задаёт логгер.
func WithLogger(logger *log.Entry) Option {
	return func(u *UnitOfWork) {
		if logger != nil {
			u.logger = logger
		}
	}
}

// WithMetrics включает запись метрик исходов.
func WithMetrics(m *metrics.UnitOfWorkMetrics) Option {
	return func(u *UnitOfWork) {
		u.metrics = m
	}
}

// New создаёт единицу работы поверх сессии tx.
func New(tx domain.Transactor, opts ...Option) *UnitOfWork {
	u := &UnitOfWork{
		tx:     tx,
		logger: log.New().WithField("component", "uow"),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Do открывает транзакцию, выполняет fn и фиксирует результат.
// Если fn вернула ошибку, транзакция откатывается и возвращается исходная
// ошибка (вместе с ошибкой отката, если она была). При панике транзакция
// откатывается, а паника пробрасывается дальше.
func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := u.Begin(ctx); err != nil {
		return err
	}

	finished := false
	defer func() {
		if finished {
			return
		}
		if r := recover(); r != nil {
			if rbErr := u.Rollback(); rbErr != nil {
				u.logger.WithError(rbErr).Error("rollback after panic failed")
			}
			panic(r)
		}
	}()

	if err := fn(ctx); err != nil {
		finished = true
		if rbErr := u.Rollback(); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}

	finished = true
	return u.Commit()
}

// Begin открывает транзакцию вручную.
func (u *UnitOfWork) Begin(ctx context.Context) error {
	if err := u.tx.Begin(ctx); err != nil {
		return fmt.Errorf("begin unit of work: %w", err)
	}
	u.started = time.Now()
	if u.metrics != nil {
		u.metrics.RecordStarted()
	}
	u.logger.Debug("unit of work started")
	return nil
}

// Commit фиксирует открытую транзакцию.
func (u *UnitOfWork) Commit() error {
	if err := u.tx.Commit(); err != nil {
		if errors.Is(err, domain.ErrNoTransaction) {
			return fmt.Errorf("commit unit of work: %w", err)
		}
		u.finish(metrics.OutcomeCommitFailed)
		u.logger.WithError(err).Error("commit failed")
		return fmt.Errorf("commit unit of work: %w", err)
	}
	u.finish(metrics.OutcomeCommit)
	u.logger.Debug("unit of work committed")
	return nil
}

// Rollback откатывает открытую транзакцию.
func (u *UnitOfWork) Rollback() error {
	if err := u.tx.Rollback(); err != nil {
		if errors.Is(err, domain.ErrNoTransaction) {
			return fmt.Errorf("rollback unit of work: %w", err)
		}
		u.finish(metrics.OutcomeRollback)
		u.logger.WithError(err).Warn("rollback failed")
		return fmt.Errorf("rollback unit of work: %w", err)
	}
	u.finish(metrics.OutcomeRollback)
	u.logger.Debug("unit of work rolled back")
	return nil
}

func (u *UnitOfWork) finish(outcome string) {
	if u.metrics != nil {
		u.metrics.RecordFinished(outcome, time.Since(u.started))
	}
}
