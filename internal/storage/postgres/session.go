package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/warehouse/internal/domain"
)

const pgForeignKeyViolation = "23503"

// querier — общее подмножество *sql.DB и *sql.Tx, которым пользуются репозитории.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Session — сессия хранилища, общая для всех репозиториев одной единицы работы.
// Держит не более одной открытой транзакции; пока транзакция открыта,
// все запросы репозиториев идут через неё.
type Session struct {
	db *sql.DB

	mu sync.Mutex
	tx *sql.Tx
}

// NewSession создаёт сессию поверх пула соединений Store.
func NewSession(store *Store) *Session {
	return &Session{db: store.DB()}
}

// Begin открывает транзакцию. Вложенные транзакции не поддерживаются.
func (s *Session) Begin(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tx != nil {
		return domain.ErrTransactionInProgress
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	s.tx = tx
	return nil
}

// Commit фиксирует открытую транзакцию.
func (s *Session) Commit() error {
	tx, err := s.detach()
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Rollback откатывает открытую транзакцию.
func (s *Session) Rollback() error {
	tx, err := s.detach()
	if err != nil {
		return err
	}
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rollback tx: %w", err)
	}
	return nil
}

// InTransaction сообщает, открыта ли транзакция.
func (s *Session) InTransaction() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx != nil
}

func (s *Session) detach() (*sql.Tx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tx == nil {
		return nil, domain.ErrNoTransaction
	}
	tx := s.tx
	s.tx = nil
	return tx, nil
}

// conn возвращает открытую транзакцию или пул соединений.
func (s *Session) conn() querier {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tx != nil {
		return s.tx
	}
	return s.db
}

// atomic выполняет fn в открытой транзакции сессии. Без открытой транзакции
// fn выполняется в короткой локальной транзакции: многошаговая запись не остаётся частичной.
func (s *Session) atomic(ctx context.Context, fn func(q querier) error) (err error) {
	s.mu.Lock()
	tx := s.tx
	s.mu.Unlock()

	if tx != nil {
		return fn(tx)
	}

	local, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = local.Rollback()
		}
	}()

	if err = fn(local); err != nil {
		return err
	}
	if err = local.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

var _ domain.Transactor = (*Session)(nil)

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	return false
}
