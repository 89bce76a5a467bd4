package domain

import "context"

// Notifier доставляет сообщение клиенту по заказу.
type Notifier interface {
	NotifyCustomer(ctx context.Context, order Order, message string) error
}

// Transactor открывает и завершает транзакцию хранилища.
// Вложенные транзакции не поддерживаются.
type Transactor interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error
}
