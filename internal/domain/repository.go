package domain

import "context"

// CustomerRepository описывает требования к хранилищу клиентов.
type CustomerRepository interface {
	// Add сохраняет клиента. Для нового клиента (ID == 0) присваивает ID,
	// для уже сохранённого заменяет строку.
	Add(ctx context.Context, customer *Customer) error
	// Get возвращает клиента; found == false, если записи нет.
	Get(ctx context.Context, id int64) (customer Customer, found bool, err error)
	// List возвращает всех клиентов в порядке ID.
	List(ctx context.Context) ([]Customer, error)
	// Remove удаляет клиента вместе с его заказами.
	Remove(ctx context.Context, id int64) error
}

// ProductRepository описывает требования к хранилищу товаров.
type ProductRepository interface {
	Add(ctx context.Context, product *Product) error
	Get(ctx context.Context, id int64) (product Product, found bool, err error)
	List(ctx context.Context) ([]Product, error)
	// Remove удаляет товар; связи с заказами удаляются каскадно.
	Remove(ctx context.Context, id int64) error
}

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Add создаёт заказ (ID == 0) или обновляет существующий.
	// Набор связанных товаров заменяется целиком; товары, которых нет
	// в хранилище, молча отбрасываются.
	Add(ctx context.Context, order *Order) error
	// Get возвращает заказ с товарами и клиентом; found == false, если записи нет.
	Get(ctx context.Context, id int64) (order Order, found bool, err error)
	// List возвращает все заказы в порядке ID.
	List(ctx context.Context) ([]Order, error)
}
