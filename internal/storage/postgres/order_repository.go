package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vladislavdragonenkov/warehouse/internal/domain"
)

type orderRepository struct {
	session   *Session
	customers domain.CustomerRepository
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
// Клиент заказа читается через customers по внешнему ключу customer_id.
func NewOrderRepository(session *Session, customers domain.CustomerRepository) domain.OrderRepository {
	return &orderRepository{session: session, customers: customers}
}

// orderRow — строка таблицы orders до сборки доменного заказа.
type orderRow struct {
	id         int64
	customerID int64
	shippedAt  sql.NullTime
}

func (r *orderRepository) Add(ctx context.Context, order *domain.Order) error {
	if order.Customer.ID == 0 {
		return domain.ErrCustomerNotPersisted
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	id := order.ID
	err := r.session.atomic(ctx, func(q querier) error {
		if id != 0 {
			res, err := q.ExecContext(ctx, `
				UPDATE orders
				SET customer_id = $1,
				    ship_datetime = $2
				WHERE id = $3
			`, order.Customer.ID, order.ShippedAt, id)
			if err != nil {
				return fmt.Errorf("update order: %w", err)
			}
			if err := requireAffected(res, fmt.Errorf("update order %d: %w", id, domain.ErrOrderNotFound)); err != nil {
				return err
			}
		} else {
			if err := q.QueryRowContext(ctx, `
				INSERT INTO orders (customer_id, ship_datetime)
				VALUES ($1, $2)
				RETURNING id
			`, order.Customer.ID, order.ShippedAt).Scan(&id); err != nil {
				return fmt.Errorf("insert order: %w", err)
			}
		}

		// Набор связей заменяется целиком. Товары, которых нет в products,
		// не попадают в выборку и молча отбрасываются.
		if _, err := q.ExecContext(ctx, `
			DELETE FROM order_product_associations
			WHERE order_id = $1
		`, id); err != nil {
			return fmt.Errorf("clear order products: %w", err)
		}
		if _, err := q.ExecContext(ctx, `
			INSERT INTO order_product_associations (order_id, product_id)
			SELECT $1, p.id
			FROM products p
			WHERE p.id = ANY($2)
		`, id, order.ProductIDs()); err != nil {
			return fmt.Errorf("insert order products: %w", err)
		}
		return nil
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("order customer %d: %w", order.Customer.ID, domain.ErrCustomerNotFound)
		}
		return err
	}

	order.ID = id
	return nil
}

func (r *orderRepository) Get(ctx context.Context, id int64) (domain.Order, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.session.conn().QueryContext(ctx, `
		SELECT id, customer_id, ship_datetime
		FROM orders
		WHERE id = $1
	`, id)
	if err != nil {
		return domain.Order{}, false, fmt.Errorf("select order: %w", err)
	}
	orderRows, err := scanOrderRows(rows)
	if err != nil {
		return domain.Order{}, false, err
	}

	switch len(orderRows) {
	case 0:
		return domain.Order{}, false, nil
	case 1:
	default:
		return domain.Order{}, false, fmt.Errorf("order %d: %w", id, domain.ErrAmbiguousResult)
	}

	orders, err := r.assemble(ctx, orderRows)
	if err != nil {
		return domain.Order{}, false, err
	}
	return orders[0], true, nil
}

func (r *orderRepository) List(ctx context.Context) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.session.conn().QueryContext(ctx, `
		SELECT id, customer_id, ship_datetime
		FROM orders
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	orderRows, err := scanOrderRows(rows)
	if err != nil {
		return nil, err
	}
	return r.assemble(ctx, orderRows)
}

// assemble догружает товары одним запросом на все заказы и клиентов через CustomerRepository.
func (r *orderRepository) assemble(ctx context.Context, orderRows []orderRow) ([]domain.Order, error) {
	if len(orderRows) == 0 {
		return []domain.Order{}, nil
	}

	ids := make([]int64, len(orderRows))
	for i, row := range orderRows {
		ids[i] = row.id
	}
	products, err := r.loadProducts(ctx, ids)
	if err != nil {
		return nil, err
	}

	customers := make(map[int64]domain.Customer)
	orders := make([]domain.Order, 0, len(orderRows))
	for _, row := range orderRows {
		customer, ok := customers[row.customerID]
		if !ok {
			var found bool
			customer, found, err = r.customers.Get(ctx, row.customerID)
			if err != nil {
				return nil, fmt.Errorf("load customer for order %d: %w", row.id, err)
			}
			if !found {
				return nil, fmt.Errorf("order %d references customer %d: %w", row.id, row.customerID, domain.ErrCustomerNotFound)
			}
			customers[row.customerID] = customer
		}

		order := domain.Order{
			ID:       row.id,
			Customer: customer,
			Products: products[row.id],
		}
		if order.Products == nil {
			order.Products = []domain.Product{}
		}
		if row.shippedAt.Valid {
			shippedAt := row.shippedAt.Time.UTC()
			order.ShippedAt = &shippedAt
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (r *orderRepository) loadProducts(ctx context.Context, orderIDs []int64) (map[int64][]domain.Product, error) {
	rows, err := r.session.conn().QueryContext(ctx, `
		SELECT a.order_id, p.id, p.name, p.quantity, p.price
		FROM order_product_associations a
		JOIN products p ON p.id = a.product_id
		WHERE a.order_id = ANY($1)
		ORDER BY a.order_id ASC, p.id ASC
	`, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("load order products: %w", err)
	}
	defer rows.Close()

	result := make(map[int64][]domain.Product, len(orderIDs))
	for rows.Next() {
		var (
			orderID int64
			p       domain.Product
		)
		if err := rows.Scan(&orderID, &p.ID, &p.Name, &p.Quantity, &p.Price); err != nil {
			return nil, fmt.Errorf("scan order product: %w", err)
		}
		result[orderID] = append(result[orderID], p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order products: %w", err)
	}
	return result, nil
}

func scanOrderRows(rows *sql.Rows) ([]orderRow, error) {
	defer rows.Close()

	result := make([]orderRow, 0)
	for rows.Next() {
		var row orderRow
		if err := rows.Scan(&row.id, &row.customerID, &row.shippedAt); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}
	return result, nil
}

var _ domain.OrderRepository = (*orderRepository)(nil)
