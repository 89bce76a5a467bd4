package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/warehouse/internal/domain"
)

const (
	opTimeout = 5 * time.Second
)

type customerRepository struct {
	session *Session
}

// NewCustomerRepository создаёт PostgreSQL-реализацию CustomerRepository.
func NewCustomerRepository(session *Session) domain.CustomerRepository {
	return &customerRepository{session: session}
}

func (r *customerRepository) Add(ctx context.Context, customer *domain.Customer) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	q := r.session.conn()
	if customer.ID != 0 {
		res, err := q.ExecContext(ctx, `
			UPDATE customers
			SET name = $1, email = $2, address = $3
			WHERE id = $4
		`, customer.Name, string(customer.Email), customer.Address, customer.ID)
		if err != nil {
			return fmt.Errorf("update customer: %w", err)
		}
		return requireAffected(res, fmt.Errorf("update customer %d: %w", customer.ID, domain.ErrCustomerNotFound))
	}

	var id int64
	if err := q.QueryRowContext(ctx, `
		INSERT INTO customers (name, email, address)
		VALUES ($1, $2, $3)
		RETURNING id
	`, customer.Name, string(customer.Email), customer.Address).Scan(&id); err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	customer.ID = id
	return nil
}

func (r *customerRepository) Get(ctx context.Context, id int64) (domain.Customer, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.session.conn().QueryContext(ctx, `
		SELECT id, name, email, address
		FROM customers
		WHERE id = $1
	`, id)
	if err != nil {
		return domain.Customer{}, false, fmt.Errorf("select customer: %w", err)
	}
	customers, err := scanCustomers(rows)
	if err != nil {
		return domain.Customer{}, false, err
	}

	switch len(customers) {
	case 0:
		return domain.Customer{}, false, nil
	case 1:
		return customers[0], true, nil
	default:
		return domain.Customer{}, false, fmt.Errorf("customer %d: %w", id, domain.ErrAmbiguousResult)
	}
}

func (r *customerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.session.conn().QueryContext(ctx, `
		SELECT id, name, email, address
		FROM customers
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return scanCustomers(rows)
}

func (r *customerRepository) Remove(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.session.conn().ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return requireAffected(res, fmt.Errorf("delete customer %d: %w", id, domain.ErrCustomerNotFound))
}

func scanCustomers(rows *sql.Rows) ([]domain.Customer, error) {
	defer rows.Close()

	customers := make([]domain.Customer, 0)
	for rows.Next() {
		var (
			c     domain.Customer
			email string
		)
		if err := rows.Scan(&c.ID, &c.Name, &email, &c.Address); err != nil {
			return nil, fmt.Errorf("scan customer row: %w", err)
		}
		c.Email = domain.Email(email)
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customer rows: %w", err)
	}
	return customers, nil
}

// requireAffected возвращает notFound, если запрос не затронул ни одной строки.
func requireAffected(res sql.Result, notFound error) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return notFound
	}
	return nil
}

var _ domain.CustomerRepository = (*customerRepository)(nil)
