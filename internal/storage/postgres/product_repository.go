package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vladislavdragonenkov/warehouse/internal/domain"
)

type productRepository struct {
	session *Session
}

// NewProductRepository создаёт PostgreSQL-реализацию ProductRepository.
func NewProductRepository(session *Session) domain.ProductRepository {
	return &productRepository{session: session}
}

func (r *productRepository) Add(ctx context.Context, product *domain.Product) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	q := r.session.conn()
	if product.ID != 0 {
		res, err := q.ExecContext(ctx, `
			UPDATE products
			SET name = $1, quantity = $2, price = $3
			WHERE id = $4
		`, product.Name, product.Quantity, product.Price, product.ID)
		if err != nil {
			return fmt.Errorf("update product: %w", err)
		}
		return requireAffected(res, fmt.Errorf("update product %d: %w", product.ID, domain.ErrProductNotFound))
	}

	var id int64
	if err := q.QueryRowContext(ctx, `
		INSERT INTO products (name, quantity, price)
		VALUES ($1, $2, $3)
		RETURNING id
	`, product.Name, product.Quantity, product.Price).Scan(&id); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	product.ID = id
	return nil
}

func (r *productRepository) Get(ctx context.Context, id int64) (domain.Product, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.session.conn().QueryContext(ctx, `
		SELECT id, name, quantity, price
		FROM products
		WHERE id = $1
	`, id)
	if err != nil {
		return domain.Product{}, false, fmt.Errorf("select product: %w", err)
	}
	products, err := scanProducts(rows)
	if err != nil {
		return domain.Product{}, false, err
	}

	switch len(products) {
	case 0:
		return domain.Product{}, false, nil
	case 1:
		return products[0], true, nil
	default:
		return domain.Product{}, false, fmt.Errorf("product %d: %w", id, domain.ErrAmbiguousResult)
	}
}

func (r *productRepository) List(ctx context.Context) ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.session.conn().QueryContext(ctx, `
		SELECT id, name, quantity, price
		FROM products
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return scanProducts(rows)
}

func (r *productRepository) Remove(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.session.conn().ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return requireAffected(res, fmt.Errorf("delete product %d: %w", id, domain.ErrProductNotFound))
}

func scanProducts(rows *sql.Rows) ([]domain.Product, error) {
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Quantity, &p.Price); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}
	return products, nil
}

var _ domain.ProductRepository = (*productRepository)(nil)
