package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/wholesale-trade/internal/domain"
	"github.com/jhoicas/wholesale-trade/internal/domain/entity"
	"github.com/jhoicas/wholesale-trade/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// List devuelve el catálogo ordenado por id.
func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, `SELECT id, product_name, price FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// ExistingIDs devuelve el subconjunto de ids presentes en products.
func (r *ProductRepo) ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	found := make(map[int64]bool, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	rows, err := r.q.Query(ctx, `SELECT id FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("existing products: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan product id: %w", err)
		}
		found[id] = true
	}
	return found, rows.Err()
}

// Upsert inserta o actualiza nombre y precio por id y avanza la secuencia si hace falta.
func (r *ProductRepo) Upsert(ctx context.Context, product *entity.Product) error {
	if product == nil || product.ID <= 0 {
		return domain.ErrInvalidInput
	}
	query := `
		INSERT INTO products (id, product_name, price)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET product_name = EXCLUDED.product_name, price = EXCLUDED.price`
	if _, err := r.q.Exec(ctx, query, product.ID, product.Name, product.Price); err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}
	_, err := r.q.Exec(ctx, `SELECT setval(pg_get_serial_sequence('products', 'id'), GREATEST((SELECT MAX(id) FROM products), 1))`)
	if err != nil {
		return fmt.Errorf("sync product sequence: %w", err)
	}
	return nil
}
