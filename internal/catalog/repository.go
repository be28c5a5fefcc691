package catalog

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/olist-labs/order-entry/internal/domain"
)

// CatalogRepository reads the reference data that drives the entry form:
// customers, products, and per-product historical aggregates. It never
// writes.
type CatalogRepository struct {
	db *sql.DB
}

func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT customer_id, customer_unique_id
		FROM customers
		ORDER BY customer_unique_id
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var customers []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.UniqueID); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return customers, nil
}

func (r *CatalogRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, product_category_name
		FROM products
		ORDER BY product_category_name, product_id
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.DisplayName); err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

// ItemStats aggregates all historical order items by product: mean price,
// mean freight, and every distinct seller that has sold the product.
// Products with no history have no entry; callers fall back to
// domain.DefaultItemStats.
func (r *CatalogRepository) ItemStats(ctx context.Context) (map[string]domain.ItemStats, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id,
		       AVG(price),
		       AVG(freight_value),
		       ARRAY_AGG(DISTINCT seller_id)
		FROM order_items
		GROUP BY product_id
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	stats := make(map[string]domain.ItemStats)
	for rows.Next() {
		var productID string
		var s domain.ItemStats
		if err := rows.Scan(&productID, &s.MeanPrice, &s.MeanFreight, pq.Array(&s.Sellers)); err != nil {
			return nil, err
		}
		stats[productID] = s
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
