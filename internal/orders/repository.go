package orders

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/olist-labs/order-entry/internal/domain"
)

// ErrNoItems is returned when an order is submitted without line items.
// The form already prevents this; the repository rejects it anyway before
// opening a transaction.
var ErrNoItems = errors.New("order has no items")

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create persists the order and all of its items in a single transaction.
// The order id is generated here, never supplied by the caller, and the
// purchase timestamp is truncated to whole seconds before storage. Either
// every row commits or none do.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	if len(order.Items) == 0 {
		return ErrNoItems
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	order.ID = uuid.New().String()
	order.PurchasedAt = order.PurchasedAt.Truncate(time.Second)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (order_id, customer_id, order_status, order_purchase_timestamp)
		VALUES ($1, $2, $3, $4)
	`, order.ID, order.CustomerID, order.Status, order.PurchasedAt)
	if err != nil {
		return err
	}

	for _, item := range order.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, price, freight_value, seller_id)
			VALUES ($1, $2, $3, $4, $5)
		`, order.ID, item.ProductID, item.Price, item.FreightValue, item.SellerID)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	order := &domain.Order{}

	err := r.db.QueryRowContext(ctx, `
		SELECT order_id, customer_id, order_status, order_purchase_timestamp
		FROM orders
		WHERE order_id = $1
	`, id).Scan(&order.ID, &order.CustomerID, &order.Status, &order.PurchasedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, price, freight_value, seller_id
		FROM order_items
		WHERE order_id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ProductID, &item.Price, &item.FreightValue, &item.SellerID); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return order, nil
}

// ListRecent returns the dashboard rows for the most recent orders,
// newest first: customer unique id, aggregated product names, and total
// including freight.
func (r *OrderRepository) ListRecent(ctx context.Context, limit int) ([]domain.RecentOrder, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.customer_unique_id,
		       STRING_AGG(p.product_category_name, ', ' ORDER BY p.product_category_name),
		       SUM(oi.price + oi.freight_value),
		       o.order_purchase_timestamp
		FROM orders o
		JOIN customers c ON c.customer_id = o.customer_id
		JOIN order_items oi ON oi.order_id = o.order_id
		JOIN products p ON p.product_id = oi.product_id
		GROUP BY o.order_id, c.customer_unique_id, o.order_purchase_timestamp
		ORDER BY o.order_purchase_timestamp DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	recent := []domain.RecentOrder{}
	for rows.Next() {
		var ro domain.RecentOrder
		if err := rows.Scan(&ro.CustomerUniqueID, &ro.Products, &ro.Total, &ro.PurchasedAt); err != nil {
			return nil, err
		}
		recent = append(recent, ro)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return recent, nil
}
