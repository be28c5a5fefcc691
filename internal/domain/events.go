package domain

import "time"

type OrderPlacedEvent struct {
	OrderID    string      `json:"order_id"`
	CustomerID string      `json:"customer_id"`
	Items      []OrderItem `json:"items"`
	PlacedAt   time.Time   `json:"placed_at"`
}
