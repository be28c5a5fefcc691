package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusApproved  OrderStatus = "approved"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCanceled  OrderStatus = "canceled"
)

// ValidOrderStatus reports whether s is a status accepted on order entry.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusApproved, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCanceled:
		return true
	}
	return false
}

type OrderItem struct {
	ProductID    string  `json:"product_id"`
	Price        float64 `json:"price"`
	FreightValue float64 `json:"freight_value"`
	SellerID     string  `json:"seller_id"`
}

type Order struct {
	ID          string      `json:"order_id"`
	CustomerID  string      `json:"customer_id"`
	Status      OrderStatus `json:"order_status"`
	PurchasedAt time.Time   `json:"order_purchase_timestamp"`
	Items       []OrderItem `json:"items"`
}

// Total is the amount charged for the order: item prices plus freight.
func (o *Order) Total() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.Price + item.FreightValue
	}
	return total
}

// RecentOrder is one row of the dashboard listing: who ordered, which
// product categories, and the charged total including freight.
type RecentOrder struct {
	CustomerUniqueID string    `json:"customer_unique_id"`
	Products         string    `json:"products"`
	Total            float64   `json:"total"`
	PurchasedAt      time.Time `json:"order_purchase_timestamp"`
}
