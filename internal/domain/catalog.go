package domain

// UnknownSeller is the placeholder offered when a product has no sales
// history to derive a seller suggestion from.
const UnknownSeller = "unknown_seller"

type Customer struct {
	ID       string `json:"customer_id"`
	UniqueID string `json:"customer_unique_id"`
}

type Product struct {
	ID          string `json:"product_id"`
	DisplayName string `json:"display_name"`
}

// ItemStats holds per-product aggregates over historical order items.
// They only pre-fill the entry form; operators may override every field.
type ItemStats struct {
	MeanPrice   float64  `json:"mean_price"`
	MeanFreight float64  `json:"mean_freight"`
	Sellers     []string `json:"sellers"`
}

// DefaultItemStats is the fallback for products that have never been
// ordered.
func DefaultItemStats() ItemStats {
	return ItemStats{Sellers: []string{UnknownSeller}}
}
