package cart

import "time"

// LineItem is one entry in a shared cart. Prices are carried as
// integer cents to keep currency arithmetic exact.
type LineItem struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	Quantity       int       `json:"quantity"`
	AddedBy        string    `json:"addedBy"`
	AddedAt        time.Time `json:"addedAt"`
}

// Totals is the computed price breakdown for a cart.
type Totals struct {
	SubtotalCents    int64 `json:"subtotalCents"`
	TaxCents         int64 `json:"taxCents"`
	DeliveryFeeCents int64 `json:"deliveryFeeCents"`
	GrandTotalCents  int64 `json:"grandTotalCents"`
}
