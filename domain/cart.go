package domain

// CartLine snapshots an inventory item inside a cart before checkout.
type CartLine struct {
	ItemID   int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int64   `json:"qty"`
	Category string  `json:"category"`
}

// Subtotal is the line value at the snapshot price.
func (l CartLine) Subtotal() float64 {
	return l.Price * float64(l.Quantity)
}
