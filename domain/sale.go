package domain

// SaleRecord is one sold line of a point-of-sale transaction. Every row
// sharing a TransactionID carries the identical TotalAmount.
type SaleRecord struct {
	ID            int64   `db:"id" json:"id"`
	TransactionID string  `db:"transaction_id" json:"transaction_id"`
	ItemID        int64   `db:"item_id" json:"item_id"`
	ItemName      string  `db:"item_name" json:"item_name"`
	Quantity      int64   `db:"quantity" json:"quantity"`
	Price         float64 `db:"price" json:"price"`
	Subtotal      float64 `db:"subtotal" json:"subtotal"`
	TotalAmount   float64 `db:"total_amount" json:"total_amount"`
	PaymentMethod string  `db:"payment_method" json:"payment_method"`
	CustomerName  string  `db:"customer_name" json:"customer_name"`
	SaleDate      string  `db:"sale_date" json:"sale_date"`
}
