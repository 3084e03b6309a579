package domain

// InventoryItem is a medicine, supply or pet food tracked by the ledger.
type InventoryItem struct {
	ID         int64   `db:"id" json:"id"`
	Name       string  `db:"name" json:"name"`
	Price      float64 `db:"price" json:"price"`
	Stock      int64   `db:"stock" json:"stock"`
	Category   string  `db:"category" json:"category"`
	Image      string  `db:"image" json:"image,omitempty"`
	Brand      string  `db:"brand" json:"brand"`
	AnimalType string  `db:"animal_type" json:"animal_type"`
	Dosage     string  `db:"dosage" json:"dosage"`
	Expiration string  `db:"expiration_date" json:"expiration_date"`
}
