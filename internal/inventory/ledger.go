// Package inventory owns the inventory table and its stock bookkeeping.
package inventory

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"vetclinic/m/domain"
	"vetclinic/m/internal/errs"
	"vetclinic/m/internal/obs"
)

const selectColumns = `id, name, price, stock,
       COALESCE(category, '') AS category,
       COALESCE(image, '') AS image,
       COALESCE(brand, '') AS brand,
       COALESCE(animal_type, '') AS animal_type,
       COALESCE(dosage, '') AS dosage,
       COALESCE(expiration_date, '') AS expiration_date`

// Ledger is the only component allowed to mutate inventory rows.
type Ledger struct {
	db *sqlx.DB
}

// NewLedger constructs a Ledger over the shared database handle.
func NewLedger(db *sqlx.DB) *Ledger {
	return &Ledger{db: db}
}

// List returns every item ordered by category then name.
func (l *Ledger) List() ([]domain.InventoryItem, error) {
	var items []domain.InventoryItem
	query := fmt.Sprintf(`SELECT %s FROM inventory ORDER BY category, name`, selectColumns)
	if err := l.db.Select(&items, query); err != nil {
		obs.Logger.Error("inventory list failed", "err", err)
		return nil, errs.E(errs.Persistence, "inventory.List", err)
	}
	return items, nil
}

// Search returns items whose name or category contains term,
// case-insensitively, in the same ordering as List.
func (l *Ledger) Search(term string) ([]domain.InventoryItem, error) {
	like := "%" + strings.TrimSpace(term) + "%"
	var items []domain.InventoryItem
	query := fmt.Sprintf(`SELECT %s FROM inventory WHERE name LIKE ? OR category LIKE ? ORDER BY category, name`, selectColumns)
	if err := l.db.Select(&items, query, like, like); err != nil {
		obs.Logger.Error("inventory search failed", "term", term, "err", err)
		return nil, errs.E(errs.Persistence, "inventory.Search", err)
	}
	return items, nil
}

// Get fetches a single item by id.
func (l *Ledger) Get(id int64) (domain.InventoryItem, error) {
	var item domain.InventoryItem
	query := fmt.Sprintf(`SELECT %s FROM inventory WHERE id = ?`, selectColumns)
	if err := l.db.Get(&item, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return item, errs.Errorf(errs.NotFound, "inventory.Get", "item %d not found", id)
		}
		obs.Logger.Error("inventory get failed", "id", id, "err", err)
		return item, errs.E(errs.Persistence, "inventory.Get", err)
	}
	return item, nil
}

// Add inserts a new item and returns it with its generated id.
func (l *Ledger) Add(item domain.InventoryItem) (domain.InventoryItem, error) {
	if err := validate(item); err != nil {
		return item, err
	}
	res, err := l.db.Exec(`INSERT INTO inventory (name, price, stock, category, image, brand, animal_type, dosage, expiration_date)
	                       VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.Name, item.Price, item.Stock, item.Category, item.Image, item.Brand, item.AnimalType, item.Dosage, item.Expiration)
	if err != nil {
		obs.Logger.Error("inventory add failed", "name", item.Name, "err", err)
		return item, errs.E(errs.Persistence, "inventory.Add", err)
	}
	item.ID, _ = res.LastInsertId()
	return item, nil
}

// Update fully replaces the item identified by item.ID.
func (l *Ledger) Update(item domain.InventoryItem) error {
	if err := validate(item); err != nil {
		return err
	}
	res, err := l.db.Exec(`UPDATE inventory SET name = ?, price = ?, stock = ?, category = ?, image = ?, brand = ?, animal_type = ?, dosage = ?, expiration_date = ?
	                       WHERE id = ?`,
		item.Name, item.Price, item.Stock, item.Category, item.Image, item.Brand, item.AnimalType, item.Dosage, item.Expiration, item.ID)
	if err != nil {
		obs.Logger.Error("inventory update failed", "id", item.ID, "err", err)
		return errs.E(errs.Persistence, "inventory.Update", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return errs.Errorf(errs.NotFound, "inventory.Update", "item %d not found", item.ID)
	}
	return nil
}

// Delete removes the item with the given id.
func (l *Ledger) Delete(id int64) error {
	res, err := l.db.Exec(`DELETE FROM inventory WHERE id = ?`, id)
	if err != nil {
		obs.Logger.Error("inventory delete failed", "id", id, "err", err)
		return errs.E(errs.Persistence, "inventory.Delete", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return errs.Errorf(errs.NotFound, "inventory.Delete", "item %d not found", id)
	}
	return nil
}

// AdjustStock applies stock = stock - delta. A negative delta restocks.
// The floor check lives in the sales register, not here: manual
// corrections may legitimately drive stock through zero.
func (l *Ledger) AdjustStock(id, delta int64) error {
	res, err := l.db.Exec(`UPDATE inventory SET stock = stock - ? WHERE id = ?`, delta, id)
	if err != nil {
		obs.Logger.Error("stock adjust failed", "id", id, "delta", delta, "err", err)
		return errs.E(errs.Persistence, "inventory.AdjustStock", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return errs.Errorf(errs.NotFound, "inventory.AdjustStock", "item %d not found", id)
	}
	return nil
}

func validate(item domain.InventoryItem) error {
	if strings.TrimSpace(item.Name) == "" {
		return errs.Errorf(errs.Validation, "inventory.validate", "name is required")
	}
	if item.Price < 0 {
		return errs.Errorf(errs.Validation, "inventory.validate", "price must not be negative")
	}
	if item.Stock < 0 {
		return errs.Errorf(errs.Validation, "inventory.validate", "stock must not be negative")
	}
	return nil
}
