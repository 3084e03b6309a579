// Package seed populates default accounts and the starting catalog.
package seed

import (
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"vetclinic/m/domain"
	"vetclinic/m/internal/errs"
	"vetclinic/m/internal/obs"
)

const (
	medicineStock = 50
	foodStock     = 30
)

type defaultAccount struct {
	username string
	password string
	role     string
}

var defaultAccounts = []defaultAccount{
	{username: "admin", password: "admin123", role: domain.RoleAdmin},
	{username: "staff", password: "staff123", role: domain.RoleStaff},
}

// DefaultAccounts inserts the built-in admin and staff accounts when no
// account with that username exists yet. Passwords are stored hashed.
func DefaultAccounts(db *sqlx.DB) error {
	for _, acc := range defaultAccounts {
		var exists bool
		if err := db.Get(&exists, `SELECT EXISTS(SELECT 1 FROM accounts WHERE username = ?)`, acc.username); err != nil {
			return errs.E(errs.Persistence, "seed.DefaultAccounts", err)
		}
		if exists {
			continue
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(acc.password), bcrypt.DefaultCost)
		if err != nil {
			return errs.E(errs.Persistence, "seed.DefaultAccounts", err)
		}
		if _, err := db.Exec(`INSERT INTO accounts (username, password, role) VALUES (?, ?, ?)`, acc.username, hashed, acc.role); err != nil {
			return errs.E(errs.Persistence, "seed.DefaultAccounts", err)
		}
		obs.Logger.Info("seeded default account", "username", acc.username, "role", acc.role)
	}
	return nil
}

// Catalog populates the inventory table from the static clinic catalog.
// It runs only when the table is empty, so items added or edited by hand
// survive restarts.
func Catalog(db *sqlx.DB) error {
	var count int64
	if err := db.Get(&count, `SELECT COUNT(*) FROM inventory`); err != nil {
		return errs.E(errs.Persistence, "seed.Catalog", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.Beginx()
	if err != nil {
		return errs.E(errs.Persistence, "seed.Catalog", err)
	}
	stmt, err := tx.Preparex(`INSERT INTO inventory (name, price, stock, category, brand, animal_type, dosage, expiration_date)
	                          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return errs.E(errs.Persistence, "seed.Catalog", err)
	}
	defer stmt.Close()

	rows := 0
	for _, item := range CatalogItems() {
		if _, err := stmt.Exec(item.Name, item.Price, item.Stock, item.Category, item.Brand, item.AnimalType, item.Dosage, item.Expiration); err != nil {
			_ = tx.Rollback()
			return errs.E(errs.Persistence, "seed.Catalog", err)
		}
		rows++
	}
	if err := tx.Commit(); err != nil {
		return errs.E(errs.Persistence, "seed.Catalog", err)
	}
	obs.Logger.Info("seeded inventory catalog", "rows", rows)
	return nil
}
