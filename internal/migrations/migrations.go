package migrations

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"vetclinic/m/internal/errs"
	"vetclinic/m/internal/obs"
)

// Run creates the clinic schema and additively migrates older databases.
// Safe to call on every process start: tables are created only when
// missing and columns are only ever added, never dropped or renamed.
func Run(db *sqlx.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            username TEXT NOT NULL UNIQUE,
            password TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'staff'
        );`,
		`CREATE TABLE IF NOT EXISTS inventory (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            price REAL NOT NULL,
            stock INTEGER NOT NULL,
            category TEXT,
            image TEXT,
            brand TEXT,
            animal_type TEXT,
            dosage TEXT,
            expiration_date TEXT
        );`,
		`CREATE TABLE IF NOT EXISTS appointments (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            appointment_id TEXT NOT NULL,
            patient_name TEXT,
            owner_name TEXT,
            animal_type TEXT,
            service TEXT,
            qty INTEGER,
            price REAL,
            subtotal REAL,
            date TEXT,
            notes TEXT,
            status TEXT,
            total_amount REAL
        );`,
		`CREATE TABLE IF NOT EXISTS sales (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            transaction_id TEXT NOT NULL,
            item_id INTEGER,
            item_name TEXT,
            quantity INTEGER,
            price REAL,
            subtotal REAL,
            total_amount REAL,
            payment_method TEXT,
            customer_name TEXT,
            sale_date TEXT
        );`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return errs.E(errs.Persistence, "migrations.Run", err)
		}
	}

	// Columns introduced after the first release; old databases gain them
	// in place without losing rows.
	upgrades := map[string][]string{
		"accounts":     {"role TEXT DEFAULT 'staff'"},
		"inventory":    {"brand TEXT", "animal_type TEXT", "dosage TEXT", "expiration_date TEXT"},
		"appointments": {"total_amount REAL"},
	}
	for table, columns := range upgrades {
		existing, err := tableColumns(db, table)
		if err != nil {
			return err
		}
		for _, column := range columns {
			name := strings.Fields(column)[0]
			if existing[name] {
				continue
			}
			alter := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", table, column)
			if _, err := db.Exec(alter); err != nil {
				return errs.E(errs.Persistence, "migrations.Run", err)
			}
			obs.Logger.Info("added schema column", "table", table, "column", name)
		}
	}
	return nil
}

func tableColumns(db *sqlx.DB, table string) (map[string]bool, error) {
	rows, err := db.Queryx(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, errs.E(errs.Persistence, "migrations.tableColumns", err)
	}
	defer rows.Close()

	columns := make(map[string]bool)
	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notnull    int
			dfltValue  any
			primaryKey int
		)
		if err := rows.Scan(&cid, &name, &typ, &notnull, &dfltValue, &primaryKey); err != nil {
			return nil, errs.E(errs.Persistence, "migrations.tableColumns", err)
		}
		columns[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, errs.E(errs.Persistence, "migrations.tableColumns", err)
	}
	return columns, nil
}
