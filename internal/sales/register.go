// Package sales settles point-of-sale transactions: it persists sold
// lines and decrements matching inventory stock as one atomic unit.
package sales

import (
	"math"
	"time"

	"github.com/jmoiron/sqlx"

	"vetclinic/m/domain"
	"vetclinic/m/internal/errs"
	"vetclinic/m/internal/obs"
)

const dateLayout = "2006-01-02 15:04:05"

// Register manages the sales table.
type Register struct {
	db *sqlx.DB
}

// NewRegister constructs a Register over the shared database handle.
func NewRegister(db *sqlx.DB) *Register {
	return &Register{db: db}
}

// RecordSale inserts one sale row per line under transactionID and
// decrements stock for each line inside the same transaction. The
// decrement is guarded with stock >= qty; if any line fails the guard the
// whole sale rolls back and InsufficientStock is returned, so a sale can
// never drive stock negative or partially commit.
func (r *Register) RecordSale(transactionID string, lines []domain.CartLine, total float64, paymentMethod, customerName string) error {
	if len(lines) == 0 {
		return errs.Errorf(errs.Validation, "sales.RecordSale", "no items in sale")
	}
	if paymentMethod == "" {
		return errs.Errorf(errs.Validation, "sales.RecordSale", "payment method is required")
	}
	var sum float64
	for _, line := range lines {
		if line.Quantity < 1 {
			return errs.Errorf(errs.Validation, "sales.RecordSale", "item %q quantity must be at least 1", line.Name)
		}
		sum += line.Subtotal()
	}
	if math.Abs(sum-total) > 0.005 {
		return errs.Errorf(errs.Validation, "sales.RecordSale", "total %.2f does not match line subtotals %.2f", total, sum)
	}

	saleDate := time.Now().Format(dateLayout)

	tx, err := r.db.Beginx()
	if err != nil {
		return errs.E(errs.Persistence, "sales.RecordSale", err)
	}
	defer tx.Rollback()

	for _, line := range lines {
		_, err := tx.Exec(`INSERT INTO sales
		        (transaction_id, item_id, item_name, quantity, price, subtotal, total_amount, payment_method, customer_name, sale_date)
		        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			transactionID, line.ItemID, line.Name, line.Quantity, line.Price, line.Subtotal(),
			total, paymentMethod, customerName, saleDate)
		if err != nil {
			obs.Logger.Error("sale insert failed", "transaction_id", transactionID, "item_id", line.ItemID, "err", err)
			return errs.E(errs.Persistence, "sales.RecordSale", err)
		}

		res, err := tx.Exec(`UPDATE inventory SET stock = stock - ? WHERE id = ? AND stock >= ?`,
			line.Quantity, line.ItemID, line.Quantity)
		if err != nil {
			obs.Logger.Error("stock decrement failed", "transaction_id", transactionID, "item_id", line.ItemID, "err", err)
			return errs.E(errs.Persistence, "sales.RecordSale", err)
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return errs.Errorf(errs.InsufficientStock, "sales.RecordSale",
				"insufficient stock for %q (item %d, wanted %d)", line.Name, line.ItemID, line.Quantity)
		}
	}

	if err := tx.Commit(); err != nil {
		return errs.E(errs.Persistence, "sales.RecordSale", err)
	}
	obs.Logger.Info("recorded sale", "transaction_id", transactionID, "lines", len(lines), "total", total)
	return nil
}

// Report returns sale rows between the inclusive date bounds, newest
// first. Empty bounds are open-ended; dates are YYYY-MM-DD.
func (r *Register) Report(startDate, endDate string) ([]domain.SaleRecord, error) {
	query := `SELECT id, transaction_id, item_id, item_name, quantity, price, subtotal, total_amount,
	                 payment_method, COALESCE(customer_name, '') AS customer_name, sale_date
	            FROM sales WHERE 1=1`
	var args []any
	if startDate != "" {
		query += " AND sale_date >= ?"
		args = append(args, startDate)
	}
	if endDate != "" {
		// The bound is inclusive of the whole end day even though rows
		// carry a time component.
		query += " AND sale_date <= ?"
		args = append(args, endDate+" 23:59:59")
	}
	query += " ORDER BY sale_date DESC"

	var records []domain.SaleRecord
	if err := r.db.Select(&records, query, args...); err != nil {
		obs.Logger.Error("sales report failed", "err", err)
		return nil, errs.E(errs.Persistence, "sales.Report", err)
	}
	return records, nil
}
