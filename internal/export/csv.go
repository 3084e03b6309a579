// Package export renders clinic records as CSV with the fixed header rows
// the front desk expects, and parses inventory exports back in.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"vetclinic/m/domain"
	"vetclinic/m/internal/errs"
)

var (
	salesHeader        = []string{"Transaction ID", "Item Name", "Quantity", "Price", "Subtotal", "Total Amount", "Payment Method", "Customer Name", "Sale Date"}
	inventoryHeader    = []string{"ID", "Name", "Price", "Stock", "Category", "Brand", "Animal Type", "Dosage", "Expiration Date"}
	appointmentsHeader = []string{"Appointment ID", "Patient Name", "Owner Name", "Animal Type", "Date", "Notes", "Status", "Total Amount"}
)

// WriteSales emits one row per sold line.
func WriteSales(w io.Writer, records []domain.SaleRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(salesHeader); err != nil {
		return errs.E(errs.Persistence, "export.WriteSales", err)
	}
	for _, rec := range records {
		row := []string{
			rec.TransactionID,
			rec.ItemName,
			strconv.FormatInt(rec.Quantity, 10),
			formatAmount(rec.Price),
			formatAmount(rec.Subtotal),
			formatAmount(rec.TotalAmount),
			rec.PaymentMethod,
			rec.CustomerName,
			rec.SaleDate,
		}
		if err := cw.Write(row); err != nil {
			return errs.E(errs.Persistence, "export.WriteSales", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteInventory emits one row per item, surrogate id included so edits
// can be traced back.
func WriteInventory(w io.Writer, items []domain.InventoryItem) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(inventoryHeader); err != nil {
		return errs.E(errs.Persistence, "export.WriteInventory", err)
	}
	for _, item := range items {
		row := []string{
			strconv.FormatInt(item.ID, 10),
			item.Name,
			formatAmount(item.Price),
			strconv.FormatInt(item.Stock, 10),
			item.Category,
			item.Brand,
			item.AnimalType,
			item.Dosage,
			item.Expiration,
		}
		if err := cw.Write(row); err != nil {
			return errs.E(errs.Persistence, "export.WriteInventory", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteAppointments emits one aggregated row per appointment.
func WriteAppointments(w io.Writer, summaries []domain.AppointmentSummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(appointmentsHeader); err != nil {
		return errs.E(errs.Persistence, "export.WriteAppointments", err)
	}
	for _, apt := range summaries {
		row := []string{
			apt.AppointmentID,
			apt.PatientName,
			apt.OwnerName,
			apt.AnimalType,
			apt.Date,
			apt.Notes,
			apt.Status,
			formatAmount(apt.TotalAmount),
		}
		if err := cw.Write(row); err != nil {
			return errs.E(errs.Persistence, "export.WriteAppointments", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadInventory parses an inventory export back into items. Surrogate ids
// are dropped so the rows can be re-added to a ledger.
func ReadInventory(r io.Reader) ([]domain.InventoryItem, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, errs.E(errs.Validation, "export.ReadInventory", err)
	}
	if len(header) != len(inventoryHeader) {
		return nil, errs.Errorf(errs.Validation, "export.ReadInventory", "expected %d columns, got %d", len(inventoryHeader), len(header))
	}

	var items []domain.InventoryItem
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errs.E(errs.Validation, "export.ReadInventory", err)
		}
		price, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, errs.Errorf(errs.Validation, "export.ReadInventory", "line %d: bad price %q", line, record[2])
		}
		stock, err := strconv.ParseInt(record[3], 10, 64)
		if err != nil {
			return nil, errs.Errorf(errs.Validation, "export.ReadInventory", "line %d: bad stock %q", line, record[3])
		}
		items = append(items, domain.InventoryItem{
			Name:       record[1],
			Price:      price,
			Stock:      stock,
			Category:   record[4],
			Brand:      record[5],
			AnimalType: record[6],
			Dosage:     record[7],
			Expiration: record[8],
		})
	}
	return items, nil
}

func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
