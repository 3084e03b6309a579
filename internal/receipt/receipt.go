// Package receipt renders finalized transactions into the clinic's
// fixed-layout text receipt. Rendering is a pure function of its inputs:
// identical inputs produce identical bytes.
package receipt

import (
	"fmt"
	"os"
	"strings"

	"vetclinic/m/internal/errs"
)

// Kind selects the header wording.
type Kind int

const (
	// Appointment receipts reference a patient and owner.
	Appointment Kind = iota
	// Sale receipts reference a customer and payment method.
	Sale
)

// Header carries the fields printed above the item table.
type Header struct {
	Kind          Kind
	ID            string
	Date          string
	Patient       string // customer name for sales
	Owner         string
	AnimalType    string
	PaymentMethod string
	Notes         string
	Total         float64
}

// Line is one row of the item table.
type Line struct {
	Name     string
	Quantity int64
	Price    float64
	Subtotal float64
}

const width = 50

// Render produces the full receipt text.
func Render(h Header, lines []Line) string {
	var b strings.Builder
	rule := strings.Repeat("=", width)
	thin := strings.Repeat("-", width)

	b.WriteString(rule + "\n")
	b.WriteString("         VETERINARY CLINIC\n")
	b.WriteString("       Official Service Receipt\n")
	b.WriteString("   123 Main Street, City, Philippines\n")
	b.WriteString("          Tel: (02) 1234-5678\n")
	b.WriteString(rule + "\n\n")

	switch h.Kind {
	case Sale:
		fmt.Fprintf(&b, "Transaction: %s\n", h.ID)
		fmt.Fprintf(&b, "Date: %s\n", h.Date)
		if h.Patient != "" {
			fmt.Fprintf(&b, "Customer: %s\n", h.Patient)
		}
		if h.PaymentMethod != "" {
			fmt.Fprintf(&b, "Payment Method: %s\n", h.PaymentMethod)
		}
	default:
		fmt.Fprintf(&b, "Appointment: %s\n", h.ID)
		fmt.Fprintf(&b, "Date: %s\n", h.Date)
		fmt.Fprintf(&b, "Patient: %s\n", h.Patient)
		fmt.Fprintf(&b, "Owner: %s\n", h.Owner)
		fmt.Fprintf(&b, "Animal Type: %s\n", h.AnimalType)
	}
	if h.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", h.Notes)
	}

	b.WriteString("\n" + thin + "\n")
	b.WriteString("SERVICE/ITEM                       QTY   PRICE   SUBTOTAL\n")
	b.WriteString(thin + "\n")

	for _, line := range lines {
		name := line.Name
		if len(name) > 30 {
			name = name[:27] + "..."
		}
		fmt.Fprintf(&b, "%-30s %3d  ₱%6.2f  ₱%7.2f\n", name, line.Quantity, line.Price, line.Subtotal)
	}

	b.WriteString(thin + "\n")
	fmt.Fprintf(&b, "TOTAL: ₱%38.2f\n", h.Total)
	b.WriteString(rule + "\n\n")

	b.WriteString("POLICY:\n")
	b.WriteString("• Follow-up appointments as advised\n")
	b.WriteString("• Keep this receipt for records\n")
	b.WriteString("• Contact us for any concerns\n\n")

	b.WriteString("Thank you for choosing our clinic!\n")
	b.WriteString("We care for your pets\n")
	b.WriteString(rule + "\n")

	return b.String()
}

// SaveToFile writes the rendered receipt to path.
func SaveToFile(path, text string) error {
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return errs.E(errs.Persistence, "receipt.SaveToFile", err)
	}
	return nil
}
