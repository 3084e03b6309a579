package export

import (
	"bytes"
	"strings"
	"testing"

	"vetclinic/m/domain"
	"vetclinic/m/internal/errs"
)

func sampleItems() []domain.InventoryItem {
	return []domain.InventoryItem{
		{ID: 1, Name: "Rabies Vaccine (1 dose)", Price: 350.00, Stock: 50, Category: "Dog Medicines", Brand: "Generic", AnimalType: "Dog", Dosage: "1ml", Expiration: "2 years"},
		{ID: 2, Name: "Premium Dog Dry Food 5kg", Price: 850.00, Stock: 30, Category: "Pet Food", Brand: "Premium", AnimalType: "Dog", Dosage: "N/A", Expiration: "2 years"},
	}
}

func TestInventoryRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteInventory(&buf, sampleItems()); err != nil {
		t.Fatalf("WriteInventory: %v", err)
	}

	got, err := ReadInventory(&buf)
	if err != nil {
		t.Fatalf("ReadInventory: %v", err)
	}
	want := sampleItems()
	if len(got) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(got))
	}
	for i := range want {
		// Surrogate ids are intentionally dropped on import.
		want[i].ID = 0
		if got[i] != want[i] {
			t.Fatalf("item %d differs:\n got %+v\nwant %+v", i, got[i], want[i])
		}
	}
}

func TestWriteInventoryHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteInventory(&buf, nil); err != nil {
		t.Fatalf("WriteInventory: %v", err)
	}
	first := strings.SplitN(buf.String(), "\n", 2)[0]
	if first != "ID,Name,Price,Stock,Category,Brand,Animal Type,Dosage,Expiration Date" {
		t.Fatalf("unexpected header row: %q", first)
	}
}

func TestWriteSales(t *testing.T) {
	var buf bytes.Buffer
	records := []domain.SaleRecord{{
		TransactionID: "TXN-test",
		ItemName:      "Bandage",
		Quantity:      3,
		Price:         150.00,
		Subtotal:      450.00,
		TotalAmount:   450.00,
		PaymentMethod: "Cash",
		CustomerName:  "Walk-in",
		SaleDate:      "2025-08-01 09:00:00",
	}}
	if err := WriteSales(&buf, records); err != nil {
		t.Fatalf("WriteSales: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if lines[0] != "Transaction ID,Item Name,Quantity,Price,Subtotal,Total Amount,Payment Method,Customer Name,Sale Date" {
		t.Fatalf("unexpected header row: %q", lines[0])
	}
	if lines[1] != "TXN-test,Bandage,3,150.00,450.00,450.00,Cash,Walk-in,2025-08-01 09:00:00" {
		t.Fatalf("unexpected data row: %q", lines[1])
	}
}

func TestWriteAppointments(t *testing.T) {
	var buf bytes.Buffer
	summaries := []domain.AppointmentSummary{{
		AppointmentID: "APT-test",
		PatientName:   "Rex",
		OwnerName:     "Ana Cruz",
		AnimalType:    "Dog",
		Date:          "2025-08-01 09:00:00",
		Notes:         "annual visit",
		Status:        domain.StatusScheduled,
		TotalAmount:   1300.00,
	}}
	if err := WriteAppointments(&buf, summaries); err != nil {
		t.Fatalf("WriteAppointments: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if lines[0] != "Appointment ID,Patient Name,Owner Name,Animal Type,Date,Notes,Status,Total Amount" {
		t.Fatalf("unexpected header row: %q", lines[0])
	}
	if lines[1] != "APT-test,Rex,Ana Cruz,Dog,2025-08-01 09:00:00,annual visit,SCHEDULED,1300.00" {
		t.Fatalf("unexpected data row: %q", lines[1])
	}
}

func TestReadInventoryRejectsBadRows(t *testing.T) {
	badPrice := "ID,Name,Price,Stock,Category,Brand,Animal Type,Dosage,Expiration Date\n1,Bandage,abc,10,Supplies,Generic,All,N/A,5 years\n"
	if _, err := ReadInventory(strings.NewReader(badPrice)); !errs.IsKind(err, errs.Validation) {
		t.Fatalf("bad price: expected validation error, got %v", err)
	}

	badStock := "ID,Name,Price,Stock,Category,Brand,Animal Type,Dosage,Expiration Date\n1,Bandage,150.00,lots,Supplies,Generic,All,N/A,5 years\n"
	if _, err := ReadInventory(strings.NewReader(badStock)); !errs.IsKind(err, errs.Validation) {
		t.Fatalf("bad stock: expected validation error, got %v", err)
	}

	shortHeader := "ID,Name,Price\n"
	if _, err := ReadInventory(strings.NewReader(shortHeader)); !errs.IsKind(err, errs.Validation) {
		t.Fatalf("short header: expected validation error, got %v", err)
	}
}
