package receipt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func appointmentHeader() Header {
	return Header{
		Kind:       Appointment,
		ID:         "APT20250801090000-1a2b3c4d",
		Date:       "2025-08-01 09:00:00",
		Patient:    "Rex",
		Owner:      "Ana Cruz",
		AnimalType: "Dog",
		Total:      1300.00,
	}
}

func appointmentLines() []Line {
	return []Line{
		{Name: "Consultation", Quantity: 1, Price: 500.00, Subtotal: 500.00},
		{Name: "Vaccination", Quantity: 1, Price: 800.00, Subtotal: 800.00},
	}
}

func TestRenderAppointmentByteExact(t *testing.T) {
	rule := strings.Repeat("=", 50)
	thin := strings.Repeat("-", 50)
	want := strings.Join([]string{
		rule,
		"         VETERINARY CLINIC",
		"       Official Service Receipt",
		"   123 Main Street, City, Philippines",
		"          Tel: (02) 1234-5678",
		rule,
		"",
		"Appointment: APT20250801090000-1a2b3c4d",
		"Date: 2025-08-01 09:00:00",
		"Patient: Rex",
		"Owner: Ana Cruz",
		"Animal Type: Dog",
		"",
		thin,
		"SERVICE/ITEM                       QTY   PRICE   SUBTOTAL",
		thin,
		"Consultation" + strings.Repeat(" ", 21) + "1  ₱500.00  ₱ 500.00",
		"Vaccination" + strings.Repeat(" ", 22) + "1  ₱800.00  ₱ 800.00",
		thin,
		"TOTAL: ₱" + strings.Repeat(" ", 31) + "1300.00",
		rule,
		"",
		"POLICY:",
		"• Follow-up appointments as advised",
		"• Keep this receipt for records",
		"• Contact us for any concerns",
		"",
		"Thank you for choosing our clinic!",
		"We care for your pets",
		rule,
		"",
	}, "\n")

	got := Render(appointmentHeader(), appointmentLines())
	if got != want {
		t.Fatalf("rendered receipt differs from expected layout:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	first := Render(appointmentHeader(), appointmentLines())
	second := Render(appointmentHeader(), appointmentLines())
	if first != second {
		t.Fatalf("identical inputs produced different bytes")
	}
}

func TestRenderIncludesNotesOnlyWhenPresent(t *testing.T) {
	h := appointmentHeader()
	if strings.Contains(Render(h, nil), "Notes:") {
		t.Fatalf("empty notes must not render a Notes line")
	}
	h.Notes = "fasting required"
	if !strings.Contains(Render(h, nil), "Notes: fasting required") {
		t.Fatalf("notes line missing")
	}
}

func TestRenderTruncatesLongNames(t *testing.T) {
	long := strings.Repeat("x", 40)
	out := Render(appointmentHeader(), []Line{{Name: long, Quantity: 1, Price: 1, Subtotal: 1}})
	truncated := strings.Repeat("x", 27) + "..."
	if !strings.Contains(out, truncated) {
		t.Fatalf("expected name truncated to %q", truncated)
	}
	if strings.Contains(out, strings.Repeat("x", 31)) {
		t.Fatalf("name longer than 30 characters leaked into the table")
	}
}

func TestRenderSaleHeader(t *testing.T) {
	out := Render(Header{
		Kind:          Sale,
		ID:            "TXN20250801090000-1a2b3c4d",
		Date:          "2025-08-01 09:00:00",
		Patient:       "Walk-in",
		PaymentMethod: "Cash",
		Total:         450.00,
	}, []Line{{Name: "Bandage", Quantity: 3, Price: 150.00, Subtotal: 450.00}})

	for _, want := range []string{
		"Transaction: TXN20250801090000-1a2b3c4d",
		"Customer: Walk-in",
		"Payment Method: Cash",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("sale receipt missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Patient:") || strings.Contains(out, "Appointment:") {
		t.Fatalf("sale receipt carries appointment wording:\n%s", out)
	}
}

func TestSaveToFile(t *testing.T) {
	text := Render(appointmentHeader(), appointmentLines())
	path := filepath.Join(t.TempDir(), "receipt.txt")
	if err := SaveToFile(path, text); err != nil {
		t.Fatalf("SaveToFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != text {
		t.Fatalf("file contents differ from rendered receipt")
	}
}
