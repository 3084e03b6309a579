package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"vetclinic/m/domain"
	"vetclinic/m/internal/migrations"
	"vetclinic/m/internal/seed"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := sqlx.Connect("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := migrations.Run(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := seed.DefaultAccounts(db); err != nil {
		t.Fatalf("seed accounts: %v", err)
	}
	srv := httptest.NewServer(New(db, "test_secret").Router())
	t.Cleanup(srv.Close)
	return srv
}

func login(t *testing.T, srv *httptest.Server, username, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"username":%q,"password":%q}`, username, password)
	resp, err := http.Post(srv.URL+"/auth/login", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login as %s: status %d", username, resp.StatusCode)
	}
	var payload struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return payload.Token
}

func doJSON(t *testing.T, srv *httptest.Server, method, path, token, body string) *http.Response {
	t.Helper()
	var buf *bytes.Buffer
	if body != "" {
		buf = bytes.NewBufferString(body)
	} else {
		buf = &bytes.Buffer{}
	}
	req, err := http.NewRequest(method, srv.URL+path, buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	srv := testServer(t)
	resp, err := http.Post(srv.URL+"/auth/login", "application/json",
		bytes.NewBufferString(`{"username":"admin","password":"wrong"}`))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := testServer(t)
	resp, err := http.Get(srv.URL + "/inventory/")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}
}

func TestCheckoutFlow(t *testing.T) {
	srv := testServer(t)
	token := login(t, srv, "admin", "admin123")

	resp := doJSON(t, srv, http.MethodPost, "/inventory/", token,
		`{"name":"Bandage","price":150.00,"stock":150,"category":"Supplies"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add inventory: status %d", resp.StatusCode)
	}
	var item domain.InventoryItem
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		t.Fatalf("decode item: %v", err)
	}
	resp.Body.Close()

	checkout := fmt.Sprintf(`{"items":[{"item_id":%d,"quantity":3}],"payment_method":"Cash","customer_name":"Walk-in"}`, item.ID)
	resp = doJSON(t, srv, http.MethodPost, "/sales/", token, checkout)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("checkout: status %d", resp.StatusCode)
	}
	var sale struct {
		TransactionID string  `json:"transaction_id"`
		TotalAmount   float64 `json:"total_amount"`
		ItemCount     int64   `json:"item_count"`
		Receipt       string  `json:"receipt"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&sale); err != nil {
		t.Fatalf("decode sale: %v", err)
	}
	resp.Body.Close()
	if sale.TotalAmount != 450.00 || sale.ItemCount != 3 {
		t.Fatalf("unexpected sale summary: %+v", sale)
	}
	if !bytes.Contains([]byte(sale.Receipt), []byte("TOTAL")) {
		t.Fatalf("receipt text missing from response")
	}

	resp = doJSON(t, srv, http.MethodGet, "/inventory/", token, "")
	var items []domain.InventoryItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		t.Fatalf("decode inventory: %v", err)
	}
	resp.Body.Close()
	if len(items) != 1 || items[0].Stock != 147 {
		t.Fatalf("expected stock 147 after checkout, got %+v", items)
	}
}

func TestCheckoutInsufficientStockConflicts(t *testing.T) {
	srv := testServer(t)
	token := login(t, srv, "staff", "staff123")

	resp := doJSON(t, srv, http.MethodPost, "/inventory/", token,
		`{"name":"Rabies Vaccine (1 dose)","price":350.00,"stock":2,"category":"Dog Medicines"}`)
	var item domain.InventoryItem
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		t.Fatalf("decode item: %v", err)
	}
	resp.Body.Close()

	checkout := fmt.Sprintf(`{"items":[{"item_id":%d,"quantity":3}],"payment_method":"Cash","customer_name":""}`, item.ID)
	resp = doJSON(t, srv, http.MethodPost, "/sales/", token, checkout)
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 on oversell, got %d", resp.StatusCode)
	}
}

func TestDeleteRequiresAdminRole(t *testing.T) {
	srv := testServer(t)
	adminToken := login(t, srv, "admin", "admin123")
	staffToken := login(t, srv, "staff", "staff123")

	resp := doJSON(t, srv, http.MethodPost, "/inventory/", staffToken,
		`{"name":"Old Stock","price":1.00,"stock":1}`)
	var item domain.InventoryItem
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		t.Fatalf("decode item: %v", err)
	}
	resp.Body.Close()

	resp = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/inventory/%d", item.ID), staffToken, "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("staff delete: expected 403, got %d", resp.StatusCode)
	}

	resp = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/inventory/%d", item.ID), adminToken, "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin delete: expected 200, got %d", resp.StatusCode)
	}
}

func TestAppointmentStatusOverHTTP(t *testing.T) {
	srv := testServer(t)
	token := login(t, srv, "staff", "staff123")

	body := `{"patient_name":"Rex","owner_name":"Ana Cruz","animal_type":"Dog","notes":"",
	          "services":[{"service":"Consultation","qty":1,"price":500.00,"subtotal":500.00}]}`
	resp := doJSON(t, srv, http.MethodPost, "/appointments/", token, body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("record appointment: status %d", resp.StatusCode)
	}
	var created struct {
		AppointmentID string  `json:"appointment_id"`
		TotalAmount   float64 `json:"total_amount"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode appointment: %v", err)
	}
	resp.Body.Close()
	if created.TotalAmount != 500.00 {
		t.Fatalf("expected total 500.00, got %.2f", created.TotalAmount)
	}

	resp = doJSON(t, srv, http.MethodPut, "/appointments/"+created.AppointmentID+"/status", token, `{"status":"COMPLETED"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("SCHEDULED -> COMPLETED over HTTP: expected 400, got %d", resp.StatusCode)
	}

	resp = doJSON(t, srv, http.MethodPut, "/appointments/"+created.AppointmentID+"/status", token, `{"status":"IN_PROGRESS"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("SCHEDULED -> IN_PROGRESS over HTTP: expected 200, got %d", resp.StatusCode)
	}
}
