package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"vetclinic/m/domain"
	"vetclinic/m/internal/appointment"
	"vetclinic/m/internal/cart"
	clinicerrs "vetclinic/m/internal/errs"
	"vetclinic/m/internal/export"
	"vetclinic/m/internal/ids"
	"vetclinic/m/internal/inventory"
	"vetclinic/m/internal/receipt"
	"vetclinic/m/internal/sales"
)

type ctxKey string

const (
	ctxUserID ctxKey = "userID"
	ctxRole   ctxKey = "role"
)

// Handler bundles the managers behind the HTTP API. It never issues raw
// queries against manager-owned tables; accounts are the one table it
// reads itself, for login.
type Handler struct {
	db       *sqlx.DB
	secret   string
	ledger   *inventory.Ledger
	book     *appointment.Book
	register *sales.Register
}

// New constructs a Handler and its managers over the shared handle.
func New(db *sqlx.DB, secret string) *Handler {
	return &Handler{
		db:       db,
		secret:   secret,
		ledger:   inventory.NewLedger(db),
		book:     appointment.NewBook(db),
		register: sales.NewRegister(db),
	}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)

	r.Post("/auth/login", h.login)

	r.Group(func(pr chi.Router) {
		pr.Use(h.authMiddleware)

		pr.Route("/inventory", func(r chi.Router) {
			r.Get("/", h.listInventory)
			r.Get("/search", h.searchInventory)
			r.Post("/", h.addInventory)
			r.Put("/{id}", h.updateInventory)
			r.Delete("/{id}", h.deleteInventory)
			r.Post("/{id}/stock", h.adjustStock)
		})

		pr.Route("/appointments", func(r chi.Router) {
			r.Post("/", h.recordAppointment)
			r.Get("/", h.listAppointments)
			r.Get("/history", h.appointmentHistory)
			r.Put("/{id}/status", h.updateAppointmentStatus)
			r.Delete("/{id}", h.deleteAppointment)
		})

		pr.Route("/sales", func(r chi.Router) {
			r.Post("/", h.checkout)
			r.Get("/report", h.salesReport)
		})

		pr.Route("/exports", func(r chi.Router) {
			r.Get("/sales", h.exportSales)
			r.Get("/inventory", h.exportInventory)
			r.Get("/appointments", h.exportAppointments)
			r.Post("/inventory", h.importInventory)
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Authentication

type authClaims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (h *Handler) generateToken(userID int64, role string) (string, error) {
	claims := authClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.secret))
}

func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		tokenString := strings.TrimSpace(header[len("Bearer "):])
		token, err := jwt.ParseWithClaims(tokenString, &authClaims{}, func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(h.secret), nil
		})
		if err != nil || !token.Valid {
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		claims, ok := token.Claims.(*authClaims)
		if !ok {
			respondError(w, http.StatusUnauthorized, "invalid token claims")
			return
		}
		ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID)
		ctx = context.WithValue(ctx, ctxRole, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) requireRole(w http.ResponseWriter, r *http.Request, allowed ...string) bool {
	role := r.Context().Value(ctxRole)
	if role == nil {
		respondError(w, http.StatusUnauthorized, "missing role")
		return false
	}
	current := role.(string)
	for _, allowedRole := range allowed {
		if current == allowedRole {
			return true
		}
	}
	respondError(w, http.StatusForbidden, "insufficient permissions")
	return false
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string         `json:"token"`
	User  domain.Account `json:"user"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var account domain.Account
	err := h.db.Get(&account, `SELECT id, username, password, role FROM accounts WHERE username = ?`, req.Username)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(req.Password)) != nil {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.generateToken(account.ID, account.Role)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to generate token")
		return
	}

	account.Password = ""
	respondJSON(w, http.StatusOK, authResponse{Token: token, User: account})
}

// Inventory handlers

func (h *Handler) listInventory(w http.ResponseWriter, r *http.Request) {
	items, err := h.ledger.List()
	if err != nil {
		respondManagerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *Handler) searchInventory(w http.ResponseWriter, r *http.Request) {
	items, err := h.ledger.Search(r.URL.Query().Get("query"))
	if err != nil {
		respondManagerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *Handler) addInventory(w http.ResponseWriter, r *http.Request) {
	var item domain.InventoryItem
	if err := decodeJSON(r, &item); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	stored, err := h.ledger.Add(item)
	if err != nil {
		respondManagerError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, stored)
}

func (h *Handler) updateInventory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid inventory id")
		return
	}
	var item domain.InventoryItem
	if err := decodeJSON(r, &item); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	item.ID = id
	if err := h.ledger.Update(item); err != nil {
		respondManagerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) deleteInventory(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid inventory id")
		return
	}
	if err := h.ledger.Delete(id); err != nil {
		respondManagerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid inventory id")
		return
	}
	var payload struct {
		Delta int64 `json:"delta"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.ledger.AdjustStock(id, payload.Delta); err != nil {
		respondManagerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "stock adjusted"})
}

// Appointment handlers

type appointmentRequest struct {
	PatientName string               `json:"patient_name"`
	OwnerName   string               `json:"owner_name"`
	AnimalType  string               `json:"animal_type"`
	Notes       string               `json:"notes"`
	Services    []domain.ServiceLine `json:"services"`
}

func (h *Handler) recordAppointment(w http.ResponseWriter, r *http.Request) {
	var req appointmentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	apt := domain.Appointment{
		PatientName: req.PatientName,
		OwnerName:   req.OwnerName,
		AnimalType:  req.AnimalType,
		Notes:       req.Notes,
	}
	for _, svc := range req.Services {
		apt.AddService(svc.Service, svc.Quantity, svc.Price, svc.Subtotal)
	}
	id, err := h.book.Record(apt)
	if err != nil {
		respondManagerError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"appointment_id": id,
		"total_amount":   apt.TotalAmount,
	})
}

func (h *Handler) listAppointments(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.book.ListAll()
	if err != nil {
		respondManagerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summaries)
}

func (h *Handler) appointmentHistory(w http.ResponseWriter, r *http.Request) {
	rows, err := h.book.History(r.URL.Query().Get("date"), r.URL.Query().Get("id"))
	if err != nil {
		respondManagerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

func (h *Handler) updateAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.book.UpdateStatus(chi.URLParam(r, "id"), payload.Status); err != nil {
		respondManagerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) deleteAppointment(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	if err := h.book.Delete(chi.URLParam(r, "id")); err != nil {
		respondManagerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Sales handlers

type checkoutItem struct {
	ItemID   int64 `json:"item_id"`
	Quantity int64 `json:"quantity"`
}

type checkoutRequest struct {
	Items         []checkoutItem `json:"items"`
	PaymentMethod string         `json:"payment_method"`
	CustomerName  string         `json:"customer_name"`
}

// checkout builds a cart from the current catalog, settles it through the
// register and returns the rendered receipt.
func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Items) == 0 {
		respondError(w, http.StatusBadRequest, "no items in sale")
		return
	}

	c := cart.New()
	for _, reqItem := range req.Items {
		item, err := h.ledger.Get(reqItem.ItemID)
		if err != nil {
			respondManagerError(w, err)
			return
		}
		c.Add(item.ID, item.Name, item.Price, reqItem.Quantity, item.Category)
	}

	lines := c.Lines()
	total := c.Total()
	txID := ids.NewTransactionID()
	if err := h.register.RecordSale(txID, lines, total, req.PaymentMethod, req.CustomerName); err != nil {
		respondManagerError(w, err)
		return
	}

	receiptLines := make([]receipt.Line, len(lines))
	for i, line := range lines {
		receiptLines[i] = receipt.Line{Name: line.Name, Quantity: line.Quantity, Price: line.Price, Subtotal: line.Subtotal()}
	}
	text := receipt.Render(receipt.Header{
		Kind:          receipt.Sale,
		ID:            txID,
		Date:          time.Now().Format("2006-01-02 15:04:05"),
		Patient:       req.CustomerName,
		PaymentMethod: req.PaymentMethod,
		Total:         total,
	}, receiptLines)

	respondJSON(w, http.StatusCreated, map[string]any{
		"transaction_id": txID,
		"total_amount":   total,
		"item_count":     c.ItemCount(),
		"receipt":        text,
	})
}

func (h *Handler) salesReport(w http.ResponseWriter, r *http.Request) {
	startDate := strings.TrimSpace(r.URL.Query().Get("start_date"))
	endDate := strings.TrimSpace(r.URL.Query().Get("end_date"))
	for _, date := range []string{startDate, endDate} {
		if date == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", date); err != nil {
			respondError(w, http.StatusBadRequest, "dates must be in YYYY-MM-DD format")
			return
		}
	}
	records, err := h.register.Report(startDate, endDate)
	if err != nil {
		respondManagerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, records)
}

// Export handlers

func (h *Handler) exportSales(w http.ResponseWriter, r *http.Request) {
	records, err := h.register.Report("", "")
	if err != nil {
		respondManagerError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="vetclinic_sales.csv"`)
	if err := export.WriteSales(w, records); err != nil {
		respondManagerError(w, err)
	}
}

func (h *Handler) exportInventory(w http.ResponseWriter, r *http.Request) {
	items, err := h.ledger.List()
	if err != nil {
		respondManagerError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="vetclinic_inventory.csv"`)
	if err := export.WriteInventory(w, items); err != nil {
		respondManagerError(w, err)
	}
}

func (h *Handler) exportAppointments(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.book.ListAll()
	if err != nil {
		respondManagerError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="vetclinic_appointments.csv"`)
	if err := export.WriteAppointments(w, summaries); err != nil {
		respondManagerError(w, err)
	}
}

func (h *Handler) importInventory(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	items, err := export.ReadInventory(r.Body)
	if err != nil {
		respondManagerError(w, err)
		return
	}
	added := 0
	for _, item := range items {
		if _, err := h.ledger.Add(item); err != nil {
			respondManagerError(w, err)
			return
		}
		added++
	}
	respondJSON(w, http.StatusCreated, map[string]int{"imported": added})
}

// Helpers

func respondManagerError(w http.ResponseWriter, err error) {
	switch {
	case clinicerrs.IsKind(err, clinicerrs.Validation):
		respondError(w, http.StatusBadRequest, err.Error())
	case clinicerrs.IsKind(err, clinicerrs.NotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case clinicerrs.IsKind(err, clinicerrs.InsufficientStock):
		respondError(w, http.StatusConflict, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
