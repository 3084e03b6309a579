// Package appointment records veterinary appointments and their billable
// service lines. Each appointment persists as one row per service line
// sharing the generated appointment id.
package appointment

import (
	"database/sql"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"vetclinic/m/domain"
	"vetclinic/m/internal/errs"
	"vetclinic/m/internal/ids"
	"vetclinic/m/internal/obs"
)

const dateLayout = "2006-01-02 15:04:05"

// transitions is the allow-list of status moves. COMPLETED and CANCELLED
// are terminal.
var transitions = map[string][]string{
	domain.StatusScheduled:  {domain.StatusInProgress, domain.StatusCancelled},
	domain.StatusInProgress: {domain.StatusCompleted, domain.StatusCancelled},
	domain.StatusCompleted:  {},
	domain.StatusCancelled:  {},
}

// Book manages the appointments table.
type Book struct {
	db *sqlx.DB
}

// NewBook constructs a Book over the shared database handle.
func NewBook(db *sqlx.DB) *Book {
	return &Book{db: db}
}

// Record persists the appointment, one row per service line under a fresh
// generated id, and returns the id. The appointment must carry at least
// one service line and a total matching the sum of the line subtotals.
func (b *Book) Record(apt domain.Appointment) (string, error) {
	if strings.TrimSpace(apt.PatientName) == "" {
		return "", errs.Errorf(errs.Validation, "appointment.Record", "patient name is required")
	}
	if len(apt.Services) == 0 {
		return "", errs.Errorf(errs.Validation, "appointment.Record", "at least one service line is required")
	}
	var sum float64
	for _, svc := range apt.Services {
		if svc.Quantity < 1 {
			return "", errs.Errorf(errs.Validation, "appointment.Record", "service %q quantity must be at least 1", svc.Service)
		}
		sum += svc.Subtotal
	}
	if math.Abs(sum-apt.TotalAmount) > 0.005 {
		return "", errs.Errorf(errs.Validation, "appointment.Record", "total %.2f does not match service subtotals %.2f", apt.TotalAmount, sum)
	}

	if apt.AppointmentID == "" {
		apt.AppointmentID = ids.NewAppointmentID()
	}
	if apt.Status == "" {
		apt.Status = domain.StatusScheduled
	}
	if _, ok := transitions[apt.Status]; !ok {
		return "", errs.Errorf(errs.Validation, "appointment.Record", "unknown status %q", apt.Status)
	}
	if apt.Date == "" {
		apt.Date = time.Now().Format(dateLayout)
	}

	tx, err := b.db.Beginx()
	if err != nil {
		return "", errs.E(errs.Persistence, "appointment.Record", err)
	}
	defer tx.Rollback()

	for _, svc := range apt.Services {
		_, err := tx.Exec(`INSERT INTO appointments
		        (appointment_id, patient_name, owner_name, animal_type, service, qty, price, subtotal, date, notes, status, total_amount)
		        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			apt.AppointmentID, apt.PatientName, apt.OwnerName, apt.AnimalType,
			svc.Service, svc.Quantity, svc.Price, svc.Subtotal,
			apt.Date, apt.Notes, apt.Status, apt.TotalAmount)
		if err != nil {
			obs.Logger.Error("appointment insert failed", "appointment_id", apt.AppointmentID, "err", err)
			return "", errs.E(errs.Persistence, "appointment.Record", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", errs.E(errs.Persistence, "appointment.Record", err)
	}
	obs.Logger.Info("recorded appointment", "appointment_id", apt.AppointmentID, "total", apt.TotalAmount)
	return apt.AppointmentID, nil
}

// ListAll returns one aggregated row per distinct appointment id, most
// recent first.
func (b *Book) ListAll() ([]domain.AppointmentSummary, error) {
	var summaries []domain.AppointmentSummary
	err := b.db.Select(&summaries, `
	    SELECT appointment_id, patient_name, owner_name, animal_type, date,
	           COALESCE(notes, '') AS notes, status, total_amount
	      FROM appointments
	     GROUP BY appointment_id
	     ORDER BY date DESC`)
	if err != nil {
		obs.Logger.Error("appointment list failed", "err", err)
		return nil, errs.E(errs.Persistence, "appointment.ListAll", err)
	}
	return summaries, nil
}

// History returns raw service-line rows, optionally filtered by a date
// prefix (e.g. "2025-09") and/or an appointment-id substring.
func (b *Book) History(dateFilter, idFilter string) ([]domain.Appointment, error) {
	query := `SELECT appointment_id, patient_name, owner_name, animal_type, service, qty, price, subtotal,
	                 date, COALESCE(notes, '') AS notes, status, total_amount
	            FROM appointments WHERE 1=1`
	var args []any
	if dateFilter != "" {
		query += " AND date LIKE ?"
		args = append(args, dateFilter+"%")
	}
	if idFilter != "" {
		query += " AND appointment_id LIKE ?"
		args = append(args, "%"+idFilter+"%")
	}
	query += " ORDER BY date DESC"

	rows, err := b.db.Queryx(query, args...)
	if err != nil {
		obs.Logger.Error("appointment history failed", "err", err)
		return nil, errs.E(errs.Persistence, "appointment.History", err)
	}
	defer rows.Close()

	var history []domain.Appointment
	for rows.Next() {
		var (
			apt domain.Appointment
			svc domain.ServiceLine
		)
		if err := rows.Scan(&apt.AppointmentID, &apt.PatientName, &apt.OwnerName, &apt.AnimalType,
			&svc.Service, &svc.Quantity, &svc.Price, &svc.Subtotal,
			&apt.Date, &apt.Notes, &apt.Status, &apt.TotalAmount); err != nil {
			return nil, errs.E(errs.Persistence, "appointment.History", err)
		}
		apt.Services = []domain.ServiceLine{svc}
		history = append(history, apt)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.E(errs.Persistence, "appointment.History", err)
	}
	return history, nil
}

// UpdateStatus moves the appointment to newStatus, rejecting transitions
// outside the allow-list.
func (b *Book) UpdateStatus(appointmentID, newStatus string) error {
	if _, ok := transitions[newStatus]; !ok {
		return errs.Errorf(errs.Validation, "appointment.UpdateStatus", "unknown status %q", newStatus)
	}

	var current string
	err := b.db.Get(&current, `SELECT status FROM appointments WHERE appointment_id = ? LIMIT 1`, appointmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errs.Errorf(errs.NotFound, "appointment.UpdateStatus", "appointment %s not found", appointmentID)
		}
		obs.Logger.Error("status lookup failed", "appointment_id", appointmentID, "err", err)
		return errs.E(errs.Persistence, "appointment.UpdateStatus", err)
	}

	if !allowed(current, newStatus) {
		return errs.Errorf(errs.Validation, "appointment.UpdateStatus", "cannot move appointment from %s to %s", current, newStatus)
	}

	if _, err := b.db.Exec(`UPDATE appointments SET status = ? WHERE appointment_id = ?`, newStatus, appointmentID); err != nil {
		obs.Logger.Error("status update failed", "appointment_id", appointmentID, "err", err)
		return errs.E(errs.Persistence, "appointment.UpdateStatus", err)
	}
	obs.Logger.Info("appointment status updated", "appointment_id", appointmentID, "from", current, "to", newStatus)
	return nil
}

// Delete removes every row sharing the appointment id.
func (b *Book) Delete(appointmentID string) error {
	res, err := b.db.Exec(`DELETE FROM appointments WHERE appointment_id = ?`, appointmentID)
	if err != nil {
		obs.Logger.Error("appointment delete failed", "appointment_id", appointmentID, "err", err)
		return errs.E(errs.Persistence, "appointment.Delete", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return errs.Errorf(errs.NotFound, "appointment.Delete", "appointment %s not found", appointmentID)
	}
	return nil
}

func allowed(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
