package domain

// Status values an appointment moves through.
const (
	StatusScheduled  = "SCHEDULED"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
	StatusCancelled  = "CANCELLED"
)

// ServiceLine is one billable service attached to an appointment.
type ServiceLine struct {
	Service  string  `db:"service" json:"service"`
	Quantity int64   `db:"qty" json:"qty"`
	Price    float64 `db:"price" json:"price"`
	Subtotal float64 `db:"subtotal" json:"subtotal"`
}

// Appointment is a veterinary visit with one or more billable services.
// It persists as one row per service line sharing AppointmentID.
type Appointment struct {
	AppointmentID string        `db:"appointment_id" json:"appointment_id"`
	PatientName   string        `db:"patient_name" json:"patient_name"`
	OwnerName     string        `db:"owner_name" json:"owner_name"`
	AnimalType    string        `db:"animal_type" json:"animal_type"`
	Notes         string        `db:"notes" json:"notes"`
	Status        string        `db:"status" json:"status"`
	Date          string        `db:"date" json:"date"`
	Services      []ServiceLine `json:"services"`
	TotalAmount   float64       `db:"total_amount" json:"total_amount"`
}

// AddService appends a billable line and keeps the running total in step.
func (a *Appointment) AddService(name string, qty int64, price, subtotal float64) {
	a.Services = append(a.Services, ServiceLine{Service: name, Quantity: qty, Price: price, Subtotal: subtotal})
	a.TotalAmount += subtotal
}

// AppointmentSummary is the aggregated per-id view returned by listings.
type AppointmentSummary struct {
	AppointmentID string  `db:"appointment_id" json:"appointment_id"`
	PatientName   string  `db:"patient_name" json:"patient_name"`
	OwnerName     string  `db:"owner_name" json:"owner_name"`
	AnimalType    string  `db:"animal_type" json:"animal_type"`
	Date          string  `db:"date" json:"date"`
	Notes         string  `db:"notes" json:"notes"`
	Status        string  `db:"status" json:"status"`
	TotalAmount   float64 `db:"total_amount" json:"total_amount"`
}
