// Package ids generates the human-readable identifiers shared by all rows
// of an appointment or sale. The timestamp keeps them sortable; the uuid
// suffix keeps two ids generated within the same second distinct.
package ids

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const timeLayout = "20060102150405"

// NewAppointmentID returns an id like APT20250901143022-1a2b3c4d.
func NewAppointmentID() string {
	return generate("APT")
}

// NewTransactionID returns an id like TXN20250901143022-1a2b3c4d.
func NewTransactionID() string {
	return generate("TXN")
}

func generate(prefix string) string {
	return fmt.Sprintf("%s%s-%s", prefix, time.Now().Format(timeLayout), uuid.NewString()[:8])
}
