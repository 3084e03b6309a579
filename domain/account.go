package domain

// Roles a clinic account can hold.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// Account is a system user (vet or staff).
type Account struct {
	ID       int64  `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
	Password string `db:"password" json:"password,omitempty"`
	Role     string `db:"role" json:"role"`
}
