package domain

type Role string

const (
	RoleCustomer Role = "Customer"
	RoleStaff    Role = "Staff"
	RoleAdmin    Role = "Admin"
)

type Customer struct {
	ID           int64
	Username     string
	PasswordHash string
	Address      string
	CellNo       string
}

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         Role
}

// Principal is the identity returned by a successful login.
type Principal struct {
	ID       int64
	Username string
	Role     Role
}
