package models

// Roles form a closed two-value set. Every account holds exactly one;
// registration always assigns RoleStudent.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// ValidRole reports whether role is one of the known role values.
func ValidRole(role string) bool {
	return role == RoleStudent || role == RoleAdmin
}
