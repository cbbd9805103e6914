package domain

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// ValidRole reports whether role is one of the recognised user roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleStaff
}

// User models an account able to sign in to the scorecard.
type User struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	HashedPassword string `json:"-"`
	Role           string `json:"role"`
	IsActive       bool   `json:"is_active"`
}

// IsAdmin reports whether the user may perform user-management operations.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
