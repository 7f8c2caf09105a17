package model

import "time"

// Role is the access level of a user account.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleRestaurant Role = "restaurant"
	RoleAdmin      Role = "admin"
)

// Roles lists every assignable role.
var Roles = []Role{RoleCustomer, RoleRestaurant, RoleAdmin}

// ParseRole converts a raw value into a known Role.
func ParseRole(s string) (Role, bool) {
	for _, r := range Roles {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// DashboardPath returns the landing page for the role.
func (r Role) DashboardPath() string {
	switch r {
	case RoleAdmin:
		return "/admin"
	case RoleRestaurant:
		return "/restaurant"
	default:
		return "/customer"
	}
}

// User is an account in the credential store.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// RegisterRequest is the public registration form. New accounts are always customers.
type RegisterRequest struct {
	Name     string
	Email    string
	Password string
}

// LoginRequest is the login form.
type LoginRequest struct {
	Email    string
	Password string
}
