package domain

import "time"

// Role names known to the access policy. Roles are free-form strings in
// storage; these constants cover the ones the route table references.
const (
	RoleCustomer       = "customer"
	RoleCatalogManager = "catalog_manager"
	RoleAdmin          = "admin"
)

// User is the domain model for registered accounts.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Roles        []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
