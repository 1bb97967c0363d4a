package identity

import "github.com/google/uuid"

// Role names the two actor roles carried by identity tokens.
type Role string

const (
	RoleUser     Role = "user"
	RoleProvider Role = "provider"
)

// IsValid returns true if the role is recognized.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleProvider
}

// String returns the string representation of the role.
func (r Role) String() string { return string(r) }

// User is the identity of an authenticated customer. User and Provider
// are distinct types so that role-specific operations can only be called
// with the matching variant.
type User struct {
	ID   uuid.UUID
	Name string
}

// Provider is the identity of an authenticated service professional.
type Provider struct {
	ID   uuid.UUID
	Name string
}
