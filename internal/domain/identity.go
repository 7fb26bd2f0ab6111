package domain

import "github.com/google/uuid"

// Identity is the {id, role} pair resolved from a validated token. It is
// the only caller information authorization decisions may depend on.
type Identity struct {
	ID   uuid.UUID `json:"id"`
	Role Role      `json:"role"`
}

// IsAdmin reports whether the identity carries the ADMIN role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
