package domain

// Role is the closed set of actor roles known to the system.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleSupervisor Role = "SUPERVISOR"
	RolePartner    Role = "PARTNER"
)

// IsValid reports whether the role is one of the known variants.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleSupervisor, RolePartner:
		return true
	}
	return false
}

// UserStatus tracks the lifecycle of a user record.
type UserStatus string

const (
	StatusActive    UserStatus = "ACTIVE"
	StatusSuspended UserStatus = "SUSPENDED"
	StatusPending   UserStatus = "PENDING"
)

// User represents a field supervisor, partner or administrator.
// Supervisors own one Account per payment channel; partners own none and are
// only referenced from ledger entries.
type User struct {
	UserID         string     `json:"userID"` // Primary Key (UUID)
	Name           string     `json:"name"`
	Phone          string     `json:"phone"` // Unique
	Role           Role       `json:"role"`
	Status         UserStatus `json:"status"`
	AccessCodeHash string     `json:"-"` // bcrypt hash, never serialized
	AuditFields
}

// Actor is the authenticated caller as handed over by the auth boundary.
// The core performs authorization with it, never identity verification.
type Actor struct {
	UserID string
	Role   Role
}
