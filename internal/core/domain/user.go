package domain

// UserRole defines the possible roles a user can hold on the platform.
type UserRole string

const (
	RoleDonor     UserRole = "DONOR"     // Lists medicines for donation
	RoleRequester UserRole = "REQUESTER" // Lists medicine requests and initiates matches
	RoleDoctor    UserRole = "DOCTOR"    // Reviews proof images and finalizes matches
)

// IsValid reports whether the role is one of the known enum values.
func (r UserRole) IsValid() bool {
	switch r {
	case RoleDonor, RoleRequester, RoleDoctor:
		return true
	}
	return false
}

// User represents a user of the application in the domain.
type User struct {
	UserID string   `json:"userID"` // Primary Key (UUID)
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Phone  string   `json:"phone"`
	Role   UserRole `json:"role"`
	AuditFields
}
