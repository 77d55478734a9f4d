package domain

import "time"

type Role string

const (
	RoleIndividual Role = "individual"
	RoleCorporate  Role = "corporate"
	RoleAdmin      Role = "admin"
	RoleCSO        Role = "cso"
)

type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusInactive AccountStatus = "inactive"
)

// SessionRow is a session joined with the account that owns it.
type SessionRow struct {
	Token         string        `json:"-"`
	UserID        int32         `json:"user_id"`
	Role          Role          `json:"role"`
	DisplayName   string        `json:"display_name"`
	AccountStatus AccountStatus `json:"account_status"`
	ExpiresAt     time.Time     `json:"expires_at"`
	LastActivity  time.Time     `json:"last_activity"`
}

type Identity struct {
	UserID      int32  `json:"user_id"`
	Role        Role   `json:"role"`
	DisplayName string `json:"display_name"`
}

// IsAdmin is true for roles that may use the administrative dashboards.
func (i *Identity) IsAdmin() bool {
	return i.Role == RoleAdmin || i.Role == RoleCSO
}
