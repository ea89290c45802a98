package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles.
const (
	RoleClient      = "client"
	RolePrestataire = "prestataire"
	RoleAdmin       = "admin"
)

// ValidRoles lists the roles accepted at registration. Admin accounts are
// created through the admin endpoint, never by self-registration.
var ValidRoles = map[string]struct{}{
	RoleClient:      {},
	RolePrestataire: {},
}

// User represents an account: a client ordering maintenance services, a
// provider (prestataire) fulfilling them, or an admin.
type User struct {
	ID               uuid.UUID `db:"id" json:"id"`
	Email            string    `db:"email" json:"email"`
	PasswordHash     string    `db:"password_hash" json:"-"`
	Role             string    `db:"role" json:"role"`
	ZoneIntervention *string   `db:"zone_intervention" json:"zone_intervention,omitempty"`
	Siret            *string   `db:"siret" json:"siret,omitempty"`
	IsVerified       bool      `db:"is_verified" json:"is_verified"`
	RejectionReason  *string   `db:"rejection_reason" json:"rejection_reason,omitempty"`
	StripeAccountID  *string   `db:"stripe_account_id" json:"-"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// IsProvider reports whether the user may act on missions.
func (u *User) IsProvider() bool {
	return u.Role == RolePrestataire
}

// IsAdmin reports whether the user has admin privileges.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
