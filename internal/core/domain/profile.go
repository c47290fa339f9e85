package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the slice of the external user store this service reads:
// the identity a wallet is keyed by, and the optional transaction PIN hash
// checked before withdrawals. Profiles are never written here.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	PinHash   *string   `json:"-"` // argon2id encoded, nil when no PIN is set
	CreatedAt time.Time `json:"created_at"`
}

// HasPin returns true if the profile has a transaction PIN set.
func (p *Profile) HasPin() bool {
	return p.PinHash != nil && *p.PinHash != ""
}
