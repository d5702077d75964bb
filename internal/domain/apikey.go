package domain

import (
	"time"

	"github.com/google/uuid"
)

// APIKey grants programmatic access scoped to an experiment namespace.
// The secret is stored only as a bcrypt hash; PublicID is the lookup key.
type APIKey struct {
	ID          uuid.UUID  `json:"id"`
	PublicID    string     `json:"publicId"`
	SecretHash  string     `json:"-"`
	Description string     `json:"description,omitempty"`
	LastUsedAt  *time.Time `json:"lastUsedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	RevokedAt   *time.Time `json:"revokedAt,omitempty"`
}

// Revoked reports whether the key has been revoked.
func (k *APIKey) Revoked() bool {
	return k.RevokedAt != nil
}
