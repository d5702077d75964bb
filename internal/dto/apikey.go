package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateAPIKeyRequest represents the request to create an API key
type CreateAPIKeyRequest struct {
	Description string `json:"description" validate:"required,min=1,max=512"`
}

// CreateAPIKeyResponse carries the one-time secret alongside the key
type CreateAPIKeyResponse struct {
	ID          uuid.UUID `json:"id"`
	PublicID    string    `json:"publicId"`
	Secret      string    `json:"secret"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}
