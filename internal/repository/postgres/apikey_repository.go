package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/flowscope/flowscope/internal/domain"
	"github.com/flowscope/flowscope/internal/pkg/database"
	apperrors "github.com/flowscope/flowscope/internal/pkg/errors"
)

// APIKeyRepository handles API key data operations in PostgreSQL
type APIKeyRepository struct {
	db *database.PostgresDB
}

// NewAPIKeyRepository creates a new API key repository
func NewAPIKeyRepository(db *database.PostgresDB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// Create creates a new API key
func (r *APIKeyRepository) Create(ctx context.Context, key *domain.APIKey) error {
	query := `
		INSERT INTO api_keys (id, public_id, secret_hash, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		key.ID,
		key.PublicID,
		key.SecretHash,
		key.Description,
		key.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create API key: %w", err)
	}

	return nil
}

// GetByPublicID retrieves an API key by its public identifier
func (r *APIKeyRepository) GetByPublicID(ctx context.Context, publicID string) (*domain.APIKey, error) {
	query := `
		SELECT id, public_id, secret_hash, description, last_used_at, created_at, revoked_at
		FROM api_keys
		WHERE public_id = $1
	`

	var key domain.APIKey
	err := r.db.Pool.QueryRow(ctx, query, publicID).Scan(
		&key.ID,
		&key.PublicID,
		&key.SecretHash,
		&key.Description,
		&key.LastUsedAt,
		&key.CreatedAt,
		&key.RevokedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("API key")
		}
		return nil, fmt.Errorf("failed to get API key: %w", err)
	}

	return &key, nil
}

// Revoke marks an API key as revoked
func (r *APIKeyRepository) Revoke(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE api_keys SET revoked_at = NOW() WHERE id = $1 AND revoked_at IS NULL`

	tag, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to revoke API key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("API key")
	}

	return nil
}

// UpdateLastUsed updates the last used timestamp
func (r *APIKeyRepository) UpdateLastUsed(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE api_keys SET last_used_at = $2 WHERE id = $1`

	_, err := r.db.Pool.Exec(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update last used: %w", err)
	}

	return nil
}

// List retrieves all API keys ordered by creation time
func (r *APIKeyRepository) List(ctx context.Context) ([]domain.APIKey, error) {
	query := `
		SELECT id, public_id, secret_hash, description, last_used_at, created_at, revoked_at
		FROM api_keys
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list API keys: %w", err)
	}
	defer rows.Close()

	var keys []domain.APIKey
	for rows.Next() {
		var key domain.APIKey
		if err := rows.Scan(
			&key.ID,
			&key.PublicID,
			&key.SecretHash,
			&key.Description,
			&key.LastUsedAt,
			&key.CreatedAt,
			&key.RevokedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan API key: %w", err)
		}
		keys = append(keys, key)
	}

	return keys, nil
}
