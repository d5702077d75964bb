package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/flowscope/flowscope/internal/domain"
	apperrors "github.com/flowscope/flowscope/internal/pkg/errors"
)

// APIKeyRepository defines the interface for API key persistence.
type APIKeyRepository interface {
	Create(ctx context.Context, key *domain.APIKey) error
	GetByPublicID(ctx context.Context, publicID string) (*domain.APIKey, error)
	Revoke(ctx context.Context, id uuid.UUID) error
	UpdateLastUsed(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]domain.APIKey, error)
}

const (
	publicIDPrefix = "fs-pub-"
	secretPrefix   = "fs-sec-"
)

// AuthService manages API keys. Secrets are returned exactly once at
// creation time and stored only as bcrypt hashes.
type AuthService struct {
	repo   APIKeyRepository
	logger *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(logger *zap.Logger, repo APIKeyRepository) *AuthService {
	return &AuthService{
		logger: logger.Named("auth"),
		repo:   repo,
	}
}

// CreateKey generates a new API key pair. The returned secret is shown to
// the caller once and cannot be recovered afterwards.
func (s *AuthService) CreateKey(ctx context.Context, description string) (*domain.APIKey, string, error) {
	publicID := publicIDPrefix + randomHex(12)
	secret := secretPrefix + randomHex(24)

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash secret: %w", err)
	}

	key := &domain.APIKey{
		ID:          uuid.New(),
		PublicID:    publicID,
		SecretHash:  string(hash),
		Description: description,
		CreatedAt:   time.Now(),
	}

	if err := s.repo.Create(ctx, key); err != nil {
		return nil, "", fmt.Errorf("failed to create API key: %w", err)
	}

	s.logger.Info("created API key", zap.String("public_id", publicID))

	return key, secret, nil
}

// Verify checks a public/secret pair and returns the key on success.
// The key's last-used timestamp is updated best-effort.
func (s *AuthService) Verify(ctx context.Context, publicID, secret string) (*domain.APIKey, error) {
	if !strings.HasPrefix(publicID, publicIDPrefix) || !strings.HasPrefix(secret, secretPrefix) {
		return nil, apperrors.Unauthorized("invalid API key")
	}

	key, err := s.repo.GetByPublicID(ctx, publicID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Unauthorized("invalid API key")
		}
		return nil, err
	}

	if key.Revoked() {
		return nil, apperrors.Unauthorized("API key has been revoked")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(key.SecretHash), []byte(secret)); err != nil {
		return nil, apperrors.Unauthorized("invalid API key")
	}

	if err := s.repo.UpdateLastUsed(ctx, key.ID); err != nil {
		s.logger.Warn("failed to update key last used",
			zap.String("public_id", publicID),
			zap.Error(err),
		)
	}

	return key, nil
}

// RevokeKey revokes an API key by ID
func (s *AuthService) RevokeKey(ctx context.Context, id uuid.UUID) error {
	return s.repo.Revoke(ctx, id)
}

// ListKeys lists all API keys
func (s *AuthService) ListKeys(ctx context.Context) ([]domain.APIKey, error) {
	return s.repo.List(ctx)
}

func randomHex(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the OS entropy source is broken
		panic(err)
	}
	return hex.EncodeToString(buf)
}
