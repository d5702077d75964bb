package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/flowscope/flowscope/internal/domain"
	apperrors "github.com/flowscope/flowscope/internal/pkg/errors"
)

func TestCreateAndVerifyKey(t *testing.T) {
	repo := new(MockAPIKeyRepository)
	svc := NewAuthService(zap.NewNop(), repo)
	ctx := context.Background()

	var stored *domain.APIKey
	repo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*domain.APIKey)
	}).Return(nil)

	key, secret, err := svc.CreateKey(ctx, "ci pipeline")
	require.NoError(t, err)
	assert.Contains(t, key.PublicID, "fs-pub-")
	assert.Contains(t, secret, "fs-sec-")
	// The plaintext secret never touches storage.
	assert.NotContains(t, stored.SecretHash, secret)

	repo.On("GetByPublicID", mock.Anything, key.PublicID).Return(stored, nil)
	repo.On("UpdateLastUsed", mock.Anything, key.ID).Return(nil)

	verified, err := svc.Verify(ctx, key.PublicID, secret)
	require.NoError(t, err)
	assert.Equal(t, key.ID, verified.ID)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	repo := new(MockAPIKeyRepository)
	svc := NewAuthService(zap.NewNop(), repo)
	ctx := context.Background()

	var stored *domain.APIKey
	repo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*domain.APIKey)
	}).Return(nil)

	key, _, err := svc.CreateKey(ctx, "test")
	require.NoError(t, err)

	repo.On("GetByPublicID", mock.Anything, key.PublicID).Return(stored, nil)

	_, err = svc.Verify(ctx, key.PublicID, "fs-sec-wrong")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized))
	repo.AssertNotCalled(t, "UpdateLastUsed", mock.Anything, mock.Anything)
}

func TestVerifyRejectsRevokedKey(t *testing.T) {
	repo := new(MockAPIKeyRepository)
	svc := NewAuthService(zap.NewNop(), repo)
	ctx := context.Background()

	var stored *domain.APIKey
	repo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*domain.APIKey)
	}).Return(nil)

	key, secret, err := svc.CreateKey(ctx, "test")
	require.NoError(t, err)

	now := time.Now()
	stored.RevokedAt = &now
	repo.On("GetByPublicID", mock.Anything, key.PublicID).Return(stored, nil)

	_, err = svc.Verify(ctx, key.PublicID, secret)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "revoked")
}

func TestVerifyRejectsMalformedCredentials(t *testing.T) {
	repo := new(MockAPIKeyRepository)
	svc := NewAuthService(zap.NewNop(), repo)

	_, err := svc.Verify(context.Background(), "bogus", "fs-sec-x")
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized))
	repo.AssertNotCalled(t, "GetByPublicID", mock.Anything, mock.Anything)

	repo.On("GetByPublicID", mock.Anything, "fs-pub-missing").Return(nil, apperrors.NotFound("API key"))
	_, err = svc.Verify(context.Background(), "fs-pub-missing", "fs-sec-x")
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized))
}
