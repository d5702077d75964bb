package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/flowscope/flowscope/internal/domain"
	apperrors "github.com/flowscope/flowscope/internal/pkg/errors"
)

// ExperimentRepository defines the interface for experiment persistence.
type ExperimentRepository interface {
	Create(ctx context.Context, exp *domain.Experiment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Experiment, error)
	GetByName(ctx context.Context, name string) (*domain.Experiment, error)
	Update(ctx context.Context, exp *domain.Experiment) error
	Archive(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *domain.ExperimentFilter, limit, offset int) (*domain.ExperimentList, error)
	NameExists(ctx context.Context, name string) (bool, error)
}

// ExperimentService handles experiment lifecycle operations.
type ExperimentService struct {
	repo   ExperimentRepository
	logger *zap.Logger
}

// NewExperimentService creates a new ExperimentService
func NewExperimentService(logger *zap.Logger, repo ExperimentRepository) *ExperimentService {
	return &ExperimentService{
		logger: logger.Named("experiment"),
		repo:   repo,
	}
}

// Create creates a new experiment. Names are unique among active experiments.
func (s *ExperimentService) Create(ctx context.Context, input *domain.ExperimentInput) (*domain.Experiment, error) {
	exists, err := s.repo.NameExists(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.Conflict(fmt.Sprintf("experiment %q already exists", input.Name))
	}

	now := time.Now()
	exp := &domain.Experiment{
		ID:        uuid.New(),
		Name:      input.Name,
		Tags:      input.Tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if input.Description != nil {
		exp.Description = *input.Description
	}

	if err := s.repo.Create(ctx, exp); err != nil {
		return nil, fmt.Errorf("failed to create experiment: %w", err)
	}

	s.logger.Info("created experiment",
		zap.String("experiment_id", exp.ID.String()),
		zap.String("name", exp.Name),
	)

	return exp, nil
}

// Get retrieves an experiment by ID
func (s *ExperimentService) Get(ctx context.Context, id uuid.UUID) (*domain.Experiment, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByName retrieves an active experiment by name
func (s *ExperimentService) GetByName(ctx context.Context, name string) (*domain.Experiment, error) {
	return s.repo.GetByName(ctx, name)
}

// Update applies a partial update to an experiment
func (s *ExperimentService) Update(ctx context.Context, id uuid.UUID, input *domain.ExperimentUpdateInput) (*domain.Experiment, error) {
	exp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != exp.Name {
		exists, err := s.repo.NameExists(ctx, *input.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperrors.Conflict(fmt.Sprintf("experiment %q already exists", *input.Name))
		}
		exp.Name = *input.Name
	}
	if input.Description != nil {
		exp.Description = *input.Description
	}
	if input.Tags != nil {
		exp.Tags = input.Tags
	}
	exp.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, exp); err != nil {
		return nil, fmt.Errorf("failed to update experiment: %w", err)
	}

	return exp, nil
}

// Archive soft-deletes an experiment
func (s *ExperimentService) Archive(ctx context.Context, id uuid.UUID) error {
	return s.repo.Archive(ctx, id)
}

// List retrieves experiments matching the filter
func (s *ExperimentService) List(ctx context.Context, filter *domain.ExperimentFilter, limit, offset int) (*domain.ExperimentList, error) {
	return s.repo.List(ctx, filter, limit, offset)
}
