package main

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/flowscope/flowscope/internal/config"
	"github.com/flowscope/flowscope/internal/evaluation"
	"github.com/flowscope/flowscope/internal/handler"
	"github.com/flowscope/flowscope/internal/middleware"
	"github.com/flowscope/flowscope/internal/pkg/database"
	chrepo "github.com/flowscope/flowscope/internal/repository/clickhouse"
	pgrepo "github.com/flowscope/flowscope/internal/repository/postgres"
	"github.com/flowscope/flowscope/internal/service"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	Logger *zap.Logger

	// Database connections
	Postgres   *database.PostgresDB
	ClickHouse *database.ClickHouseDB
	Redis      *redis.Client
	Minio      *minio.Client

	// Repositories
	TraceRepo      *chrepo.TraceRepository
	AssessmentRepo *chrepo.AssessmentRepository
	ExperimentRepo *pgrepo.ExperimentRepository
	RunRepo        *pgrepo.EvaluationRunRepository
	APIKeyRepo     *pgrepo.APIKeyRepository

	// Services
	QueryService      *service.QueryService
	IngestionService  *service.IngestionService
	AssessmentService *service.AssessmentService
	ExperimentService *service.ExperimentService
	EvalService       *service.EvalService
	AuthService       *service.AuthService

	// Handlers
	HealthHandler      *handler.HealthHandler
	IngestionHandler   *handler.IngestionHandler
	TracesHandler      *handler.TracesHandler
	AssessmentsHandler *handler.AssessmentsHandler
	ExperimentsHandler *handler.ExperimentsHandler
	EvalRunsHandler    *handler.EvalRunsHandler
	APIKeysHandler     *handler.APIKeysHandler

	// Middleware
	AuthMiddleware      *middleware.AuthMiddleware
	RateLimitMiddleware *middleware.RateLimitMiddleware

	// Asynq client for enqueuing evaluation runs
	AsynqClient *asynq.Client
}

// initDependencies initializes all dependencies
func initDependencies(cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	ctx := context.Background()

	pgDB, err := database.NewPostgres(ctx, cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}
	deps.Postgres = pgDB

	chDB, err := database.NewClickHouse(ctx, cfg.ClickHouse)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ClickHouse: %w", err)
	}
	deps.ClickHouse = chDB

	redisClient, err := database.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}
	deps.Redis = redisClient

	minioClient, err := initMinio(cfg)
	if err != nil {
		logger.Warn("failed to initialize MinIO, artifact storage will be unavailable", zap.Error(err))
	}
	deps.Minio = minioClient

	// Repositories
	deps.TraceRepo = chrepo.NewTraceRepository(chDB)
	deps.AssessmentRepo = chrepo.NewAssessmentRepository(chDB)
	deps.ExperimentRepo = pgrepo.NewExperimentRepository(pgDB)
	deps.RunRepo = pgrepo.NewEvaluationRunRepository(pgDB)
	deps.APIKeyRepo = pgrepo.NewAPIKeyRepository(pgDB)

	// Asynq client for dispatching evaluation runs to the worker
	deps.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Services
	deps.QueryService = service.NewQueryService(logger, deps.TraceRepo, deps.AssessmentRepo)
	deps.IngestionService = service.NewIngestionService(logger, deps.TraceRepo)
	deps.AssessmentService = service.NewAssessmentService(logger, deps.AssessmentRepo)
	deps.ExperimentService = service.NewExperimentService(logger, deps.ExperimentRepo)
	deps.AuthService = service.NewAuthService(logger, deps.APIKeyRepo)

	var artifacts service.ArtifactStore
	if minioClient != nil && cfg.Eval.ArtifactUploads {
		artifacts = minioClient
	}
	deps.EvalService = service.NewEvalService(
		logger,
		cfg.Eval,
		deps.RunRepo,
		deps.AssessmentRepo,
		deps.QueryService,
		evaluation.NewRegistry(),
		deps.AsynqClient,
		artifacts,
		cfg.MinIO.Bucket,
	)

	// Handlers
	deps.HealthHandler = handler.NewHealthHandler(pgDB.Pool, chDB.Conn, redisClient, appVersion)
	deps.IngestionHandler = handler.NewIngestionHandler(deps.IngestionService, logger)
	deps.TracesHandler = handler.NewTracesHandler(deps.QueryService, logger)
	deps.AssessmentsHandler = handler.NewAssessmentsHandler(deps.AssessmentService, logger)
	deps.ExperimentsHandler = handler.NewExperimentsHandler(deps.ExperimentService, logger)
	deps.EvalRunsHandler = handler.NewEvalRunsHandler(deps.EvalService, logger)
	deps.APIKeysHandler = handler.NewAPIKeysHandler(deps.AuthService, logger)

	// Middleware
	deps.AuthMiddleware = middleware.NewAuthMiddleware(deps.AuthService)
	deps.RateLimitMiddleware = middleware.NewRateLimitMiddleware(redisClient)

	return deps, nil
}

// Close releases all held resources
func (d *Dependencies) Close() {
	if d.AsynqClient != nil {
		d.AsynqClient.Close()
	}
	if d.Redis != nil {
		d.Redis.Close()
	}
	if d.ClickHouse != nil {
		d.ClickHouse.Close()
	}
	if d.Postgres != nil {
		d.Postgres.Close()
	}
}

// initMinio initializes the MinIO client and ensures the bucket exists
func initMinio(cfg *config.Config) (*minio.Client, error) {
	if cfg.MinIO.Endpoint == "" {
		return nil, nil
	}

	client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
		Secure: cfg.MinIO.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.MinIO.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinIO.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return client, nil
}
