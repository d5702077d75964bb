package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/flowscope/flowscope/internal/config"
	"github.com/flowscope/flowscope/internal/evaluation"
	"github.com/flowscope/flowscope/internal/pkg/database"
	"github.com/flowscope/flowscope/internal/pkg/logger"
	chrepo "github.com/flowscope/flowscope/internal/repository/clickhouse"
	pgrepo "github.com/flowscope/flowscope/internal/repository/postgres"
	"github.com/flowscope/flowscope/internal/service"
	"github.com/flowscope/flowscope/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	log := logger.Log
	defer logger.Sync()

	ctx := context.Background()

	pgDB, err := database.NewPostgres(ctx, cfg.Postgres)
	if err != nil {
		log.Fatal("failed to initialize PostgreSQL", zap.Error(err))
	}
	defer pgDB.Close()

	chDB, err := database.NewClickHouse(ctx, cfg.ClickHouse)
	if err != nil {
		log.Fatal("failed to initialize ClickHouse", zap.Error(err))
	}
	defer chDB.Close()

	minioClient, err := initMinio(ctx, cfg)
	if err != nil {
		log.Warn("failed to initialize MinIO, exports and artifact uploads disabled", zap.Error(err))
	}

	// Repositories and services
	traceRepo := chrepo.NewTraceRepository(chDB)
	assessmentRepo := chrepo.NewAssessmentRepository(chDB)
	runRepo := pgrepo.NewEvaluationRunRepository(pgDB)

	queryService := service.NewQueryService(log, traceRepo, assessmentRepo)

	var artifacts service.ArtifactStore
	if minioClient != nil && cfg.Eval.ArtifactUploads {
		artifacts = minioClient
	}

	// The worker executes runs rather than enqueuing them, so the eval
	// service gets no enqueuer of its own. Reconciliation re-enqueues
	// stalled runs through the worker server's client.
	evalService := service.NewEvalService(
		log,
		cfg.Eval,
		runRepo,
		assessmentRepo,
		queryService,
		evaluation.NewRegistry(),
		nil,
		artifacts,
		cfg.MinIO.Bucket,
	)

	srv, err := worker.NewServer(log, cfg, &worker.Dependencies{
		EvalService:  evalService,
		QueryService: queryService,
		RunRepo:      runRepo,
		Artifacts:    artifacts,
		Bucket:       cfg.MinIO.Bucket,
	})
	if err != nil {
		log.Fatal("failed to create worker server", zap.Error(err))
	}

	go func() {
		if err := srv.Start(); err != nil && err != asynq.ErrServerClosed {
			log.Fatal("worker server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	srv.Stop()
	log.Info("worker stopped")
}

func initMinio(ctx context.Context, cfg *config.Config) (*minio.Client, error) {
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
