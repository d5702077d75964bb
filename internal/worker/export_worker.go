package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"

	"github.com/flowscope/flowscope/internal/domain"
	"github.com/flowscope/flowscope/internal/service"
)

const (
	// TypeTraceExport is the task type for exporting traces to object storage
	TypeTraceExport = "export:traces"

	exportPageSize = 1000
)

// TraceExportPayload is the payload for trace export tasks
type TraceExportPayload struct {
	ExperimentID uuid.UUID  `json:"experiment_id"`
	FromTime     *time.Time `json:"from_time,omitempty"`
	ToTime       *time.Time `json:"to_time,omitempty"`
}

// NewTraceExportTask creates a new trace export task
func NewTraceExportTask(payload *TraceExportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal trace export payload: %w", err)
	}
	return asynq.NewTask(TypeTraceExport, data, asynq.MaxRetry(2), asynq.Timeout(30*time.Minute)), nil
}

// ExportWorker writes trace exports to object storage
type ExportWorker struct {
	logger       *zap.Logger
	queryService *service.QueryService
	artifacts    service.ArtifactStore
	bucket       string
}

// NewExportWorker creates a new export worker
func NewExportWorker(
	logger *zap.Logger,
	queryService *service.QueryService,
	artifacts service.ArtifactStore,
	bucket string,
) *ExportWorker {
	return &ExportWorker{
		logger:       logger,
		queryService: queryService,
		artifacts:    artifacts,
		bucket:       bucket,
	}
}

// ProcessTask processes a trace export task
func (w *ExportWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload TraceExportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal trace export payload: %w", err)
	}

	filter := &domain.TraceFilter{
		ExperimentID: payload.ExperimentID,
		FromTime:     payload.FromTime,
		ToTime:       payload.ToTime,
	}

	var traces []domain.Trace
	offset := 0
	for {
		page, err := w.queryService.ListTraces(ctx, filter, exportPageSize, offset)
		if err != nil {
			return fmt.Errorf("failed to list traces for export: %w", err)
		}

		traces = append(traces, page.Traces...)
		if !page.HasMore {
			break
		}
		offset += exportPageSize
	}

	data, err := json.Marshal(map[string]any{
		"experimentId": payload.ExperimentID,
		"exportedAt":   time.Now().UTC(),
		"traceCount":   len(traces),
		"traces":       traces,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal trace export: %w", err)
	}

	objectName := fmt.Sprintf("exports/%s/traces-%s.json",
		payload.ExperimentID,
		time.Now().UTC().Format("20060102T150405Z"),
	)

	_, err = w.artifacts.PutObject(ctx, w.bucket, objectName,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"},
	)
	if err != nil {
		return fmt.Errorf("failed to upload trace export: %w", err)
	}

	w.logger.Info("exported traces",
		zap.String("experiment_id", payload.ExperimentID.String()),
		zap.Int("trace_count", len(traces)),
		zap.String("object", objectName),
	)

	return nil
}
