package ports

import (
	"context"
	"time"

	"clipcap/internal/models"
)

// ObjectStore: implementations (s3, localfs, gdrive).
// Presign with ttl <= 0 uses the provider's default expiry (24h).
// All failures carry the STORAGE_ERROR code; no retries happen here.
type ObjectStore interface {
	Provider() string

	Presign(ctx context.Context, key string, ttl time.Duration) (string, error)
	Download(ctx context.Context, url string) ([]byte, error)
	Upload(ctx context.Context, data []byte, key, contentType string) error
}

// StatusStore is the orchestrator's view of job persistence. SetStatus
// atomically updates status and updatedAt; outputURL and errMsg are written
// only when non-empty and never cleared once set. Concurrent calls for
// different job IDs are safe; the caller serializes calls per job.
type StatusStore interface {
	SetStatus(ctx context.Context, jobID string, status models.Status, outputURL, errMsg string) error
}

// JobStore is the full persistence contract: the API creates and reads job
// records, the worker only transitions them via SetStatus.
type JobStore interface {
	StatusStore

	CreateJob(ctx context.Context, job *models.Job) error
	GetJob(ctx context.Context, jobID string) (*models.Job, error)
	Close() error
}
