// Package postgres persists job records in a jobs table.
//
// Expected schema:
//
//	CREATE TABLE jobs (
//	    job_id        TEXT PRIMARY KEY,
//	    status        TEXT NOT NULL,
//	    input_key     TEXT,
//	    captions_json TEXT,
//	    style         TEXT,
//	    output_url    TEXT,
//	    error_text    TEXT,
//	    created_at    TIMESTAMPTZ NOT NULL,
//	    updated_at    TIMESTAMPTZ NOT NULL
//	);
package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"clipcap/internal/httpkit"
	"clipcap/internal/models"
	"clipcap/internal/pkg/errors"
)

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) CreateJob(ctx context.Context, job *models.Job) error {
	captionsJSON, err := json.Marshal(job.Captions)
	if err != nil {
		return errors.Persistence(err, "store.create", "failed to encode captions")
	}

	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now

	_, err = s.pool.Exec(ctx,
		`INSERT INTO jobs (job_id, status, input_key, captions_json, style, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		job.JobID, string(job.Status), job.InputKey, string(captionsJSON), string(job.Style), now, now,
	)
	if err != nil {
		if httpkit.IsUniqueViolation(err) {
			return errors.Conflict("job already exists: " + job.JobID)
		}
		return errors.Persistence(err, "store.create", "failed to insert job")
	}

	return nil
}

func (s *Store) GetJob(ctx context.Context, jobID string) (*models.Job, error) {
	var (
		job          models.Job
		captionsJSON string
	)

	err := s.pool.QueryRow(ctx,
		`SELECT job_id, status, COALESCE(input_key,''), COALESCE(captions_json,'[]'), COALESCE(style,''),
		        COALESCE(output_url,''), COALESCE(error_text,''), created_at, updated_at
		 FROM jobs WHERE job_id=$1`,
		jobID,
	).Scan(&job.JobID, &job.Status, &job.InputKey, &captionsJSON, &job.Style,
		&job.OutputURL, &job.Error, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.NotFound("job", jobID)
		}
		return nil, errors.Persistence(err, "store.get", "failed to load job")
	}

	if err := json.Unmarshal([]byte(captionsJSON), &job.Captions); err != nil {
		return nil, errors.Persistence(err, "store.get", "failed to decode captions")
	}

	return &job, nil
}

// SetStatus updates status and updated_at in one statement. Output URL and
// error text are written only when non-empty and are never cleared.
func (s *Store) SetStatus(ctx context.Context, jobID string, status models.Status, outputURL, errMsg string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE jobs
		 SET status=$2,
		     updated_at=now(),
		     output_url=COALESCE(NULLIF($3,''), output_url),
		     error_text=COALESCE(NULLIF($4,''), error_text)
		 WHERE job_id=$1`,
		jobID, string(status), outputURL, errMsg,
	)
	if err != nil {
		return errors.Persistence(err, "store.set_status", "failed to update job status")
	}
	if tag.RowsAffected() == 0 {
		return errors.Persistence(errors.NotFound("job", jobID), "store.set_status", "job record missing")
	}

	return nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
