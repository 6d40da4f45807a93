// Package pebblestore persists job records in an embedded Pebble database.
// One JSON record per job under the "job:" keyspace. Suited to single-node
// and development deployments where Postgres is not available.
package pebblestore

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"

	"clipcap/internal/models"
	"clipcap/internal/pkg/errors"
)

const keyPrefix = "job:"

type Store struct {
	db *pebble.DB

	// SetStatus is read-modify-write; this guards against interleaved
	// writers for the same job (the orchestrator serializes per job, but
	// the API may create while a stale worker retries).
	mu sync.Mutex
}

func Open(path string) (*Store, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, errors.Persistence(err, "store.open", "failed to open status store")
	}
	return &Store{db: db}, nil
}

func (s *Store) CreateJob(ctx context.Context, job *models.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := []byte(keyPrefix + job.JobID)

	if _, closer, err := s.db.Get(key); err == nil {
		closer.Close()
		return errors.Conflict("job already exists: " + job.JobID)
	} else if err != pebble.ErrNotFound {
		return errors.Persistence(err, "store.create", "failed to check job record")
	}

	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now

	return s.put(key, job, "store.create")
}

func (s *Store) GetJob(ctx context.Context, jobID string) (*models.Job, error) {
	value, closer, err := s.db.Get([]byte(keyPrefix + jobID))
	if err != nil {
		if err == pebble.ErrNotFound {
			return nil, errors.NotFound("job", jobID)
		}
		return nil, errors.Persistence(err, "store.get", "failed to read job record")
	}
	defer closer.Close()

	var job models.Job
	if err := json.Unmarshal(value, &job); err != nil {
		return nil, errors.Persistence(err, "store.get", "failed to decode job record")
	}

	return &job, nil
}

// SetStatus merges the new status into the stored record. Output URL and
// error text are written only when non-empty and are never cleared.
func (s *Store) SetStatus(ctx context.Context, jobID string, status models.Status, outputURL, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, err := s.GetJob(ctx, jobID)
	if err != nil {
		if errors.IsNotFound(err) {
			return errors.Persistence(err, "store.set_status", "job record missing")
		}
		return err
	}

	job.Status = status
	if outputURL != "" {
		job.OutputURL = outputURL
	}
	if errMsg != "" {
		job.Error = errMsg
	}
	job.UpdatedAt = time.Now().UTC()

	return s.put([]byte(keyPrefix+jobID), job, "store.set_status")
}

func (s *Store) put(key []byte, job *models.Job, op string) error {
	data, err := json.Marshal(job)
	if err != nil {
		return errors.Persistence(err, op, "failed to encode job record")
	}

	if err := s.db.Set(key, data, pebble.Sync); err != nil {
		return errors.Persistence(err, op, "failed to write job record")
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
