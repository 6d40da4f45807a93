package statusstore

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"clipcap/internal/adapters/statusstore/pebblestore"
	"clipcap/internal/adapters/statusstore/postgres"
	"clipcap/internal/ports"
)

// Store is the job persistence contract used across API and Worker.
// It is an alias to ports.JobStore to keep call-sites simple.
type Store = ports.JobStore

func NewStore(ctx context.Context) (Store, error) {
	backend := os.Getenv("STATUS_BACKEND")
	if backend == "" {
		backend = "postgres"
	}

	switch backend {
	case "postgres":
		dbURL := mustEnv("DATABASE_URL")
		pool, err := pgxpool.New(ctx, dbURL)
		if err != nil {
			return nil, err
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return postgres.New(pool), nil

	case "pebble":
		path := envOr("STATUS_DB_PATH", "data/status")
		return pebblestore.Open(path)

	default:
		return nil, fmt.Errorf("unknown status backend: %s", backend)
	}
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
