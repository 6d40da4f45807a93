// Package queue provides the job message transport. The worker pulls batches
// from a Source; the API publishes through a Publisher. Job-level failure is
// never signalled back through the queue — processed messages are always
// deleted so the broker does not redeliver an already-recorded job.
package queue

import (
	"context"
	"fmt"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/redis/go-redis/v9"
)

// Message is one opaque queued job request.
type Message struct {
	// Body is the raw JSON payload.
	Body []byte
	// Handle identifies the message for deletion. Empty for transports
	// where receiving already consumes the message.
	Handle string
}

type Source interface {
	// Receive blocks (bounded by the transport's long-poll interval) and
	// returns the next batch. An empty batch with nil error is normal.
	Receive(ctx context.Context) ([]Message, error)
	// Delete removes a processed message so it is not redelivered.
	Delete(ctx context.Context, handle string) error
}

type Publisher interface {
	Publish(ctx context.Context, body []byte) error
}

// Queue is a bidirectional transport handle.
type Queue interface {
	Source
	Publisher
	Close() error
}

// New selects the transport from QUEUE_BACKEND (sqs, redis).
func New(ctx context.Context) (Queue, error) {
	backend := os.Getenv("QUEUE_BACKEND")
	if backend == "" {
		backend = "sqs"
	}

	switch backend {
	case "sqs":
		queueURL := mustEnv("SQS_QUEUE_URL")
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, err
		}
		return NewSQSQueue(sqs.NewFromConfig(cfg), queueURL), nil

	case "redis":
		addr := mustEnv("REDIS_ADDR")
		name := envOr("JOB_QUEUE_NAME", "clipcap:jobs")
		rdb := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, err
		}
		return NewRedisQueue(rdb, name), nil

	default:
		return nil, fmt.Errorf("unknown queue backend: %s", backend)
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
