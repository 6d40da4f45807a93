package worker

import (
	"context"

	"clipcap/internal/models"
	"clipcap/internal/pkg/logger"
	"clipcap/internal/queue"
)

// JobProcessor runs one validated job to a terminal status.
type JobProcessor interface {
	ProcessJob(ctx context.Context, msg models.QueueMessage) error
}

type Deps struct {
	Source    queue.Source
	Processor JobProcessor
	// Concurrency caps in-flight jobs per batch. Defaults to 1: a render
	// holds an ffmpeg process on the renderer side, so fan-out is opt-in.
	Concurrency int
	Log         *logger.Logger
}
