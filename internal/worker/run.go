// Package worker runs the queue consumer loop: receive a batch, process each
// message to a terminal job status, delete the batch. The queue never carries
// job outcomes; a failed render is recorded in the status store and the
// message is still deleted so the broker does not redeliver a settled job.
package worker

import (
	"context"
	"sync"
	"time"

	"clipcap/internal/models"
	"clipcap/internal/pkg/logger"
	"clipcap/internal/queue"
	"clipcap/internal/worker/processor"
)

func Run(ctx context.Context, d Deps) error {
	log := d.Log
	if log == nil {
		log = logger.NewDefault()
	}
	log = log.WithComponent("worker")

	concurrency := d.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	for {
		select {
		case <-ctx.Done():
			log.Info("worker context canceled, stopping")
			return ctx.Err()
		default:
		}

		batch, err := d.Source.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("worker stopping due to context cancellation")
				return ctx.Err()
			}

			log.Warn("queue receive error, retrying",
				"error", err.Error(),
			)
			time.Sleep(1 * time.Second)
			continue
		}

		if len(batch) == 0 {
			continue
		}

		runBatch(ctx, d, log, concurrency, batch)

		// Delete everything that was received, processed or skipped. A job
		// whose render failed already holds its failed status; redelivering
		// the message would only re-run a settled job.
		for _, m := range batch {
			if m.Handle == "" {
				continue
			}
			if err := d.Source.Delete(ctx, m.Handle); err != nil {
				log.Warn("failed to delete queue message",
					"error", err.Error(),
				)
			}
		}
	}
}

// runBatch processes the batch with bounded concurrency and waits for all
// messages before the caller deletes them.
func runBatch(ctx context.Context, d Deps, log *logger.Logger, concurrency int, batch []queue.Message) {
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for _, m := range batch {
		msg, err := processor.DecodeMessage(m.Body)
		if err != nil {
			// Invalid messages are dropped without a status write: there
			// is no trustworthy job ID to record against.
			log.Warn("skipping invalid job message",
				"error", err.Error(),
			)
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			handleMessage(ctx, d, log, msg)
		}()
	}

	wg.Wait()
}

func handleMessage(ctx context.Context, d Deps, log *logger.Logger, msg models.QueueMessage) {
	jobLog := log.WithJobID(msg.JobID)
	defer func() {
		if r := recover(); r != nil {
			jobLog.Error("panic while processing job",
				"panic", r,
			)
		}
	}()

	jobCtx := logger.ContextWithJobID(ctx, msg.JobID)
	startTime := time.Now()

	if err := d.Processor.ProcessJob(jobCtx, msg); err != nil {
		jobLog.Error("job failed",
			"error", err.Error(),
			"duration_ms", time.Since(startTime).Milliseconds(),
		)
	} else {
		jobLog.Info("job completed",
			"duration_ms", time.Since(startTime).Milliseconds(),
		)
	}
}
