// Package processor drives a captioning job from queued message to terminal
// status: presign the input, call the renderer, persist the artifact, record
// the outcome.
package processor

import (
	"context"
	"fmt"
	"time"

	"clipcap/internal/models"
	"clipcap/internal/pkg/errors"
	"clipcap/internal/pkg/logger"
	"clipcap/internal/ports"
	"clipcap/internal/worker/renderer"
)

const (
	// inputPresignTTL bounds the renderer's read window on the source
	// video. The render budget is 10 minutes, so an hour is comfortable.
	inputPresignTTL = time.Hour

	// maxErrorLen caps the error text written to the status store.
	maxErrorLen = 2000
)

// Deps carries the collaborators a Processor needs.
type Deps struct {
	Store    ports.StatusStore
	Objects  ports.ObjectStore
	Renderer renderer.Client
	Log      *logger.Logger
}

// Processor executes one job at a time. It is safe for concurrent use when
// its collaborators are.
type Processor struct {
	store    ports.StatusStore
	objects  ports.ObjectStore
	renderer renderer.Client
	log      *logger.Logger
}

func New(d Deps) *Processor {
	log := d.Log
	if log == nil {
		log = logger.NewDefault()
	}
	return &Processor{
		store:    d.Store,
		objects:  d.Objects,
		renderer: d.Renderer,
		log:      log.WithComponent("processor"),
	}
}

// ProcessJob runs a validated message through the pipeline. Any failure
// after the processing mark is recorded on the job via failJob; the
// returned error is the underlying cause, for the caller's logs.
func (p *Processor) ProcessJob(ctx context.Context, msg models.QueueMessage) error {
	log := p.log.WithJobID(msg.JobID)
	log.Info("processing job", "style", string(msg.Style), "captions", len(msg.Captions))

	if err := p.store.SetStatus(ctx, msg.JobID, models.StatusProcessing, "", ""); err != nil {
		return p.failJob(ctx, msg.JobID, errors.Persistence(err, "processor.process", "could not mark processing"))
	}

	sourceURL := msg.VideoURL
	if msg.S3Key != "" {
		u, err := p.objects.Presign(ctx, msg.S3Key, inputPresignTTL)
		if err != nil {
			return p.failJob(ctx, msg.JobID, errors.Wrap(err, "processor.process", "failed to presign input video"))
		}
		sourceURL = u
	}

	res, err := p.renderer.Render(ctx, renderer.Request{
		VideoURL: sourceURL,
		Captions: msg.Captions,
		Style:    msg.Style,
		OutPath:  fmt.Sprintf("out/video_%s.mp4", msg.JobID),
	})
	if err != nil {
		return p.failJob(ctx, msg.JobID, err)
	}
	if !res.Success {
		return p.failJob(ctx, msg.JobID, errors.RenderFailed(res.ErrorMessage))
	}

	data, err := p.objects.Download(ctx, res.DownloadURL)
	if err != nil {
		return p.failJob(ctx, msg.JobID, errors.Wrap(err, "processor.process", "failed to download rendered video"))
	}

	outputKey := fmt.Sprintf("output/video_%s.mp4", msg.JobID)
	if err := p.objects.Upload(ctx, data, outputKey, "video/mp4"); err != nil {
		return p.failJob(ctx, msg.JobID, errors.Wrap(err, "processor.process", "failed to upload rendered video"))
	}

	outputURL, err := p.objects.Presign(ctx, outputKey, 0)
	if err != nil {
		return p.failJob(ctx, msg.JobID, errors.Wrap(err, "processor.process", "failed to presign output video"))
	}

	if err := p.store.SetStatus(ctx, msg.JobID, models.StatusCompleted, outputURL, ""); err != nil {
		// The artifact is stored but the record still says processing.
		// Do not mark the job failed over a bookkeeping write; surface
		// it loudly instead.
		log.Error("completion write failed, job record stuck in processing",
			"error", err.Error(), "output_key", outputKey)
		return errors.Persistence(err, "processor.process", "failed to mark completed")
	}

	log.Info("job completed", "output_key", outputKey)
	return nil
}

// failJob records the failure on the job and returns the cause. The status
// write is best effort: a job whose failure cannot be persisted is already
// lost to the caller, so the original error wins either way.
func (p *Processor) failJob(ctx context.Context, jobID string, cause error) error {
	log := p.log.WithJobID(jobID).WithError(cause)
	var appErr *errors.Error
	if errors.As(cause, &appErr) {
		log.Error("job failed", "code", string(appErr.Code), "op", appErr.Op)
	} else {
		log.Error("job failed")
	}

	// Persist the bare reason, not the code/op-decorated chain: callers see
	// this string as the job's error, and a renderer-reported failure must
	// come through verbatim.
	msg := errors.UserMessage(cause)
	if len(msg) > maxErrorLen {
		msg = msg[:maxErrorLen]
	}
	if err := p.store.SetStatus(ctx, jobID, models.StatusFailed, "", msg); err != nil {
		log.Error("could not record job failure", "status_error", err.Error())
	}
	return cause
}
