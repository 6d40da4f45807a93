package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"clipcap/internal/httpkit"
	"clipcap/internal/models"
	"clipcap/internal/pkg/errors"
)

type CreateJobRequest struct {
	VideoKey string           `json:"videoKey"`
	Captions []models.Caption `json:"captions"`
	Style    models.Style     `json:"style"`
}

// PostJob records a queued job and publishes it for the worker. The job is
// accepted, not executed: callers poll GET /jobs/{jobId} for the outcome.
func (h *Handler) PostJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.log.FromContext(ctx)

	var req CreateJobRequest
	if err := httpkit.DecodeJSON(r, &req); err != nil {
		httpkit.WriteErr(w, 400, "VALIDATION_ERROR", "invalid json body", nil)
		return
	}

	videoKey := strings.TrimSpace(req.VideoKey)
	if videoKey == "" {
		httpkit.WriteErr(w, 400, "VALIDATION_ERROR", "videoKey is required", map[string]any{"field": "videoKey"})
		return
	}
	if strings.Contains(videoKey, "..") || strings.Contains(videoKey, "~") {
		httpkit.WriteErr(w, 400, "VALIDATION_ERROR", "videoKey must not contain path traversal markers", map[string]any{"field": "videoKey"})
		return
	}
	if !req.Style.Valid() {
		httpkit.WriteErr(w, 400, "VALIDATION_ERROR", "style must be one of bottom, top-bar, karaoke", map[string]any{"field": "style"})
		return
	}
	if len(req.Captions) == 0 {
		httpkit.WriteErr(w, 400, "VALIDATION_ERROR", "captions must be a non-empty array", map[string]any{"field": "captions"})
		return
	}

	jobID := uuid.NewString()
	now := time.Now().UTC()
	job := &models.Job{
		JobID:     jobID,
		Status:    models.StatusQueued,
		InputKey:  videoKey,
		Captions:  req.Captions,
		Style:     req.Style,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.store.CreateJob(ctx, job); err != nil {
		log.WithError(err).Error("job create failed", "job_id", jobID)
		httpkit.WriteErr(w, 500, "PERSISTENCE_ERROR", "db insert failed", nil)
		return
	}

	body, _ := json.Marshal(models.QueueMessage{
		JobID:    jobID,
		Captions: req.Captions,
		Style:    req.Style,
		S3Key:    videoKey,
	})
	if err := h.publisher.Publish(ctx, body); err != nil {
		log.WithError(err).Error("job enqueue failed", "job_id", jobID)
		// The record exists but nothing will pick it up; settle it now so
		// the caller's poll does not hang on queued forever.
		if serr := h.store.SetStatus(ctx, jobID, models.StatusFailed, "", "failed to enqueue job"); serr != nil {
			log.WithError(serr).Error("could not record enqueue failure", "job_id", jobID)
		}
		httpkit.WriteErr(w, 500, "INTERNAL_ERROR", "queue push failed", nil)
		return
	}

	httpkit.WriteJSON(w, 202, map[string]any{
		"jobId":  jobID,
		"status": models.StatusQueued,
	})
}

// GetJob is the poll surface for job outcomes.
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	jobID := chi.URLParam(r, "jobId")

	job, err := h.store.GetJob(ctx, jobID)
	if err != nil {
		if errors.IsNotFound(err) {
			httpkit.WriteErr(w, 404, "JOB_NOT_FOUND", "job not found", map[string]any{"jobId": jobID})
			return
		}
		h.log.FromContext(ctx).WithError(err).Error("job lookup failed", "job_id", jobID)
		httpkit.WriteErr(w, 500, "PERSISTENCE_ERROR", "db query failed", nil)
		return
	}

	httpkit.WriteJSON(w, 200, map[string]any{"job": job})
}
