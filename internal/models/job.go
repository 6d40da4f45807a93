package models

import "time"

// Status is the lifecycle state of a caption render job.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether no further transitions may occur.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Style selects the caption overlay layout.
type Style string

const (
	StyleBottom  Style = "bottom"
	StyleTopBar  Style = "top-bar"
	StyleKaraoke Style = "karaoke"
)

// Valid reports whether the style is one of the supported layouts.
func (s Style) Valid() bool {
	switch s {
	case StyleBottom, StyleTopBar, StyleKaraoke:
		return true
	}
	return false
}

// Caption is a single timed caption line. Timing is validated upstream
// (start < end); this service treats it as opaque render input.
type Caption struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Job is the persisted record of one caption render request.
// When the status is terminal, exactly one of OutputURL / Error is set.
type Job struct {
	JobID     string    `json:"jobId"`
	Status    Status    `json:"status"`
	InputKey  string    `json:"inputKey,omitempty"`
	Captions  []Caption `json:"captions,omitempty"`
	Style     Style     `json:"style,omitempty"`
	OutputURL string    `json:"outputUrl,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// QueueMessage is the wire format of one queued render request.
type QueueMessage struct {
	JobID    string    `json:"jobId"`
	VideoURL string    `json:"videoUrl"`
	Captions []Caption `json:"captions"`
	Style    Style     `json:"style"`
	S3Key    string    `json:"s3Key"`
}
