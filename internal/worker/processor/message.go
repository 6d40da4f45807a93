package processor

import (
	"encoding/json"
	"strings"

	"clipcap/internal/models"
	"clipcap/internal/pkg/errors"
)

// DecodeMessage parses and validates one queued job request. Validation
// happens before any side effect: a message that fails here never touches
// the status store and never reaches the renderer.
func DecodeMessage(body []byte) (models.QueueMessage, error) {
	var msg models.QueueMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return models.QueueMessage{}, errors.WrapWithCode(err, errors.CodeValidation, "processor.decode", "malformed job message")
	}

	if err := ValidateMessage(msg); err != nil {
		return models.QueueMessage{}, err
	}
	return msg, nil
}

// ValidateMessage enforces the renderer's input contract locally so bad
// requests are rejected without spending a render slot.
func ValidateMessage(msg models.QueueMessage) error {
	if strings.TrimSpace(msg.JobID) == "" {
		return errors.ValidationField("jobId", "missing job id")
	}
	if !msg.Style.Valid() {
		return errors.Validationf("invalid style %q: must be bottom, top-bar, or karaoke", string(msg.Style))
	}
	if msg.Captions == nil {
		return errors.ValidationField("captions", "captions must be an array")
	}
	if msg.S3Key == "" && msg.VideoURL == "" {
		return errors.Validation("one of s3Key or videoUrl is required")
	}
	// Traversal markers in either locator are rejected outright.
	if hasTraversal(msg.VideoURL) {
		return errors.ValidationField("videoUrl", "path traversal markers are not allowed")
	}
	if hasTraversal(msg.S3Key) {
		return errors.ValidationField("s3Key", "path traversal markers are not allowed")
	}

	return nil
}

func hasTraversal(s string) bool {
	return strings.Contains(s, "..") || strings.Contains(s, "~")
}
