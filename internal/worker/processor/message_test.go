package processor

import (
	"testing"

	"clipcap/internal/models"
	"clipcap/internal/pkg/errors"
)

func validMessage() models.QueueMessage {
	return models.QueueMessage{
		JobID:    "job-1",
		S3Key:    "uploads/in.mp4",
		Style:    models.StyleKaraoke,
		Captions: []models.Caption{},
	}
}

func TestDecodeMessage(t *testing.T) {
	body := []byte(`{"jobId":"job-9","videoUrl":"","captions":[{"start":0,"end":2,"text":"hi"}],"style":"top-bar","s3Key":"uploads/clip.mp4"}`)
	msg, err := DecodeMessage(body)
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	if msg.JobID != "job-9" || msg.Style != models.StyleTopBar || msg.S3Key != "uploads/clip.mp4" {
		t.Errorf("decoded message = %+v", msg)
	}
	if len(msg.Captions) != 1 || msg.Captions[0].Text != "hi" {
		t.Errorf("captions = %+v", msg.Captions)
	}
}

func TestDecodeMessageMalformed(t *testing.T) {
	_, err := DecodeMessage([]byte(`{"jobId":`))
	if !errors.IsValidation(err) {
		t.Fatalf("error = %v, want validation", err)
	}
}

func TestValidateMessage(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.QueueMessage)
		wantOK bool
	}{
		{"valid with key", func(m *models.QueueMessage) {}, true},
		{"valid with url only", func(m *models.QueueMessage) {
			m.S3Key = ""
			m.VideoURL = "https://cdn.example.com/raw.mp4"
		}, true},
		{"missing job id", func(m *models.QueueMessage) { m.JobID = "  " }, false},
		{"unknown style", func(m *models.QueueMessage) { m.Style = "rainbow" }, false},
		{"empty style", func(m *models.QueueMessage) { m.Style = "" }, false},
		{"nil captions", func(m *models.QueueMessage) { m.Captions = nil }, false},
		{"no locator", func(m *models.QueueMessage) { m.S3Key = ""; m.VideoURL = "" }, false},
		{"dotdot in key", func(m *models.QueueMessage) { m.S3Key = "uploads/../secret.mp4" }, false},
		{"tilde in key", func(m *models.QueueMessage) { m.S3Key = "~root/in.mp4" }, false},
		{"dotdot in url", func(m *models.QueueMessage) { m.VideoURL = "https://cdn.example.com/../x.mp4" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validMessage()
			tt.mutate(&msg)
			err := ValidateMessage(msg)
			if tt.wantOK && err != nil {
				t.Fatalf("ValidateMessage: %v", err)
			}
			if !tt.wantOK {
				if err == nil {
					t.Fatal("expected a validation error")
				}
				if !errors.IsValidation(err) {
					t.Errorf("error code = %q, want validation", errors.GetCode(err))
				}
			}
		})
	}
}
