package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "invalid input")

	if err.Code != CodeValidation {
		t.Errorf("expected code=%s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "invalid input" {
		t.Errorf("expected message='invalid input', got %s", err.Message)
	}
	if len(err.Stack) == 0 {
		t.Error("expected stack trace to be captured")
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CodeNotFound, "job %s not found", "j1")

	if err.Code != CodeNotFound {
		t.Errorf("expected code=%s, got %s", CodeNotFound, err.Code)
	}
	if err.Message != "job j1 not found" {
		t.Errorf("expected formatted message, got %s", err.Message)
	}
}

func TestErrorString(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name:     "simple error",
			err:      New(CodeValidation, "invalid"),
			contains: []string{"VALIDATION_ERROR", "invalid"},
		},
		{
			name: "error with op",
			err: &Error{
				Code:    CodeStorage,
				Message: "upload failed",
				Op:      "objectstore.upload",
			},
			contains: []string{"objectstore.upload", "STORAGE_ERROR", "upload failed"},
		},
		{
			name: "error with underlying",
			err: &Error{
				Code:    CodeInternal,
				Message: "wrapper",
				Err:     fmt.Errorf("underlying error"),
			},
			contains: []string{"wrapper", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			str := tt.err.Error()
			for _, c := range tt.contains {
				if !strings.Contains(str, c) {
					t.Errorf("expected error string to contain %q, got: %s", c, str)
				}
			}
		})
	}
}

func TestWrap(t *testing.T) {
	original := fmt.Errorf("original error")
	wrapped := Wrap(original, "store.set", "status update failed")

	if wrapped == nil {
		t.Fatal("expected wrapped error to be non-nil")
	}
	if wrapped.Code != CodeInternal {
		t.Errorf("expected code=%s, got %s", CodeInternal, wrapped.Code)
	}
	if wrapped.Op != "store.set" {
		t.Errorf("expected op='store.set', got %s", wrapped.Op)
	}
	if wrapped.Err != original {
		t.Error("expected underlying error to be preserved")
	}

	// Test Unwrap
	if errors.Unwrap(wrapped) != original {
		t.Error("Unwrap should return original error")
	}
}

func TestWrapNil(t *testing.T) {
	wrapped := Wrap(nil, "op", "message")
	if wrapped != nil {
		t.Error("Wrap(nil) should return nil")
	}
}

func TestWrapPreservesCode(t *testing.T) {
	original := New(CodeRenderTimeout, "render request timed out")
	wrapped := Wrap(original, "processor.render", "render failed")

	if wrapped.Code != CodeRenderTimeout {
		t.Errorf("expected code to be preserved as %s, got %s", CodeRenderTimeout, wrapped.Code)
	}
}

func TestWrapWithCode(t *testing.T) {
	original := fmt.Errorf("connection refused")
	wrapped := WrapWithCode(original, CodeRenderTransport, "renderer.render", "renderer unreachable")

	if wrapped.Code != CodeRenderTransport {
		t.Errorf("expected code=%s, got %s", CodeRenderTransport, wrapped.Code)
	}
	if !errors.Is(wrapped, original) {
		t.Error("expected wrapped error to match original via errors.Is")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code   Code
		status int
	}{
		{CodeValidation, 400},
		{CodeUnauthorized, 401},
		{CodeNotFound, 404},
		{CodeConflict, 409},
		{CodeUnavailable, 503},
		{CodeRenderTimeout, 504},
		{CodeInternal, 500},
		{CodePersistence, 500},
		{CodeStorage, 500},
		{CodeRenderFailed, 500},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := New(tt.code, "test")
			if got := err.HTTPStatus(); got != tt.status {
				t.Errorf("expected status=%d for %s, got %d", tt.status, tt.code, got)
			}
		})
	}
}

func TestHelpers(t *testing.T) {
	if got := GetCode(Persistence(fmt.Errorf("db down"), "store.set", "update failed")); got != CodePersistence {
		t.Errorf("expected %s, got %s", CodePersistence, got)
	}
	if got := GetCode(Storage(fmt.Errorf("403"), "objectstore.presign", "presign failed")); got != CodeStorage {
		t.Errorf("expected %s, got %s", CodeStorage, got)
	}
	if got := GetCode(RenderTimeout("timed out")); got != CodeRenderTimeout {
		t.Errorf("expected %s, got %s", CodeRenderTimeout, got)
	}
	if got := GetCode(fmt.Errorf("plain")); got != CodeInternal {
		t.Errorf("expected plain errors to map to %s, got %s", CodeInternal, got)
	}
}

func TestRenderFailedDefaultMessage(t *testing.T) {
	err := RenderFailed("")
	if err.Message != "Render failed" {
		t.Errorf("expected default message 'Render failed', got %q", err.Message)
	}

	err = RenderFailed("ffmpeg crashed")
	if err.Message != "ffmpeg crashed" {
		t.Errorf("expected renderer message to be preserved, got %q", err.Message)
	}
}

func TestValidationField(t *testing.T) {
	err := ValidationField("style", "unsupported style")

	if !IsValidation(err) {
		t.Error("expected validation error")
	}
	fields := GetFields(err)
	if fields["field"] != "style" {
		t.Errorf("expected field='style', got %v", fields["field"])
	}
}

func TestIsCodeMatching(t *testing.T) {
	timeout := New(CodeRenderTimeout, "a")
	other := New(CodeRenderTimeout, "b")

	if !errors.Is(timeout, other) {
		t.Error("errors with the same code should match via errors.Is")
	}
	if errors.Is(timeout, New(CodeStorage, "c")) {
		t.Error("errors with different codes should not match")
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain error", errors.New("boom"), "boom"},
		{"renderer failure verbatim", RenderFailed("ffmpeg crashed"), "ffmpeg crashed"},
		{"wrapped plain cause", Wrap(errors.New("connection reset"), "store.get", "failed to read record"), "failed to read record: connection reset"},
		{"wrapped structured cause", Wrap(New(CodeStorage, "connection reset"), "processor.process", "failed to download rendered video"), "failed to download rendered video: connection reset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}

	// The decorated form keeps the code; the user form must not.
	decorated := RenderFailed("ffmpeg crashed").Error()
	if !strings.Contains(decorated, "[RENDER_FAILED]") {
		t.Fatalf("Error() = %q, expected code decoration", decorated)
	}
}
