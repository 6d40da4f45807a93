package localfs

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"clipcap/internal/pkg/errors"
)

func TestUploadWritesObject(t *testing.T) {
	root := t.TempDir()
	fs := New(root, "http://example.test/files")

	err := fs.Upload(context.Background(), []byte("video-bytes"), "output/video_j1.mp4", "video/mp4")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, "output", "video_j1.mp4"))
	if err != nil {
		t.Fatalf("expected object file to exist: %v", err)
	}
	if !bytes.Equal(data, []byte("video-bytes")) {
		t.Errorf("unexpected object content: %q", data)
	}
}

func TestUploadOverwrites(t *testing.T) {
	root := t.TempDir()
	fs := New(root, "http://example.test/files")
	ctx := context.Background()

	if err := fs.Upload(ctx, []byte("first"), "uploads/a.mp4", "video/mp4"); err != nil {
		t.Fatalf("first Upload failed: %v", err)
	}
	if err := fs.Upload(ctx, []byte("second"), "uploads/a.mp4", "video/mp4"); err != nil {
		t.Fatalf("second Upload failed: %v", err)
	}

	data, _ := os.ReadFile(filepath.Join(root, "uploads", "a.mp4"))
	if string(data) != "second" {
		t.Errorf("expected overwrite, got %q", data)
	}
}

func TestUploadEmptyKey(t *testing.T) {
	fs := New(t.TempDir(), "http://example.test/files")
	err := fs.Upload(context.Background(), []byte("x"), "", "video/mp4")
	if err == nil {
		t.Fatal("expected error for empty key")
	}
	if !errors.IsCode(err, errors.CodeStorage) {
		t.Errorf("expected STORAGE_ERROR, got %v", err)
	}
}

func TestPresignKnownObject(t *testing.T) {
	root := t.TempDir()
	fs := New(root, "http://example.test/files/")
	ctx := context.Background()

	if err := fs.Upload(ctx, []byte("x"), "uploads/in.mp4", "video/mp4"); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	url, err := fs.Presign(ctx, "uploads/in.mp4", time.Hour)
	if err != nil {
		t.Fatalf("Presign failed: %v", err)
	}
	if url != "http://example.test/files/uploads/in.mp4" {
		t.Errorf("unexpected URL: %s", url)
	}
}

func TestPresignMissingObject(t *testing.T) {
	fs := New(t.TempDir(), "http://example.test/files")

	_, err := fs.Presign(context.Background(), "uploads/missing.mp4", 0)
	if err == nil {
		t.Fatal("expected error for missing object")
	}
	if !errors.IsCode(err, errors.CodeStorage) {
		t.Errorf("expected STORAGE_ERROR, got %v", err)
	}
}

func TestDownloadRoundTrip(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()

	srv := httptest.NewServer(http.StripPrefix("/files/", http.FileServer(http.Dir(root))))
	defer srv.Close()

	fs := New(root, srv.URL+"/files")

	if err := fs.Upload(ctx, []byte("rendered"), "out/video.mp4", "video/mp4"); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	url, err := fs.Presign(ctx, "out/video.mp4", 0)
	if err != nil {
		t.Fatalf("Presign failed: %v", err)
	}

	data, err := fs.Download(ctx, url)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if string(data) != "rendered" {
		t.Errorf("unexpected content: %q", data)
	}
}

func TestDownloadNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	fs := New(t.TempDir(), srv.URL)

	_, err := fs.Download(context.Background(), srv.URL+"/nope")
	if err == nil {
		t.Fatal("expected error for 404 download")
	}
	if !errors.IsCode(err, errors.CodeStorage) {
		t.Errorf("expected STORAGE_ERROR, got %v", err)
	}
}
