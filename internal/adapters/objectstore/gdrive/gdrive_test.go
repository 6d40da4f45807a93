package gdrive

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"clipcap/internal/pkg/errors"
)

// fakeDrive records which Drive endpoints the adapter touched.
type fakeDrive struct {
	listStatus int
	listBody   string
	deleted    []string
	created    bool
}

func (f *fakeDrive) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/files", func(w http.ResponseWriter, r *http.Request) {
		if f.listStatus != 0 && f.listStatus != 200 {
			http.Error(w, `{"error":{"message":"backend error"}}`, f.listStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(f.listBody))
	})
	mux.HandleFunc("/files/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			f.deleted = append(f.deleted, strings.TrimPrefix(r.URL.Path, "/files/"))
			w.WriteHeader(204)
			return
		}
		http.NotFound(w, r)
	})
	mux.HandleFunc("/upload/drive/v3/files", func(w http.ResponseWriter, r *http.Request) {
		f.created = true
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"new","name":"uploaded"}`))
	})
	return mux
}

func newTestClient(t *testing.T, f *fakeDrive) *Client {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	svc, err := drive.NewService(context.Background(),
		option.WithEndpoint(srv.URL),
		option.WithHTTPClient(srv.Client()),
	)
	if err != nil {
		t.Fatalf("drive.NewService: %v", err)
	}
	return NewClient(svc, "folder-1")
}

func TestPresign(t *testing.T) {
	f := &fakeDrive{listBody: `{"files":[{"id":"f1","name":"output/v.mp4","webContentLink":"https://drive.example.com/f1"}]}`}
	c := newTestClient(t, f)

	url, err := c.Presign(context.Background(), "output/v.mp4", 0)
	if err != nil {
		t.Fatalf("Presign: %v", err)
	}
	if url != "https://drive.example.com/f1" {
		t.Errorf("url = %q", url)
	}
}

func TestPresignNotFound(t *testing.T) {
	f := &fakeDrive{listBody: `{"files":[]}`}
	c := newTestClient(t, f)

	_, err := c.Presign(context.Background(), "output/missing.mp4", 0)
	if !errors.IsNotFound(err) {
		t.Fatalf("error = %v, want not-found", err)
	}
}

func TestUploadCreatesWhenAbsent(t *testing.T) {
	f := &fakeDrive{listBody: `{"files":[]}`}
	c := newTestClient(t, f)

	if err := c.Upload(context.Background(), []byte("data"), "output/v.mp4", "video/mp4"); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !f.created {
		t.Error("create endpoint was not called")
	}
	if len(f.deleted) != 0 {
		t.Errorf("deleted = %v, want none", f.deleted)
	}
}

func TestUploadOverwritesExisting(t *testing.T) {
	f := &fakeDrive{listBody: `{"files":[{"id":"f1","name":"output/v.mp4"}]}`}
	c := newTestClient(t, f)

	if err := c.Upload(context.Background(), []byte("data"), "output/v.mp4", "video/mp4"); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if len(f.deleted) != 1 || f.deleted[0] != "f1" {
		t.Errorf("deleted = %v, want the previous file", f.deleted)
	}
	if !f.created {
		t.Error("create endpoint was not called")
	}
}

func TestUploadPropagatesLookupFailure(t *testing.T) {
	// A transient lookup error must fail the upload, not be treated as
	// not-found and silently skip the overwrite-delete.
	f := &fakeDrive{listStatus: 500}
	c := newTestClient(t, f)

	err := c.Upload(context.Background(), []byte("data"), "output/v.mp4", "video/mp4")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.IsCode(err, errors.CodeStorage) {
		t.Errorf("error code = %q, want STORAGE_ERROR", errors.GetCode(err))
	}
	if f.created {
		t.Error("create endpoint must not be called after a lookup failure")
	}
}
