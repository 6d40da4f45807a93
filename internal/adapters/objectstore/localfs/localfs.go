package localfs

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"clipcap/internal/pkg/errors"
	"clipcap/internal/pkg/fetch"
)

// LocalFS implements ports.ObjectStore using the local filesystem.
// Objects live under a configured root directory; access URLs are composed
// from a public base URL (the API serves the root under /files/), so they
// are not actually time-bounded. Meant for development, not production.
type LocalFS struct {
	root    string
	baseURL string
	httpc   *http.Client
}

func New(root, baseURL string) *LocalFS {
	return &LocalFS{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 60 * time.Second},
	}
}

func (l *LocalFS) Provider() string { return "localfs" }

func (l *LocalFS) Presign(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if key == "" {
		return "", errors.New(errors.CodeStorage, "object key is required")
	}

	p := filepath.Join(l.root, filepath.FromSlash(key))
	if _, err := os.Stat(p); err != nil {
		return "", errors.Storage(err, "objectstore.presign", "object not found: "+key)
	}

	return l.baseURL + "/" + strings.TrimLeft(key, "/"), nil
}

func (l *LocalFS) Download(ctx context.Context, url string) ([]byte, error) {
	data, err := fetch.Bytes(ctx, l.httpc, url)
	if err != nil {
		return nil, errors.Storage(err, "objectstore.download", "failed to download object")
	}
	return data, nil
}

func (l *LocalFS) Upload(ctx context.Context, data []byte, key, contentType string) error {
	if key == "" {
		return errors.New(errors.CodeStorage, "object key is required")
	}

	dst := filepath.Join(l.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.Storage(err, "objectstore.upload", "failed to create object directory")
	}

	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return errors.Storage(err, "objectstore.upload", "failed to write object "+key)
	}

	return nil
}
