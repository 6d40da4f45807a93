package gdrive

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"

	"clipcap/internal/pkg/errors"
	"clipcap/internal/pkg/fetch"
)

// Client implements ports.ObjectStore backed by Google Drive. The object key
// is stored as the Drive file name inside the configured folder. Drive
// content links are not time-bounded, so the ttl argument is advisory only.
type Client struct {
	srv      *drive.Service
	folderID string
	httpc    *http.Client
}

func NewClient(srv *drive.Service, folderID string) *Client {
	return &Client{
		srv:      srv,
		folderID: folderID,
		httpc:    &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *Client) Provider() string { return "gdrive" }

func (c *Client) Presign(ctx context.Context, key string, ttl time.Duration) (string, error) {
	f, err := c.findByName(ctx, key)
	if err != nil {
		return "", err
	}

	if f.WebContentLink == "" {
		return "", errors.New(errors.CodeStorage, "no content link for object "+key)
	}
	return f.WebContentLink, nil
}

func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	data, err := fetch.Bytes(ctx, c.httpc, url)
	if err != nil {
		return nil, errors.Storage(err, "objectstore.download", "failed to download object")
	}
	return data, nil
}

func (c *Client) Upload(ctx context.Context, data []byte, key, contentType string) error {
	if key == "" {
		return errors.New(errors.CodeStorage, "object key is required")
	}

	// Overwrite semantics: delete a previous file with the same name first.
	// A lookup failure is not the same as not-found; skipping the delete on
	// a transient error would accumulate duplicate names.
	prev, err := c.findByName(ctx, key)
	switch {
	case err == nil:
		if delErr := c.srv.Files.Delete(prev.Id).SupportsAllDrives(true).Context(ctx).Do(); delErr != nil {
			return errors.Storage(delErr, "objectstore.upload", "failed to replace object "+key)
		}
	case !errors.IsNotFound(err):
		return err
	}

	file := &drive.File{Name: key}
	if c.folderID != "" {
		file.Parents = []string{c.folderID}
	}

	call := c.srv.Files.Create(file)
	if contentType != "" {
		call = call.Media(bytes.NewReader(data), googleapi.ContentType(contentType))
	} else {
		call = call.Media(bytes.NewReader(data))
	}

	if _, err := call.Context(ctx).Do(); err != nil {
		return errors.Storage(err, "objectstore.upload", "gdrive upload failed for "+key)
	}
	return nil
}

func (c *Client) findByName(ctx context.Context, key string) (*drive.File, error) {
	q := fmt.Sprintf("name = '%s' and trashed = false", key)
	if c.folderID != "" {
		q += fmt.Sprintf(" and '%s' in parents", c.folderID)
	}

	list, err := c.srv.Files.List().
		Q(q).
		Fields("files(id, name, webContentLink)").
		PageSize(1).
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, errors.Storage(err, "objectstore.lookup", "gdrive lookup failed for "+key)
	}
	if len(list.Files) == 0 {
		return nil, errors.NotFound("object", key)
	}

	return list.Files[0], nil
}
