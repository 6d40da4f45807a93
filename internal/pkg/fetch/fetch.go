// Package fetch contains a small bounded HTTP download helper shared by the
// object store adapters.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Bytes fetches the full body at url into memory. The caller bounds the
// request via ctx and the client's timeout.
func Bytes(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, url)
	}

	return io.ReadAll(resp.Body)
}
