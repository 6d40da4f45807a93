package renderer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"path"
	"strings"
	"time"

	"clipcap/internal/models"
	"clipcap/internal/pkg/errors"
)

// DefaultTimeout is the renderer's hard execution budget. When it elapses
// the in-flight request is torn down and the call fails with RENDER_TIMEOUT.
const DefaultTimeout = 600 * time.Second

// Request is the wire format of one render submission.
type Request struct {
	VideoURL string           `json:"videoUrl"`
	Captions []models.Caption `json:"captions"`
	Style    models.Style     `json:"style"`
	OutPath  string           `json:"outPath"`
}

// Result is the renderer's decoded verdict. A renderer-reported failure is
// returned as Success=false, not as an error — callers branch explicitly.
type Result struct {
	Success      bool
	DownloadURL  string
	ErrorMessage string
	Logs         string
}

type Client interface {
	Render(ctx context.Context, req Request) (Result, error)
}

// response mirrors the renderer's reply on both the success and failure
// paths (2xx and 4xx/5xx carry the same envelope).
type response struct {
	Success bool   `json:"success"`
	OutPath string `json:"outPath"`
	OutURL  string `json:"outUrl"`
	Error   string `json:"error"`
	Logs    string `json:"logs"`
}

type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

type Option func(*HTTPClient)

// WithTimeout overrides the render budget. Used by tests.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		c.client.Timeout = d
	}
}

func NewHTTPClient(baseURL, apiKey string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: DefaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *HTTPClient) Render(ctx context.Context, req Request) (Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Result{}, errors.Wrap(err, "renderer.render", "failed to encode render request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/render", bytes.NewReader(body))
	if err != nil {
		return Result{}, errors.Wrap(err, "renderer.render", "failed to build render request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("x-api-key", c.apiKey)
	}

	res, err := c.client.Do(httpReq)
	if err != nil {
		if isTimeout(ctx, err) {
			return Result{}, errors.RenderTimeout(
				fmt.Sprintf("render request timed out after %s", c.client.Timeout))
		}
		return Result{}, errors.RenderTransport(err, "renderer unreachable")
	}
	defer res.Body.Close()

	respBody, err := io.ReadAll(res.Body)
	if err != nil {
		if isTimeout(ctx, err) {
			return Result{}, errors.RenderTimeout(
				fmt.Sprintf("render request timed out after %s", c.client.Timeout))
		}
		return Result{}, errors.RenderTransport(err, "failed to read renderer response")
	}

	var wire response
	if err := json.Unmarshal(respBody, &wire); err != nil {
		return Result{}, errors.RenderTransport(err, "invalid response from renderer")
	}

	if !wire.Success {
		return Result{Success: false, ErrorMessage: wire.Error, Logs: wire.Logs}, nil
	}

	return Result{
		Success:     true,
		DownloadURL: c.downloadURL(wire.OutPath),
		Logs:        wire.Logs,
	}, nil
}

// Health probes the renderer's liveness endpoint.
func (c *HTTPClient) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}

	res, err := c.client.Do(req)
	if err != nil {
		return errors.RenderTransport(err, "renderer unreachable")
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)

	if res.StatusCode != http.StatusOK {
		return errors.RenderTransport(fmt.Errorf("health returned %d", res.StatusCode), "renderer unhealthy")
	}
	return nil
}

// downloadURL composes the fetchable artifact URL from the artifact's base
// name under the renderer's /download/ route.
func (c *HTTPClient) downloadURL(outPath string) string {
	return c.baseURL + "/download/" + path.Base(outPath)
}

func isTimeout(ctx context.Context, err error) bool {
	if ctx.Err() == context.DeadlineExceeded {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
