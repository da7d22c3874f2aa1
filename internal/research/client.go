package research

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/clinicflow/content-service/internal/logger"
	"github.com/clinicflow/content-service/internal/retry"
)

// ClientConfig configures the research HTTP client.
type ClientConfig struct {
	URL        string
	Timeout    time.Duration
	MaxRetries int
}

// Client calls the external research endpoint over HTTP. Failures are
// contained here: Query never returns an error to its caller, it degrades to
// the fixed fallback payload instead.
type Client struct {
	url        string
	maxRetries int
	httpClient *http.Client
	logger     logger.Logger
}

// NewClient creates a research client.
func NewClient(cfg ClientConfig, log logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 20 * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 2
	}

	return &Client{
		url:        cfg.URL,
		maxRetries: maxRetries,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log,
	}
}

// Query posts the request to the research endpoint. Transient transport
// failures are retried with backoff; any terminal failure (transport, non-2xx
// status, undecodable body) yields the fallback response and a log entry,
// never an error.
func (c *Client) Query(ctx context.Context, req Request) (Response, error) {
	var resp Response

	err := retry.Do(ctx, retry.Config{MaxAttempts: c.maxRetries}, func() error {
		result, callErr := c.post(ctx, req)
		if callErr != nil {
			return callErr
		}
		resp = result
		return nil
	})
	if err != nil {
		c.logger.Error("Research query failed, serving fallback",
			logger.Error(err),
			logger.String("query", req.Query),
		)
		return FallbackResponse(), nil
	}

	return resp, nil
}

func (c *Client) post(ctx context.Context, req Request) (Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Response{}, fmt.Errorf("encode research request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("build research request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("call research endpoint: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(httpResp.Body, 512))
		return Response{}, fmt.Errorf("research endpoint returned %d: %s", httpResp.StatusCode, payload)
	}

	var resp Response
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return Response{}, fmt.Errorf("decode research response: %w", err)
	}

	return resp, nil
}
