// Package api is the authorized HTTP client for the scheduling REST API.
// Every upstream call goes through Client.do, which attaches the bearer
// token and normalizes failures into the taxonomy in errors.go. The client
// never mutates session state; reacting to AuthError is the caller's job.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bakehouse-dev/baker-scheduling/web/internal/config"
	"github.com/bakehouse-dev/baker-scheduling/web/internal/metrics"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.API.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.API.RequestTimeout) * time.Second,
		},
	}
}

// errorBody is the upstream error envelope.
type errorBody struct {
	Message string `json:"message"`
}

// do issues one request. token may be empty, in which case the Authorization
// header is omitted and the server decides whether to reject. A non-nil out
// receives the decoded 2xx body.
func (c *Client) do(ctx context.Context, method, path, token string, body any, out any) error {
	op := fmt.Sprintf("%s %s", method, path)

	// query strings carry per-request parameters; keep them out of metric labels
	metricPath := path
	if i := strings.IndexByte(metricPath, '?'); i >= 0 {
		metricPath = metricPath[:i]
	}

	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// covers unreachable hosts and the bounded client timeout
		metrics.UpstreamRequestsTotal.WithLabelValues(method, metricPath, "transport_error").Inc()
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	metrics.UpstreamRequestsTotal.WithLabelValues(method, metricPath, fmt.Sprintf("%d", resp.StatusCode)).Inc()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		var eb errorBody
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		return &AuthError{Message: eb.Message}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		return &APIError{StatusCode: resp.StatusCode, Message: eb.Message}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%s: decode response: %w", op, err)
		}
	}

	return nil
}
