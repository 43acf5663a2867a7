package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	maxRequestSize  = 2 * 1024 * 1024 // 2MB total JSON payload
	maxResponseSize = 4 * 1024 * 1024
)

// transport is the HTTP plumbing shared by every adapter: JSON encoding,
// per-call timeout, retry, and mapping failures onto the error taxonomy.
type transport struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger
}

func newTransport(cfg Config, logger *zap.Logger) *transport {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &transport{
		cfg:        cfg,
		httpClient: newHTTPClient(cfg),
		logger:     logger.Named("provider"),
	}
}

// postJSON sends payload to url and decodes a 2xx body into out.
func (t *transport) postJSON(
	parentCtx context.Context,
	id ID,
	url string,
	headers map[string]string,
	payload any,
	out any,
) error {
	start := time.Now()
	logger := t.logger.With(zap.String("provider", string(id)))

	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return upstreamError(id, 0, "marshal request", err)
	}
	if len(bodyBytes) > maxRequestSize {
		return upstreamError(id, 0, fmt.Sprintf("request too large (%d bytes, max %d)", len(bodyBytes), maxRequestSize), nil)
	}

	ctx, cancel := context.WithTimeout(parentCtx, t.cfg.UpstreamTimeout)
	defer cancel()

	// doOnce builds a fresh *http.Request for each attempt
	doOnce := func(ctx context.Context, body []byte) (*http.Response, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("build HTTP request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		for k, v := range headers {
			httpReq.Header.Set(k, v)
		}
		return t.httpClient.Do(httpReq)
	}

	resp, err := t.doWithRetry(ctx, logger, bodyBytes, doOnce)
	if err != nil {
		logger.Warn("provider request failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return unavailable(id, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return unavailable(id, "read response", err)
	}

	// Handle non-2xx responses
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := upstreamMessage(body)
		logger.Warn("provider upstream error",
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg),
			zap.Duration("duration", time.Since(start)),
		)
		return upstreamError(id, resp.StatusCode, msg, nil)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return upstreamError(id, resp.StatusCode, "decode response body", err)
	}

	logger.Debug("provider request completed",
		zap.Int("status", resp.StatusCode),
		zap.Int("response_bytes", len(body)),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// get issues a bare GET and reports the status code. Used for probes.
func (t *transport) get(ctx context.Context, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
	resp.Body.Close()
	return resp.StatusCode, nil
}

// Close releases idle pooled connections.
func (t *transport) Close() error {
	t.httpClient.CloseIdleConnections()
	return nil
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// truncate limits string length for logging
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
