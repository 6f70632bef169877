package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/hejijunhao/sentiprep/internal/model"
	"github.com/hejijunhao/sentiprep/internal/output"
)

const (
	defaultTimeout = 10 * time.Second
	defaultBackoff = time.Second
	maxRetries     = 3
)

// Option configures a webhook Output.
type Option func(*Output)

// WithHeaders sets custom HTTP headers sent with every POST.
func WithHeaders(h map[string]string) Option {
	return func(o *Output) { o.headers = h }
}

// WithTimeout sets the HTTP client timeout. Default: 10s.
func WithTimeout(d time.Duration) Option {
	return func(o *Output) { o.client.Timeout = d }
}

// WithBackoff sets the first retry delay; later retries double it. Default: 1s.
func WithBackoff(d time.Duration) Option {
	return func(o *Output) { o.backoff = d }
}

// WithTopTerms sets how many terms the posted summary lists.
func WithTopTerms(n int) Option {
	return func(o *Output) { o.topN = n }
}

// StatusError is a non-2xx response from the endpoint.
type StatusError struct {
	StatusCode int
	Body       string // first 512 bytes
	retryAfter string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("webhook: HTTP %d: %s", e.StatusCode, e.Body)
}

// Output POSTs the JSON run summary to an HTTP endpoint, one request per
// run. Retries on 429 (honouring Retry-After) and 5xx with exponential
// backoff.
type Output struct {
	client  *http.Client
	url     string
	headers map[string]string
	backoff time.Duration
	topN    int
}

// New creates a webhook output targeting the given URL.
func New(url string, opts ...Option) *Output {
	o := &Output{
		client:  &http.Client{Timeout: defaultTimeout},
		url:     url,
		backoff: defaultBackoff,
		topN:    output.DefaultTopTerms,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Output) Write(ctx context.Context, res *model.Result) error {
	body, err := json.Marshal(output.Summarize(res, o.topN))
	if err != nil {
		return fmt.Errorf("webhook: marshal: %w", err)
	}
	if err := o.postWithRetry(ctx, body); err != nil {
		return err
	}
	slog.Debug("webhook delivered", "url", o.url, "run_id", res.RunID)
	return nil
}

func (o *Output) Close() error {
	o.client.CloseIdleConnections()
	return nil
}

func (o *Output) postWithRetry(ctx context.Context, body []byte) error {
	var lastErr *StatusError
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			t := time.NewTimer(o.delay(attempt, lastErr))
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("webhook: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range o.headers {
			req.Header.Set(k, v)
		}

		resp, err := o.client.Do(req)
		if err != nil {
			return fmt.Errorf("webhook: %w", err)
		}
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}

		statusErr := &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			statusErr.retryAfter = resp.Header.Get("Retry-After")
		case resp.StatusCode >= 500:
		default:
			return statusErr
		}
		lastErr = statusErr
		slog.Warn("webhook retry", "status", resp.StatusCode, "attempt", attempt+1)
	}
	return lastErr
}

// delay returns the wait before a retry attempt.
func (o *Output) delay(attempt int, lastErr *StatusError) time.Duration {
	if lastErr != nil && lastErr.retryAfter != "" {
		if secs, err := strconv.Atoi(lastErr.retryAfter); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return o.backoff << (attempt - 1)
}
