package httpx

import (
	"io"
	"net/http"
	"time"
)

// RetryTransport wraps an http.RoundTripper and retries requests that fail
// with a transport error or a 5xx response, making at most
// Backoff.MaxAttempts attempts in total. It sits underneath the credential interceptor so that transport
// flakiness is retried independently of credential refresh.
type RetryTransport struct {
	Next    http.RoundTripper
	Backoff BackoffConfig
}

// NewRetryTransport creates a RetryTransport wrapping next. next defaults to
// http.DefaultTransport if nil.
func NewRetryTransport(next http.RoundTripper, backoff BackoffConfig) *RetryTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &RetryTransport{Next: next, Backoff: backoff}
}

// RoundTrip implements http.RoundTripper.
func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	maxAttempts := t.Backoff.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-req.Context().Done():
				return nil, req.Context().Err()
			case <-time.After(CalculateBackoff(t.Backoff, attempt)):
			}
		}

		outReq := req.Clone(req.Context())
		resp, err := t.Next.RoundTrip(outReq)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode < 500 {
			return resp, nil
		}
		if attempt == maxAttempts-1 {
			return resp, nil
		}
		if resp.Body != nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}
		lastErr = nil
	}

	return nil, lastErr
}
