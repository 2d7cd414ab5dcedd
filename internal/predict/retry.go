package predict

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

const (
	// One initial attempt plus two retries.
	maxAttempts = 3

	// Backoff doubles from here: 1s, 2s.
	baseBackoff = 1 * time.Second
)

// transientError marks a provider failure worth retrying: HTTP 429, any
// 5xx, or a timeout.
type transientError struct {
	status int
	err    error
}

func (e *transientError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return http.StatusText(e.status)
}

func (e *transientError) Unwrap() error { return e.err }

// isTransient reports whether an error should trigger a retry.
func isTransient(err error) bool {
	var te *transientError
	if errors.As(err, &te) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}

// withRetry runs fn up to maxAttempts times, sleeping with exponential
// backoff between attempts. Only transient errors are retried; a terminal
// error returns immediately. The sleep respects context cancellation.
func withRetry(ctx context.Context, sleep func(time.Duration), fn func() (string, error)) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		text, err := fn()
		if err == nil {
			return text, nil
		}
		lastErr = err

		if !isTransient(err) || attempt == maxAttempts {
			break
		}

		delay := baseBackoff << (attempt - 1)
		if sleep != nil {
			sleep(delay)
			continue
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}

	return "", lastErr
}
