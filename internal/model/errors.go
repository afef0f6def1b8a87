package model

import (
	"fmt"
	"time"
)

// HTTPError wraps a non-2xx response from the recommendation API so retry
// logic can inspect the status code.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("recommendation API: HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("recommendation API: HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}
