// Package syncerr classifies push/pull failures so the coordinator can
// decide between quiet retry and loud logging. Classification never drops a
// pending operation — the queue retains everything until acknowledged — but
// it controls backoff pacing and log severity.
package syncerr

import "fmt"

// Category describes how a sync failure should be treated.
type Category int

const (
	// Transient failures resolve themselves: network errors, timeouts,
	// 5xx responses, 429 throttling. Retried silently.
	Transient Category = iota

	// Rejected failures will not succeed on retry without intervention:
	// 4xx responses other than 408/429. Retried too (the queue never
	// abandons work) but logged at warn with the response body.
	Rejected
)

func (c Category) String() string {
	switch c {
	case Transient:
		return "transient"
	case Rejected:
		return "rejected"
	default:
		return fmt.Sprintf("unknown(%d)", int(c))
	}
}

// PushError wraps a failed backend call with its classification.
type PushError struct {
	Category   Category
	StatusCode int // 0 for non-HTTP failures
	Body       string
	Underlying error
}

func (e *PushError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("[%s] HTTP %d: %v", e.Category, e.StatusCode, e.Underlying)
	}
	return fmt.Sprintf("[%s] %v", e.Category, e.Underlying)
}

func (e *PushError) Unwrap() error { return e.Underlying }

// IsRejected reports whether err is a classified backend rejection.
func IsRejected(err error) bool {
	pe, ok := err.(*PushError)
	return ok && pe.Category == Rejected
}

// FromStatus builds a PushError for an HTTP response outside the success
// range. 408 and 429 stay transient; the rest of 4xx is a rejection.
func FromStatus(op string, status int, body string) *PushError {
	cat := Transient
	if status >= 400 && status < 500 && status != 408 && status != 429 {
		cat = Rejected
	}
	return &PushError{
		Category:   cat,
		StatusCode: status,
		Body:       body,
		Underlying: fmt.Errorf("%s: status %d", op, status),
	}
}

// FromNetwork builds a PushError for a transport-level failure, which is
// always transient.
func FromNetwork(op string, err error) *PushError {
	return &PushError{
		Category:   Transient,
		Underlying: fmt.Errorf("%s: %w", op, err),
	}
}
