package trends

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrProvider matches every ProviderError via errors.Is.
var ErrProvider = errors.New("trends provider error")

// ProviderError reports a failed call to the Trends endpoints. StatusCode is
// zero when no HTTP response was received.
type ProviderError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *ProviderError) Error() string {
	msg := "trends " + e.Op
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Body != "" {
		msg += " (response: " + e.Body + ")"
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func (e *ProviderError) Is(target error) bool {
	return target == ErrProvider
}

// ErrorSeverity represents how the caller should treat a provider failure
type ErrorSeverity int

const (
	ErrorSeverityRetryable ErrorSeverity = iota
	ErrorSeverityFatal
)

// ClassifyError decides whether a provider failure is worth retrying.
// Rate limiting is retryable; other 4xx responses and cancellations are not.
func ClassifyError(err error) ErrorSeverity {
	if err == nil {
		return ErrorSeverityFatal
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrorSeverityFatal
	}

	var perr *ProviderError
	if !errors.As(err, &perr) {
		return ErrorSeverityFatal
	}
	switch {
	case perr.StatusCode == 0:
		if perr.Err == nil {
			return ErrorSeverityFatal
		}
		return ErrorSeverityRetryable // transport failure
	case perr.StatusCode == http.StatusTooManyRequests:
		return ErrorSeverityRetryable
	case perr.StatusCode >= 500:
		return ErrorSeverityRetryable
	default:
		return ErrorSeverityFatal
	}
}

// IsRateLimited reports whether err is a 429 from the provider.
func IsRateLimited(err error) bool {
	var perr *ProviderError
	return errors.As(err, &perr) && perr.StatusCode == http.StatusTooManyRequests
}

// IsAuth reports whether the provider rejected the request as unauthorized.
func IsAuth(err error) bool {
	var perr *ProviderError
	return errors.As(err, &perr) &&
		(perr.StatusCode == http.StatusUnauthorized || perr.StatusCode == http.StatusForbidden)
}
