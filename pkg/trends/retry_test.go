package trends

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestRetry_Success(t *testing.T) {
	retry := NewRetry(3, 10*time.Millisecond)

	attempts := 0
	err := retry.Execute(context.Background(), func() error {
		attempts++
		if attempts < 2 {
			return &ProviderError{Op: "test", StatusCode: http.StatusServiceUnavailable}
		}
		return nil
	})

	if err != nil {
		t.Errorf("Expected success, got error: %v", err)
	}
	if attempts != 2 {
		t.Errorf("Expected 2 attempts, got %d", attempts)
	}
}

func TestRetry_MaxRetriesExceeded(t *testing.T) {
	retry := NewRetry(2, 10*time.Millisecond)

	attempts := 0
	err := retry.Execute(context.Background(), func() error {
		attempts++
		return &ProviderError{Op: "test", StatusCode: http.StatusTooManyRequests}
	})

	if !IsRateLimited(err) {
		t.Errorf("Expected rate limit error, got %v", err)
	}
	if attempts != 3 { // 1 initial + 2 retries
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
}

func TestRetry_NonRetryableError(t *testing.T) {
	retry := NewRetry(3, 10*time.Millisecond)

	attempts := 0
	err := retry.Execute(context.Background(), func() error {
		attempts++
		return &ProviderError{Op: "test", StatusCode: http.StatusUnauthorized}
	})

	if !IsAuth(err) {
		t.Errorf("Expected auth error, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt, got %d", attempts)
	}
}

func TestRetry_PlainErrorNotRetried(t *testing.T) {
	retry := NewRetry(3, 10*time.Millisecond)

	attempts := 0
	_ = retry.Execute(context.Background(), func() error {
		attempts++
		return errors.New("bad input")
	})
	if attempts != 1 {
		t.Errorf("Expected 1 attempt, got %d", attempts)
	}
}

func TestRetry_ContextCancellation(t *testing.T) {
	retry := NewRetry(3, 100*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	err := retry.Execute(ctx, func() error {
		return &ProviderError{Op: "test", Err: errors.New("connection reset")}
	})

	if err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorSeverity
	}{
		{"nil", nil, ErrorSeverityFatal},
		{"transport", &ProviderError{Op: "x", Err: errors.New("dial tcp: timeout")}, ErrorSeverityRetryable},
		{"rate limited", &ProviderError{Op: "x", StatusCode: 429}, ErrorSeverityRetryable},
		{"server error", &ProviderError{Op: "x", StatusCode: 502}, ErrorSeverityRetryable},
		{"not found", &ProviderError{Op: "x", StatusCode: 404}, ErrorSeverityFatal},
		{"forbidden", &ProviderError{Op: "x", StatusCode: 403}, ErrorSeverityFatal},
		{"cancelled", &ProviderError{Op: "x", Err: context.Canceled}, ErrorSeverityFatal},
		{"foreign", errors.New("other"), ErrorSeverityFatal},
	}

	for _, tt := range tests {
		if got := ClassifyError(tt.err); got != tt.expected {
			t.Errorf("%s: expected %d, got %d", tt.name, tt.expected, got)
		}
	}
}

func TestProviderError_Is(t *testing.T) {
	err := &ProviderError{Op: "explore", StatusCode: 500, Body: "oops"}
	if !errors.Is(err, ErrProvider) {
		t.Error("Expected errors.Is(err, ErrProvider)")
	}
	want := "trends explore: status 500 (response: oops)"
	if err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}
}
