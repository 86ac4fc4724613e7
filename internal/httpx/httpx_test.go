package httpx

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"
)

type statusErr struct{ code int }

func (e *statusErr) Error() string       { return fmt.Sprintf("http %d", e.code) }
func (e *statusErr) HTTPStatusCode() int { return e.code }

func TestIsRetryableHTTPStatus(t *testing.T) {
	for _, code := range []int{408, 429, 500, 503, 599} {
		if !IsRetryableHTTPStatus(code) {
			t.Fatalf("%d should be retryable", code)
		}
	}
	for _, code := range []int{200, 400, 401, 404, 422} {
		if IsRetryableHTTPStatus(code) {
			t.Fatalf("%d should not be retryable", code)
		}
	}
}

func TestIsRetryableError(t *testing.T) {
	if IsRetryableError(nil) {
		t.Fatalf("nil is not retryable")
	}
	if IsRetryableError(context.Canceled) || IsRetryableError(context.DeadlineExceeded) {
		t.Fatalf("context errors must not be retried")
	}
	if !IsRetryableError(&statusErr{code: 503}) {
		t.Fatalf("503 error should be retryable")
	}
	if IsRetryableError(&statusErr{code: 400}) {
		t.Fatalf("400 error should not be retryable")
	}
	if IsRetryableError(fmt.Errorf("wrapped: %w", context.Canceled)) {
		t.Fatalf("wrapped cancellation must not be retried")
	}
}

func TestRetryAfterDuration(t *testing.T) {
	resp := &http.Response{Header: http.Header{"Retry-After": []string{"3"}}}
	if got := RetryAfterDuration(resp, time.Second, 10*time.Second); got != 3*time.Second {
		t.Fatalf("got %v, want 3s", got)
	}
	if got := RetryAfterDuration(resp, time.Second, 2*time.Second); got != 2*time.Second {
		t.Fatalf("cap ignored: %v", got)
	}
	if got := RetryAfterDuration(nil, time.Second, 10*time.Second); got != time.Second {
		t.Fatalf("fallback ignored: %v", got)
	}
}

func TestJitterSleep_Bounds(t *testing.T) {
	base := 4 * time.Second
	for i := 0; i < 50; i++ {
		got := JitterSleep(base)
		if got < base || got > base+base/4 {
			t.Fatalf("jittered %v outside [%v, %v]", got, base, base+base/4)
		}
	}
	if got := JitterSleep(0); got != 0 {
		t.Fatalf("zero base should pass through, got %v", got)
	}
}
