package transport

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/jonwraymond/connectops/fault"
)

// Classify turns one send outcome into nil or a classified fault. It is
// applied to live responses and to replayed ones, so recorded failures
// surface identically to live failures.
//
// Status mapping: <400 success; 401 auth-expired; 403 auth-denied;
// 408 timeout; 429 rate-limited with the Retry-After hint; other 4xx
// client-validation; 5xx server-error. Transport-level errors map to
// timeout or connection-failure; context cancellation passes through
// unclassified.
func Classify(op string, resp *Response, err error) error {
	if err != nil {
		return classifyError(op, err)
	}
	if resp == nil {
		return fault.ConnectionFailure(errors.New("transport: no response")).WithOp(op)
	}
	return classifyStatus(op, resp)
}

func classifyError(op string, err error) error {
	// Cancellation is the caller's decision, not a remote fault.
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fault.Timeout(err).WithOp(op)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fault.Timeout(err).WithOp(op)
	}

	return fault.ConnectionFailure(err).WithOp(op)
}

func classifyStatus(op string, resp *Response) error {
	status := resp.StatusCode

	switch {
	case status < http.StatusBadRequest:
		return nil
	case status == http.StatusUnauthorized:
		return fault.AuthExpired(nil).WithOp(op)
	case status == http.StatusForbidden:
		return fault.AuthDenied(status, nil).WithOp(op)
	case status == http.StatusRequestTimeout:
		return fault.Timeout(nil).WithOp(op)
	case status == http.StatusTooManyRequests:
		return fault.RateLimited(RetryAfter(resp), nil).WithOp(op)
	case status < http.StatusInternalServerError:
		return fault.ClientValidation(status, nil).WithOp(op)
	default:
		return fault.ServerError(status, nil).WithOp(op)
	}
}

// RetryAfter extracts the Retry-After hint from a response. It accepts
// both delay-seconds and HTTP-date forms; absent or malformed values
// yield zero.
func RetryAfter(resp *Response) time.Duration {
	v := resp.Header("Retry-After")
	if v == "" {
		return 0
	}

	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}

	if at, err := http.ParseTime(v); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}

	return 0
}
