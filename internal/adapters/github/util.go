package github

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"
)

// GHStatusError carries the status (and a body snippet for unexpected codes)
// of a non-2xx GitHub response. It wraps a coded error so the platform's
// error mapping still classifies it
type GHStatusError struct {
	Status int
	Body   string
	Err    error
}

func (e *GHStatusError) Error() string { return e.Err.Error() }

func (e *GHStatusError) Unwrap() error { return e.Err }

// HTTPStatus surfaces the upstream status for logging
func (e *GHStatusError) HTTPStatus() int { return e.Status }

func parseRateHeaders(h http.Header) (remaining int, reset time.Time, retryAfter int) {
	remaining = atoi(h.Get("X-RateLimit-Remaining"))
	rs := h.Get("X-RateLimit-Reset")
	if rs != "" {
		sec := atoi(rs)
		if sec > 0 {
			reset = time.Unix(int64(sec), 0).UTC()
		}
	}
	retryAfter = atoi(h.Get("Retry-After"))
	return
}

// computeWait decides how long to wait based on headers
func computeWait(remaining int, reset time.Time, retryAfter int, now time.Time) time.Duration {
	if retryAfter > 0 {
		return time.Duration(retryAfter) * time.Second
	}
	if remaining <= 0 && !reset.IsZero() {
		if reset.After(now) {
			return reset.Sub(now)
		}
		return 0
	}
	return 0
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	i, _ := strconv.Atoi(s)
	return i
}

func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 512))
	return rc.Close()
}

// IsRateLimited reports whether err came from a rate limited GitHub response.
// GitHub signals primary limits with 429 and secondary limits with 403
func IsRateLimited(err error) bool {
	var gse *GHStatusError
	if errors.As(err, &gse) {
		return gse.Status == http.StatusTooManyRequests || gse.Status == http.StatusForbidden
	}
	return false
}

// IsTransient reports whether err is a GitHub 5xx worth retrying
func IsTransient(err error) bool {
	var gse *GHStatusError
	if errors.As(err, &gse) {
		return gse.Status >= 500 && gse.Status <= 599
	}
	return false
}
