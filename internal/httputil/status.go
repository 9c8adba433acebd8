// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil maps HTTP responses from generative backends onto the
// pipeline's collaborator errors.
package httputil

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/style-engine/pkg/types"
)

// maxErrorBody bounds how much of a failed response body is kept in the error.
const maxErrorBody = 512

// StatusError returns nil for a 2xx response. Otherwise it drains the body
// and returns an error classified by status code:
//
//	429        *types.RateLimitError (RetryAfter from the Retry-After header)
//	401, 403   types.ErrBackendAuth
//	other      types.ErrBackendUnavailable
//
// The pipeline never retries; the Retry-After hint is surfaced to the caller.
func StatusError(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	io.Copy(io.Discard, resp.Body)
	return Classify(resp.StatusCode, resp.Header, strings.TrimSpace(string(body)))
}

// Classify maps a non-2xx status code to a collaborator error. SDK-based
// backends that surface only the status code call it directly.
func Classify(code int, h http.Header, detail string) error {
	switch code {
	case http.StatusTooManyRequests:
		return &types.RateLimitError{RetryAfter: RetryAfter(h, time.Now())}
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: status %d: %s", types.ErrBackendAuth, code, detail)
	default:
		return fmt.Errorf("%w: status %d: %s", types.ErrBackendUnavailable, code, detail)
	}
}

// RetryAfter parses a Retry-After header given either as delay seconds or
// as an HTTP date. It returns zero when the header is absent or invalid.
func RetryAfter(h http.Header, now time.Time) time.Duration {
	v := strings.TrimSpace(h.Get("Retry-After"))
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
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}
