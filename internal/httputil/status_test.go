// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/style-engine/pkg/types"
)

func response(code int, body string, header http.Header) *http.Response {
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{
		StatusCode: code,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestStatusError_Success(t *testing.T) {
	assert.NoError(t, StatusError(response(http.StatusOK, "{}", nil)))
	assert.NoError(t, StatusError(response(http.StatusNoContent, "", nil)))
}

func TestStatusError_RateLimit(t *testing.T) {
	h := http.Header{}
	h.Set("Retry-After", "7")
	err := StatusError(response(http.StatusTooManyRequests, "slow down", h))

	var rl *types.RateLimitError
	require.True(t, errors.As(err, &rl))
	assert.Equal(t, 7*time.Second, rl.RetryAfter)
}

func TestStatusError_Auth(t *testing.T) {
	for _, code := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		err := StatusError(response(code, "bad key", nil))
		assert.ErrorIs(t, err, types.ErrBackendAuth)
		assert.Contains(t, err.Error(), "bad key")
	}
}

func TestStatusError_Unavailable(t *testing.T) {
	for _, code := range []int{http.StatusInternalServerError, http.StatusBadGateway, http.StatusBadRequest} {
		err := StatusError(response(code, "oops", nil))
		assert.ErrorIs(t, err, types.ErrBackendUnavailable)
	}
}

func TestStatusError_TruncatesBody(t *testing.T) {
	err := StatusError(response(http.StatusServiceUnavailable, strings.Repeat("x", 4096), nil))
	assert.Less(t, len(err.Error()), maxErrorBody+100)
}

func TestRetryAfter(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"absent", "", 0},
		{"seconds", "30", 30 * time.Second},
		{"negative", "-5", 0},
		{"http date", now.Add(90 * time.Second).Format(http.TimeFormat), 90 * time.Second},
		{"past date", now.Add(-time.Minute).Format(http.TimeFormat), 0},
		{"garbage", "soon", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.value != "" {
				h.Set("Retry-After", tt.value)
			}
			assert.Equal(t, tt.want, RetryAfter(h, now))
		})
	}
}

func TestClassify_NilHeader(t *testing.T) {
	var rl *types.RateLimitError
	require.True(t, errors.As(Classify(http.StatusTooManyRequests, nil, ""), &rl))
	assert.Zero(t, rl.RetryAfter)
}
