// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across commands.
package httputil

import (
	"context"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// RetryBaseDelay controls the base duration for exponential backoff.
// Tests override this to avoid real sleeps.
var RetryBaseDelay = 10 * time.Second

// MaxRetryAfter caps the wait a server can ask for through Retry-After.
var MaxRetryAfter = 5 * time.Minute

const defaultMaxRetries = 5

// Retryable reports whether a status is worth retrying: rate limiting and
// the gateway errors ontology mirrors return while under load.
func Retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// DoWithRetry executes an HTTP request and retries retryable statuses with
// exponential backoff. The delay starts at RetryBaseDelay (10 s) and
// doubles each attempt: 10 s, 20 s, 40 s, 80 s, 160 s. A Retry-After
// header in seconds replaces the computed delay, up to MaxRetryAfter.
//
// When maxRetries is 0 the default (5) is used. Before each wait the
// response body is drained and closed. If the context is cancelled during
// a wait the function returns ctx.Err(). After exhausting retries the last
// response is returned so the caller can inspect it. logger may be nil.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int, logger logrus.FieldLogger) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if !Retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		if d, ok := retryAfter(resp.Header.Get("Retry-After")); ok {
			backoff = d
		}
		if logger != nil {
			logger.WithFields(logrus.Fields{
				"url":     req.URL.String(),
				"status":  resp.StatusCode,
				"backoff": backoff,
				"attempt": attempt + 1,
				"max":     maxRetries,
			}).Warn("request throttled, retrying")
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

// retryAfter parses a Retry-After value given in seconds. HTTP dates are
// not honored and fall back to the computed backoff.
func retryAfter(v string) (time.Duration, bool) {
	if v == "" {
		return 0, false
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0, false
	}
	d := time.Duration(secs) * time.Second
	if d > MaxRetryAfter {
		d = MaxRetryAfter
	}
	return d, true
}
