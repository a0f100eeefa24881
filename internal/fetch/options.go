package fetch

import (
	"context"
	"net/http"
	"time"
)

const defaultRequestTimeoutConstant = 60 * time.Second

// FetchOptions adjusts a single Fetch invocation. Values are immutable per call.
type FetchOptions struct {
	// Cancellation is an optional caller-owned signal. When supplied, the
	// caller controls abort timing and no implicit default timeout applies.
	Cancellation context.Context
	// Timeout bounds the request when greater than zero.
	Timeout time.Duration
	// UserAgent overrides the User-Agent header when non-empty.
	UserAgent string
}

// RequestDetails carries the caller-controlled portions of the outbound
// request. The request layer treats these as opaque.
type RequestDetails struct {
	Method string
	Header http.Header
	Body   []byte
}

// deriveRequestContext unifies cancellation and timeout into one abort signal.
// Callers must invoke the returned cancel function on settlement so any timer
// scheduled here is released.
func (options FetchOptions) deriveRequestContext() (context.Context, context.CancelFunc) {
	if options.Cancellation != nil {
		if options.Timeout > 0 {
			return context.WithTimeout(options.Cancellation, options.Timeout)
		}
		return context.WithCancel(options.Cancellation)
	}

	requestTimeout := options.Timeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeoutConstant
	}
	return context.WithTimeout(context.Background(), requestTimeout)
}
