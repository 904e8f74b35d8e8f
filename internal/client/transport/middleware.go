package transport

import (
	"net/http"

	"github.com/dmitrijs2005/authsession/internal/common"
	"github.com/google/uuid"
)

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Middleware decorates a round tripper.
type Middleware func(http.RoundTripper) http.RoundTripper

// Chain wraps base with mws; the first middleware is the outermost one.
func Chain(base http.RoundTripper, mws ...Middleware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	for i := len(mws) - 1; i >= 0; i-- {
		base = mws[i](base)
	}
	return base
}

// RequestID stamps an X-Request-ID on requests that do not carry one yet.
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.Header.Get(common.RequestIDHeader) != "" {
				return next.RoundTrip(req)
			}
			r := req.Clone(req.Context())
			r.Header.Set(common.RequestIDHeader, uuid.NewString())
			return next.RoundTrip(r)
		})
	}
}
