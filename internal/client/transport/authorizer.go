package transport

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/dmitrijs2005/authsession/internal/common"
	"github.com/dmitrijs2005/authsession/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// TokenSource yields the current access token; "" means none.
type TokenSource interface {
	Read(ctx context.Context) (string, error)
}

// UnauthorizedHandler is told when the server rejected the stored token.
type UnauthorizedHandler interface {
	HandleUnauthorized(ctx context.Context)
}

// UnauthorizedFunc adapts a function to UnauthorizedHandler.
type UnauthorizedFunc func(ctx context.Context)

func (f UnauthorizedFunc) HandleUnauthorized(ctx context.Context) { f(ctx) }

// Authorizer attaches the access token to outgoing requests and triages
// authorization failures. Over HTTP both only apply to requests addressed to
// the API origin, so redirects elsewhere never see the token.
type Authorizer struct {
	tokens TokenSource
	log    logging.Logger
	origin string

	mu    sync.RWMutex
	sinks []UnauthorizedHandler
}

// NewAuthorizer builds an Authorizer for the API at apiURL. An empty apiURL
// trusts every host, which only suits gRPC-only use where the connection
// target is fixed.
func NewAuthorizer(tokens TokenSource, log logging.Logger, apiURL string) *Authorizer {
	if log == nil {
		log = logging.Discard()
	}
	a := &Authorizer{tokens: tokens, log: log}
	if apiURL != "" {
		a.origin = "invalid"
		if u, err := url.Parse(apiURL); err == nil && u.Host != "" {
			a.origin = originOf(u)
		} else {
			log.Warn(context.Background(), "bad API URL, no request will be authorized", "url", apiURL)
		}
	}
	return a
}

// originOf renders scheme://host:port with the default port filled in.
func originOf(u *url.URL) string {
	scheme := strings.ToLower(u.Scheme)
	port := u.Port()
	if port == "" {
		switch scheme {
		case "https":
			port = "443"
		case "http":
			port = "80"
		}
	}
	return scheme + "://" + net.JoinHostPort(strings.ToLower(u.Hostname()), port)
}

func (a *Authorizer) trusted(u *url.URL) bool {
	return a.origin == "" || originOf(u) == a.origin
}

// OnUnauthorized registers h. Handlers are called in registration order.
func (a *Authorizer) OnUnauthorized(h UnauthorizedHandler) {
	a.mu.Lock()
	a.sinks = append(a.sinks, h)
	a.mu.Unlock()
}

// token returns the stored token, or "" when the request is anonymous or the
// store cannot be read.
func (a *Authorizer) token(ctx context.Context) string {
	if IsAnonymous(ctx) {
		return ""
	}
	tok, err := a.tokens.Read(ctx)
	if err != nil {
		a.log.Warn(ctx, "token read failed, sending request without credentials", "error", err)
		return ""
	}
	return tok
}

func (a *Authorizer) unauthorized(ctx context.Context, target string) {
	a.log.Info(ctx, "request rejected as unauthorized, clearing session", "target", target)

	ctx = context.WithoutCancel(ctx)
	a.mu.RLock()
	sinks := append([]UnauthorizedHandler(nil), a.sinks...)
	a.mu.RUnlock()
	for _, h := range sinks {
		h.HandleUnauthorized(ctx)
	}
}

// Wrap decorates next. Non-2xx responses are returned as they are; only a
// 401 to a non-anonymous request for the API origin has a side effect.
// Requests to other hosts, such as redirect targets, pass through untouched.
func (a *Authorizer) Wrap(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		ctx := req.Context()
		if !a.trusted(req.URL) {
			a.log.Debug(ctx, "request leaves the API origin, sending without credentials", "host", req.URL.Host)
			return next.RoundTrip(req)
		}
		if tok := a.token(ctx); tok != "" {
			r := req.Clone(ctx)
			r.Header.Set(common.AuthorizationHeader, common.BearerValue(tok))
			req = r
		}

		resp, err := next.RoundTrip(req)
		if err != nil {
			return resp, err
		}
		if resp.StatusCode == http.StatusUnauthorized && !IsAnonymous(ctx) {
			a.unauthorized(ctx, req.Method+" "+req.URL.Path)
		}
		return resp, nil
	})
}

func withAuthorization(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	key := strings.ToLower(common.AuthorizationHeader)
	md.Delete(key)
	md.Set(key, common.BearerValue(token))

	return metadata.NewOutgoingContext(ctx, md)
}

// UnaryClientInterceptor is Wrap for gRPC: the token travels in the
// authorization metadata and codes.Unauthenticated stands for 401.
func (a *Authorizer) UnaryClientInterceptor() grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		callCtx := ctx
		if tok := a.token(ctx); tok != "" {
			callCtx = withAuthorization(ctx, tok)
		}

		err := invoker(callCtx, method, req, reply, cc, opts...)
		if status.Code(err) == codes.Unauthenticated && !IsAnonymous(ctx) {
			a.unauthorized(ctx, method)
		}
		return err
	}
}
