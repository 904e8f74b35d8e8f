package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/dmitrijs2005/authsession/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

/*************
 * fakes
 *************/

type fakeTokens struct {
	token string
	err   error
	reads int
}

func (f *fakeTokens) Read(context.Context) (string, error) {
	f.reads++
	return f.token, f.err
}

type countingSink struct {
	mu    sync.Mutex
	calls int
}

func (s *countingSink) HandleUnauthorized(context.Context) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
}

func (s *countingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// statusServer answers every request with code and records the
// Authorization header it saw.
func statusServer(t *testing.T, code int) (*httptest.Server, *[]string) {
	t.Helper()
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		w.WriteHeader(code)
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func doGet(t *testing.T, rt http.RoundTripper, ctx context.Context, url string) *http.Response {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	require.NoError(t, err)
	resp, err := rt.RoundTrip(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

/*************
 * net/http
 *************/

func TestWrap_AttachesBearerToken(t *testing.T) {
	srv, seen := statusServer(t, http.StatusOK)
	a := NewAuthorizer(&fakeTokens{token: "h.p.s"}, logging.Discard(), "")

	resp := doGet(t, a.Wrap(nil), context.Background(), srv.URL)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, []string{"Bearer h.p.s"}, *seen)
}

func TestWrap_NoTokenNoHeader(t *testing.T) {
	srv, seen := statusServer(t, http.StatusOK)
	a := NewAuthorizer(&fakeTokens{}, logging.Discard(), "")

	doGet(t, a.Wrap(http.DefaultTransport), context.Background(), srv.URL)
	require.Equal(t, []string{""}, *seen)
}

func TestWrap_AnonymousSkipsTokenAndTriage(t *testing.T) {
	srv, seen := statusServer(t, http.StatusUnauthorized)
	tokens := &fakeTokens{token: "h.p.s"}
	a := NewAuthorizer(tokens, logging.Discard(), "")
	sink := &countingSink{}
	a.OnUnauthorized(sink)

	resp := doGet(t, a.Wrap(nil), Anonymous(context.Background()), srv.URL)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, []string{""}, *seen)
	require.Zero(t, tokens.reads)
	require.Zero(t, sink.count())
}

func TestWrap_401NotifiesSinksAndReturnsResponse(t *testing.T) {
	srv, _ := statusServer(t, http.StatusUnauthorized)
	a := NewAuthorizer(&fakeTokens{token: "h.p.s"}, logging.Discard(), "")

	var order []string
	a.OnUnauthorized(UnauthorizedFunc(func(context.Context) { order = append(order, "first") }))
	a.OnUnauthorized(UnauthorizedFunc(func(context.Context) { order = append(order, "second") }))

	resp := doGet(t, a.Wrap(nil), context.Background(), srv.URL)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, []string{"first", "second"}, order)
}

func TestWrap_OtherStatusesPassThrough(t *testing.T) {
	for _, code := range []int{http.StatusOK, http.StatusFound, http.StatusForbidden, http.StatusInternalServerError} {
		srv, _ := statusServer(t, code)
		a := NewAuthorizer(&fakeTokens{token: "h.p.s"}, logging.Discard(), "")
		sink := &countingSink{}
		a.OnUnauthorized(sink)

		resp := doGet(t, a.Wrap(nil), context.Background(), srv.URL)
		assert.Equal(t, code, resp.StatusCode)
		assert.Zero(t, sink.count(), "status %d", code)
	}
}

func TestWrap_TransportErrorPassesUnchanged(t *testing.T) {
	boom := errors.New("connection reset")
	a := NewAuthorizer(&fakeTokens{token: "h.p.s"}, logging.Discard(), "")
	sink := &countingSink{}
	a.OnUnauthorized(sink)

	rt := a.Wrap(RoundTripperFunc(func(*http.Request) (*http.Response, error) { return nil, boom }))
	req, _ := http.NewRequest(http.MethodGet, "http://example.invalid", nil)
	_, err := rt.RoundTrip(req)
	require.Same(t, boom, err)
	require.Zero(t, sink.count())
}

func TestWrap_TokenReadErrorSendsWithoutCredentials(t *testing.T) {
	srv, seen := statusServer(t, http.StatusOK)
	a := NewAuthorizer(&fakeTokens{token: "ignored", err: errors.New("disk gone")}, nil, "")

	doGet(t, a.Wrap(nil), context.Background(), srv.URL)
	require.Equal(t, []string{""}, *seen)
}

func TestWrap_DoesNotMutateCallerRequest(t *testing.T) {
	srv, _ := statusServer(t, http.StatusOK)
	a := NewAuthorizer(&fakeTokens{token: "h.p.s"}, logging.Discard(), "")

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	resp, err := a.Wrap(nil).RoundTrip(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Empty(t, req.Header.Get("Authorization"))
}

func TestWrap_SinkContextSurvivesCancellation(t *testing.T) {
	a := NewAuthorizer(&fakeTokens{token: "h.p.s"}, logging.Discard(), "")
	var sinkErr error
	a.OnUnauthorized(UnauthorizedFunc(func(ctx context.Context) { sinkErr = ctx.Err() }))

	ctx, cancel := context.WithCancel(context.Background())
	rt := a.Wrap(RoundTripperFunc(func(*http.Request) (*http.Response, error) {
		cancel()
		return &http.Response{StatusCode: http.StatusUnauthorized, Body: http.NoBody}, nil
	}))
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, "http://example.invalid", nil)
	_, err := rt.RoundTrip(req)
	require.NoError(t, err)
	require.NoError(t, sinkErr)
}

func TestWrap_RedirectToOtherHostGetsNoToken(t *testing.T) {
	var foreignSaw []string
	foreign := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		foreignSaw = append(foreignSaw, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(foreign.Close)

	var apiSaw []string
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiSaw = append(apiSaw, r.Header.Get("Authorization"))
		http.Redirect(w, r, foreign.URL+"/elsewhere", http.StatusFound)
	}))
	t.Cleanup(api.Close)

	a := NewAuthorizer(&fakeTokens{token: "secret-token"}, logging.Discard(), api.URL+"/auth")
	sink := &countingSink{}
	a.OnUnauthorized(sink)

	c := &http.Client{Transport: a.Wrap(http.DefaultTransport)}
	resp, err := c.Get(api.URL + "/auth/me")
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, []string{"Bearer secret-token"}, apiSaw)
	assert.Equal(t, []string{""}, foreignSaw)
	assert.Zero(t, sink.count(), "a 401 from another host must not clear the session")
}

func TestWrap_OriginMatching(t *testing.T) {
	tests := []struct {
		name   string
		apiURL string
		target string
		want   string
	}{
		{"same origin", "http://api.test:3000", "http://api.test:3000/auth/me", "Bearer t"},
		{"host is case insensitive", "http://API.test:3000", "http://api.test:3000/auth/me", "Bearer t"},
		{"default port", "https://api.test", "https://api.test:443/auth/me", "Bearer t"},
		{"other port", "http://api.test:3000", "http://api.test:4000/auth/me", ""},
		{"other scheme", "https://api.test", "http://api.test/auth/me", ""},
		{"other host", "http://api.test:3000", "http://evil.test:3000/auth/me", ""},
		{"unparseable api url", "://nope", "http://api.test/auth/me", ""},
		{"unrestricted", "", "http://evil.test/auth/me", "Bearer t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAuthorizer(&fakeTokens{token: "t"}, logging.Discard(), tt.apiURL)
			var got string
			rt := a.Wrap(RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
				got = r.Header.Get("Authorization")
				return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
			}))
			req, _ := http.NewRequest(http.MethodGet, tt.target, nil)
			_, err := rt.RoundTrip(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWrap_UnauthorizedWithoutTokenStillNotifies(t *testing.T) {
	srv, seen := statusServer(t, http.StatusUnauthorized)
	a := NewAuthorizer(&fakeTokens{}, logging.Discard(), srv.URL)
	sink := &countingSink{}
	a.OnUnauthorized(sink)

	doGet(t, a.Wrap(nil), context.Background(), srv.URL+"/auth/me")
	require.Equal(t, []string{""}, *seen)
	require.Equal(t, 1, sink.count())
}

/*************
 * gRPC
 *************/

func TestInterceptor_AttachesAuthorizationMetadata(t *testing.T) {
	a := NewAuthorizer(&fakeTokens{token: "A1"}, logging.Discard(), "")

	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		md, _ := metadata.FromOutgoingContext(ctx)
		toks := md.Get("authorization")
		require.Len(t, toks, 1)
		require.Equal(t, "Bearer A1", toks[0])
		return nil
	}

	ctx := metadata.AppendToOutgoingContext(context.Background(), "authorization", "stale")
	err := a.UnaryClientInterceptor()(ctx, "/auth.Auth/Me", nil, nil, nil, invoker)
	require.NoError(t, err)
}

func TestInterceptor_UnauthenticatedNotifiesSinks(t *testing.T) {
	a := NewAuthorizer(&fakeTokens{token: "A1"}, logging.Discard(), "")
	sink := &countingSink{}
	a.OnUnauthorized(sink)

	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		return status.Error(codes.Unauthenticated, "token expired")
	}
	err := a.UnaryClientInterceptor()(context.Background(), "/auth.Auth/Me", nil, nil, nil, invoker)
	require.Equal(t, codes.Unauthenticated, status.Code(err))
	require.Equal(t, 1, sink.count())
}

func TestInterceptor_IgnoresOtherErrors(t *testing.T) {
	a := NewAuthorizer(&fakeTokens{token: "A1"}, logging.Discard(), "")
	sink := &countingSink{}
	a.OnUnauthorized(sink)

	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		return status.Error(codes.PermissionDenied, "admins only")
	}
	err := a.UnaryClientInterceptor()(context.Background(), "/auth.Auth/Admin", nil, nil, nil, invoker)
	require.Error(t, err)
	require.Zero(t, sink.count())
}

func TestInterceptor_AnonymousCall(t *testing.T) {
	a := NewAuthorizer(&fakeTokens{token: "A1"}, logging.Discard(), "")
	sink := &countingSink{}
	a.OnUnauthorized(sink)

	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		md, _ := metadata.FromOutgoingContext(ctx)
		require.Empty(t, md.Get("authorization"))
		return status.Error(codes.Unauthenticated, "bad credentials")
	}
	err := a.UnaryClientInterceptor()(Anonymous(context.Background()), "/auth.Auth/Login", nil, nil, nil, invoker)
	require.Error(t, err)
	require.Zero(t, sink.count())
}
