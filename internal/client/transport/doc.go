// Package transport decorates outgoing requests with the stored access token
// and reports authorization failures back to the session.
//
// The same contract is offered for net/http (Authorizer.Wrap) and for gRPC
// (Authorizer.UnaryClientInterceptor): a token, when present, is attached to
// every request not marked with Anonymous, and a 401 / Unauthenticated answer
// to such a request is reported to every registered UnauthorizedHandler
// before the response is handed back unchanged.
package transport
