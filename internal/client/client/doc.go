// Package client talks to the remote authentication API.
//
// # Overview
//
//  1. Client is the transport-agnostic contract used by the session manager:
//     Register, Login, Me, Admin and Logout.
//  2. HTTPClient implements it over net/http against <base>/auth. It does not
//     attach tokens itself; the http.RoundTripper it is given (normally the
//     transport.Authorizer chain) does that, so every call the process makes
//     is authorized and triaged in one place. Register and Login are sent as
//     anonymous requests.
//
// # Error Handling
//
// Every failure is an *APIError whose Error() is a single human-readable
// message. Callers match the category with errors.Is against ErrValidation,
// ErrUnauthorized, ErrForbidden, ErrConflict, ErrServer, ErrUnavailable and
// ErrRequestFailed.
package client
