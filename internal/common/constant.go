// Package common contains constants and helpers shared by the client and the
// development auth server.
package common

const (
	// AccessTokenKey is the fixed storage key of the bearer token.
	AccessTokenKey = "access_token"

	// AccessTokenSavedAtKey records when the token was last written.
	AccessTokenSavedAtKey = "access_token_saved_at"

	// AuthorizationHeader carries the bearer token on HTTP requests and, in
	// lower case, in gRPC metadata.
	AuthorizationHeader = "Authorization"

	// BearerScheme prefixes the token inside the Authorization header.
	BearerScheme = "Bearer"

	// RequestIDHeader correlates client requests with server logs.
	RequestIDHeader = "X-Request-ID"
)

// BearerValue formats token as an Authorization header value.
func BearerValue(token string) string {
	return BearerScheme + " " + token
}
