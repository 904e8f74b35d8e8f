package transport

import "context"

type anonymousKey struct{}

// Anonymous marks requests made with ctx as credential-less: no token is
// attached and a 401 answer is not treated as a lost session. Login and
// registration use it.
func Anonymous(ctx context.Context) context.Context {
	return context.WithValue(ctx, anonymousKey{}, true)
}

// IsAnonymous reports whether ctx was marked with Anonymous.
func IsAnonymous(ctx context.Context) bool {
	v, _ := ctx.Value(anonymousKey{}).(bool)
	return v
}
