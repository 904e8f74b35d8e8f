// Package session owns the client's authentication session.
//
// The Manager is the only writer of the session State; everything else
// (the CLI, the request authorizer) reads it or subscribes to it. The token
// itself lives in a tokenstore.Store and is re-read on every decision so that
// a Remove anywhere is observed at once.
//
// States:
//
//	Unauthenticated            State{}
//	Authenticated, pending     State{IsAuthenticated: true}
//	Authenticated, loaded      State{IsAuthenticated: true, CurrentUser: p}
//
// Work started on behalf of a caller that must outlive it (token persistence
// after login, the profile refresh, clearing on 401) runs on a context
// detached from the caller's cancellation.
package session
