// Package cli provides the interactive session command-line client.
//
// App is the composition root of the client: it opens the token store,
// builds the request authorizer and the HTTP API client on top of it, and
// hands both to a session.Manager. The REPL is a consumer of that manager:
// commands call its operations and a state subscription reports sign-in and
// sign-out as they happen, including a session cleared by a 401 on any call.
//
// Commands:
//   - register, login, logout
//   - whoami   reload and print the profile
//   - admin    call the admin-only endpoint
//   - status   inspect the stored token without contacting the server
//   - help, exit | quit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
