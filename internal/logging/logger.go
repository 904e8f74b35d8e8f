// Package logging defines the structured-logging interface used across the
// project together with two implementations: SlogLogger (log/slog, used by the
// CLI) and ZapLogger (go.uber.org/zap, used by the development auth server).
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "login succeeded", "email", email)
type Logger interface {
	// Debug logs diagnostic detail that is normally switched off.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// Redact shortens a secret to a prefix that is safe to put into logs.
func Redact(secret string) string {
	const keep = 8
	if secret == "" {
		return ""
	}
	if len(secret) <= keep {
		return "***"
	}
	return secret[:keep] + "..."
}
