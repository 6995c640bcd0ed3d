// Package logging defines the minimal structured-logging interface used
// across CLI Buddy. Implementations can wrap slog or any other backend.
//
// Secret material (passwords, vault values) must never be passed as a log
// argument; callers log token identifiers and session ids only.
package logging

import "context"

// Logger is a context-aware, structured logger. The variadic args are
// interpreted as key-value pairs:
//
//	log.Info(ctx, "session created", "session_id", id, "user", username)
type Logger interface {
	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning for unusual but non-fatal conditions, e.g. a
	// rejected plugin.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs a failure.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key-value
	// pairs.
	With(args ...any) Logger
}
