// Package logging defines the structured-logging interface shared by the
// client and the development server.
package logging

import "context"

// Logger is a context-aware, structured logger. Values stored in ctx by
// ContextWithRequestID are added to each record.
//
// The variadic args are key/value pairs:
//
//	log.Info(ctx, "post published", "id", post.ID, "media", len(post.Media))
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given pairs.
	With(args ...any) Logger
}
