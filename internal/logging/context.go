package logging

import (
	"context"

	"github.com/charmbracelet/log"
)

type ctxKey struct{}

// WithLogger attaches logger to ctx. A nil ctx is treated as Background.
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger attached to ctx, falling back to Default.
func FromContext(ctx context.Context) *log.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*log.Logger); ok && l != nil {
			return l
		}
	}
	return Default()
}

// ForFile returns the context logger with the path field preset.
func ForFile(ctx context.Context, path string) *log.Logger {
	return FromContext(ctx).With(FieldPath, path)
}
