// Package requestctx carries the request-scoped logger through handlers.
package requestctx

import (
	"context"

	"go.uber.org/zap"
)

type loggerKey struct{}

var nop = zap.NewNop()

// WithLogger returns a copy of ctx carrying logger. A nil logger stores the no-op logger.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	if logger == nil {
		logger = nop
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// Logger returns the logger stored on ctx, or the no-op logger.
func Logger(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok {
			return logger
		}
	}
	return nop
}

// HasLogger reports whether a logger other than the no-op one is stored on ctx.
func HasLogger(ctx context.Context) bool {
	return Logger(ctx) != nop
}
