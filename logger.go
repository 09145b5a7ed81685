package mapjson

import (
	"context"

	slog "github.com/sagikazarmark/slog-shim"
)

// WithLogger sets a custom logger.
//
// The codec logs converter registration and resolution at Debug level.
// Encoding and decoding errors are returned, never logged.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *Codec) {
		c.logger = l
	})
}

type discardHandler struct{}

func (n *discardHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return false
}

func (n *discardHandler) Handle(_ context.Context, _ slog.Record) error {
	return nil
}

func (n *discardHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return n
}

func (n *discardHandler) WithGroup(_ string) slog.Handler {
	return n
}
