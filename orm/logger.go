package orm

import (
	"context"
	"log/slog"
)

// Logger is the interface for statement logging.
type Logger interface {
	Log(ctx context.Context, query string, args ...any)
}

// SlogLogger logs statements through a *slog.Logger at debug level.
type SlogLogger struct {
	L *slog.Logger
}

// NewSlogLogger returns a Logger writing to l, or to slog.Default when l is nil.
func NewSlogLogger(l *slog.Logger) *SlogLogger {
	if l == nil {
		l = slog.Default()
	}
	return &SlogLogger{L: l}
}

func (s *SlogLogger) Log(ctx context.Context, query string, args ...any) {
	s.L.DebugContext(ctx, "orm: statement", "sql", query, "args", args)
}

var _ Logger = (*SlogLogger)(nil)
