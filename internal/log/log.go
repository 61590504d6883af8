// Package log builds the JSON slog logger shared by the service and carries it
// through request contexts.
package log

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"
)

type contextKey struct{}

var discardLogger = New(io.Discard, time.UTC, slog.LevelInfo)

// New returns a JSON logger writing one object per line to w. The record time
// is emitted under "ts" in RFC3339Nano, converted to loc.
func New(w io.Writer, loc *time.Location, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return a
			}
			switch a.Key {
			case slog.TimeKey:
				return slog.String("ts", a.Value.Time().In(loc).Format(time.RFC3339Nano))
			case slog.LevelKey:
				return slog.String(slog.LevelKey, strings.ToLower(a.Value.String()))
			}
			return a
		},
	}))
}

// ParseLevel maps a LOG_LEVEL value to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	levels := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	lvl, ok := levels[strings.ToLower(strings.TrimSpace(s))]
	return lo.Ternary(ok, lvl, slog.LevelInfo)
}

func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

func FromContextOrDiscard(ctx context.Context) *slog.Logger {
	if v, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return v
	}
	return discardLogger
}
