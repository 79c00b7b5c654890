// Package logutil builds slog loggers used by langload components and tools.
package logutil

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const LevelTrace slog.Level = -8

// NewLogger creates a text logger writing to w. Source file names are reduced to base names.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: true,
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.LevelKey:
				switch attr.Value.Any().(slog.Level) {
				case LevelTrace:
					attr.Value = slog.StringValue("TRACE")
				}
			case slog.SourceKey:
				source, ok := attr.Value.Any().(*slog.Source)
				if ok {
					source.File = filepath.Base(source.File)
				}
			}
			return attr
		},
	}))
}

// ParseLevel converts level name (trace, debug, info, warn, error) to slog level.
func ParseLevel(name string) (slog.Level, error) {
	if strings.EqualFold(name, "trace") {
		return LevelTrace, nil
	}

	var result slog.Level
	e := result.UnmarshalText([]byte(name))
	return result, e
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// Trace logs msg at trace level, reporting the caller as the record source.
func Trace(logger *slog.Logger, msg string, args ...any) {
	ctx := context.TODO()
	if logger.Enabled(ctx, LevelTrace) {
		var pcs [1]uintptr
		runtime.Callers(2, pcs[:])
		record := slog.NewRecord(time.Now(), LevelTrace, msg, pcs[0])
		record.Add(args...)
		logger.Handler().Handle(ctx, record)
	}
}
