package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/reugn/go-recur/logger"
)

// newLogger returns the logger for the format, writing to w, and a function
// flushing its buffers.
func newLogger(level logger.Level, format string, w io.Writer) (logger.Logger, func() error, error) {
	noSync := func() error { return nil }
	if level >= logger.LevelOff {
		return logger.NoOpLogger{}, noSync, nil
	}
	switch format {
	case "text":
		return logger.NewSimpleLogger(log.New(w, "", log.LstdFlags), level), noSync, nil
	case "json":
		handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:       slog.Level(level),
			ReplaceAttr: logger.ReplaceLevel,
		})
		return logger.NewSlogLogger(context.Background(), slog.New(handler)), noSync, nil
	case "zap":
		core := zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(w),
			zapLevel(level),
		)
		l := logger.NewZapLogger(zap.New(core))
		return l, l.Sync, nil
	default:
		return nil, nil, fmt.Errorf("unknown log format %q", format)
	}
}

// zapLevel maps the level to zap, which has no trace level.
func zapLevel(level logger.Level) zapcore.Level {
	switch {
	case level <= logger.LevelDebug:
		return zapcore.DebugLevel
	case level <= logger.LevelInfo:
		return zapcore.InfoLevel
	case level <= logger.LevelWarn:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}
