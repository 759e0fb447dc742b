package logger_test

import (
	"bytes"
	"context"
	"io"
	"log"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/reugn/go-recur/logger"
)

func TestSimpleLogger(t *testing.T) {
	var b bytes.Buffer
	stdLogger := log.New(&b, "", log.LstdFlags)
	logger.SetDefault(logger.NewSimpleLogger(stdLogger, logger.LevelInfo))

	logger.Trace("Trace")
	assertEmpty(t, &b)

	logger.Debug("Debug")
	assertEmpty(t, &b)

	logger.Info("Info")
	assertNotEmpty(t, &b)

	logger.Warn("Warn")
	assertNotEmpty(t, &b)

	logger.Error("Error")
	assertNotEmpty(t, &b)
}

func TestLoggerOff(t *testing.T) {
	var b bytes.Buffer
	stdLogger := log.New(&b, "", log.LstdFlags)
	l := logger.NewSimpleLogger(stdLogger, logger.LevelOff)
	logger.SetDefault(l)

	if l.Enabled(logger.LevelError) {
		t.Fatal("logger.LevelError is enabled")
	}
	logger.Error("Error")
	assertEmpty(t, &b)
}

func TestLoggerRace(t *testing.T) {
	var b bytes.Buffer
	stdLogger := log.New(&b, "", log.LstdFlags)

	logger1 := logger.NewSimpleLogger(stdLogger, logger.LevelOff)
	logger2 := logger.NewSimpleLogger(stdLogger, logger.LevelTrace)
	logger3 := logger.NewSimpleLogger(stdLogger, logger.LevelDebug)

	wg := sync.WaitGroup{}
	wg.Add(3)
	go setLogger(&wg, logger1)
	go setLogger(&wg, logger2)
	go setLogger(&wg, logger3)
	wg.Wait()
	wg.Add(1)
	go setLogger(&wg, logger2)
	wg.Wait()

	if logger.Default() != logger2 {
		t.Fatal("logger set race error")
	}
}

func setLogger(wg *sync.WaitGroup, l *logger.SimpleLogger) {
	defer wg.Done()
	logger.SetDefault(l)
}

func TestCustomLogger(t *testing.T) {
	l := &countingLogger{}
	logger.SetDefault(l)
	logger.Trace("trace")
	logger.Debug("debug")
	logger.Info("info")
	logger.Error("error")
	if l.Count != 4 {
		t.Fatal("custom logger error")
	}

	logger.SetDefault(nil)
	if _, ok := logger.Default().(logger.NoOpLogger); !ok {
		t.Fatal("nil logger is not replaced")
	}
}

func TestLogFormat(t *testing.T) {
	var b bytes.Buffer
	stdLogger := log.New(&b, "", log.LstdFlags)
	logr := logger.NewSimpleLogger(stdLogger, logger.LevelTrace)

	empty := struct{}{}
	logr.Trace("Trace", "a", 1, "b", true, "c", empty)
	checkLogFormat(t, &b, "TRACE msg=Trace, a=1, b=true, c={}")
	logr.Debug("Debug", "rule", "FREQ=DAILY")
	checkLogFormat(t, &b, "DEBUG msg=Debug, rule=FREQ=DAILY")
	logr.Warn("Warn", "dangling")
	checkLogFormat(t, &b, "WARN msg=Warn, dangling")
}

func TestSlogLogger(t *testing.T) {
	var b bytes.Buffer
	slogLogger := slog.New(slog.NewTextHandler(&b, &slog.HandlerOptions{
		Level: slog.Level(logger.LevelDebug),
	}))
	l := logger.NewSlogLogger(context.Background(), slogLogger)

	l.Trace("Trace")
	assertEmpty(t, &b)
	l.Debug("Debug", "key", "value")
	checkLogFormat(t, &b, "key=value")
	l.Error("Error")
	assertNotEmpty(t, &b)

	traceLogger := slog.New(slog.NewTextHandler(&b, &slog.HandlerOptions{
		Level:       slog.Level(logger.LevelTrace),
		ReplaceAttr: logger.ReplaceLevel,
	}))
	logger.NewSlogLogger(context.Background(), traceLogger).Trace("Trace")
	checkLogFormat(t, &b, "level=TRACE msg=Trace")
}

func TestZapLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := logger.NewZapLogger(zap.New(core))

	l.Trace("Trace", "key", "value")
	l.Debug("Debug")
	l.Info("Info")
	l.Warn("Warn")
	l.Error("Error")

	if logs.Len() != 5 {
		t.Fatalf("unexpected number of entries: %d", logs.Len())
	}
	entry := logs.All()[0]
	if entry.Message != "Trace" || entry.ContextMap()["key"] != "value" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestParseLevel(t *testing.T) {
	level, err := logger.ParseLevel("debug")
	if err != nil || level != logger.LevelDebug {
		t.Fatalf("unexpected level: %s, %v", level, err)
	}
	if _, err := logger.ParseLevel("verbose"); err == nil {
		t.Fatal("expected error")
	}
}

func assertEmpty(t *testing.T, r io.Reader) {
	t.Helper()
	logMsg := readAll(t, r)
	if logMsg != "" {
		t.Fatalf("log msg is not empty: %s", logMsg)
	}
}

func assertNotEmpty(t *testing.T, r io.Reader) {
	t.Helper()
	logMsg := readAll(t, r)
	if logMsg == "" {
		t.Fatal("log msg is empty")
	}
}

func checkLogFormat(t *testing.T, r io.Reader, expected string) {
	t.Helper()
	logMsg := readAll(t, r)
	if !strings.Contains(logMsg, expected) {
		t.Fatalf("invalid log format: %s", logMsg)
	}
}

func readAll(t *testing.T, r io.Reader) string {
	t.Helper()
	bytes, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return string(bytes)
}

type countingLogger struct {
	Count int
}

var _ logger.Logger = (*countingLogger)(nil)

func (l *countingLogger) Trace(_ string, _ ...any) {
	l.Count++
}

func (l *countingLogger) Debug(_ string, _ ...any) {
	l.Count++
}

func (l *countingLogger) Info(_ string, _ ...any) {
	l.Count++
}

func (l *countingLogger) Warn(_ string, _ ...any) {
	l.Count++
}

func (l *countingLogger) Error(_ string, _ ...any) {
	l.Count++
}
