package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

var (
	logger   *slog.Logger
	logFile  *os.File
	minLevel slog.LevelVar
)

// Init opens <state dir>/<appName>/logs/<appName>.log and routes all
// package-level helpers to it.
func Init(appName, level string) error {
	logDir := filepath.Join(xdg.StateHome, appName, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(logDir, appName+".log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}

	if logFile != nil {
		logFile.Close()
	}
	logFile = f
	SetOutput(f, level)
	return nil
}

// SetOutput replaces the sink. Used by Init and by tests.
func SetOutput(w io.Writer, level string) {
	minLevel.Set(ParseLevel(level))
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		AddSource: true,
		Level:     &minLevel,
	}))
}

// SetLevel changes the threshold without reopening the sink.
func SetLevel(level string) {
	minLevel.Set(ParseLevel(level))
}

// ParseLevel maps a config string to a slog level; unknown values mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func Close() error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	logger = nil
	return err
}

func Debugf(format string, v ...any) { output(slog.LevelDebug, format, v...) }

func Infof(format string, v ...any) { output(slog.LevelInfo, format, v...) }

func Warnf(format string, v ...any) { output(slog.LevelWarn, format, v...) }

func Errorf(format string, v ...any) { output(slog.LevelError, format, v...) }

func output(level slog.Level, format string, v ...any) {
	if logger == nil {
		return
	}
	ctx := context.Background()
	if !logger.Enabled(ctx, level) {
		return
	}
	// skip runtime.Callers, output and the exported helper
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])
	r := slog.NewRecord(time.Now(), level, fmt.Sprintf(format, v...), pcs[0])
	_ = logger.Handler().Handle(ctx, r)
}
