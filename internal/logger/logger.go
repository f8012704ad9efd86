// Package logger builds the process logger: console (or JSON) output with
// optional size-rotated file logging.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls the process logger.
type Config struct {
	Level      string
	Format     string // "console" or "json"
	Path       string // directory for log files; empty disables file logging
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Logger is the process logger. Services derive component loggers from the
// embedded zerolog.Logger; only the root owns the rotated file.
type Logger struct {
	zerolog.Logger
	rotator *lumberjack.Logger
}

// New builds the logger. A file sink is added alongside the console when
// cfg.Path is set; rotation failures fall back to console-only.
func New(cfg Config) *Logger {
	sinks := []io.Writer{consoleWriter(cfg.Format)}

	rotator := fileRotator(cfg)
	if rotator != nil {
		sinks = append(sinks, rotator)
	}

	log := zerolog.New(io.MultiWriter(sinks...)).
		Level(parseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()

	return &Logger{Logger: log, rotator: rotator}
}

// Close flushes and closes the rotated log file, if any.
func (l *Logger) Close() error {
	if l.rotator == nil {
		return nil
	}
	return l.rotator.Close()
}

func consoleWriter(format string) io.Writer {
	if format == "json" {
		return os.Stdout
	}
	return zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
}

func fileRotator(cfg Config) *lumberjack.Logger {
	if cfg.Path == "" {
		return nil
	}
	if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
		return nil
	}

	return &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Path, "driftarr.log"),
		MaxSize:    orDefault(cfg.MaxSizeMB, 10),
		MaxBackups: orDefault(cfg.MaxBackups, 5),
		MaxAge:     orDefault(cfg.MaxAgeDays, 30),
		Compress:   cfg.Compress,
		LocalTime:  true,
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}
