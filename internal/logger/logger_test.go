package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tc := range tests {
		if got := parseLevel(tc.in); got != tc.want {
			t.Errorf("parseLevel(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestNewConsoleOnly(t *testing.T) {
	log := New(Config{Level: "debug", Format: "console"})
	defer log.Close()

	if log.rotator != nil {
		t.Error("no path configured, rotator should be nil")
	}
	if log.GetLevel() != zerolog.DebugLevel {
		t.Errorf("level: got %s", log.GetLevel())
	}
	if err := log.Close(); err != nil {
		t.Errorf("close without rotator: %v", err)
	}
}

func TestNewWithFileSink(t *testing.T) {
	dir := t.TempDir()
	log := New(Config{Level: "info", Format: "json", Path: dir})

	log.Info().Str("k", "v").Msg("hello")
	if err := log.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "driftarr.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if len(data) == 0 {
		t.Error("log file is empty")
	}
}

func TestRotatorDefaults(t *testing.T) {
	r := fileRotator(Config{Path: t.TempDir()})
	if r == nil {
		t.Fatal("expected rotator")
	}
	if r.MaxSize != 10 || r.MaxBackups != 5 || r.MaxAge != 30 {
		t.Errorf("defaults not applied: size=%d backups=%d age=%d", r.MaxSize, r.MaxBackups, r.MaxAge)
	}
}
