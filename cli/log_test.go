package cli

import (
	"testing"

	"github.com/sergev/lox/log"
)

// restoreLogger puts the package logger back the way the test found it.
func restoreLogger(t *testing.T) {
	t.Helper()

	prev := log.Default()
	t.Cleanup(func() {
		log.Config(
			log.WithLevel(prev.Level()),
			log.WithFormat(prev.Format()),
			log.WithPretty(false),
			log.WithCaller(false),
		)
	})
}

func TestLogScan(t *testing.T) {
	restoreLogger(t)

	var f logConfig
	f.scan([]string{"run", "--log-level", "debug", "--log-format=json", "--log-caller", "file.lox"})

	if f.Level != "debug" || log.Default().Level() != log.LevelDebug {
		t.Fatalf("level not applied: %q %v", f.Level, log.Default().Level())
	}
	if f.Format != "json" || log.Default().Format() != log.FormatJSON {
		t.Fatalf("format not applied: %q %v", f.Format, log.Default().Format())
	}
	if !f.Caller {
		t.Fatal("--log-caller should enable caller information")
	}
}

func TestLogScanBooleans(t *testing.T) {
	restoreLogger(t)

	tests := []struct {
		arg  string
		want bool
	}{
		{"--log-pretty", true},
		{"--log-pretty=false", false},
		{"--no-log-pretty", false},
		{"--no-log-pretty=false", true},
	}
	for _, tt := range tests {
		f := logConfig{Pretty: !tt.want}
		f.scan([]string{tt.arg})
		if f.Pretty != tt.want {
			t.Errorf("%s: expected pretty=%v", tt.arg, tt.want)
		}
	}

	f := logConfig{Pretty: true}
	f.scan([]string{"--log-pretty=maybe"})
	if !f.Pretty {
		t.Error("an unparsable boolean should leave the setting alone")
	}
}

func TestLogScanIgnoresValuesThatLookLikeFlags(t *testing.T) {
	restoreLogger(t)

	var f logConfig
	f.scan([]string{"--log-level", "--max-depth", "4"})
	if f.Level != "" {
		t.Fatalf("a following flag must not be consumed as the level, got %q", f.Level)
	}
}
