package profile

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestModes(t *testing.T) {
	got := Modes()
	if !slices.IsSorted(got) {
		t.Fatalf("modes should be sorted: %v", got)
	}
	for _, want := range []string{"cpu", "mem", "trace"} {
		if !slices.Contains(got, want) {
			t.Errorf("missing mode %q in %v", want, got)
		}
	}
	if Valid("") || Valid("quiet") {
		t.Error("empty and quiet are not profiling modes")
	}
	if !Valid("heap") {
		t.Error("heap should be valid")
	}
}

func TestConfigOptions(t *testing.T) {
	var c Config = Defaults
	c = WithMode("cpu")(c)
	c = WithPath("/tmp/x")(c)
	c = WithQuiet(true)(c)

	mode, path, quiet := c()
	if mode != "cpu" || path != "/tmp/x" || !quiet {
		t.Fatalf("unexpected config %q %q %v", mode, path, quiet)
	}

	c = WithMode("mem")(c)
	if mode, path, _ := c(); mode != "mem" || path != "/tmp/x" {
		t.Fatalf("options should only change their own field, got %q %q", mode, path)
	}

	opts, ok := options("cpu", "", false)
	if !ok || len(opts) != 2 {
		t.Fatalf("expected mode and shutdown hook only, got %d ok=%v", len(opts), ok)
	}
	opts, ok = options("cpu", "/tmp/x", true)
	if !ok || len(opts) != 4 {
		t.Fatalf("expected path and quiet options, got %d ok=%v", len(opts), ok)
	}
	if _, ok := options("bogus", "", false); ok {
		t.Fatal("unknown mode must not produce options")
	}
}

func TestStartDisabledIsNoop(t *testing.T) {
	var c Config = Defaults
	s := c.Start()
	if _, ok := s.(ignore); !ok {
		t.Fatalf("expected no-op stopper, got %T", s)
	}
	s.Stop()

	s = WithMode("bogus")(c).Start()
	if _, ok := s.(ignore); !ok {
		t.Fatalf("unknown mode should not start a profiler, got %T", s)
	}
}

func TestStartWritesProfile(t *testing.T) {
	dir := t.TempDir()

	var c Config = Defaults
	c = WithMode("mem")(c)
	c = WithPath(dir)(c)
	c = WithQuiet(true)(c)

	s := c.Start()
	buf := make([][]byte, 0, 64)
	for range 64 {
		buf = append(buf, make([]byte, 1024))
	}
	_ = buf
	s.Stop()

	if _, err := os.Stat(filepath.Join(dir, "mem.pprof")); err != nil {
		t.Fatalf("expected mem profile to be written: %v", err)
	}
}
