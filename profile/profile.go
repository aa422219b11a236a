// Package profile provides optional runtime profiling for the lox command.
//
// Profiling is driven by [github.com/pkg/profile]. A [Config] names the
// profiling mode, the output directory and whether the profiler announces
// itself on the standard logger:
//
//	var c profile.Config = profile.Defaults
//	c = profile.WithMode("cpu")(c)
//	c = profile.WithPath("/tmp/lox")(c)
//	defer c.Start().Stop()
//
// Profile data is written to files named after the mode (cpu.pprof,
// mem.pprof, ...) and can be inspected with "go tool pprof".
package profile

import (
	"maps"
	"slices"
	"sync"

	"github.com/pkg/profile"
)

// Tag names the profile output directory under the user cache directory.
const Tag = `pprof`

// Config functions return all supported profiling parameters.
type Config func() (mode, path string, quiet bool)

// Defaults is a Config with profiling disabled.
func Defaults() (mode, path string, quiet bool) {
	return "", "", false
}

// Stopper stops a running profiler and flushes its output.
type Stopper interface{ Stop() }

// Start starts the profiler selected by c. An empty or unknown mode yields
// a no-op Stopper; both Start and Stop are always safely callable.
func (c Config) Start() Stopper {
	mode, path, quiet := c()

	opts, ok := options(mode, path, quiet)
	if !ok {
		return ignore{}
	}

	return profile.Start(opts...)
}

// WithMode returns a functional option for setting a profiler's mode.
func WithMode(mode string) func(Config) Config {
	return func(c Config) Config {
		_, path, quiet := c()

		return func() (string, string, bool) {
			return mode, path, quiet
		}
	}
}

// WithPath returns a functional option for setting a profiler's output path.
func WithPath(path string) func(Config) Config {
	return func(c Config) Config {
		mode, _, quiet := c()

		return func() (string, string, bool) {
			return mode, path, quiet
		}
	}
}

// WithQuiet returns a functional option for setting a profiler's quiet flag.
func WithQuiet(quiet bool) func(Config) Config {
	return func(c Config) Config {
		mode, path, _ := c()

		return func() (string, string, bool) {
			return mode, path, quiet
		}
	}
}

// Modes returns the sorted list of supported profiling modes.
var Modes = sync.OnceValue(
	func() []string {
		return slices.Sorted(maps.Keys(modes))
	},
)

// Valid reports whether mode names a supported profiling mode.
func Valid(mode string) bool {
	_, ok := modes[mode]

	return ok
}

var modes = map[string]func(*profile.Profile){
	"allocs":    profile.MemProfileAllocs,
	"block":     profile.BlockProfile,
	"clock":     profile.ClockProfile,
	"cpu":       profile.CPUProfile,
	"goroutine": profile.GoroutineProfile,
	"heap":      profile.MemProfileHeap,
	"mem":       profile.MemProfile,
	"mutex":     profile.MutexProfile,
	"thread":    profile.ThreadcreationProfile,
	"trace":     profile.TraceProfile,
}

// options translates a configuration into pkg/profile options. The
// shutdown hook is disabled because the CLI stops the profiler itself.
func options(mode, path string, quiet bool) ([]func(*profile.Profile), bool) {
	fn, ok := modes[mode]
	if !ok {
		return nil, false
	}

	opts := []func(*profile.Profile){fn, profile.NoShutdownHook}
	if path != "" {
		opts = append(opts, profile.ProfilePath(path))
	}
	if quiet {
		opts = append(opts, profile.Quiet)
	}

	return opts, true
}

type ignore struct{}

func (ignore) Stop() {}
