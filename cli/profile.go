package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/sergev/lox/log"
	"github.com/sergev/lox/profile"
)

type profileConfig struct {
	Mode string `default:""               enum:",${profileModeEnum}" help:"Enable profiling (${enum})." placeholder:"MODE"`
	Dir  string `default:"${profileDir}"                             help:"Profile output directory."                    type:"path"`
}

func (profileConfig) vars() kong.Vars {
	return kong.Vars{
		"profileModeEnum": strings.Join(profile.Modes(), ","),
		"profileDir":      filepath.Join(cacheDir(), profile.Tag),
	}
}

func (profileConfig) group() kong.Group {
	var group kong.Group

	group.Key = "profile"
	group.Title = "Profiling (pprof)"

	return group
}

// start starts profiling if configured. The returned function stops it.
func (f profileConfig) start(ctx context.Context) (stop func()) {
	if f.Mode == "" {
		return func() {}
	}

	log.DebugContext(ctx, "profile start",
		slog.String("mode", f.Mode),
		slog.String("dir", f.Dir),
	)

	var cfg profile.Config = profile.Defaults

	cfg = profile.WithMode(f.Mode)(cfg)
	cfg = profile.WithPath(f.Dir)(cfg)
	cfg = profile.WithQuiet(true)(cfg)
	profiler := cfg.Start()

	return func() {
		log.DebugContext(ctx, "profile stop",
			slog.String("mode", f.Mode),
			slog.String("dir", f.Dir),
		)
		profiler.Stop()
	}
}
