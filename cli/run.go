package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sergev/lox/log"
	"github.com/sergev/lox/runtime"
)

// stdinSource is the special path that reads a script from stdin.
const stdinSource = "-"

// RunCmd runs one or more scripts, each in a fresh session.
type RunCmd struct {
	Files []string `arg:"" help:"Script files, or '-' for stdin." name:"file" type:"existingfile"`
}

// Run executes the run command. Diagnostics are reported as they occur;
// every file runs even when an earlier one failed.
func (r *RunCmd) Run(ctx context.Context, cli *CLI, std *streams) error {
	var failed []string

	for _, path := range r.Files {
		if err := runScript(ctx, cli, std, path); err != nil {
			if !isDiagnostic(err) {
				return err
			}

			failed = append(failed, path)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%w: %s", ErrDiagnostics, strings.Join(failed, ", "))
	}

	return nil
}

// runScript evaluates the script at path in a fresh session.
func runScript(ctx context.Context, cli *CLI, std *streams, path string) error {
	log.DebugContext(ctx, "run script", slog.String("path", path))

	s := cli.session(std)

	var err error
	if path == stdinSource {
		_, err = runtime.EvaluateReader(ctx, s, std.in)
	} else {
		_, err = runtime.EvaluateFile(ctx, s, path)
	}

	if err != nil && !isDiagnostic(err) {
		return fmt.Errorf("%s: %w", path, err)
	}

	return err
}
