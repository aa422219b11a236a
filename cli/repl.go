package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/sergev/lox/log"
	"github.com/sergev/lox/parser"
	"github.com/sergev/lox/runtime"
)

const (
	prompt             = "> "
	continuationPrompt = "... "
	exitCommand        = "exit"
)

// ReplCmd reads declarations line by line and evaluates them in one
// long-lived session, echoing the value of each expression statement.
type ReplCmd struct {
	History   string `default:"${historyPath}" help:"History file for line editing."`
	NoHistory bool   `help:"Do not read or write the history file."`
}

// Run executes the repl command.
func (r *ReplCmd) Run(ctx context.Context, cli *CLI, std *streams) error {
	s := cli.session(std, runtime.WithEcho(std.out))

	if !isInteractive(std.in) {
		return runBufferedREPL(ctx, s, bufio.NewReader(std.in))
	}

	history := r.History
	if r.NoHistory {
		history = ""
	}

	return runInteractiveREPL(ctx, s, std, history)
}

// needsMore reports whether src stops in the middle of a string,
// expression or block, so the prompt should keep reading lines.
func needsMore(src string) bool {
	results, err := parser.ParseString(src)
	if err != nil {
		return parser.IsIncomplete(err)
	}

	for _, res := range results {
		if res.Err != nil && parser.IsIncomplete(res.Err) {
			return true
		}
	}

	return false
}

// isExit reports whether a line asks the prompt to quit.
func isExit(line string) bool {
	return strings.EqualFold(strings.TrimSpace(line), exitCommand)
}

// evaluate runs one complete chunk of input. Diagnostics are already
// reported by the session, so only other failures are returned.
func evaluate(ctx context.Context, s *runtime.Session, src string) error {
	_, err := s.Run(ctx, src)
	if err == nil || isDiagnostic(err) {
		return nil
	}

	return err
}

func runBufferedREPL(ctx context.Context, s *runtime.Session, reader *bufio.Reader) error {
	var buffer strings.Builder

	for {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read: %w", err)
		}

		atEOF := errors.Is(err, io.EOF)
		if buffer.Len() == 0 && isExit(line) {
			return nil
		}

		buffer.WriteString(line)
		src := buffer.String()

		if needsMore(src) && !atEOF {
			continue
		}

		buffer.Reset()

		if strings.TrimSpace(src) != "" {
			if err := evaluate(ctx, s, src); err != nil {
				return err
			}
		}

		if atEOF {
			return nil
		}
	}
}

func runInteractiveREPL(ctx context.Context, s *runtime.Session, std *streams, historyPath string) error {
	state := liner.NewLiner()
	defer state.Close()
	state.SetCtrlCAborts(true)

	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			if _, err := state.ReadHistory(f); err != nil {
				log.DebugContext(ctx, "history not loaded",
					slog.String("path", historyPath),
					slog.Any("error", err))
			}
			f.Close()
		}
		defer func() {
			if f, err := os.Create(historyPath); err == nil {
				if _, err := state.WriteHistory(f); err != nil {
					log.WarnContext(ctx, "history not saved",
						slog.String("path", historyPath),
						slog.Any("error", err))
				}
				f.Close()
			}
		}()
	}

	st := newStyles(std.out)
	fmt.Fprintln(std.out, st.banner())

	var buffer strings.Builder

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		p := prompt
		if buffer.Len() > 0 {
			p = continuationPrompt
		}

		input, err := state.Prompt(p)
		if err != nil {
			switch {
			case errors.Is(err, liner.ErrPromptAborted):
				fmt.Fprintln(std.out)
				buffer.Reset()

				continue
			case errors.Is(err, io.EOF):
				fmt.Fprintln(std.out)

				return nil
			default:
				return fmt.Errorf("read: %w", err)
			}
		}

		if buffer.Len() == 0 && isExit(input) {
			return nil
		}

		buffer.WriteString(input)
		buffer.WriteString("\n")

		src := buffer.String()
		if needsMore(src) {
			continue
		}

		buffer.Reset()

		if trimmed := strings.TrimSpace(src); trimmed != "" {
			state.AppendHistory(trimmed)
		}

		if err := evaluate(ctx, s, src); err != nil {
			return err
		}
	}
}

// isInteractive reports whether r is a terminal.
func isInteractive(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}

	info, err := f.Stat()
	if err != nil {
		return false
	}

	return (info.Mode() & os.ModeCharDevice) != 0
}
