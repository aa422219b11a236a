// Package cli implements the lox command line: running scripts, the
// interactive prompt, a fuzzy script picker and token/AST dumps.
package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/sergev/lox/lang"
	"github.com/sergev/lox/log"
	"github.com/sergev/lox/parser"
	"github.com/sergev/lox/runtime"
)

const (
	// Name is the command name used in help text and default paths.
	Name = "lox"
	// Description is a short summary used in help output.
	Description = "Tree-walking interpreter for a subset of Lox"
	// Version is reported by --version.
	Version = "0.1.0"
)

// ErrDiagnostics is returned when a script reported lex, parse or runtime
// errors. The diagnostics themselves have already been written to stderr.
var ErrDiagnostics = errors.New("script reported errors")

// CLI is the top-level command-line interface for lox.
type CLI struct {
	Log     logConfig     `embed:"" group:"log"     prefix:"log-"`
	Profile profileConfig `embed:"" group:"profile" prefix:"profile-"`

	Config   kong.ConfigFlag  `help:"Load flag defaults from a YAML file." placeholder:"FILE"`
	MaxDepth int              `default:"${maxDepth}" help:"Maximum nesting depth when parsing and evaluating." name:"max-depth"`
	Version  kong.VersionFlag `help:"Print version and exit."`

	Run    RunCmd    `cmd:"" help:"Run Lox scripts."`
	Repl   ReplCmd   `cmd:"" default:"1" help:"Start an interactive session."`
	Pick   PickCmd   `cmd:"" help:"Pick a script with a fuzzy finder and run it."`
	Tokens TokensCmd `cmd:"" help:"Print the token stream of a script."`
	AST    ASTCmd    `cmd:"" help:"Print the parsed declarations of a script." name:"ast"`
}

// streams are the standard streams commands read and write.
type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

// Run executes the lox CLI with the given context and arguments.
// The exit function is called with the appropriate exit code when Kong
// handles --help or --version.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	return run(ctx, exit, &streams{os.Stdin, os.Stdout, os.Stderr}, args...)
}

func run(
	ctx context.Context,
	exit func(code int),
	std *streams,
	args ...string,
) error {
	var cli CLI

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	vars := kong.Vars{
		"maxDepth":    "256",
		"version":     Version,
		"historyPath": historyPath(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Profile.vars())

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position.
	cli.Log.scan(args)

	k, err := kong.New(&cli,
		kong.Name(Name),
		kong.Description(Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.Writers(std.out, std.err),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Profile.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.Bind(std),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(loadYAML, configPath()),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := k.Parse(args)
	if err != nil {
		return err
	}

	cli.Log.start(ctx, std.err)

	defer cli.Profile.start(ctx)()

	return ktx.Run(&cli)
}

// session creates a fresh interpreter session wired to the streams and
// global flags.
func (c *CLI) session(std *streams, opts ...runtime.Option) *runtime.Session {
	base := []runtime.Option{
		runtime.WithOutput(std.out),
		runtime.WithMaxDepth(c.MaxDepth),
		runtime.WithLogger(log.Default()),
		runtime.WithReporter(newStyles(std.err).reporter(std.err)),
	}

	return runtime.NewSession(append(base, opts...)...)
}

// isDiagnostic reports whether every error joined in err is a lex, parse
// or runtime error, as opposed to an I/O failure or cancellation.
func isDiagnostic(err error) bool {
	errs := runtime.Errors(err)
	if len(errs) == 0 {
		return false
	}

	for _, e := range errs {
		var (
			lexErr   *parser.LexError
			parseErr *parser.ParseError
			evalErr  *lang.RuntimeError
		)
		if !errors.As(e, &lexErr) && !errors.As(e, &parseErr) &&
			!errors.As(e, &evalErr) {
			return false
		}
	}

	return true
}
