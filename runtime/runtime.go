package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/sergev/lox/lang"
	"github.com/sergev/lox/log"
	"github.com/sergev/lox/parser"
)

// Session runs Lox source against one long-lived environment. A REPL
// keeps a single Session for its lifetime; running a file uses a fresh
// one. A Session is not safe for concurrent use.
type Session struct {
	ev       *lang.Evaluator
	env      *lang.Env
	log      log.Logger
	maxDepth int
	echo     io.Writer
	report   func(error)
}

// Option configures a Session.
type Option func(*sessionConfig)

type sessionConfig struct {
	out      io.Writer
	echo     io.Writer
	log      log.Logger
	maxDepth int
	report   func(error)
}

// WithOutput directs print statements to w (default os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(c *sessionConfig) {
		c.out = w
	}
}

// WithEcho writes the value of every top-level expression statement to w,
// the way an interactive prompt shows results.
func WithEcho(w io.Writer) Option {
	return func(c *sessionConfig) {
		c.echo = w
	}
}

// WithMaxDepth limits nesting in both the parser and the evaluator.
func WithMaxDepth(n int) Option {
	return func(c *sessionConfig) {
		c.maxDepth = n
	}
}

// WithLogger sets the logger for the session and its evaluator.
func WithLogger(l log.Logger) Option {
	return func(c *sessionConfig) {
		c.log = l
	}
}

// WithReporter registers fn to receive each diagnostic as soon as it is
// raised, so callers can show errors interleaved with program output.
// Run still returns all of them.
func WithReporter(fn func(error)) Option {
	return func(c *sessionConfig) {
		c.report = fn
	}
}

// NewSession creates a session with an empty global environment.
func NewSession(opts ...Option) *Session {
	cfg := sessionConfig{
		out:      os.Stdout,
		maxDepth: lang.DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	ev := lang.NewEvaluator(
		lang.WithOutput(cfg.out),
		lang.WithMaxDepth(cfg.maxDepth),
		lang.WithLogger(cfg.log),
	)
	return &Session{
		ev:       ev,
		env:      ev.Global,
		log:      cfg.log,
		maxDepth: cfg.maxDepth,
		echo:     cfg.echo,
		report:   cfg.report,
	}
}

// Env returns the session's global environment.
func (s *Session) Env() *lang.Env {
	return s.env
}

// Run tokenizes, parses and evaluates src. Lexical errors abort the whole
// source before anything runs. Otherwise each top-level declaration is
// evaluated in order; a parse or runtime error affects only its own
// declaration. Run returns the values of the declarations that succeeded
// and all diagnostics joined with [errors.Join]. Cancellation of ctx is
// checked between declarations.
func (s *Session) Run(ctx context.Context, src string) ([]lang.Value, error) {
	start := time.Now()

	tokens, lexErrs := parser.Split(parser.Tokenize(src))
	if len(lexErrs) > 0 {
		for _, err := range lexErrs {
			s.raise(ctx, err)
		}
		return nil, errors.Join(lexErrs...)
	}

	results := parser.Parse(parser.Filter(tokens), parser.WithMaxDepth(s.maxDepth))

	var (
		values []lang.Value
		errs   []error
	)
	for _, res := range results {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if res.Err != nil {
			s.raise(ctx, res.Err)
			errs = append(errs, res.Err)
			continue
		}
		val, err := s.ev.Eval(res.Decl, s.env)
		if err != nil {
			s.raise(ctx, err)
			errs = append(errs, err)
			continue
		}
		values = append(values, val)
		if err := s.echoValue(res.Decl, val); err != nil {
			errs = append(errs, err)
		}
	}

	s.log.DebugContext(ctx, "run finished",
		slog.Int("declarations", len(results)),
		slog.Int("errors", len(errs)),
		slog.Duration("elapsed", time.Since(start)))

	return values, errors.Join(errs...)
}

func (s *Session) raise(ctx context.Context, err error) {
	s.log.DebugContext(ctx, "diagnostic", slog.Any("error", err))
	if s.report != nil {
		s.report(err)
	}
}

func (s *Session) echoValue(decl parser.Decl, val lang.Value) error {
	if s.echo == nil {
		return nil
	}
	sd, ok := decl.(*parser.StmtDecl)
	if !ok {
		return nil
	}
	if _, ok := sd.Stmt.(*parser.ExpressionStmt); !ok {
		return nil
	}
	if _, err := fmt.Fprintln(s.echo, val.GoString()); err != nil {
		return fmt.Errorf("echo: %w", err)
	}
	return nil
}

// Errors flattens an error returned by Run into the individual
// diagnostics. A nil error yields nil.
func Errors(err error) []error {
	if err == nil {
		return nil
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []error{err}
	}
	var out []error
	for _, e := range joined.Unwrap() {
		out = append(out, Errors(e)...)
	}
	return out
}

// ReadScript loads a script file. A leading "#!" line is dropped but its
// newline kept, so reported line numbers match the file.
func ReadScript(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if bytes.HasPrefix(data, []byte("#!")) {
		if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
			return data[idx:], nil
		}
		return []byte{}, nil
	}
	return data, nil
}

// EvaluateReader runs all source read from r in s.
func EvaluateReader(ctx context.Context, s *Session, r io.Reader) ([]lang.Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx, string(data))
}

// EvaluateFile loads and runs a Lox file in s, allowing a #! first line.
func EvaluateFile(ctx context.Context, s *Session, path string) ([]lang.Value, error) {
	data, err := ReadScript(path)
	if err != nil {
		return nil, err
	}
	s.log.DebugContext(ctx, "evaluating file", slog.String("path", path))
	return s.Run(ctx, string(data))
}
