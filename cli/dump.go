package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/sergev/lox/parser"
	"github.com/sergev/lox/runtime"
)

// TokensCmd prints the token stream of a script, one token per line as
// "line kind lexeme". Lexical errors are reported inline.
type TokensCmd struct {
	File   string `arg:"" help:"Script file, or '-' for stdin." type:"existingfile"`
	Trivia bool   `help:"Include whitespace and comment tokens."`
}

// Run executes the tokens command.
func (c *TokensCmd) Run(_ context.Context, std *streams) error {
	src, err := readSource(c.File, std.in)
	if err != nil {
		return err
	}

	report := newStyles(std.err).reporter(std.err)
	failed := false

	for _, res := range parser.Tokenize(src) {
		if res.Err != nil {
			report(res.Err)
			failed = true

			continue
		}

		if res.Token.Kind.IsTrivia() && !c.Trivia {
			continue
		}

		tok := res.Token
		if _, err := fmt.Fprintf(std.out, "%d %s %q\n", tok.Line, tok.Kind, tok.Lexeme); err != nil {
			return err
		}
	}

	if failed {
		return fmt.Errorf("%w: %s", ErrDiagnostics, c.File)
	}

	return nil
}

// ASTCmd prints every parsed declaration in canonical form. Parse errors
// are reported inline and parsing continues with the next declaration.
type ASTCmd struct {
	File string `arg:"" help:"Script file, or '-' for stdin." type:"existingfile"`
}

// Run executes the ast command.
func (c *ASTCmd) Run(_ context.Context, cli *CLI, std *streams) error {
	src, err := readSource(c.File, std.in)
	if err != nil {
		return err
	}

	report := newStyles(std.err).reporter(std.err)

	results, err := parser.ParseString(src, parser.WithMaxDepth(cli.MaxDepth))
	if err != nil {
		for _, e := range runtime.Errors(err) {
			report(e)
		}

		return fmt.Errorf("%w: %s", ErrDiagnostics, c.File)
	}

	failed := false

	for _, res := range results {
		if res.Err != nil {
			report(res.Err)
			failed = true

			continue
		}

		if _, err := fmt.Fprintln(std.out, parser.Print(res.Decl)); err != nil {
			return err
		}
	}

	if failed {
		return fmt.Errorf("%w: %s", ErrDiagnostics, c.File)
	}

	return nil
}

// readSource reads a script from path, or from in when path is "-".
func readSource(path string, in io.Reader) (string, error) {
	if path == stdinSource {
		data, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}

		return string(data), nil
	}

	data, err := runtime.ReadScript(path)
	if err != nil {
		return "", err
	}

	return string(data), nil
}
