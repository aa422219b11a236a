package runtime

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sergev/lox/lang"
	"github.com/sergev/lox/log"
	"github.com/sergev/lox/parser"
)

func newTestSession(opts ...Option) (*Session, *bytes.Buffer) {
	var out bytes.Buffer
	return NewSession(append([]Option{WithOutput(&out)}, opts...)...), &out
}

func TestSessionRunPrintsAndReturnsValues(t *testing.T) {
	s, out := newTestSession()
	values, err := s.Run(context.Background(), "var a = 1 + 2 * 3; print a; a - 1;")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.String() != "7\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
	want := []lang.Value{lang.NumberValue(7), lang.Nil, lang.NumberValue(6)}
	if len(values) != len(want) {
		t.Fatalf("expected %d values, got %v", len(want), values)
	}
	for i := range want {
		if !values[i].Equal(want[i]) {
			t.Fatalf("value %d: expected %v, got %v", i, want[i], values[i])
		}
	}
}

func TestSessionKeepsStateAcrossRuns(t *testing.T) {
	s, out := newTestSession()
	ctx := context.Background()
	if _, err := s.Run(ctx, "var counter = 1;"); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := s.Run(ctx, "counter = counter + 1; print counter;"); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if out.String() != "2\n" {
		t.Fatalf("expected state to persist, got %q", out.String())
	}
	if v, ok := s.Env().Get("counter"); !ok || !v.Equal(lang.NumberValue(2)) {
		t.Fatalf("unexpected binding %v ok=%v", v, ok)
	}
}

func TestSessionLexErrorsAbortRun(t *testing.T) {
	s, out := newTestSession()
	_, err := s.Run(context.Background(), "print 1;\nprint @;\nprint \"open")
	if err == nil {
		t.Fatal("expected lex errors")
	}
	if out.Len() != 0 {
		t.Fatalf("nothing should run after a lex error, got %q", out.String())
	}
	errs := Errors(err)
	if len(errs) != 2 {
		t.Fatalf("expected two lex errors, got %v", errs)
	}
	if !errors.Is(err, parser.ErrUnexpectedCharacter) || !errors.Is(err, parser.ErrUnterminatedString) {
		t.Fatalf("joined error should match both kinds: %v", err)
	}
	if errs[0].Error() != `[line 2] lex error: unexpected character "@"` {
		t.Fatalf("unexpected message %s", errs[0])
	}
}

func TestSessionParseAndRuntimeErrorsAreIsolated(t *testing.T) {
	var reported []error
	s, out := newTestSession(WithReporter(func(err error) {
		reported = append(reported, err)
	}))
	src := "print 1;\nvar = 3;\nprint 2;\nprint missing;\nprint 3;\n1 + ;\nprint 4;"
	values, err := s.Run(context.Background(), src)
	if out.String() != "1\n2\n3\n4\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
	if len(values) != 4 {
		t.Fatalf("expected 4 successful declarations, got %d", len(values))
	}
	errs := Errors(err)
	if len(errs) != 3 {
		t.Fatalf("expected 3 diagnostics, got %v", errs)
	}
	wantPrefixes := []string{"[line 2] parse error", "[line 4] runtime error", "[line 6] parse error"}
	for i, prefix := range wantPrefixes {
		if !strings.HasPrefix(errs[i].Error(), prefix) {
			t.Errorf("diagnostic %d: expected prefix %q, got %s", i, prefix, errs[i])
		}
	}
	if len(reported) != 3 {
		t.Fatalf("reporter should see each diagnostic, got %d", len(reported))
	}
	if !errors.Is(err, lang.ErrUndefinedVariable) || !errors.Is(err, parser.ErrUnexpectedToken) {
		t.Fatalf("joined error lost its kinds: %v", err)
	}
}

func TestSessionEcho(t *testing.T) {
	var echo bytes.Buffer
	s, out := newTestSession(WithEcho(&echo))
	if _, err := s.Run(context.Background(), `var a = 2; a * 3; print "p"; "s" + "t"; { a; }`); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if echo.String() != "6\n\"st\"\n" {
		t.Fatalf("only top-level expression statements echo, got %q", echo.String())
	}
	if out.String() != "p\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestSessionHonorsCancellation(t *testing.T) {
	s, out := newTestSession()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Run(ctx, "print 1; print 2;")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("no declaration should run after cancellation, got %q", out.String())
	}
}

func TestSessionMaxDepth(t *testing.T) {
	s, _ := newTestSession(WithMaxDepth(8))
	_, err := s.Run(context.Background(), strings.Repeat("{", 20)+strings.Repeat("}", 20))
	if !errors.Is(err, parser.ErrTooDeep) {
		t.Fatalf("expected parser depth error, got %v", err)
	}
}

func TestSessionLogsRuns(t *testing.T) {
	var logs bytes.Buffer
	logger := log.Make(&logs, log.WithLevel(log.LevelDebug), log.WithFormat(log.FormatJSON))
	s, _ := newTestSession(WithLogger(logger))
	_, _ = s.Run(context.Background(), "print nope;")
	if !strings.Contains(logs.String(), `"msg":"run finished"`) {
		t.Fatalf("expected run summary in logs, got %q", logs.String())
	}
	if !strings.Contains(logs.String(), `"kind":"undefined variable"`) {
		t.Fatalf("expected structured error attributes, got %q", logs.String())
	}
}

func TestReadScriptSkipsShebang(t *testing.T) {
	dir := t.TempDir()

	withShebang := filepath.Join(dir, "script.lox")
	if err := os.WriteFile(withShebang, []byte("#!/usr/bin/env lox\nprint 1;\n"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	data, err := ReadScript(withShebang)
	if err != nil {
		t.Fatalf("ReadScript error: %v", err)
	}
	if string(data) != "\nprint 1;\n" {
		t.Fatalf("expected shebang to be stripped, got %q", data)
	}

	onlyShebang := filepath.Join(dir, "only_shebang.lox")
	if err := os.WriteFile(onlyShebang, []byte("#!/bin/true"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	data, err = ReadScript(onlyShebang)
	if err != nil {
		t.Fatalf("ReadScript error: %v", err)
	}
	if len(data) != 0 {
		t.Fatalf("expected empty body for shebang-only script, got %q", data)
	}
}

func TestEvaluateFileReportsOriginalLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.lox")
	if err := os.WriteFile(path, []byte("#!/usr/bin/env lox\nprint 1;\nprint nope;\n"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	s, out := newTestSession()
	_, err := EvaluateFile(context.Background(), s, path)
	if err == nil || !strings.HasPrefix(err.Error(), "[line 3] runtime error") {
		t.Fatalf("expected runtime error on line 3, got %v", err)
	}
	if out.String() != "1\n" {
		t.Fatalf("unexpected output %q", out.String())
	}

	if _, err := EvaluateFile(context.Background(), s, filepath.Join(dir, "missing.lox")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestEvaluateReader(t *testing.T) {
	s, out := newTestSession()
	if _, err := EvaluateReader(context.Background(), s, strings.NewReader("print \"hi\";")); err != nil {
		t.Fatalf("EvaluateReader: %v", err)
	}
	if out.String() != "hi\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestErrorsFlattens(t *testing.T) {
	if Errors(nil) != nil {
		t.Fatal("nil should flatten to nil")
	}
	a, b, c := errors.New("a"), errors.New("b"), errors.New("c")
	got := Errors(errors.Join(a, errors.Join(b, c)))
	if len(got) != 3 || got[0] != a || got[2] != c {
		t.Fatalf("unexpected flattening %v", got)
	}
}
