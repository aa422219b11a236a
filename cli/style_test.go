package cli

import (
	"bytes"
	"errors"
	"testing"
)

func TestStylesPlainOffTerminal(t *testing.T) {
	var buf bytes.Buffer
	st := newStyles(&buf)

	if got := st.banner(); got != "Lox REPL (enter `exit` to quit)" {
		t.Fatalf("unexpected banner %q", got)
	}

	st.reporter(&buf)(errors.New("[line 1] lex error: boom"))
	if buf.String() != "[line 1] lex error: boom\n" {
		t.Fatalf("unexpected report %q", buf.String())
	}
}
