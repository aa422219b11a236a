package parser

import "testing"

func printAll(t *testing.T, src string) string {
	t.Helper()
	var out string
	for i, decl := range mustParse(t, src) {
		if i > 0 {
			out += "\n"
		}
		out += Print(decl)
	}
	return out
}

func TestPrintCanonicalForm(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"var a=1", "var a = 1;"},
		{"var a", "var a;"},
		{"print  a+b*2", "print a + b * 2;"},
		{"x=(1+2)", "x = (1 + 2);"},
		{"!true==false", "!true == false;"},
		{"-  -3", "--3;"},
		{`print "hi"`, `print "hi";`},
		{"a or b and nil", "a or b and nil;"},
		{"{}", "{}"},
		{"{print 1;}", "{\n  print 1;\n}"},
		{"{var a=1;{print a;}}", "{\n  var a = 1;\n  {\n    print a;\n  }\n}"},
		{"if(a)print 1;else print 2;", "if (a) print 1;\nelse print 2;"},
		{"if (a) { print 1; }", "if (a) {\n  print 1;\n}"},
		{"{ if (a) print 1; else print 2; }", "{\n  if (a) print 1;\n  else print 2;\n}"},
		{"2.50", "2.50;"},
	}
	for _, tt := range tests {
		if got := printAll(t, tt.src); got != tt.want {
			t.Errorf("%q: unexpected output\n got %q\nwant %q", tt.src, got, tt.want)
		}
	}
}

func TestPrintRoundTrip(t *testing.T) {
	sources := []string{
		"var a = 1; var b = a + 2 * (3 - 4); print b;",
		"if (a and !b) { var c = -a; print c; } else if (b) print 2; else { }",
		"{ { { x = y = z; } } }",
		`var s = "multi
line"; print s == nil or s != "x";`,
		"a >= 1 and a <= 10 or a > 100 and a < 200;",
	}
	for _, src := range sources {
		first := printAll(t, src)
		second := printAll(t, first)
		if first != second {
			t.Errorf("round trip changed output for %q\nfirst:\n%s\nsecond:\n%s", src, first, second)
		}
	}
}

func TestPrintExpressionNode(t *testing.T) {
	expr := mustParseExpr(t, "a = 1 + 2")
	if got := Print(expr); got != "a = 1 + 2" {
		t.Fatalf("expressions print without a terminator, got %q", got)
	}
}
