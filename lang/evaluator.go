package lang

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/sergev/lox/log"
	"github.com/sergev/lox/parser"
)

// DefaultMaxDepth bounds evaluator recursion unless overridden by
// WithMaxDepth.
const DefaultMaxDepth = 256

// Evaluator walks parsed declarations and executes them.
type Evaluator struct {
	Global *Env

	out      io.Writer
	log      log.Logger
	maxDepth int
	depth    int
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithOutput directs print statements to w. A nil writer discards output.
func WithOutput(w io.Writer) Option {
	return func(ev *Evaluator) {
		if w == nil {
			w = io.Discard
		}
		ev.out = w
	}
}

// WithMaxDepth limits how deeply statements and expressions may nest during
// evaluation. Non-positive values select DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(ev *Evaluator) {
		if n <= 0 {
			n = DefaultMaxDepth
		}
		ev.maxDepth = n
	}
}

// WithLogger sets the logger used for trace output.
func WithLogger(l log.Logger) Option {
	return func(ev *Evaluator) {
		ev.log = l
	}
}

// NewEvaluator constructs an evaluator rooted at a new global environment.
// Print output goes to os.Stdout unless WithOutput says otherwise.
func NewEvaluator(opts ...Option) *Evaluator {
	ev := &Evaluator{
		Global:   NewEnv(),
		out:      os.Stdout,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(ev)
	}
	return ev
}

// Eval executes a single declaration within env; a nil env means the
// global environment. Variable declarations yield the bound value,
// expression statements their value, and everything else Nil. On error
// the environment is left at the scope depth it had on entry.
func (ev *Evaluator) Eval(decl parser.Decl, env *Env) (Value, error) {
	if env == nil {
		env = ev.Global
	}
	if decl == nil {
		return Nil, fmt.Errorf("unsupported declaration %T", decl)
	}
	ev.depth = 0
	if ev.log.Enabled(log.DefaultContextProvider(), log.LevelTrace) {
		ev.log.Trace("eval",
			slog.Int("line", decl.Line()),
			slog.String("decl", parser.Print(decl)))
	}
	return ev.evalDecl(decl, env)
}

func (ev *Evaluator) enter(node parser.Node) error {
	ev.depth++
	if ev.depth > ev.maxDepth {
		return &RuntimeError{
			Kind:  TooDeep,
			Line:  node.Line(),
			Limit: ev.maxDepth,
		}
	}
	return nil
}

func (ev *Evaluator) leave() {
	ev.depth--
}

// evalLeft evaluates the left operand of an infix chain at the depth of the
// chain itself, the way the parser reads `a + b + c` in a loop.
func (ev *Evaluator) evalLeft(expr parser.Expr, env *Env) (Value, error) {
	ev.leave()
	defer func() { ev.depth++ }()
	return ev.evalExpr(expr, env)
}

func (ev *Evaluator) evalDecl(decl parser.Decl, env *Env) (Value, error) {
	switch d := decl.(type) {
	case *parser.VarDecl:
		val := Nil
		if d.Init != nil {
			v, err := ev.evalExpr(d.Init, env)
			if err != nil {
				return Nil, err
			}
			val = v
		}
		env.Define(d.Name.Lexeme, val)
		return val, nil
	case *parser.StmtDecl:
		return ev.evalStmt(d.Stmt, env)
	default:
		return Nil, fmt.Errorf("unsupported declaration %T", decl)
	}
}

func (ev *Evaluator) evalStmt(stmt parser.Stmt, env *Env) (Value, error) {
	if err := ev.enter(stmt); err != nil {
		return Nil, err
	}
	defer ev.leave()

	switch s := stmt.(type) {
	case *parser.ExpressionStmt:
		return ev.evalExpr(s.Expr, env)
	case *parser.PrintStmt:
		val, err := ev.evalExpr(s.Expr, env)
		if err != nil {
			return Nil, err
		}
		if _, err := fmt.Fprintln(ev.out, val.String()); err != nil {
			return Nil, fmt.Errorf("print: %w", err)
		}
		return Nil, nil
	case *parser.IfStmt:
		cond, err := ev.evalExpr(s.Cond, env)
		if err != nil {
			return Nil, err
		}
		if cond.Type() != TypeBool {
			return Nil, &RuntimeError{
				Kind:     WrongType,
				Line:     s.Keyword.Line,
				Expr:     parser.Print(s.Cond),
				Expected: TypeBool,
				Found:    cond.Type(),
			}
		}
		switch {
		case cond.Bool():
			return ev.evalStmt(s.Then, env)
		case s.Else != nil:
			return ev.evalStmt(s.Else, env)
		}
		return Nil, nil
	case *parser.BlockStmt:
		return ev.evalBlock(s, env)
	default:
		return Nil, fmt.Errorf("unsupported statement %T", stmt)
	}
}

func (ev *Evaluator) evalBlock(block *parser.BlockStmt, env *Env) (Value, error) {
	env.Push()
	ev.log.Trace("scope pushed", slog.Int("depth", env.Depth()))
	defer func() {
		env.Pop()
		ev.log.Trace("scope popped", slog.Int("depth", env.Depth()))
	}()

	for _, decl := range block.Decls {
		if _, err := ev.evalDecl(decl, env); err != nil {
			return Nil, err
		}
	}
	return Nil, nil
}

func (ev *Evaluator) evalExpr(expr parser.Expr, env *Env) (Value, error) {
	if err := ev.enter(expr); err != nil {
		return Nil, err
	}
	defer ev.leave()

	switch e := expr.(type) {
	case *parser.Literal:
		val, err := FromLiteral(e.Value.Literal)
		if err != nil {
			return Nil, fmt.Errorf("line %d: %w", e.Line(), err)
		}
		return val, nil
	case *parser.Identifier:
		val, ok := env.Get(e.Name.Lexeme)
		if !ok {
			return Nil, undefined(e.Name)
		}
		return val, nil
	case *parser.Assign:
		val, err := ev.evalExpr(e.Value, env)
		if err != nil {
			return Nil, err
		}
		if _, ok := env.Assign(e.Target.Lexeme, val); !ok {
			return Nil, undefined(e.Target)
		}
		return val, nil
	case *parser.Grouping:
		return ev.evalExpr(e.Expr, env)
	case *parser.Unary:
		return ev.evalUnary(e, env)
	case *parser.Binary:
		return ev.evalBinary(e, env)
	case *parser.Logical:
		return ev.evalLogical(e, env)
	default:
		return Nil, fmt.Errorf("unsupported expression %T", expr)
	}
}

func undefined(name parser.Token) error {
	return &RuntimeError{
		Kind: UndefinedVariable,
		Line: name.Line,
		Expr: name.Lexeme,
		Name: name.Lexeme,
	}
}

func wrongType(expr parser.Expr, line int, expected, found ValueType) error {
	return &RuntimeError{
		Kind:     WrongType,
		Line:     line,
		Expr:     parser.Print(expr),
		Expected: expected,
		Found:    found,
	}
}

func (ev *Evaluator) evalUnary(e *parser.Unary, env *Env) (Value, error) {
	operand, err := ev.evalExpr(e.Operand, env)
	if err != nil {
		return Nil, err
	}
	switch e.Op.Kind {
	case parser.TokenMinus:
		if operand.Type() != TypeNumber {
			return Nil, wrongType(e, e.Op.Line, TypeNumber, operand.Type())
		}
		return NumberValue(-operand.Number()), nil
	case parser.TokenBang:
		if operand.Type() != TypeBool {
			return Nil, wrongType(e, e.Op.Line, TypeBool, operand.Type())
		}
		return BoolValue(!operand.Bool()), nil
	default:
		return Nil, fmt.Errorf("unsupported unary operator %s", e.Op.Kind)
	}
}

// evalLogical short-circuits: and stops on false, or stops on true. Both
// operands must be booleans.
func (ev *Evaluator) evalLogical(e *parser.Logical, env *Env) (Value, error) {
	left, err := ev.evalLeft(e.Left, env)
	if err != nil {
		return Nil, err
	}
	if left.Type() != TypeBool {
		return Nil, wrongType(e, e.Op.Line, TypeBool, left.Type())
	}
	switch e.Op.Kind {
	case parser.TokenAnd:
		if !left.Bool() {
			return left, nil
		}
	case parser.TokenOr:
		if left.Bool() {
			return left, nil
		}
	default:
		return Nil, fmt.Errorf("unsupported logical operator %s", e.Op.Kind)
	}
	right, err := ev.evalExpr(e.Right, env)
	if err != nil {
		return Nil, err
	}
	if right.Type() != TypeBool {
		return Nil, wrongType(e, e.Op.Line, TypeBool, right.Type())
	}
	return right, nil
}
