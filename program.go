// program.go: the execution engine.
//
// What this file does
// -------------------
// A Program executes letterbox source against a Storage. Instructions
// come straight off the Lexer one at a time; there is no separate parse
// phase, so a malformed instruction is only reported when execution
// reaches it.
//
// Halting is a signal, not an error: F (finish) makes every enclosing
// loop, conditional, and X (execute) level unwind cleanly, and Run
// returns nil. Errors are *RuntimeError values stamped with the
// position of the instruction that raised them; nested program errors
// are re-stamped at the X instruction of the caller so positions always
// refer to the source being run.
//
// X runs the text of a variable as a program against the same store,
// inputs, and output. Its alias pairs install a renaming view over the
// caller's variables: inner names listed in the pairs resolve to the
// caller's names, unlisted names fall through unchanged, and views
// stack across nested X calls. RA is the one operation that ignores
// aliasing and clears the whole shared store.
//
// Programs are restartable: Run may be called any number of times and
// variables persist across calls, which is what the REPL relies on.
package letterbox

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
)

// signal reports how an instruction finished.
type signal int

const (
	sigNone signal = iota
	sigHalt
)

// slotView is the engine's access to variables. *Storage is the root
// view; aliasView layers renamings on top for X calls.
type slotView interface {
	Get(name byte) (Val, error)
	Set(name byte, v Val) error
	Reset(name byte) error
	ResetAll()
	Copy(from, to byte) error
	AsBool(name byte) (bool, error)
}

// aliasView renames a subset of slots onto the caller's view. Each
// layer resolves its own pairs, then delegates, so chains built by
// nested X calls compose.
type aliasView struct {
	names map[byte]byte
	next  slotView
}

func (a aliasView) resolve(name byte) byte {
	if to, ok := a.names[name]; ok {
		return to
	}
	return name
}

func (a aliasView) Get(name byte) (Val, error)     { return a.next.Get(a.resolve(name)) }
func (a aliasView) Set(name byte, v Val) error     { return a.next.Set(a.resolve(name), v) }
func (a aliasView) Reset(name byte) error          { return a.next.Reset(a.resolve(name)) }
func (a aliasView) ResetAll()                      { a.next.ResetAll() }
func (a aliasView) Copy(from, to byte) error       { return a.next.Copy(a.resolve(from), a.resolve(to)) }
func (a aliasView) AsBool(name byte) (bool, error) { return a.next.AsBool(a.resolve(name)) }

// Program executes letterbox source. Build one with NewProgram; the
// zero value is not usable.
type Program struct {
	store    *Storage
	vars     slotView
	inputs   []Val
	out      io.Writer
	logf     func(string, ...any)
	composed bool
}

/* ===========================
   PUBLIC API
   =========================== */

// Option configures a Program.
type Option interface{ apply(p *Program) }

type optionFunc func(*Program)

func (f optionFunc) apply(p *Program) { f(p) }

// WithStorage runs the program against s instead of a fresh store.
func WithStorage(s *Storage) Option {
	return optionFunc(func(p *Program) { p.store = s })
}

// WithInputs supplies the arguments read by G instructions.
func WithInputs(inputs ...Val) Option {
	return optionFunc(func(p *Program) { p.inputs = inputs })
}

// WithOutput directs print output to w. The default discards it.
func WithOutput(w io.Writer) Option {
	return optionFunc(func(p *Program) { p.out = w })
}

// WithLogf traces each instruction as it executes.
func WithLogf(logf func(string, ...any)) Option {
	return optionFunc(func(p *Program) { p.logf = logf })
}

// WithComposedBodies scans control instruction bodies with
// NewComposedLexer instead of NewLexer.
func WithComposedBodies() Option {
	return optionFunc(func(p *Program) { p.composed = true })
}

// NewProgram builds a Program ready to Run.
func NewProgram(opts ...Option) *Program {
	p := &Program{out: io.Discard}
	for _, o := range opts {
		o.apply(p)
	}
	if p.store == nil {
		p.store = NewStorage()
	}
	p.vars = p.store
	return p
}

// Run executes src to completion. It returns nil when the source is
// exhausted or an F instruction halts it, a *RuntimeError when an
// instruction fails, and the context error when ctx ends first. The
// context is checked between instructions, so a runaway W loop is
// cancellable.
func (p *Program) Run(ctx context.Context, src string) error {
	_, err := p.runSource(ctx, src)
	return err
}

// RunString is Run with a background context.
func (p *Program) RunString(src string) error {
	return p.Run(context.Background(), src)
}

/* ===========================
   PRIVATE: execution
   =========================== */

func (p *Program) newLexer(src string) *Lexer {
	if p.composed {
		return NewComposedLexer(src)
	}
	return NewLexer(src)
}

func (p *Program) runSource(ctx context.Context, src string) (signal, error) {
	lx := p.newLexer(src)
	for {
		in, ok := lx.Next()
		if !ok {
			return sigNone, nil
		}
		sig, err := p.exec(ctx, &in)
		if err != nil {
			return sigNone, err
		}
		if sig == sigHalt {
			return sigHalt, nil
		}
	}
}

func (p *Program) exec(ctx context.Context, in *Instr) (signal, error) {
	if err := ctx.Err(); err != nil {
		return sigNone, err
	}
	if p.logf != nil {
		p.logf("exec %s", in)
	}

	switch in.Kind {
	case SAVE_NUM:
		if err := p.vars.Set(in.Var, Num(in.Num)); err != nil {
			return sigNone, p.reErr(in, err)
		}

	case SAVE_STR:
		if err := p.vars.Set(in.Var, Text(in.Str)); err != nil {
			return sigNone, p.reErr(in, err)
		}

	case COPY:
		if err := p.vars.Copy(in.Var, in.Var2); err != nil {
			return sigNone, p.reErr(in, err)
		}

	case APPEND:
		target, err := p.vars.Get(in.Var)
		if err != nil {
			return sigNone, p.reErr(in, err)
		}
		source, err := p.vars.Get(in.Var2)
		if err != nil {
			return sigNone, p.reErr(in, err)
		}
		if err := p.vars.Set(in.Var, Text(target.Render()+source.Render())); err != nil {
			return sigNone, p.reErr(in, err)
		}

	case PRINT_VAR:
		v, err := p.vars.Get(in.Var)
		if err != nil {
			return sigNone, p.reErr(in, err)
		}
		if err := p.print(v.Render()); err != nil {
			return sigNone, err
		}

	case PRINT_STR:
		if err := p.print(in.Str); err != nil {
			return sigNone, err
		}

	case MATH_OP:
		return sigNone, p.execMath(in)

	case BOOL_OP:
		return sigNone, p.execBool(in)

	case LOOP:
		f, err := p.numArg(in, in.Var)
		if err != nil {
			return sigNone, err
		}
		// NaN compares false, giving zero iterations.
		count := math.Floor(math.Abs(f))
		for i := 0.0; i < count; i++ {
			sig, err := p.exec(ctx, in.Body)
			if err != nil {
				return sigNone, err
			}
			if sig == sigHalt {
				return sigHalt, nil
			}
		}

	case IF, UNLESS:
		b, err := p.boolArg(in, in.Var)
		if err != nil {
			return sigNone, err
		}
		run := b
		if in.Kind == UNLESS {
			run = !b
		}
		if run {
			return p.exec(ctx, in.Body)
		}

	case WHILE:
		for {
			b, err := p.boolArg(in, in.Var)
			if err != nil {
				return sigNone, err
			}
			if !b {
				return sigNone, nil
			}
			sig, err := p.exec(ctx, in.Body)
			if err != nil {
				return sigNone, err
			}
			if sig == sigHalt {
				return sigHalt, nil
			}
		}

	case RESET_VAR:
		if err := p.vars.Reset(in.Var); err != nil {
			return sigNone, p.reErr(in, err)
		}

	case RESET_ALL:
		p.vars.ResetAll()

	case GET_INPUT:
		return sigNone, p.execGetInput(in)

	case NEGATE:
		b, err := p.boolArg(in, in.Var)
		if err != nil {
			return sigNone, err
		}
		res := Num(1)
		if b {
			res = Num(0)
		}
		if err := p.vars.Set(in.Var, res); err != nil {
			return sigNone, p.reErr(in, err)
		}

	case FINISH:
		return sigHalt, nil

	case EXECUTE:
		return p.execProgram(ctx, in)

	case ILLEGAL:
		return sigNone, p.failf(in, ErrMalformedToken, "malformed token %q", in.Lexeme)

	default:
		return sigNone, p.failf(in, ErrMalformedToken, "unknown instruction %s", in.Kind)
	}
	return sigNone, nil
}

func (p *Program) execMath(in *Instr) error {
	b, err := p.numArg(in, in.Var2)
	if err != nil {
		return err
	}
	c, err := p.numArg(in, in.Var3)
	if err != nil {
		return err
	}
	var res float64
	switch in.Op {
	case 'A':
		res = b + c
	case 'S':
		res = b - c
	case 'M':
		res = b * c
	case 'D':
		if c == 0 {
			return p.failf(in, ErrDivisionByZero, "division by zero")
		}
		res = b / c
	case 'E':
		res = boolToNum(b == c)
	case 'G':
		res = boolToNum(b > c)
	case 'L':
		res = boolToNum(b < c)
	case 'R':
		if c == 0 {
			return p.failf(in, ErrDivisionByZero, "remainder by zero")
		}
		res = math.Mod(b, c)
	}
	if err := p.vars.Set(in.Var, Num(res)); err != nil {
		return p.reErr(in, err)
	}
	return nil
}

func (p *Program) execBool(in *Instr) error {
	b, err := p.boolArg(in, in.Var2)
	if err != nil {
		return err
	}
	c, err := p.boolArg(in, in.Var3)
	if err != nil {
		return err
	}
	var res bool
	switch in.Op {
	case 'E':
		res = b == c
	case 'A':
		res = b && c
	case 'O':
		res = b || c
	case 'X':
		res = b != c
	}
	if err := p.vars.Set(in.Var, Num(boolToNum(res))); err != nil {
		return p.reErr(in, err)
	}
	return nil
}

func (p *Program) execGetInput(in *Instr) error {
	// Range-check in the float domain: the scanned index may exceed any
	// int before conversion.
	if !(in.Num >= 0 && in.Num < float64(len(p.inputs))) {
		return p.failf(in, ErrInputRange, "no input at index %s (have %d)",
			strconv.FormatFloat(in.Num, 'f', -1, 64), len(p.inputs))
	}
	arg := p.inputs[int(in.Num)]
	switch in.Op {
	case 'N':
		if _, ok := arg.Number(); !ok {
			return p.failf(in, ErrTypeMismatch, "input %d is text, need a number", int(in.Num))
		}
		return p.reErrOrNil(in, p.vars.Set(in.Var, arg))
	default: // 'S'
		return p.reErrOrNil(in, p.vars.Set(in.Var, Text(arg.Render())))
	}
}

// execProgram runs the text of a variable as a nested program sharing
// the store, inputs, and output of the caller.
func (p *Program) execProgram(ctx context.Context, in *Instr) (signal, error) {
	v, err := p.vars.Get(in.Var)
	if err != nil {
		return sigNone, p.reErr(in, err)
	}
	src, ok := v.Text()
	if !ok {
		return sigNone, p.failf(in, ErrTypeMismatch, "variable %q does not hold a program", in.Var)
	}
	child := *p
	if len(in.Str) > 0 {
		names := make(map[byte]byte, len(in.Str)/2)
		for i := 0; i+1 < len(in.Str); i += 2 {
			names[in.Str[i]] = in.Str[i+1]
		}
		child.vars = aliasView{names: names, next: p.vars}
	}
	sig, err := child.runSource(ctx, src)
	if err != nil {
		if re, ok := err.(*RuntimeError); ok {
			return sigNone, p.failf(in, re.Kind, "in program %q: %s", in.Var, re.Msg)
		}
		return sigNone, err
	}
	return sig, nil
}

/* ===========================
   PRIVATE: helpers
   =========================== */

func (p *Program) print(s string) error {
	_, err := io.WriteString(p.out, s)
	return err
}

// numArg reads a variable that must hold a number.
func (p *Program) numArg(in *Instr, name byte) (float64, error) {
	v, err := p.vars.Get(name)
	if err != nil {
		return 0, p.reErr(in, err)
	}
	f, ok := v.Number()
	if !ok {
		return 0, p.failf(in, ErrTypeMismatch, "variable %q holds text, need a number", name)
	}
	return f, nil
}

// boolArg reads a variable as a condition.
func (p *Program) boolArg(in *Instr, name byte) (bool, error) {
	b, err := p.vars.AsBool(name)
	if err != nil {
		return false, p.reErr(in, err)
	}
	return b, nil
}

// failf builds a *RuntimeError at the instruction's position (1-based).
func (p *Program) failf(in *Instr, kind ErrorKind, format string, args ...any) error {
	return &RuntimeError{
		Kind: kind,
		Line: in.Line,
		Col:  in.Col + 1,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// reErr stamps the instruction's position onto a position-less
// *RuntimeError, such as one raised inside Storage. Other errors pass
// through.
func (p *Program) reErr(in *Instr, err error) error {
	if re, ok := err.(*RuntimeError); ok && re.Line == 0 {
		stamped := *re
		stamped.Line, stamped.Col = in.Line, in.Col+1
		return &stamped
	}
	return err
}

func (p *Program) reErrOrNil(in *Instr, err error) error {
	if err == nil {
		return nil
	}
	return p.reErr(in, err)
}

func boolToNum(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
