// errors.go: runtime diagnostics and caret-snippet rendering.
//
// Every failure a program can provoke is reported as a *RuntimeError
// carrying an ErrorKind plus the 1-based line and column of the
// instruction that raised it. `WrapErrorWithSource` (and the labeled
// variant `WrapErrorWithName`) turn such an error into a readable
// multi-line snippet with a caret pointing at the offending column:
//
//	RUNTIME ERROR in fib.lb at 3:7: division by zero
//
//	   2 | Sa8 Sb0
//	   3 |       MDcab
//	     |       ^
//	   4 | Pc
//
// Errors that are not *RuntimeError pass through unchanged.
package letterbox

import (
	"fmt"
	"strings"
)

// ErrorKind classifies a runtime failure.
type ErrorKind int

const (
	// ErrMalformedToken: execution reached input the scanner could not
	// recognize.
	ErrMalformedToken ErrorKind = iota
	// ErrInvalidVariable: a name outside 'a'..'z' reached the store.
	ErrInvalidVariable
	// ErrTypeMismatch: an operation got text where it needs a number, or
	// the other way around.
	ErrTypeMismatch
	// ErrDivisionByZero: division or remainder with a zero divisor.
	ErrDivisionByZero
	// ErrInputRange: a program asked for an input argument that was not
	// supplied.
	ErrInputRange
)

func (k ErrorKind) String() string {
	switch k {
	case ErrMalformedToken:
		return "malformed token"
	case ErrInvalidVariable:
		return "invalid variable"
	case ErrTypeMismatch:
		return "type mismatch"
	case ErrDivisionByZero:
		return "division by zero"
	case ErrInputRange:
		return "input index out of range"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// RuntimeError is the error type for every failure raised while a
// program runs. Line and Col are 1-based; both are zero when the error
// was raised outside any instruction (for example by direct Storage use).
type RuntimeError struct {
	Kind ErrorKind
	Line int
	Col  int
	Msg  string
}

func (e *RuntimeError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("RUNTIME ERROR: %s", e.Msg)
	}
	return fmt.Sprintf("RUNTIME ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

/* ===========================
   PUBLIC API
   =========================== */

// WrapErrorWithSource returns an error augmented with a caret-annotated
// snippet of the provided source. It recognizes *RuntimeError and leaves
// other errors untouched.
func WrapErrorWithSource(err error, src string) error {
	return WrapErrorWithName(err, "", src)
}

// WrapErrorWithName is WrapErrorWithSource with a source label (usually
// a file name) added to the header.
func WrapErrorWithName(err error, srcName string, src string) error {
	e, ok := err.(*RuntimeError)
	if !ok || e.Line == 0 {
		return err
	}
	return fmt.Errorf("%s", prettyErrorStringLabeled(src, "RUNTIME ERROR", srcName, e.Line, e.Col, e.Msg))
}

/* ===========================
   PRIVATE: snippet rendering
   =========================== */

// prettyErrorStringLabeled builds a Python-like snippet with a header and
// a caret. It shows at most one previous and one next line when available.
// Coordinates are treated as 1-based and clamped to the source bounds.
func prettyErrorStringLabeled(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	caretPad := col - 1
	if caretPad < 0 {
		caretPad = 0
	}
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", caretPad))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
