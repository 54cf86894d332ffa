package letterbox

import (
	"errors"
	"strings"
	"testing"
)

func mustContain(t *testing.T, s, sub string) {
	t.Helper()
	if !strings.Contains(s, sub) {
		t.Fatalf("expected output to contain %q\n--- output ---\n%s", sub, s)
	}
}

func runForError(t *testing.T, src string) error {
	t.Helper()
	err := NewProgram().RunString(src)
	if err == nil {
		t.Fatalf("expected a runtime error from %q, got nil", src)
	}
	return err
}

func Test_RuntimeError_Format(t *testing.T) {
	err := runForError(t, "Sa8 Sb0\nMDcab\nPc")

	var re *RuntimeError
	if !errors.As(err, &re) {
		t.Fatalf("want *RuntimeError, got %T: %v", err, err)
	}
	if re.Kind != ErrDivisionByZero {
		t.Fatalf("want division by zero, got %v", re.Kind)
	}
	if re.Line != 2 || re.Col != 1 {
		t.Fatalf("want position 2:1, got %d:%d", re.Line, re.Col)
	}
	mustContain(t, re.Error(), "RUNTIME ERROR at 2:1:")

	positionless := &RuntimeError{Kind: ErrInvalidVariable, Msg: "invalid variable name 'Q' (want a..z)"}
	if got := positionless.Error(); got != "RUNTIME ERROR: invalid variable name 'Q' (want a..z)" {
		t.Fatalf("position-less format wrong: %q", got)
	}
}

func Test_ErrorWrap_ShowsCaretAndContext(t *testing.T) {
	src := "Sa8 Sb0\nMDcab\nPc"
	err := runForError(t, src)

	wrapped := WrapErrorWithName(err, "bad.lb", src)
	want := "RUNTIME ERROR in bad.lb at 2:1: division by zero\n" +
		"\n" +
		"   1 | Sa8 Sb0\n" +
		"   2 | MDcab\n" +
		"     | ^\n" +
		"   3 | Pc\n"
	if got := wrapped.Error(); got != want {
		t.Fatalf("snippet mismatch\n--- want ---\n%s--- got ---\n%s", want, got)
	}
}

func Test_ErrorWrap_CaretColumn(t *testing.T) {
	// The error sits mid-line; the caret must sit under its column.
	src := "Sa1 $"
	err := runForError(t, src)

	msg := WrapErrorWithSource(err, src).Error()
	mustContain(t, msg, "RUNTIME ERROR at 1:5:")
	mustContain(t, msg, "   1 | Sa1 $")
	mustContain(t, msg, "     |     ^")
}

func Test_ErrorWrap_PassesOtherErrorsThrough(t *testing.T) {
	plain := errors.New("disk on fire")
	if got := WrapErrorWithSource(plain, "Pa"); got != plain {
		t.Fatalf("non-runtime errors must pass through, got %v", got)
	}

	positionless := &RuntimeError{Kind: ErrInvalidVariable, Msg: "nope"}
	if got := WrapErrorWithSource(positionless, "Pa"); got != error(positionless) {
		t.Fatalf("position-less errors must pass through, got %v", got)
	}
}

func Test_ErrorWrap_ClampsOutOfRangePositions(t *testing.T) {
	// A position past the end of the source must not panic the renderer.
	err := &RuntimeError{Kind: ErrTypeMismatch, Line: 99, Col: 99, Msg: "boom"}
	msg := WrapErrorWithSource(err, "Pa").Error()
	mustContain(t, msg, "boom")
	mustContain(t, msg, "   1 | Pa")
}

func Test_ErrorKind_Strings(t *testing.T) {
	cases := map[ErrorKind]string{
		ErrMalformedToken:  "malformed token",
		ErrInvalidVariable: "invalid variable",
		ErrTypeMismatch:    "type mismatch",
		ErrDivisionByZero:  "division by zero",
		ErrInputRange:      "input index out of range",
	}
	for kind, want := range cases {
		if kind.String() != want {
			t.Fatalf("kind %d: want %q, got %q", int(kind), want, kind.String())
		}
	}
}
