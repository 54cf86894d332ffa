// value.go: the tagged value type stored in variables.
//
// A letterbox variable holds either a number (float64) or text (string).
// There is no null: reading a variable that was never written yields
// Num(0), and the zero Val behaves as Num(0) as well.
package letterbox

import (
	"fmt"
	"strconv"
)

// ValTag discriminates the two value shapes.
type ValTag int

const (
	VTNum ValTag = iota
	VTText
)

// Val is a tagged union: Data holds a float64 when Tag is VTNum and a
// string when Tag is VTText. Build values with Num and Text rather than
// struct literals.
type Val struct {
	Tag  ValTag
	Data any
}

// Num returns a numeric value.
func Num(f float64) Val { return Val{Tag: VTNum, Data: f} }

// Text returns a text value.
func Text(s string) Val { return Val{Tag: VTText, Data: s} }

// Number reports the float64 payload. The zero Val counts as Number(0).
func (v Val) Number() (float64, bool) {
	if v.Tag != VTNum {
		return 0, false
	}
	if v.Data == nil {
		return 0, true
	}
	return v.Data.(float64), true
}

// Text reports the string payload.
func (v Val) Text() (string, bool) {
	if v.Tag != VTText {
		return "", false
	}
	if v.Data == nil {
		return "", true
	}
	return v.Data.(string), true
}

// Truthy reports whether the value counts as true in a condition.
// Numbers are true unless exactly zero; text is always true, even "".
func (v Val) Truthy() bool {
	if f, ok := v.Number(); ok {
		return f != 0
	}
	return true
}

// Render is the display form used by print and append: text verbatim,
// numbers in plain decimal notation (no exponent), with no trailing
// zeros after the point. Render(Num(4.0)) is "4", Render(Num(4.4)) is
// "4.4".
func (v Val) Render() string {
	if s, ok := v.Text(); ok {
		return s
	}
	f, _ := v.Number()
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// String is the debug form: numbers render as by Render, text is quoted.
func (v Val) String() string {
	if s, ok := v.Text(); ok {
		return fmt.Sprintf("%q", s)
	}
	return v.Render()
}
