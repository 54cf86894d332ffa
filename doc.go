// Package letterbox interprets the letterbox language: 26 variables
// named 'a' to 'z', values that are either numbers or text, and
// single-letter instructions that read like postage shorthand. Programs
// are scanned and executed in one pass.
//
// The quickest way in:
//
//	var out bytes.Buffer
//	p := letterbox.NewProgram(letterbox.WithOutput(&out))
//	err := p.RunString("Sa4.4 P'value: ' Pa")
//	// out holds "value: 4.4"
//
// Storage gives direct access to variables, Lexer exposes the scanner
// on its own, and the options on NewProgram cover inputs, tracing,
// cancellation via Run's context, and the alternative body scanning
// mode described in the Lexer documentation. Error reports carry source
// positions; WrapErrorWithSource renders them as caret snippets.
package letterbox
