// lexer.go: the instruction scanner.
//
// Letterbox source is a flat stream of instructions with no statement
// separators; every instruction starts with an uppercase mnemonic letter
// and its shape is fixed by that letter:
//
//	S[a-z]-?[0-9]+(.[0-9]+)?   save number      S[a-z]'...'  save text
//	C[a-z][a-z]                copy             A[a-z][a-z]  append
//	P[a-z]                     print variable   P'...'       print literal
//	M[ASMDEGLR][a-z]{3}        math op          B[EAOX][a-z]{3}  bool op
//	L[a-z]<body>  loop         I[a-z]<body>     if
//	U[a-z]<body>  unless       W[a-z]<body>     while
//	R[a-z]  reset one          RA               reset all
//	G[NS][a-z][0-9]+           read input       N[a-z]       negate
//	F                          finish           X[a-z]([a-z][a-z])*  execute
//
// Comments run from '!' to end of line; blanks are insignificant
// elsewhere. Matching is greedy from the current position. When nothing
// matches, the scanner emits an ILLEGAL instruction holding exactly one
// rune and carries on, so scanning never fails; executing the ILLEGAL is
// what reports the error.
//
// The body of a control instruction (L, I, U, W) is itself a single
// instruction. The scanner supports two readings of it:
//
//   - NewLexer: the body is the longest run of letters after the
//     condition variable. That run is rescanned and the FIRST
//     instruction found becomes the body; the rest of the run is
//     discarded. "LaPbPc" is one loop whose body prints b, and nothing
//     prints c.
//   - NewComposedLexer: the body is simply the next instruction scanned
//     normally, so "LaPbPc" is a loop printing b followed by a separate
//     print of c. Bodies may then be any instruction, not only
//     letter-shaped ones, and may sit across blanks and comments.
package letterbox

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// InstrKind represents the kind of instruction.
type InstrKind int

const (
	// ILLEGAL marks input the scanner could not recognize.
	ILLEGAL InstrKind = iota

	SAVE_NUM
	SAVE_STR
	COPY
	APPEND
	PRINT_VAR
	PRINT_STR
	MATH_OP
	BOOL_OP
	LOOP
	IF
	UNLESS
	WHILE
	RESET_VAR
	RESET_ALL
	GET_INPUT
	NEGATE
	FINISH
	EXECUTE
)

var instrKindNames = map[InstrKind]string{
	ILLEGAL:   "ILLEGAL",
	SAVE_NUM:  "SAVE_NUM",
	SAVE_STR:  "SAVE_STR",
	COPY:      "COPY",
	APPEND:    "APPEND",
	PRINT_VAR: "PRINT_VAR",
	PRINT_STR: "PRINT_STR",
	MATH_OP:   "MATH_OP",
	BOOL_OP:   "BOOL_OP",
	LOOP:      "LOOP",
	IF:        "IF",
	UNLESS:    "UNLESS",
	WHILE:     "WHILE",
	RESET_VAR: "RESET_VAR",
	RESET_ALL: "RESET_ALL",
	GET_INPUT: "GET_INPUT",
	NEGATE:    "NEGATE",
	FINISH:    "FINISH",
	EXECUTE:   "EXECUTE",
}

func (k InstrKind) String() string {
	if s, ok := instrKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("InstrKind(%d)", int(k))
}

// Operator letters accepted by MATH_OP and BOOL_OP.
const (
	mathOps = "ASMDEGLR"
	boolOps = "EAOX"
)

// Instr is one scanned instruction. The operand fields are used per Kind:
//
//	SAVE_NUM    Var, Num
//	SAVE_STR    Var, Str
//	COPY        Var (from), Var2 (to)
//	APPEND      Var (target), Var2 (source)
//	PRINT_VAR   Var
//	PRINT_STR   Str
//	MATH_OP     Op, Var (destination), Var2 and Var3 (operands)
//	BOOL_OP     Op, Var (destination), Var2 and Var3 (operands)
//	LOOP, IF, UNLESS, WHILE   Var (condition), Body
//	RESET_VAR   Var
//	RESET_ALL   none
//	GET_INPUT   Op ('N' or 'S'), Var, Num (argument index)
//	NEGATE      Var
//	FINISH      none
//	EXECUTE     Var, Str (alias pairs, inner name then caller name)
//	ILLEGAL     none
//
// Lexeme is the exact source slice the instruction consumed. Line is
// 1-based; Col is the 0-based column of the first byte.
type Instr struct {
	Kind InstrKind
	Var  byte
	Var2 byte
	Var3 byte
	Op   byte
	Num  float64
	Str  string
	Body *Instr

	Lexeme string
	Line   int
	Col    int
}

// Lexer scans a letterbox source string into instructions.
type Lexer struct {
	src      string
	cur      int  // current index
	line     int  // 1-based
	col      int  // 0-based column within line
	composed bool // body scanning mode, see the file comment
}

// NewLexer creates a scanner using the captured body reading.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1}
}

// NewComposedLexer creates a scanner using the composed body reading.
func NewComposedLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1, composed: true}
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	switch {
	case ch == '\n':
		l.line++
		l.col = 0
	case ch&0xC0 == 0x80:
		// UTF-8 continuation byte, still the same column.
	default:
		l.col++
	}
	return ch, true
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

// skipBlanks consumes whitespace and '!' comments (which run to end of
// line).
func (l *Lexer) skipBlanks() {
	for !l.isAtEnd() {
		switch l.src[l.cur] {
		case ' ', '\t', '\n', '\f', '\r':
			l.advance()
		case '!':
			for !l.isAtEnd() && l.src[l.cur] != '\n' && l.src[l.cur] != '\r' {
				l.advance()
			}
		default:
			return
		}
	}
}

// Next scans and returns the next instruction. The second result is
// false once the input is exhausted.
func (l *Lexer) Next() (Instr, bool) {
	l.skipBlanks()
	if l.isAtEnd() {
		return Instr{}, false
	}

	startCur, startLine, startCol := l.cur, l.line, l.col

	if l.composed && isControl(l.src[l.cur]) {
		if in, ok := l.scanComposedControl(); ok {
			in.Lexeme = l.src[startCur:l.cur]
			in.Line, in.Col = startLine, startCol
			return in, true
		}
	} else {
		if in, width, ok := l.match(); ok {
			l.advanceN(width)
			in.Lexeme = l.src[startCur:l.cur]
			in.Line, in.Col = startLine, startCol
			return in, true
		}
	}

	// No rule matched here. Consume exactly one rune and report it.
	_, size := utf8.DecodeRuneInString(l.src[l.cur:])
	l.advanceN(size)
	return Instr{
		Kind:   ILLEGAL,
		Lexeme: l.src[startCur:l.cur],
		Line:   startLine,
		Col:    startCol,
	}, true
}

// Scan consumes the remaining input and returns every instruction.
func (l *Lexer) Scan() []Instr {
	var out []Instr
	for {
		in, ok := l.Next()
		if !ok {
			return out
		}
		out = append(out, in)
	}
}

/* ===========================
   PRIVATE: matchers
   =========================== */

// match tries every instruction shape at the current position without
// committing. It returns the instruction payload and the byte width to
// consume. Control instructions handled here use the captured reading;
// the composed reading never reaches this function for them.
func (l *Lexer) match() (Instr, int, bool) {
	rest := l.src[l.cur:]
	switch rest[0] {
	case 'S':
		return matchSave(rest)
	case 'C':
		return matchPair(rest, COPY)
	case 'A':
		return matchPair(rest, APPEND)
	case 'P':
		return matchPrint(rest)
	case 'M':
		return matchOp4(rest, MATH_OP, mathOps)
	case 'B':
		return matchOp4(rest, BOOL_OP, boolOps)
	case 'L', 'I', 'U', 'W':
		return l.matchCapturedControl(rest)
	case 'R':
		return matchReset(rest)
	case 'G':
		return matchGetInput(rest)
	case 'N':
		return matchSingleVar(rest, NEGATE)
	case 'F':
		return Instr{Kind: FINISH}, 1, true
	case 'X':
		return matchExecute(rest)
	}
	return Instr{}, 0, false
}

func matchSave(rest string) (Instr, int, bool) {
	if len(rest) < 3 || !IsVarName(rest[1]) {
		return Instr{}, 0, false
	}
	if rest[2] == '\'' {
		j := strings.IndexByte(rest[3:], '\'')
		if j < 0 {
			return Instr{}, 0, false
		}
		end := 3 + j // closing quote
		return Instr{Kind: SAVE_STR, Var: rest[1], Str: rest[3:end]}, end + 1, true
	}
	f, width := matchNumber(rest, 2)
	if width == 0 {
		return Instr{}, 0, false
	}
	return Instr{Kind: SAVE_NUM, Var: rest[1], Num: f}, width, true
}

// matchNumber matches -?[0-9]+(.[0-9]+)? starting at index i and returns
// the value and the end index, 0 when there is no number. A '.' not
// followed by a digit is left unconsumed.
func matchNumber(s string, i int) (float64, int) {
	j := i
	if j < len(s) && s[j] == '-' {
		j++
	}
	d := j
	for j < len(s) && isDigit(s[j]) {
		j++
	}
	if j == d {
		return 0, 0
	}
	if j+1 < len(s) && s[j] == '.' && isDigit(s[j+1]) {
		j++
		for j < len(s) && isDigit(s[j]) {
			j++
		}
	}
	// The slice shape guarantees syntax; out-of-range literals saturate
	// to +-Inf, matching the reference behavior.
	f, _ := strconv.ParseFloat(s[i:j], 64)
	return f, j
}

func matchPair(rest string, kind InstrKind) (Instr, int, bool) {
	if len(rest) < 3 || !IsVarName(rest[1]) || !IsVarName(rest[2]) {
		return Instr{}, 0, false
	}
	return Instr{Kind: kind, Var: rest[1], Var2: rest[2]}, 3, true
}

func matchPrint(rest string) (Instr, int, bool) {
	if len(rest) < 2 {
		return Instr{}, 0, false
	}
	if IsVarName(rest[1]) {
		return Instr{Kind: PRINT_VAR, Var: rest[1]}, 2, true
	}
	if rest[1] == '\'' {
		j := strings.IndexByte(rest[2:], '\'')
		if j < 0 {
			return Instr{}, 0, false
		}
		end := 2 + j
		return Instr{Kind: PRINT_STR, Str: rest[2:end]}, end + 1, true
	}
	return Instr{}, 0, false
}

func matchOp4(rest string, kind InstrKind, ops string) (Instr, int, bool) {
	if len(rest) < 5 || !isUpper(rest[1]) ||
		!IsVarName(rest[2]) || !IsVarName(rest[3]) || !IsVarName(rest[4]) {
		return Instr{}, 0, false
	}
	if strings.IndexByte(ops, rest[1]) < 0 {
		return Instr{}, 0, false
	}
	return Instr{Kind: kind, Op: rest[1], Var: rest[2], Var2: rest[3], Var3: rest[4]}, 5, true
}

// matchCapturedControl implements the captured body reading: the longest
// letter run after the condition is the body span. The span is rescanned
// and its first instruction becomes the body; whatever the span holds
// beyond that is dropped.
func (l *Lexer) matchCapturedControl(rest string) (Instr, int, bool) {
	if len(rest) < 2 || !IsVarName(rest[1]) {
		return Instr{}, 0, false
	}
	j := 2
	for j < len(rest) && isLetter(rest[j]) {
		j++
	}
	if j == 2 {
		return Instr{}, 0, false
	}
	sub := &Lexer{src: rest[2:j], line: l.line, col: l.col + 2}
	body, _ := sub.Next() // the span is non-empty, so this always yields
	return Instr{Kind: controlKind(rest[0]), Var: rest[1], Body: &body}, j, true
}

// scanComposedControl implements the composed body reading: commit the
// mnemonic and condition, then scan the body as the next instruction. A
// control instruction at end of input does not match.
func (l *Lexer) scanComposedControl() (Instr, bool) {
	rest := l.src[l.cur:]
	if len(rest) < 2 || !IsVarName(rest[1]) {
		return Instr{}, false
	}
	save := *l
	l.advanceN(2)
	body, ok := l.Next()
	if !ok {
		*l = save
		return Instr{}, false
	}
	return Instr{Kind: controlKind(rest[0]), Var: rest[1], Body: &body}, true
}

func matchReset(rest string) (Instr, int, bool) {
	if len(rest) < 2 {
		return Instr{}, 0, false
	}
	if rest[1] == 'A' {
		return Instr{Kind: RESET_ALL}, 2, true
	}
	if IsVarName(rest[1]) {
		return Instr{Kind: RESET_VAR, Var: rest[1]}, 2, true
	}
	return Instr{}, 0, false
}

func matchGetInput(rest string) (Instr, int, bool) {
	if len(rest) < 4 || !IsVarName(rest[2]) || !isDigit(rest[3]) {
		return Instr{}, 0, false
	}
	if rest[1] != 'N' && rest[1] != 'S' {
		return Instr{}, 0, false
	}
	j := 3
	for j < len(rest) && isDigit(rest[j]) {
		j++
	}
	f, _ := strconv.ParseFloat(rest[3:j], 64)
	return Instr{Kind: GET_INPUT, Op: rest[1], Var: rest[2], Num: f}, j, true
}

func matchSingleVar(rest string, kind InstrKind) (Instr, int, bool) {
	if len(rest) < 2 || !IsVarName(rest[1]) {
		return Instr{}, 0, false
	}
	return Instr{Kind: kind, Var: rest[1]}, 2, true
}

func matchExecute(rest string) (Instr, int, bool) {
	if len(rest) < 2 || !IsVarName(rest[1]) {
		return Instr{}, 0, false
	}
	j := 2
	for j+1 < len(rest) && IsVarName(rest[j]) && IsVarName(rest[j+1]) {
		j += 2
	}
	return Instr{Kind: EXECUTE, Var: rest[1], Str: rest[2:j]}, j, true
}

/* ===========================
   PRIVATE: helpers
   =========================== */

func isDigit(b byte) bool  { return b >= '0' && b <= '9' }
func isUpper(b byte) bool  { return b >= 'A' && b <= 'Z' }
func isLetter(b byte) bool { return IsVarName(b) || isUpper(b) }

func isControl(b byte) bool {
	return b == 'L' || b == 'I' || b == 'U' || b == 'W'
}

func controlKind(b byte) InstrKind {
	switch b {
	case 'L':
		return LOOP
	case 'I':
		return IF
	case 'U':
		return UNLESS
	default:
		return WHILE
	}
}
