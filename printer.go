// printer.go: human-readable instruction listings.
package letterbox

import (
	"fmt"
	"strings"
)

// String renders the instruction on one line, with control bodies
// inlined in parentheses.
func (in Instr) String() string {
	switch in.Kind {
	case SAVE_NUM:
		return fmt.Sprintf("SAVE_NUM %c = %s", in.Var, Num(in.Num).Render())
	case SAVE_STR:
		return fmt.Sprintf("SAVE_STR %c = %q", in.Var, in.Str)
	case COPY:
		return fmt.Sprintf("COPY %c -> %c", in.Var, in.Var2)
	case APPEND:
		return fmt.Sprintf("APPEND %c += %c", in.Var, in.Var2)
	case PRINT_VAR:
		return fmt.Sprintf("PRINT_VAR %c", in.Var)
	case PRINT_STR:
		return fmt.Sprintf("PRINT_STR %q", in.Str)
	case MATH_OP, BOOL_OP:
		return fmt.Sprintf("%s %c = %c %c %c", in.Kind, in.Var, in.Var2, in.Op, in.Var3)
	case LOOP, IF, UNLESS, WHILE:
		return fmt.Sprintf("%s %c (%s)", in.Kind, in.Var, in.Body)
	case RESET_VAR:
		return fmt.Sprintf("RESET_VAR %c", in.Var)
	case GET_INPUT:
		return fmt.Sprintf("GET_INPUT %c = arg %s (%c)", in.Var, Num(in.Num).Render(), in.Op)
	case NEGATE:
		return fmt.Sprintf("NEGATE %c", in.Var)
	case EXECUTE:
		if in.Str == "" {
			return fmt.Sprintf("EXECUTE %c", in.Var)
		}
		return fmt.Sprintf("EXECUTE %c %s", in.Var, formatAliases(in.Str))
	case ILLEGAL:
		return fmt.Sprintf("ILLEGAL %q", in.Lexeme)
	default:
		return in.Kind.String()
	}
}

// FormatProgram renders scanned instructions one per line with their
// source positions, indenting control bodies under their heads.
func FormatProgram(instrs []Instr) string {
	var b strings.Builder
	for i := range instrs {
		writeInstr(&b, &instrs[i], 0)
	}
	return b.String()
}

func writeInstr(b *strings.Builder, in *Instr, depth int) {
	fmt.Fprintf(b, "%4d:%-4d %s%s\n", in.Line, in.Col, strings.Repeat("  ", depth), headline(in))
	if in.Body != nil {
		writeInstr(b, in.Body, depth+1)
	}
}

// headline is String without the inlined body, for indented listings.
func headline(in *Instr) string {
	switch in.Kind {
	case LOOP, IF, UNLESS, WHILE:
		return fmt.Sprintf("%s %c", in.Kind, in.Var)
	default:
		return in.String()
	}
}

func formatAliases(pairs string) string {
	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i+1 < len(pairs); i += 2 {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(pairs[i])
		b.WriteString("->")
		b.WriteByte(pairs[i+1])
	}
	b.WriteByte(']')
	return b.String()
}
