// printer_test.go
package letterbox

import (
	"testing"
)

func Test_Printer_InstructionStrings(t *testing.T) {
	cases := []struct{ src, want string }{
		{"Sa4.5", `SAVE_NUM a = 4.5`},
		{"Sa-0.5", `SAVE_NUM a = -0.5`},
		{"Sb'hi'", `SAVE_STR b = "hi"`},
		{"Cab", `COPY a -> b`},
		{"Aab", `APPEND a += b`},
		{"Pa", `PRINT_VAR a`},
		{"P'x y'", `PRINT_STR "x y"`},
		{"MAcab", `MATH_OP c = a A b`},
		{"BEcab", `BOOL_OP c = a E b`},
		{"LaPb", `LOOP a (PRINT_VAR b)`},
		{"IaPb", `IF a (PRINT_VAR b)`},
		{"UaPb", `UNLESS a (PRINT_VAR b)`},
		{"WaPb", `WHILE a (PRINT_VAR b)`},
		{"Ra", `RESET_VAR a`},
		{"RA", `RESET_ALL`},
		{"GNa0", `GET_INPUT a = arg 0 (N)`},
		{"GSb12", `GET_INPUT b = arg 12 (S)`},
		{"Nk", `NEGATE k`},
		{"F", `FINISH`},
		{"Xs", `EXECUTE s`},
		{"Xsabcd", `EXECUTE s [a->b c->d]`},
		{"$", `ILLEGAL "$"`},
	}
	for _, tc := range cases {
		instrs := scanAll(t, tc.src)
		if len(instrs) != 1 {
			t.Fatalf("scan %q: want one instruction, got %d", tc.src, len(instrs))
		}
		if got := instrs[0].String(); got != tc.want {
			t.Errorf("String of %q = %q, want %q", tc.src, got, tc.want)
		}
	}
}

func Test_Printer_ProgramListing(t *testing.T) {
	src := "Sa3 Ss'Pa'\nLaXs"
	got := FormatProgram(scanAll(t, src))
	want := "   1:0    SAVE_NUM a = 3\n" +
		"   1:4    SAVE_STR s = \"Pa\"\n" +
		"   2:0    LOOP a\n" +
		"   2:2      EXECUTE s\n"
	if got != want {
		t.Fatalf("listing mismatch:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func Test_Printer_NestedBodiesIndent(t *testing.T) {
	got := FormatProgram(scanAll(t, "WaIbPc"))
	want := "   1:0    WHILE a\n" +
		"   1:2      IF b\n" +
		"   1:4        PRINT_VAR c\n"
	if got != want {
		t.Fatalf("listing mismatch:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func Test_Printer_ListingSurvivesIllegal(t *testing.T) {
	got := FormatProgram(scanAll(t, "Pa $"))
	want := "   1:0    PRINT_VAR a\n" +
		"   1:3    ILLEGAL \"$\"\n"
	if got != want {
		t.Fatalf("listing mismatch:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}
