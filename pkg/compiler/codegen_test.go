package compiler

import (
	"strings"
	"testing"
)

func generate(t *testing.T, src string) string {
	t.Helper()
	prog, errs := Parse(Lex(src))
	if len(errs) != 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	out, err := Generate(prog, NewSymbolTable())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return out
}

func generateErr(t *testing.T, src string) error {
	t.Helper()
	prog, errs := Parse(Lex(src))
	if len(errs) != 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	_, err := Generate(prog, NewSymbolTable())
	if err == nil {
		t.Fatalf("Generate(%q) succeeded; want error", src)
	}
	return err
}

func TestGenerateMainSplice(t *testing.T) {
	got := generate(t, "void main() { halt(); }")
	want := `    CALL F_main
    HLT

; void main(0 param)
F_main:
    HLT
F_main_end:
    RET
`
	if got != want {
		t.Errorf("assembly = %q; want %q", got, want)
	}
}

// Without a main function the program is just the top-level statements
// followed by the terminating HLT.
func TestGenerateNoMain(t *testing.T) {
	got := generate(t, "uint8 x = 5;")
	want := `; var uint8 x at 0x80
    LDI 5
    STA 128    ; x
    HLT
`
	if got != want {
		t.Errorf("assembly = %q; want %q", got, want)
	}
}

func TestGenerateBinaryAdd(t *testing.T) {
	got := generate(t, "uint8 a = 2 + 3;")
	want := `; var uint8 a at 0x80
    LDI 2
    STA 129
    LDI 3
    ADD 129
    STA 128    ; a
    HLT
`
	if got != want {
		t.Errorf("assembly = %q; want %q", got, want)
	}
}

// Subtraction reloads the spilled left operand so the machine computes
// left - right, not right - left.
func TestGenerateSubtractionOrder(t *testing.T) {
	got := generate(t, "uint8 d = 5 - 2;")
	want := `; var uint8 d at 0x80
    LDI 5
    STA 129
    LDI 2
    STA 130
    LDA 129
    SUB 130
    STA 128    ; d
    HLT
`
	if got != want {
		t.Errorf("assembly = %q; want %q", got, want)
	}
}

// Comparisons lower to the same bare subtraction as '-'.
func TestGenerateComparisonLowersToSub(t *testing.T) {
	got := generate(t, "uint8 e = 1 < 2;")
	for _, op := range []string{"JZ", "JNZ", "JC"} {
		if strings.Contains(got, op) {
			t.Errorf("comparison emitted %s; it lowers to a plain SUB:\n%s", op, got)
		}
	}
	if !strings.Contains(got, "    SUB 130\n") {
		t.Errorf("comparison did not emit SUB:\n%s", got)
	}
}

func TestGenerateUnary(t *testing.T) {
	got := generate(t, "uint8 n = -3;")
	want := `; var uint8 n at 0x80
    LDI 3
    STA 129
    LDI 0
    SUB 129
    STA 128    ; n
    HLT
`
	if got != want {
		t.Errorf("negation = %q; want %q", got, want)
	}

	got = generate(t, "bool b = !true;")
	if !strings.Contains(got, "    LDI 1\n    NOT\n") {
		t.Errorf("'!' should lower to NOT:\n%s", got)
	}
}

func TestGenerateUserCall(t *testing.T) {
	got := generate(t, `
uint8 add(uint8 a, uint8 b) { return a + b; }
void main() { uint8 r = add(1, 2); }
`)
	want := `    CALL F_main
    HLT

; uint8 add(2 param)
F_add:
    LDA 128    ; a
    STA 130
    LDA 129    ; b
    ADD 130
    JMP F_add_end
F_add_end:
    RET

; void main(0 param)
F_main:
; var uint8 r at 0x83
    LDI 1
    STA 128    ; arg a
    LDI 2
    STA 129    ; arg b
    CALL F_add
    STA 131    ; r
F_main_end:
    RET
`
	if got != want {
		t.Errorf("assembly = %q; want %q", got, want)
	}
}

func TestGenerateBuiltins(t *testing.T) {
	got := generate(t, "void main() { output(3, input(0)); }")
	if !strings.Contains(got, "    IN 0\n    OUT 3\n") {
		t.Errorf("I/O lowering:\n%s", got)
	}

	got = generate(t, "void main() { delay(10); }")
	if !strings.Contains(got, "    LDI 10\nL0:\n    SUI 1\n    JNZ L0\n") {
		t.Errorf("delay lowering:\n%s", got)
	}
}

func TestGenerateControlFlow(t *testing.T) {
	got := generate(t, "void main() { if (1) { halt(); } else { delay(1); } }")
	for _, frag := range []string{"    JZ L0\n", "    JMP L1\n", "L0:\n", "L1:\n"} {
		if !strings.Contains(got, frag) {
			t.Errorf("if/else missing %q:\n%s", frag, got)
		}
	}

	got = generate(t, "void main() { while (1) { delay(1); } }")
	for _, frag := range []string{"L0:\n", "    JZ L1\n", "    JMP L0\n", "L1:\n"} {
		if !strings.Contains(got, frag) {
			t.Errorf("while missing %q:\n%s", frag, got)
		}
	}
}

func TestGenerateArrayStore(t *testing.T) {
	got := generate(t, "uint8 buf[4];\nbuf[2] = 9;")
	if !strings.Contains(got, "    STA 130    ; buf[2]\n") {
		t.Errorf("element store should hit base+2:\n%s", got)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		contains string
	}{
		{"undefined function", "void main() { undefined_function(); }", `undefined function "undefined_function"`},
		{"undefined variable", "void main() { uint8 x = y; }", `undefined variable "y"`},
		{"wrong user call arity", "uint8 f(uint8 a) { return a; }\nvoid main() { f(); }", "f expects 1 argument(s), got 0"},
		{"return at top level", "return 1;", "return outside of function"},
		{"array read without index", "uint8 b[4];\nuint8 x = b;", "used without an index"},
		{"array store without index", "uint8 b[4];\nb = 1;", "assigned without an index"},
		{"variable index", "uint8 b[4];\nuint8 i = 0;\nb[i] = 1;", "must be a constant"},
		{"index out of range", "uint8 b[4];\nb[4] = 1;", "out of range"},
		{"variable port", "void main() { uint8 p = 1; output(p, 2); }", "port must be a constant"},
		{"parameter shadowing", "uint8 a = 1;\nvoid f(uint8 a) { }\nvoid main() { f(2); }", "shadows an existing variable"},
		{"arena overflow", "uint8 b1[100];\nuint8 b2[100];", "data segment overflow"},
		{"redeclaration", "uint8 x = 1;\nuint8 x = 2;", `redeclaration of "x"`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := generateErr(t, tc.src)
			if !strings.Contains(err.Error(), tc.contains) {
				t.Errorf("error %q does not mention %q", err, tc.contains)
			}
		})
	}
}
