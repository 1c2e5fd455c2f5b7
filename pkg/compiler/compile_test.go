package compiler

import (
	"bytes"
	"strings"
	"testing"
)

func TestCompileAssemblySource(t *testing.T) {
	result := CompileAssembly("LDI 42\n")
	if !result.Success {
		t.Fatalf("assembly compile failed: %v", result.Errors)
	}
	if want := []byte{0x13, 42}; !bytes.Equal(result.Binary, want) {
		t.Errorf("binary = % X; want % X", result.Binary, want)
	}

	kinds := make([]string, len(result.Artifacts))
	for i, a := range result.Artifacts {
		kinds[i] = a.Kind
	}
	if want := []string{"bin", "hex", "map"}; !equalStrings(kinds, want) {
		t.Errorf("artifact kinds = %v; want %v", kinds, want)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestCompileHighLevel(t *testing.T) {
	result := Compile("void main() { halt(); }", Options{Name: "prog"})
	if !result.Success {
		t.Fatalf("compile failed: %v", result.Errors)
	}
	if !strings.Contains(result.Assembly, "F_main:") {
		t.Errorf("assembly missing main entry label:\n%s", result.Assembly)
	}

	// CALL F_main; HLT; F_main: HLT; F_main_end: RET
	want := []byte{0x40, 3, 0x01, 0x01, 0x41}
	if !bytes.Equal(result.Binary, want) {
		t.Errorf("binary = % X; want % X", result.Binary, want)
	}

	names := make([]string, len(result.Artifacts))
	for i, a := range result.Artifacts {
		names[i] = a.Name
	}
	if want := []string{"prog.asm", "prog.bin", "prog.hex", "prog.map"}; !equalStrings(names, want) {
		t.Errorf("artifact names = %v; want %v", names, want)
	}
}

func TestCompileDefaultName(t *testing.T) {
	result := Compile("void main() { halt(); }", Options{})
	if !result.Success {
		t.Fatalf("compile failed: %v", result.Errors)
	}
	if result.Artifacts[0].Name != "program.asm" {
		t.Errorf("default artifact name = %q; want program.asm", result.Artifacts[0].Name)
	}
}

func TestCompileHexArtifact(t *testing.T) {
	result := CompileAssembly("LDI 42\nHLT\n")
	if !result.Success {
		t.Fatalf("compile failed: %v", result.Errors)
	}
	var hex string
	for _, a := range result.Artifacts {
		if a.Kind == "hex" {
			hex = string(a.Data)
		}
	}
	if !strings.HasSuffix(hex, ":00000001FF\n") {
		t.Errorf("hex artifact missing EOF record: %q", hex)
	}
	if !strings.HasPrefix(hex, ":03000000") {
		t.Errorf("hex artifact should open with a 3 byte record: %q", hex)
	}
}

// A failed compile never carries a binary, and a successful one never
// carries errors.
func TestCompileResultContract(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		asm      bool
		contains string
	}{
		{"syntax error", "uint8 x = ;", false, "expected expression"},
		{"semantic error", "void main() { undefined_function(); }", false, `undefined function "undefined_function"`},
		{"duplicate label", "a: NOP\na: NOP\n", true, `duplicate label "A"`},
		{"operand out of range", "LDI 300\n", true, "out of byte range"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := Compile(tc.src, Options{Assembly: tc.asm})
			if result.Success {
				t.Fatalf("Compile(%q) succeeded; want failure", tc.src)
			}
			if result.Binary != nil {
				t.Errorf("failed compile returned a binary: % X", result.Binary)
			}
			if len(result.Errors) == 0 {
				t.Fatal("failed compile reported no errors")
			}
			if !strings.Contains(result.Errors[0], tc.contains) {
				t.Errorf("error %q does not mention %q", result.Errors[0], tc.contains)
			}
		})
	}
}

// Parse errors are reported together, not one per run.
func TestCompileReportsAllParseErrors(t *testing.T) {
	result := Compile("uint8 x = ;\nuint8 = 5;\n", Options{})
	if result.Success {
		t.Fatal("expected failure")
	}
	if len(result.Errors) != 2 {
		t.Errorf("got %d errors %v; want 2", len(result.Errors), result.Errors)
	}
}

// The pipeline has no hidden state: compiling the same source twice
// yields byte-identical output.
func TestCompileDeterministic(t *testing.T) {
	src := `
uint8 counter = 0;
uint8 add(uint8 a, uint8 b) { return a + b; }
void main() {
	counter = add(counter, 1);
	while (counter < 10) {
		output(1, counter);
		counter = counter + 1;
	}
	halt();
}
`
	first := Compile(src, Options{Name: "p"})
	if !first.Success {
		t.Fatalf("compile failed: %v", first.Errors)
	}
	for i := 0; i < 3; i++ {
		again := Compile(src, Options{Name: "p"})
		if !again.Success {
			t.Fatalf("run %d failed: %v", i+2, again.Errors)
		}
		if again.Assembly != first.Assembly {
			t.Fatalf("run %d produced different assembly", i+2)
		}
		if !bytes.Equal(again.Binary, first.Binary) {
			t.Fatalf("run %d produced different binary", i+2)
		}
	}
}

func TestResultString(t *testing.T) {
	ok := CompileAssembly("HLT\n")
	if got := ok.String(); got != "ok: 1 byte(s), 3 artifact(s)" {
		t.Errorf("String() = %q", got)
	}
	bad := CompileAssembly("FOO\n")
	if got := bad.String(); got != "failed: 1 error(s)" {
		t.Errorf("String() = %q", got)
	}
}
