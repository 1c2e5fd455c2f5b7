// Package compiler translates the Octo-8 C-like language into assembly
// text and, through pkg/asm, into machine code. The pipeline is pure:
// it takes source text and returns in-memory artifacts; writing files
// and talking to the console belong to the caller.
package compiler

import (
	"fmt"

	"octo8/pkg/asm"
)

// Options selects how Compile treats the source.
type Options struct {
	// Assembly skips the high-level stages and feeds the source
	// straight to the assembler.
	Assembly bool
	// Name is the base name used for artifact descriptors. Defaults
	// to "program".
	Name string
}

// Artifact describes one in-memory output the caller may persist.
type Artifact struct {
	Kind string // "asm", "bin", "hex" or "map"
	Name string // suggested file name
	Data []byte
}

// Result is the outcome of one compilation. Success with a binary and
// empty Errors, or no binary and at least one error; never both.
// Warnings are reserved and currently always empty.
type Result struct {
	Success   bool
	Assembly  string
	Binary    []byte
	Errors    []string
	Warnings  []string
	Artifacts []Artifact
}

func fail(errs ...string) Result {
	return Result{Errors: errs}
}

// Compile runs the full pipeline: lex, parse with error recovery, code
// generation, then the two-pass assembler. With Options.Assembly the
// first three stages are skipped.
func Compile(src string, opts Options) Result {
	name := opts.Name
	if name == "" {
		name = "program"
	}

	var result Result

	if opts.Assembly {
		result.Assembly = src
	} else {
		prog, errs := Parse(Lex(src))
		if len(errs) > 0 {
			return fail(errs...)
		}
		asmText, err := Generate(prog, NewSymbolTable())
		if err != nil {
			return fail(err.Error())
		}
		result.Assembly = asmText
		result.Artifacts = append(result.Artifacts, Artifact{
			Kind: "asm",
			Name: name + ".asm",
			Data: []byte(asmText),
		})
	}

	aprog := asm.Parse(asm.Lex(result.Assembly))
	if len(aprog.Errors) > 0 {
		return fail(aprog.Errors...)
	}
	bin, descs, err := asm.Encode(aprog)
	if err != nil {
		return fail(err.Error())
	}

	result.Success = true
	result.Binary = bin
	result.Artifacts = append(result.Artifacts,
		Artifact{Kind: "bin", Name: name + ".bin", Data: bin},
		Artifact{Kind: "hex", Name: name + ".hex", Data: []byte(asm.IntelHex(bin))},
		Artifact{Kind: "map", Name: name + ".map", Data: []byte(asm.MemoryMap(bin, descs))},
	)
	return result
}

// CompileAssembly is shorthand for Compile with Options.Assembly set.
func CompileAssembly(src string) Result {
	return Compile(src, Options{Assembly: true})
}

// String summarises a result for logs and error output.
func (r Result) String() string {
	if r.Success {
		return fmt.Sprintf("ok: %d byte(s), %d artifact(s)", len(r.Binary), len(r.Artifacts))
	}
	return fmt.Sprintf("failed: %d error(s)", len(r.Errors))
}
