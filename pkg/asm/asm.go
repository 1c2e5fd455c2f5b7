// Package asm translates Octo-8 assembly source into machine code.
//
// Translation is two passes over the token stream: pass 1 (Parse) walks
// the source tracking the address counter, binding labels and sizing
// directives; pass 2 (Encode) resolves operands against the label and
// register tables and emits the byte image. Hex and map writers render
// the image for debugging.
package asm

import (
	"fmt"
	"strings"
)

// Assemble runs both passes over assembly source. Pass-1 errors are
// joined into a single error; a caller that needs them individually
// should use Lex, Parse and Encode directly.
func Assemble(src string) ([]byte, map[int]string, error) {
	prog := Parse(Lex(src))
	if len(prog.Errors) > 0 {
		return nil, nil, fmt.Errorf("assembly failed: %s", strings.Join(prog.Errors, "; "))
	}
	return Encode(prog)
}
