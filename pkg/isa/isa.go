// Package isa defines the Octo-8 instruction set: the mnemonic to opcode
// mapping shared by the assembler and the code generator, and the register
// name table. Both tables are built once and never mutated, so concurrent
// reads are safe.
package isa

// Def describes one machine instruction.
type Def struct {
	Mnemonic string
	Opcode   byte
	Operands int // 0..2 operand bytes following the opcode
}

// defs lists every Octo-8 instruction. Opcodes are unique; Lookup is
// backed by a map built from this slice in init.
var defs = []Def{
	// Control
	{"NOP", 0x00, 0},
	{"HLT", 0x01, 0},

	// Data movement
	{"LDA", 0x10, 1}, // load accumulator from memory
	{"STA", 0x11, 1}, // store accumulator to memory
	{"MOV", 0x12, 2}, // register to register copy
	{"LDI", 0x13, 1}, // load immediate into accumulator

	// Arithmetic and logic (memory operand combines with the accumulator)
	{"ADD", 0x20, 1},
	{"SUB", 0x21, 1},
	{"AND", 0x22, 1},
	{"OR", 0x23, 1},
	{"XOR", 0x24, 1},
	{"NOT", 0x25, 0},
	{"SHL", 0x26, 0},
	{"SHR", 0x27, 0},
	{"ADI", 0x28, 1}, // add immediate
	{"SUI", 0x29, 1}, // subtract immediate

	// Jumps
	{"JMP", 0x30, 1},
	{"JZ", 0x31, 1},
	{"JNZ", 0x32, 1},
	{"JC", 0x33, 1},
	{"JNC", 0x34, 1},

	// Subroutines
	{"CALL", 0x40, 1},
	{"RET", 0x41, 0},

	// Port I/O
	{"IN", 0x50, 1},
	{"OUT", 0x51, 1},
}

var byMnemonic = make(map[string]Def, len(defs))

// registers maps a register name to the index the assembler encodes it as.
var registers = map[string]int{
	"A": 0,
	"B": 1,
	"C": 2,
	"D": 3,
}

func init() {
	seen := make(map[byte]string, len(defs))
	for _, d := range defs {
		if prev, dup := seen[d.Opcode]; dup {
			panic("isa: opcode collision between " + prev + " and " + d.Mnemonic)
		}
		seen[d.Opcode] = d.Mnemonic
		byMnemonic[d.Mnemonic] = d
	}
}

// Lookup returns the definition for an (already upcased) mnemonic.
func Lookup(mnemonic string) (Def, bool) {
	d, ok := byMnemonic[mnemonic]
	return d, ok
}

// Register returns the index of a register name, if it is one.
func Register(name string) (int, bool) {
	idx, ok := registers[name]
	return idx, ok
}

// Mnemonics returns every mnemonic in the table. The order is unspecified.
func Mnemonics() []string {
	out := make([]string, 0, len(byMnemonic))
	for m := range byMnemonic {
		out = append(out, m)
	}
	return out
}
