package asm

import (
	"fmt"

	"octo8/pkg/isa"
)

// Encode is pass 2: it resolves every operand of a clean pass-1 Program
// and emits the flat byte image, plus a per-address description of each
// byte for debugging output. Any unresolved symbol or out-of-range value
// aborts with no partial binary.
func Encode(prog *Program) ([]byte, map[int]string, error) {
	if len(prog.Errors) > 0 {
		return nil, nil, fmt.Errorf("cannot encode: %d unresolved parse errors", len(prog.Errors))
	}

	img := newImage()

	for _, d := range prog.Directives {
		switch d.Name {
		case ".ORG":
			// Layout only; pass 1 already moved the address counter.
		case ".DB":
			if d.Value < 0 || d.Value > 0xFF {
				return nil, nil, fmt.Errorf("line %d: .DB value %d out of byte range", d.Line, d.Value)
			}
			img.write(d.Address, byte(d.Value), fmt.Sprintf(".DB %d", d.Value))
		case ".DW":
			if d.Value < 0 || d.Value > 0xFFFF {
				return nil, nil, fmt.Errorf("line %d: .DW value %d out of word range", d.Line, d.Value)
			}
			img.write(d.Address, byte(d.Value&0xFF), fmt.Sprintf(".DW %d (low)", d.Value))
			img.write(d.Address+1, byte(d.Value>>8), fmt.Sprintf(".DW %d (high)", d.Value))
		default:
			return nil, nil, fmt.Errorf("line %d: unknown directive %s", d.Line, d.Name)
		}
	}

	for _, ins := range prog.Instructions {
		def, ok := isa.Lookup(ins.Mnemonic)
		if !ok {
			return nil, nil, fmt.Errorf("line %d: unknown mnemonic %q", ins.Line, ins.Mnemonic)
		}
		img.write(ins.Address, def.Opcode, fmt.Sprintf("%s opcode", def.Mnemonic))

		for i, op := range ins.Operands {
			value, note, err := resolveOperand(prog, ins, op)
			if err != nil {
				return nil, nil, err
			}
			desc := fmt.Sprintf("%s operand %d = %d", def.Mnemonic, i+1, value)
			if note != "" {
				desc += " (" + note + ")"
			}
			img.write(ins.Address+1+i, byte(value), desc)
		}
	}

	return img.bytes, img.descs, nil
}

// resolveOperand turns an operand into its byte value: numbers are used
// directly, identifiers are tried as a register and then as a label, and
// single-character strings encode as their character code.
func resolveOperand(prog *Program, ins Instruction, op Operand) (int, string, error) {
	switch op.Kind {
	case OperandNumber:
		if op.Value < 0 || op.Value > 0xFF {
			return 0, "", fmt.Errorf("line %d: %s operand %d out of byte range [0,255]", ins.Line, ins.Mnemonic, op.Value)
		}
		return op.Value, "", nil

	case OperandSymbol:
		if idx, ok := isa.Register(op.Symbol); ok {
			return idx, "register " + op.Symbol, nil
		}
		if addr, ok := prog.Labels[op.Symbol]; ok {
			if addr > 0xFF {
				return 0, "", fmt.Errorf("line %d: label %q address %d exceeds byte operand range", ins.Line, op.Symbol, addr)
			}
			return addr, "label " + op.Symbol, nil
		}
		return 0, "", fmt.Errorf("line %d: undefined symbol %q", ins.Line, op.Symbol)

	case OperandString:
		runes := []rune(op.Symbol)
		if len(runes) != 1 || runes[0] > 0xFF {
			return 0, "", fmt.Errorf("line %d: string operand %q is not a single byte character", ins.Line, op.Symbol)
		}
		return int(runes[0]), fmt.Sprintf("char %q", op.Symbol), nil

	default:
		return 0, "", fmt.Errorf("line %d: unsupported operand kind", ins.Line)
	}
}

// image is the byte stream under construction, indexed by absolute
// address. Forward .ORG gaps are zero filled.
type image struct {
	bytes []byte
	descs map[int]string
}

func newImage() *image {
	return &image{descs: make(map[int]string)}
}

func (img *image) write(addr int, b byte, desc string) {
	for len(img.bytes) <= addr {
		img.bytes = append(img.bytes, 0)
	}
	img.bytes[addr] = b
	img.descs[addr] = desc
}
