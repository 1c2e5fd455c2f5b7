package isa

import "testing"

func TestLookup(t *testing.T) {
	tests := []struct {
		mnemonic string
		opcode   byte
		operands int
		ok       bool
	}{
		{"NOP", 0x00, 0, true},
		{"HLT", 0x01, 0, true},
		{"LDI", 0x13, 1, true},
		{"MOV", 0x12, 2, true},
		{"SUI", 0x29, 1, true},
		{"JNZ", 0x32, 1, true},
		{"OUT", 0x51, 1, true},
		{"FOO", 0, 0, false},
		{"ldi", 0, 0, false}, // lookups are on upcased mnemonics only
	}
	for _, tc := range tests {
		def, ok := Lookup(tc.mnemonic)
		if ok != tc.ok {
			t.Errorf("Lookup(%q) ok = %v; want %v", tc.mnemonic, ok, tc.ok)
			continue
		}
		if !ok {
			continue
		}
		if def.Opcode != tc.opcode || def.Operands != tc.operands {
			t.Errorf("Lookup(%q) = opcode 0x%02X operands %d; want 0x%02X %d",
				tc.mnemonic, def.Opcode, def.Operands, tc.opcode, tc.operands)
		}
	}
}

func TestOpcodesUnique(t *testing.T) {
	seen := make(map[byte]string)
	for _, m := range Mnemonics() {
		def, _ := Lookup(m)
		if prev, dup := seen[def.Opcode]; dup {
			t.Errorf("opcode 0x%02X shared by %s and %s", def.Opcode, prev, m)
		}
		seen[def.Opcode] = m
	}
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name string
		idx  int
		ok   bool
	}{
		{"A", 0, true},
		{"B", 1, true},
		{"C", 2, true},
		{"D", 3, true},
		{"E", 0, false},
		{"a", 0, false},
	}
	for _, tc := range tests {
		idx, ok := Register(tc.name)
		if idx != tc.idx || ok != tc.ok {
			t.Errorf("Register(%q) = %d, %v; want %d, %v", tc.name, idx, ok, tc.idx, tc.ok)
		}
	}
}
