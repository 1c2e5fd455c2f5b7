package compiler

import "fmt"

// Data segment layout: variables, parameters and spill temporaries are
// all carved from a flat arena starting at dataBase. The cursor only
// moves forward within one generation run; address space ends at memTop.
const (
	dataBase = 0x80
	memTop   = 0x100
)

// VarSym is one named variable: its type and the cell(s) it occupies.
type VarSym struct {
	Type      DataType
	Addr      int
	IsArray   bool
	ArraySize int
}

// ParamSym is one function parameter with its pre-allocated cell.
type ParamSym struct {
	Name string
	Type DataType
	Addr int
}

// FuncSym is one function signature with its entry and exit labels.
type FuncSym struct {
	Name       string
	ReturnType DataType
	Params     []ParamSym
	Entry      string
	Exit       string
}

// SymbolTable holds the per-run variable and function tables plus the
// arena cursor. A fresh table is built for every generation run; nothing
// survives between runs.
type SymbolTable struct {
	vars  map[string]VarSym
	funcs map[string]FuncSym
	next  int // arena cursor
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		vars:  make(map[string]VarSym),
		funcs: make(map[string]FuncSym),
		next:  dataBase,
	}
}

// Alloc reserves size consecutive cells and returns the first address.
// Cells are never reclaimed; running past the end of memory is an error.
func (s *SymbolTable) Alloc(size int) (int, error) {
	if s.next+size > memTop {
		return 0, fmt.Errorf("data segment overflow: %d byte(s) requested at 0x%02X", size, s.next)
	}
	addr := s.next
	s.next += size
	return addr, nil
}

// DefineVar allocates storage for a named variable.
func (s *SymbolTable) DefineVar(name string, typ DataType, isArray bool, arraySize int) (VarSym, error) {
	if _, exists := s.vars[name]; exists {
		return VarSym{}, fmt.Errorf("redeclaration of %q", name)
	}
	size := 1
	if isArray {
		size = arraySize
	}
	addr, err := s.Alloc(size)
	if err != nil {
		return VarSym{}, err
	}
	sym := VarSym{Type: typ, Addr: addr, IsArray: isArray, ArraySize: arraySize}
	s.vars[name] = sym
	return sym, nil
}

// RemoveVar drops a name binding. Used to unbind parameters when their
// function body ends; the cells themselves are not reclaimed.
func (s *SymbolTable) RemoveVar(name string) {
	delete(s.vars, name)
}

// LookupVar returns the symbol for name and whether it exists.
func (s *SymbolTable) LookupVar(name string) (VarSym, bool) {
	sym, ok := s.vars[name]
	return sym, ok
}

// DefineFunc records a function signature.
func (s *SymbolTable) DefineFunc(sym FuncSym) error {
	if _, exists := s.funcs[sym.Name]; exists {
		return fmt.Errorf("redefinition of function %q", sym.Name)
	}
	s.funcs[sym.Name] = sym
	return nil
}

// LookupFunc returns the signature for name and whether it exists.
func (s *SymbolTable) LookupFunc(name string) (FuncSym, bool) {
	sym, ok := s.funcs[name]
	return sym, ok
}
