package compiler

import (
	"fmt"
	"strings"
)

// CodeGen walks an AST and emits Octo-8 assembly source text. All value
// traffic goes through the accumulator; binary operands are spilled to
// fresh arena cells because the machine has no second scratch register
// worth scheduling.
//
// Generation is two passes: collectSignatures records every function
// with its entry/exit labels and pre-allocated parameter cells, then
// emit walks the statements and writes assembly. The symbol table and
// label counter live on the generator instance, which is built fresh
// per run.
type CodeGen struct {
	syms      *SymbolTable
	out       strings.Builder
	nextLabel int
	current   string // name of the function being emitted, "" at top level
}

func newCodeGen(syms *SymbolTable) *CodeGen {
	return &CodeGen{syms: syms}
}

func (cg *CodeGen) newLabel() string {
	l := fmt.Sprintf("L%d", cg.nextLabel)
	cg.nextLabel++
	return l
}

func entryLabel(name string) string { return "F_" + name }
func exitLabel(name string) string  { return "F_" + name + "_end" }

func (cg *CodeGen) line(format string, args ...any) {
	fmt.Fprintf(&cg.out, format+"\n", args...)
}

func (cg *CodeGen) comment(format string, args ...any) {
	cg.line("; "+format, args...)
}

// collectSignatures records every function declaration before any code
// is emitted, so calls can reference functions defined later in the
// source. Parameter cells are allocated here, which is what makes the
// store-then-call argument passing possible.
func (cg *CodeGen) collectSignatures(prog *Program) error {
	for _, s := range prog.Stmts {
		fn, ok := s.(*FunctionDecl)
		if !ok {
			continue
		}
		sym := FuncSym{
			Name:       fn.Name,
			ReturnType: fn.ReturnType,
			Entry:      entryLabel(fn.Name),
			Exit:       exitLabel(fn.Name),
		}
		for _, param := range fn.Params {
			addr, err := cg.syms.Alloc(1)
			if err != nil {
				return fmt.Errorf("line %d: %v", fn.Line, err)
			}
			sym.Params = append(sym.Params, ParamSym{Name: param.Name, Type: param.Type, Addr: addr})
		}
		if err := cg.syms.DefineFunc(sym); err != nil {
			return fmt.Errorf("line %d: %v", fn.Line, err)
		}
	}
	return nil
}

//  Expressions

// genExpr emits code leaving the expression value in the accumulator.
func (cg *CodeGen) genExpr(e Expr) error {
	switch n := e.(type) {
	case *Literal:
		cg.line("    LDI %d", n.Value)
		return nil

	case *Ident:
		sym, ok := cg.syms.LookupVar(n.Name)
		if !ok {
			return fmt.Errorf("line %d: undefined variable %q", n.Line, n.Name)
		}
		if sym.IsArray {
			return fmt.Errorf("line %d: array %q used without an index", n.Line, n.Name)
		}
		cg.line("    LDA %d    ; %s", sym.Addr, n.Name)
		return nil

	case *UnaryExpr:
		return cg.genUnary(n)

	case *BinaryExpr:
		return cg.genBinary(n)

	case *CallExpr:
		return cg.genCall(n)

	default:
		return fmt.Errorf("codegen: unknown expression node %T", e)
	}
}

func (cg *CodeGen) genUnary(n *UnaryExpr) error {
	if err := cg.genExpr(n.Operand); err != nil {
		return err
	}
	switch n.Op {
	case MINUS:
		// 0 - operand via a spill cell.
		tmp, err := cg.syms.Alloc(1)
		if err != nil {
			return err
		}
		cg.line("    STA %d", tmp)
		cg.line("    LDI 0")
		cg.line("    SUB %d", tmp)
	case TILDE, BANG:
		// '!' lowers to the bitwise complement, same as '~'. This is a
		// deliberate compatibility quirk; see DESIGN.md.
		cg.line("    NOT")
	default:
		return fmt.Errorf("codegen: unknown unary operator %s", n.Op)
	}
	return nil
}

// genBinary evaluates left first, spills it to a fresh cell, evaluates
// right into the accumulator and combines. Subtraction and everything
// that lowers to it reloads the left operand to get the order right.
func (cg *CodeGen) genBinary(n *BinaryExpr) error {
	if err := cg.genExpr(n.Left); err != nil {
		return err
	}
	left, err := cg.syms.Alloc(1)
	if err != nil {
		return err
	}
	cg.line("    STA %d", left)

	if err := cg.genExpr(n.Right); err != nil {
		return err
	}

	switch n.Op {
	case PLUS:
		cg.line("    ADD %d", left)
	case PIPE, OROR:
		cg.line("    OR %d", left)
	case AMP, ANDAND:
		cg.line("    AND %d", left)
	case CARET:
		cg.line("    XOR %d", left)
	case MINUS, EQ, NEQ, LT, LTE, GT, GTE:
		// left - right. Comparison operators lower to the same bare
		// subtraction with no follow-up; see DESIGN.md.
		right, err := cg.syms.Alloc(1)
		if err != nil {
			return err
		}
		cg.line("    STA %d", right)
		cg.line("    LDA %d", left)
		cg.line("    SUB %d", right)
	default:
		return fmt.Errorf("codegen: unknown binary operator %s", n.Op)
	}
	return nil
}

// genCall lowers built-ins directly to I/O and control instructions;
// user calls store each argument into the callee's parameter cell and
// CALL the entry label. Results come back in the accumulator.
func (cg *CodeGen) genCall(n *CallExpr) error {
	switch n.Name {
	case "input":
		port, err := cg.constArg(n, 0, "port")
		if err != nil {
			return err
		}
		cg.line("    IN %d", port)
		return nil

	case "output":
		port, err := cg.constArg(n, 0, "port")
		if err != nil {
			return err
		}
		if err := cg.genExpr(n.Args[1]); err != nil {
			return err
		}
		cg.line("    OUT %d", port)
		return nil

	case "halt":
		cg.line("    HLT")
		return nil

	case "delay":
		if err := cg.genExpr(n.Args[0]); err != nil {
			return err
		}
		loop := cg.newLabel()
		cg.line("%s:", loop)
		cg.line("    SUI 1")
		cg.line("    JNZ %s", loop)
		return nil
	}

	fn, ok := cg.syms.LookupFunc(n.Name)
	if !ok {
		return fmt.Errorf("line %d: undefined function %q", n.Line, n.Name)
	}
	if len(n.Args) != len(fn.Params) {
		return fmt.Errorf("line %d: %s expects %d argument(s), got %d",
			n.Line, n.Name, len(fn.Params), len(n.Args))
	}

	// Positional by-copy passing: evaluate and store each argument into
	// the callee's pre-assigned cell before the CALL.
	for i, arg := range n.Args {
		if err := cg.genExpr(arg); err != nil {
			return err
		}
		cg.line("    STA %d    ; arg %s", fn.Params[i].Addr, fn.Params[i].Name)
	}
	cg.line("    CALL %s", fn.Entry)
	return nil
}

// constArg requires argument idx to be a literal; port numbers must be
// known at compile time because IN/OUT take an immediate operand.
func (cg *CodeGen) constArg(n *CallExpr, idx int, what string) (int, error) {
	lit, ok := n.Args[idx].(*Literal)
	if !ok {
		return 0, fmt.Errorf("line %d: %s %s must be a constant", n.Line, n.Name, what)
	}
	return lit.Value, nil
}

//  Statements

func (cg *CodeGen) genStmt(s Stmt) error {
	switch n := s.(type) {
	case *VariableDecl:
		sym, err := cg.syms.DefineVar(n.Name, n.Type, n.IsArray, n.ArraySize)
		if err != nil {
			return fmt.Errorf("line %d: %v", n.Line, err)
		}
		cg.comment("var %s %s at 0x%02X", n.Type, n.Name, sym.Addr)
		if n.Init != nil {
			if err := cg.genExpr(n.Init); err != nil {
				return err
			}
			cg.line("    STA %d    ; %s", sym.Addr, n.Name)
		}
		return nil

	case *Assignment:
		return cg.genAssignment(n)

	case *IfStmt:
		return cg.genIf(n)

	case *WhileStmt:
		return cg.genWhile(n)

	case *ForStmt:
		return cg.genFor(n)

	case *ReturnStmt:
		if n.Expr != nil {
			if err := cg.genExpr(n.Expr); err != nil {
				return err
			}
		}
		if cg.current == "" {
			return fmt.Errorf("line %d: return outside of function", n.Line)
		}
		cg.line("    JMP %s", exitLabel(cg.current))
		return nil

	case *BlockStmt:
		for _, stmt := range n.Stmts {
			if err := cg.genStmt(stmt); err != nil {
				return err
			}
		}
		return nil

	case *ExprStmt:
		if err := cg.genExpr(n.Expr); err != nil {
			return err
		}
		return nil

	case *FunctionDecl:
		return fmt.Errorf("line %d: nested function %q not allowed", n.Line, n.Name)

	default:
		return fmt.Errorf("codegen: unknown statement node %T", s)
	}
}

func (cg *CodeGen) genAssignment(n *Assignment) error {
	sym, ok := cg.syms.LookupVar(n.Name)
	if !ok {
		return fmt.Errorf("line %d: undefined variable %q", n.Line, n.Name)
	}

	if n.Index == nil {
		if sym.IsArray {
			return fmt.Errorf("line %d: array %q assigned without an index", n.Line, n.Name)
		}
		if err := cg.genExpr(n.Value); err != nil {
			return err
		}
		cg.line("    STA %d    ; %s", sym.Addr, n.Name)
		return nil
	}

	if !sym.IsArray {
		return fmt.Errorf("line %d: %q is not an array", n.Line, n.Name)
	}
	// The machine has no indexed addressing, so element stores need a
	// compile-time index.
	lit, ok := n.Index.(*Literal)
	if !ok {
		return fmt.Errorf("line %d: array index for %q must be a constant", n.Line, n.Name)
	}
	if lit.Value < 0 || lit.Value >= sym.ArraySize {
		return fmt.Errorf("line %d: index %d out of range for %q[%d]", n.Line, lit.Value, n.Name, sym.ArraySize)
	}
	if err := cg.genExpr(n.Value); err != nil {
		return err
	}
	cg.line("    STA %d    ; %s[%d]", sym.Addr+lit.Value, n.Name, lit.Value)
	return nil
}

func (cg *CodeGen) genIf(n *IfStmt) error {
	cg.comment("if %s", n.Condition)
	if err := cg.genExpr(n.Condition); err != nil {
		return err
	}
	if n.ElseBody != nil {
		elseLabel := cg.newLabel()
		endLabel := cg.newLabel()
		cg.line("    JZ %s", elseLabel)
		if err := cg.genStmt(n.Body); err != nil {
			return err
		}
		cg.line("    JMP %s", endLabel)
		cg.line("%s:", elseLabel)
		if err := cg.genStmt(n.ElseBody); err != nil {
			return err
		}
		cg.line("%s:", endLabel)
		return nil
	}
	endLabel := cg.newLabel()
	cg.line("    JZ %s", endLabel)
	if err := cg.genStmt(n.Body); err != nil {
		return err
	}
	cg.line("%s:", endLabel)
	return nil
}

func (cg *CodeGen) genWhile(n *WhileStmt) error {
	cg.comment("while %s", n.Condition)
	startLabel := cg.newLabel()
	endLabel := cg.newLabel()
	cg.line("%s:", startLabel)
	if err := cg.genExpr(n.Condition); err != nil {
		return err
	}
	cg.line("    JZ %s", endLabel)
	if err := cg.genStmt(n.Body); err != nil {
		return err
	}
	cg.line("    JMP %s", startLabel)
	cg.line("%s:", endLabel)
	return nil
}

// genFor desugars into the while pattern with an explicit post block.
func (cg *CodeGen) genFor(n *ForStmt) error {
	cg.comment("for")
	if n.Init != nil {
		if err := cg.genStmt(n.Init); err != nil {
			return err
		}
	}
	startLabel := cg.newLabel()
	endLabel := cg.newLabel()
	cg.line("%s:", startLabel)
	if n.Cond != nil {
		if err := cg.genExpr(n.Cond); err != nil {
			return err
		}
		cg.line("    JZ %s", endLabel)
	}
	if err := cg.genStmt(n.Body); err != nil {
		return err
	}
	if n.Post != nil {
		if err := cg.genStmt(n.Post); err != nil {
			return err
		}
	}
	cg.line("    JMP %s", startLabel)
	cg.line("%s:", endLabel)
	return nil
}

// genFunction emits the entry label, binds the parameters as variables
// for the duration of the body, then the exit label and RET.
func (cg *CodeGen) genFunction(fn *FunctionDecl) error {
	sym, _ := cg.syms.LookupFunc(fn.Name)

	cg.out.WriteByte('\n')
	cg.comment("%s %s(%d param)", fn.ReturnType, fn.Name, len(fn.Params))
	cg.line("%s:", sym.Entry)

	cg.current = fn.Name
	var bound []string
	for _, param := range sym.Params {
		if _, exists := cg.syms.LookupVar(param.Name); exists {
			cg.current = ""
			return fmt.Errorf("line %d: parameter %q shadows an existing variable", fn.Line, param.Name)
		}
		cg.syms.vars[param.Name] = VarSym{Type: param.Type, Addr: param.Addr}
		bound = append(bound, param.Name)
	}

	err := cg.genStmt(fn.Body)

	for _, name := range bound {
		cg.syms.RemoveVar(name)
	}
	cg.current = ""
	if err != nil {
		return err
	}

	cg.line("%s:", sym.Exit)
	cg.line("    RET")
	return nil
}

// Generate emits assembly text for a whole program. Top-level variable
// declarations run before the entry splice; a function named main gets
// CALL/HLT at the program's fixed entry point. Generation fails fast:
// the first semantic error aborts with no partial output.
func Generate(prog *Program, syms *SymbolTable) (string, error) {
	cg := newCodeGen(syms)

	if err := cg.collectSignatures(prog); err != nil {
		return "", err
	}

	// Top-level variable declarations and statements run first, in
	// source order, so globals are live before main starts.
	for _, s := range prog.Stmts {
		if _, isFn := s.(*FunctionDecl); isFn {
			continue
		}
		if err := cg.genStmt(s); err != nil {
			return "", err
		}
	}

	if main, hasMain := cg.syms.LookupFunc("main"); hasMain {
		cg.line("    CALL %s", main.Entry)
	}
	cg.line("    HLT")

	for _, s := range prog.Stmts {
		if fn, isFn := s.(*FunctionDecl); isFn {
			if err := cg.genFunction(fn); err != nil {
				return "", err
			}
		}
	}

	return cg.out.String(), nil
}
