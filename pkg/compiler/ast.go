package compiler

import "fmt"

// DataType is the closed set of value types in the language.
type DataType int

const (
	TypeUint8 DataType = iota
	TypeInt8
	TypeBool
	TypeVoid
)

var typeNames = [...]string{
	TypeUint8: "uint8",
	TypeInt8:  "int8",
	TypeBool:  "bool",
	TypeVoid:  "void",
}

func (dt DataType) String() string {
	if int(dt) >= 0 && int(dt) < len(typeNames) {
		return typeNames[dt]
	}
	return fmt.Sprintf("DataType(%d)", int(dt))
}

//  Expression nodes

// Expr is implemented by every node that produces a value.
// genExpr always leaves the result in the accumulator.
type Expr interface {
	exprNode()
	String() string
}

// Literal is a compile-time constant. The type is inferred at parse
// time: integer literals are uint8, true/false are bool.
type Literal struct {
	Value int
	Type  DataType
	Line  int
}

func (*Literal) exprNode()        {}
func (l *Literal) String() string { return fmt.Sprintf("%d", l.Value) }

// Ident is a read of a named variable.
type Ident struct {
	Name string
	Line int
}

func (*Ident) exprNode()        {}
func (i *Ident) String() string { return i.Name }

// BinaryExpr represents Left Op Right.
type BinaryExpr struct {
	Op    TokenKind
	Left  Expr
	Right Expr
}

func (*BinaryExpr) exprNode() {}
func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right)
}

// UnaryExpr represents Op Operand (!, ~ or unary minus).
type UnaryExpr struct {
	Op      TokenKind
	Operand Expr
}

func (*UnaryExpr) exprNode()        {}
func (u *UnaryExpr) String() string { return fmt.Sprintf("(%s %s)", u.Op, u.Operand) }

// CallExpr represents name(args), built-in or user-defined.
type CallExpr struct {
	Name string
	Args []Expr
	Line int
}

func (*CallExpr) exprNode() {}
func (c *CallExpr) String() string {
	return fmt.Sprintf("CallExpr(%s, args=%v)", c.Name, c.Args)
}

//  Statement nodes

// Stmt is implemented by every node that does not produce a value.
type Stmt interface {
	stmtNode()
	String() string
}

// VariableDecl represents  uint8 name = expr;  or  uint8 name[size];
type VariableDecl struct {
	Type      DataType
	Name      string
	Init      Expr // nil when uninitialized
	IsArray   bool
	ArraySize int
	Line      int
}

func (*VariableDecl) stmtNode() {}
func (d *VariableDecl) String() string {
	if d.IsArray {
		return fmt.Sprintf("VariableDecl(%s %s[%d])", d.Type, d.Name, d.ArraySize)
	}
	return fmt.Sprintf("VariableDecl(%s %s = %s)", d.Type, d.Name, d.Init)
}

// Assignment represents  name = expr;  or  name[index] = expr;
type Assignment struct {
	Name  string
	Index Expr // nil for plain assignment
	Value Expr
	Line  int
}

func (*Assignment) stmtNode() {}
func (a *Assignment) String() string {
	if a.Index != nil {
		return fmt.Sprintf("Assignment(%s[%s] = %s)", a.Name, a.Index, a.Value)
	}
	return fmt.Sprintf("Assignment(%s = %s)", a.Name, a.Value)
}

// IfStmt represents if (cond) body [else elseBody]
type IfStmt struct {
	Condition Expr
	Body      Stmt
	ElseBody  Stmt // may be nil
}

func (*IfStmt) stmtNode() {}
func (i *IfStmt) String() string {
	if i.ElseBody != nil {
		return fmt.Sprintf("IfStmt(if %s then %s else %s)", i.Condition, i.Body, i.ElseBody)
	}
	return fmt.Sprintf("IfStmt(if %s then %s)", i.Condition, i.Body)
}

// WhileStmt represents while (cond) body
type WhileStmt struct {
	Condition Expr
	Body      Stmt
}

func (*WhileStmt) stmtNode() {}
func (w *WhileStmt) String() string {
	return fmt.Sprintf("WhileStmt(while %s do %s)", w.Condition, w.Body)
}

// ForStmt represents for (init; cond; post) body
type ForStmt struct {
	Init Stmt // may be nil
	Cond Expr // may be nil
	Post Stmt // may be nil
	Body Stmt
}

func (*ForStmt) stmtNode() {}
func (f *ForStmt) String() string {
	return fmt.Sprintf("ForStmt(init=%s, cond=%s, post=%s, body=%s)", f.Init, f.Cond, f.Post, f.Body)
}

// ReturnStmt represents  return [expr];
type ReturnStmt struct {
	Expr Expr // nil for a bare return
	Line int
}

func (*ReturnStmt) stmtNode() {}
func (r *ReturnStmt) String() string {
	return fmt.Sprintf("ReturnStmt(%s)", r.Expr)
}

// BlockStmt represents { statement; ... }
type BlockStmt struct {
	Stmts []Stmt
}

func (*BlockStmt) stmtNode() {}
func (b *BlockStmt) String() string {
	return fmt.Sprintf("BlockStmt(len=%d)", len(b.Stmts))
}

// ExprStmt represents an expression evaluated for its side effects.
type ExprStmt struct {
	Expr Expr
}

func (*ExprStmt) stmtNode() {}
func (e *ExprStmt) String() string {
	return fmt.Sprintf("ExprStmt(%s)", e.Expr)
}

// Param is one function parameter.
type Param struct {
	Type DataType
	Name string
}

// FunctionDecl represents  type name(params) { body }
type FunctionDecl struct {
	ReturnType DataType
	Name       string
	Params     []Param
	Body       *BlockStmt
	Line       int
}

func (*FunctionDecl) stmtNode() {}
func (f *FunctionDecl) String() string {
	return fmt.Sprintf("FunctionDecl(%s %s, params=%v, body=%s)", f.ReturnType, f.Name, f.Params, f.Body)
}

// Program is the AST root: the ordered top-level declarations.
type Program struct {
	Stmts []Stmt
}
