package compiler

import (
	"fmt"
	"strconv"
)

// builtins maps each built-in function to its argument count. Arity is
// checked at parse time; lowering happens in the code generator.
var builtins = map[string]int{
	"input":  1,
	"output": 2,
	"delay":  1,
	"halt":   0,
}

// Parser consumes the flat token slice produced by the Lexer and builds
// an AST.
//
// Grammar:
//
//	program    = (functionDecl | varDecl | statement)* EOF
//	statement  = varDecl | assignment | if | while | for | return | block | exprStmt
//	varDecl    = type IDENT ("[" NUMBER "]")? ("=" expression)? ";"
//	assignment = IDENT ("[" expression "]")? "=" expression ";"
//	expression = or
//	or         = and (("|" | "||") and)*
//	and        = equality (("&" | "&&") equality)*
//	equality   = relational (("==" | "!=") relational)*
//	relational = xor (("<" | "<=" | ">" | ">=") xor)*
//	xor        = additive ("^" additive)*
//	additive   = unary (("+" | "-") unary)*
//	unary      = ("!" | "~" | "-") unary | postfix
//	postfix    = primary ("(" args ")")?
//	primary    = NUMBER | TRUE | FALSE | IDENT | "(" expression ")"
//
// The precedence ordering is deliberate and unusual: the bitwise | and &
// tokens bind at the logical levels, and xor sits between relational and
// additive. This mirrors the language this compiler is compatible with.
//
// Parse errors are ordinary return values. The top-level loop records
// each one with its source line and resynchronizes to the next statement
// boundary, so a single run reports every independent mistake.
type Parser struct {
	tokens []Token
	pos    int
	errors []string
}

func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// peek returns the current token without consuming it.
func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Kind: EOF}
	}
	return p.tokens[p.pos]
}

// peekAt returns the token at the given offset from the current position.
func (p *Parser) peekAt(offset int) Token {
	if p.pos+offset >= len(p.tokens) {
		return Token{Kind: EOF}
	}
	return p.tokens[p.pos+offset]
}

// advance consumes and returns the current token.
func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// expect consumes the current token if it matches kind, otherwise
// returns an error.
func (p *Parser) expect(kind TokenKind) (Token, error) {
	tok := p.advance()
	if tok.Kind != kind {
		return tok, fmt.Errorf("line %d: expected %s, got %s (%q)", tok.Line, kind, tok.Kind, tok.Text)
	}
	return tok, nil
}

// record notes an error for the final report.
func (p *Parser) record(err error) {
	p.errors = append(p.errors, err.Error())
}

// isTypeKeyword reports whether kind starts a declaration.
func isTypeKeyword(kind TokenKind) bool {
	return kind == UINT8 || kind == INT8 || kind == BOOL || kind == VOID
}

// synchronize advances past the broken statement: it stops after a ';'
// or in front of a token that can begin a new statement.
func (p *Parser) synchronize() {
	for {
		switch p.peek().Kind {
		case EOF:
			return
		case SEMICOLON:
			p.advance()
			return
		case IF, WHILE, FOR, RETURN, LBRACE, UINT8, INT8, BOOL, VOID:
			return
		default:
			p.advance()
		}
	}
}

// typeFromToken maps a type keyword token to its DataType.
func typeFromToken(kind TokenKind) DataType {
	switch kind {
	case UINT8:
		return TypeUint8
	case INT8:
		return TypeInt8
	case BOOL:
		return TypeBool
	default:
		return TypeVoid
	}
}

//  Expressions

// parseExpression is the entry point for expression parsing.
func (p *Parser) parseExpression() (Expr, error) {
	return p.parseOr()
}

// parseOr handles | and || at the loosest level.
func (p *Parser) parseOr() (Expr, error) {
	expr, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == PIPE || p.peek().Kind == OROR {
		op := p.advance().Kind
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Op: op, Left: expr, Right: right}
	}
	return expr, nil
}

// parseAnd handles & and &&.
func (p *Parser) parseAnd() (Expr, error) {
	expr, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == AMP || p.peek().Kind == ANDAND {
		op := p.advance().Kind
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Op: op, Left: expr, Right: right}
	}
	return expr, nil
}

// parseEquality handles == and !=.
func (p *Parser) parseEquality() (Expr, error) {
	expr, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == EQ || p.peek().Kind == NEQ {
		op := p.advance().Kind
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Op: op, Left: expr, Right: right}
	}
	return expr, nil
}

// parseRelational handles <, <=, > and >=.
func (p *Parser) parseRelational() (Expr, error) {
	expr, err := p.parseXor()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == LT || p.peek().Kind == LTE ||
		p.peek().Kind == GT || p.peek().Kind == GTE {
		op := p.advance().Kind
		right, err := p.parseXor()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Op: op, Left: expr, Right: right}
	}
	return expr, nil
}

// parseXor handles ^. It binds tighter than relational, looser than +/-.
func (p *Parser) parseXor() (Expr, error) {
	expr, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == CARET {
		op := p.advance().Kind
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Op: op, Left: expr, Right: right}
	}
	return expr, nil
}

// parseAdditive handles + and -.
func (p *Parser) parseAdditive() (Expr, error) {
	expr, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == PLUS || p.peek().Kind == MINUS {
		op := p.advance().Kind
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Op: op, Left: expr, Right: right}
	}
	return expr, nil
}

// parseUnary handles prefix !, ~ and unary minus.
func (p *Parser) parseUnary() (Expr, error) {
	if p.peek().Kind == BANG || p.peek().Kind == TILDE || p.peek().Kind == MINUS {
		op := p.advance().Kind
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: op, Operand: operand}, nil
	}
	return p.parsePostfix()
}

// parsePostfix handles a call following a primary.
func (p *Parser) parsePostfix() (Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	if p.peek().Kind == LPAREN {
		ident, ok := expr.(*Ident)
		if !ok {
			return nil, fmt.Errorf("line %d: expected function name before '('", p.peek().Line)
		}
		p.advance() // (
		args, err := p.parseCallArgs()
		if err != nil {
			return nil, err
		}
		if want, isBuiltin := builtins[ident.Name]; isBuiltin && len(args) != want {
			return nil, fmt.Errorf("line %d: %s expects %d argument(s), got %d",
				ident.Line, ident.Name, want, len(args))
		}
		return &CallExpr{Name: ident.Name, Args: args, Line: ident.Line}, nil
	}
	return expr, nil
}

func (p *Parser) parseCallArgs() ([]Expr, error) {
	var args []Expr
	if p.peek().Kind != RPAREN {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.peek().Kind != COMMA {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

// parsePrimary handles literals, variables and parenthesized expressions.
func (p *Parser) parsePrimary() (Expr, error) {
	tok := p.peek()
	switch tok.Kind {
	case NUMBER:
		p.advance()
		val, err := strconv.ParseUint(tok.Text, 0, 32)
		if err != nil || val > 0xFF {
			return nil, fmt.Errorf("line %d: integer %q out of uint8 range", tok.Line, tok.Text)
		}
		return &Literal{Value: int(val), Type: TypeUint8, Line: tok.Line}, nil

	case TRUE:
		p.advance()
		return &Literal{Value: 1, Type: TypeBool, Line: tok.Line}, nil

	case FALSE:
		p.advance()
		return &Literal{Value: 0, Type: TypeBool, Line: tok.Line}, nil

	case IDENT:
		p.advance()
		return &Ident{Name: tok.Text, Line: tok.Line}, nil

	case LPAREN:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		return expr, nil

	default:
		return nil, fmt.Errorf("line %d: expected expression, got %s (%q)", tok.Line, tok.Kind, tok.Text)
	}
}

//  Statements

// parseVarDecl parses  type name ("[" NUMBER "]")? ("=" expr)? ";"
// The caller has verified the leading type keyword.
func (p *Parser) parseVarDecl() (Stmt, error) {
	typeTok := p.advance()
	if typeTok.Kind == VOID {
		return nil, fmt.Errorf("line %d: void is not a valid variable type", typeTok.Line)
	}

	nameTok, err := p.expect(IDENT)
	if err != nil {
		return nil, err
	}

	decl := &VariableDecl{Type: typeFromToken(typeTok.Kind), Name: nameTok.Text, Line: nameTok.Line}

	if p.peek().Kind == LBRACKET {
		p.advance()
		sizeTok, err := p.expect(NUMBER)
		if err != nil {
			return nil, err
		}
		size, err := strconv.ParseUint(sizeTok.Text, 0, 32)
		if err != nil || size == 0 || size > 0x80 {
			return nil, fmt.Errorf("line %d: invalid array size %q", sizeTok.Line, sizeTok.Text)
		}
		if _, err := p.expect(RBRACKET); err != nil {
			return nil, err
		}
		decl.IsArray = true
		decl.ArraySize = int(size)
	}

	if p.peek().Kind == ASSIGN {
		if decl.IsArray {
			return nil, fmt.Errorf("line %d: array %q cannot take an initializer", nameTok.Line, nameTok.Text)
		}
		p.advance()
		init, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		decl.Init = init
	}

	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	return decl, nil
}

// parseAssignment parses  name ("[" expr "]")? "=" expr ";"
// The leading IDENT has already been consumed.
func (p *Parser) parseAssignment(nameTok Token) (Stmt, error) {
	a := &Assignment{Name: nameTok.Text, Line: nameTok.Line}

	if p.peek().Kind == LBRACKET {
		p.advance()
		index, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RBRACKET); err != nil {
			return nil, err
		}
		a.Index = index
	}

	if _, err := p.expect(ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	a.Value = value

	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	return a, nil
}

// parseIf parses if ( cond ) body [ else elseBody ]
// The leading IF token has already been consumed.
func (p *Parser) parseIf() (Stmt, error) {
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	var elseBody Stmt
	if p.peek().Kind == ELSE {
		p.advance()
		elseBody, err = p.parseStatement()
		if err != nil {
			return nil, err
		}
	}
	return &IfStmt{Condition: cond, Body: body, ElseBody: elseBody}, nil
}

// parseWhile parses while ( cond ) body
// The leading WHILE token has already been consumed.
func (p *Parser) parseWhile() (Stmt, error) {
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Condition: cond, Body: body}, nil
}

// parseFor parses for ( init; cond; post ) body
// The leading FOR token has already been consumed. The post clause is an
// assignment or expression without its trailing semicolon.
func (p *Parser) parseFor() (Stmt, error) {
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}

	f := &ForStmt{}

	if p.peek().Kind == SEMICOLON {
		p.advance()
	} else if isTypeKeyword(p.peek().Kind) {
		init, err := p.parseVarDecl()
		if err != nil {
			return nil, err
		}
		f.Init = init
	} else {
		nameTok, err := p.expect(IDENT)
		if err != nil {
			return nil, err
		}
		init, err := p.parseAssignment(nameTok)
		if err != nil {
			return nil, err
		}
		f.Init = init
	}

	if p.peek().Kind != SEMICOLON {
		cond, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		f.Cond = cond
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}

	if p.peek().Kind != RPAREN {
		nameTok, err := p.expect(IDENT)
		if err != nil {
			return nil, err
		}
		post := &Assignment{Name: nameTok.Text, Line: nameTok.Line}
		if p.peek().Kind == LBRACKET {
			p.advance()
			index, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(RBRACKET); err != nil {
				return nil, err
			}
			post.Index = index
		}
		if _, err := p.expect(ASSIGN); err != nil {
			return nil, err
		}
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		post.Value = value
		f.Post = post
	}

	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}

	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	f.Body = body
	return f, nil
}

// parseReturn parses  return [expr] ;
// The leading RETURN token has already been consumed.
func (p *Parser) parseReturn(line int) (Stmt, error) {
	if p.peek().Kind == SEMICOLON {
		p.advance()
		return &ReturnStmt{Line: line}, nil
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	return &ReturnStmt{Expr: expr, Line: line}, nil
}

// parseBlock parses { stmt* }
// The leading LBRACE token has already been consumed.
func (p *Parser) parseBlock() (*BlockStmt, error) {
	var stmts []Stmt
	for p.peek().Kind != RBRACE && p.peek().Kind != EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if _, err := p.expect(RBRACE); err != nil {
		return nil, err
	}
	return &BlockStmt{Stmts: stmts}, nil
}

// parseStatement dispatches on the leading token.
func (p *Parser) parseStatement() (Stmt, error) {
	tok := p.peek()
	switch tok.Kind {
	case LBRACE:
		p.advance()
		return p.parseBlock()

	case IF:
		p.advance()
		return p.parseIf()

	case WHILE:
		p.advance()
		return p.parseWhile()

	case FOR:
		p.advance()
		return p.parseFor()

	case RETURN:
		p.advance()
		return p.parseReturn(tok.Line)

	case UINT8, INT8, BOOL, VOID:
		return p.parseVarDecl()

	case IDENT:
		// Assignment when the identifier is followed by '=' or '[',
		// expression statement otherwise.
		if next := p.peekAt(1).Kind; next == ASSIGN || next == LBRACKET {
			p.advance()
			return p.parseAssignment(tok)
		}
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(SEMICOLON); err != nil {
			return nil, err
		}
		return &ExprStmt{Expr: expr}, nil

	default:
		p.advance()
		return nil, fmt.Errorf("line %d: unexpected token %s (%q)", tok.Line, tok.Kind, tok.Text)
	}
}

// parseFunctionDecl parses  type name ( params ) { body }
// The caller has verified the type/name/paren lookahead.
func (p *Parser) parseFunctionDecl() (Stmt, error) {
	typeTok := p.advance()
	nameTok, err := p.expect(IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}

	var params []Param
	if p.peek().Kind != RPAREN {
		for {
			ptype := p.peek()
			if !isTypeKeyword(ptype.Kind) || ptype.Kind == VOID {
				return nil, fmt.Errorf("line %d: expected parameter type", ptype.Line)
			}
			p.advance()
			pname, err := p.expect(IDENT)
			if err != nil {
				return nil, err
			}
			params = append(params, Param{Type: typeFromToken(ptype.Kind), Name: pname.Text})
			if p.peek().Kind != COMMA {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &FunctionDecl{
		ReturnType: typeFromToken(typeTok.Kind),
		Name:       nameTok.Text,
		Params:     params,
		Body:       body,
		Line:       nameTok.Line,
	}, nil
}

// parseTopLevel parses one top-level declaration or statement. A type
// keyword followed by an identifier and '(' is a function declaration;
// a type keyword alone starts a variable declaration.
func (p *Parser) parseTopLevel() (Stmt, error) {
	if isTypeKeyword(p.peek().Kind) &&
		p.peekAt(1).Kind == IDENT && p.peekAt(2).Kind == LPAREN {
		return p.parseFunctionDecl()
	}
	return p.parseStatement()
}

// Parse builds the AST. Every recoverable syntax error is recorded and
// parsing continues at the next statement boundary; the returned slice
// holds all of them in source order.
func Parse(tokens []Token) (*Program, []string) {
	p := NewParser(tokens)
	prog := &Program{}
	for p.peek().Kind != EOF {
		stmt, err := p.parseTopLevel()
		if err != nil {
			p.record(err)
			p.synchronize()
			continue
		}
		prog.Stmts = append(prog.Stmts, stmt)
	}
	return prog, p.errors
}
