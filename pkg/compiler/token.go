package compiler

import "fmt"

// TokenKind identifies the category of a lexed token.
type TokenKind int

const (
	EOF TokenKind = iota // sentinel: end of input

	// Literals
	IDENT  // variable / function name
	NUMBER // decimal, 0x or 0b integer literal (char literals lex as NUMBER)
	STRING // string literal "..."

	// Keywords
	UINT8  // "uint8"
	INT8   // "int8"
	BOOL   // "bool"
	VOID   // "void"
	IF     // "if"
	ELSE   // "else"
	WHILE  // "while"
	FOR    // "for"
	RETURN // "return"
	TRUE   // "true"
	FALSE  // "false"

	// Paired delimiters
	LBRACE   // {
	RBRACE   // }
	LPAREN   // (
	RPAREN   // )
	LBRACKET // [
	RBRACKET // ]

	// Punctuation
	SEMICOLON // ;
	COMMA     // ,

	// Operators (order matters: ASSIGN before EQ)
	ASSIGN // =
	PLUS   // +
	MINUS  // -
	PIPE   // |
	AMP    // &
	CARET  // ^
	TILDE  // ~
	BANG   // !
	OROR   // ||
	ANDAND // &&
	EQ     // ==
	NEQ    // !=
	LT     // <
	LTE    // <=
	GT     // >
	GTE    // >=
)

var kindNames = [...]string{
	EOF:       "EOF",
	IDENT:     "IDENT",
	NUMBER:    "NUMBER",
	STRING:    "STRING",
	UINT8:     "UINT8",
	INT8:      "INT8",
	BOOL:      "BOOL",
	VOID:      "VOID",
	IF:        "IF",
	ELSE:      "ELSE",
	WHILE:     "WHILE",
	FOR:       "FOR",
	RETURN:    "RETURN",
	TRUE:      "TRUE",
	FALSE:     "FALSE",
	LBRACE:    "LBRACE",
	RBRACE:    "RBRACE",
	LPAREN:    "LPAREN",
	RPAREN:    "RPAREN",
	LBRACKET:  "LBRACKET",
	RBRACKET:  "RBRACKET",
	SEMICOLON: "SEMICOLON",
	COMMA:     "COMMA",
	ASSIGN:    "ASSIGN",
	PLUS:      "PLUS",
	MINUS:     "MINUS",
	PIPE:      "PIPE",
	AMP:       "AMP",
	CARET:     "CARET",
	TILDE:     "TILDE",
	BANG:      "BANG",
	OROR:      "OROR",
	ANDAND:    "ANDAND",
	EQ:        "EQ",
	NEQ:       "NEQ",
	LT:        "LT",
	LTE:       "LTE",
	GT:        "GT",
	GTE:       "GTE",
}

func (k TokenKind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is a single lexical unit produced by the Lexer.
type Token struct {
	Kind TokenKind
	Text string // the exact source text that was matched
	Line int    // 1-based source line
	Col  int    // 1-based source column
}

func (t Token) String() string {
	return fmt.Sprintf("%-10s %-14q  line %d col %d", t.Kind, t.Text, t.Line, t.Col)
}
