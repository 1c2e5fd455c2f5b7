package asm

import "fmt"

// TokenKind identifies the category of an assembly token.
type TokenKind int

const (
	EOF     TokenKind = iota
	NEWLINE           // statement separator; significant, unlike other whitespace

	IDENT     // mnemonic, register or label reference (upcased)
	NUMBER    // decimal, 0x or 0b literal
	STRING    // "..." with escapes passed through verbatim
	COMMA     // operand separator
	LABEL     // IDENT immediately followed by ':'
	DIRECTIVE // '.' followed by a name, e.g. .ORG
)

var kindNames = [...]string{
	EOF:       "EOF",
	NEWLINE:   "NEWLINE",
	IDENT:     "IDENT",
	NUMBER:    "NUMBER",
	STRING:    "STRING",
	COMMA:     "COMMA",
	LABEL:     "LABEL",
	DIRECTIVE: "DIRECTIVE",
}

func (k TokenKind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is a single lexical unit of assembly source.
type Token struct {
	Kind TokenKind
	Text string
	Line int // 1-based
	Col  int // 1-based
}

func (t Token) String() string {
	return fmt.Sprintf("%-9s %-12q line %d col %d", t.Kind, t.Text, t.Line, t.Col)
}
