package asm

import (
	"strings"
	"unicode"
)

// Lexer holds the scanning state for one pass over assembly source.
// It never fails: characters it cannot classify are skipped.
type Lexer struct {
	src  []rune
	pos  int
	line int
	col  int
}

func newLexer(src string) *Lexer {
	return &Lexer{src: []rune(src), line: 1, col: 1}
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peek2() rune {
	if l.pos+1 >= len(l.src) {
		return 0
	}
	return l.src[l.pos+1]
}

func (l *Lexer) advance() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

// skipBlanks discards spaces, tabs and carriage returns. Newlines are
// tokens of their own and are left alone.
func (l *Lexer) skipBlanks() {
	for {
		r := l.peek()
		if r == ' ' || r == '\t' || r == '\r' {
			l.advance()
			continue
		}
		return
	}
}

// skipComment discards a ';' or '//' comment to end of line.
func (l *Lexer) skipComment() {
	for l.pos < len(l.src) && l.peek() != '\n' {
		l.advance()
	}
}

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// scanNumber reads a decimal, 0x or 0b literal. Digit validity is left to
// the parser; the lexer only collects the span.
func (l *Lexer) scanNumber() Token {
	line, col := l.line, l.col
	start := l.pos
	if l.peek() == '0' && (l.peek2() == 'x' || l.peek2() == 'X' || l.peek2() == 'b' || l.peek2() == 'B') {
		l.advance()
		l.advance()
	}
	for l.pos < len(l.src) && (unicode.IsDigit(l.peek()) || isHexLetter(l.peek())) {
		l.advance()
	}
	return Token{Kind: NUMBER, Text: string(l.src[start:l.pos]), Line: line, Col: col}
}

func isHexLetter(r rune) bool {
	return (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// scanIdent reads an identifier, upcases it, and classifies a trailing ':'
// as a label definition.
func (l *Lexer) scanIdent() Token {
	line, col := l.line, l.col
	start := l.pos
	for l.pos < len(l.src) && isIdentRune(l.peek()) {
		l.advance()
	}
	text := strings.ToUpper(string(l.src[start:l.pos]))
	if l.peek() == ':' {
		l.advance()
		return Token{Kind: LABEL, Text: text, Line: line, Col: col}
	}
	return Token{Kind: IDENT, Text: text, Line: line, Col: col}
}

// scanDirective reads '.' plus a name, upcased, e.g. ".ORG".
func (l *Lexer) scanDirective() Token {
	line, col := l.line, l.col
	start := l.pos
	l.advance() // '.'
	for l.pos < len(l.src) && isIdentRune(l.peek()) {
		l.advance()
	}
	return Token{Kind: DIRECTIVE, Text: strings.ToUpper(string(l.src[start:l.pos])), Line: line, Col: col}
}

// scanString reads a "..." literal. Backslash escapes are passed through
// verbatim; an unterminated string simply ends at the line break.
func (l *Lexer) scanString() Token {
	line, col := l.line, l.col
	l.advance() // opening quote
	var sb strings.Builder
	for l.pos < len(l.src) && l.peek() != '"' && l.peek() != '\n' {
		r := l.advance()
		if r == '\\' && l.pos < len(l.src) {
			sb.WriteRune(r)
			r = l.advance()
		}
		sb.WriteRune(r)
	}
	if l.peek() == '"' {
		l.advance()
	}
	return Token{Kind: STRING, Text: sb.String(), Line: line, Col: col}
}

// next returns the next token. ok is false when the current character is
// not part of any token and was skipped.
func (l *Lexer) next() (Token, bool) {
	l.skipBlanks()
	if l.pos >= len(l.src) {
		return Token{Kind: EOF, Line: l.line, Col: l.col}, true
	}

	r := l.peek()
	switch {
	case r == '\n':
		tok := Token{Kind: NEWLINE, Text: "\n", Line: l.line, Col: l.col}
		l.advance()
		return tok, true
	case r == ';':
		l.skipComment()
		return Token{}, false
	case r == '/' && l.peek2() == '/':
		l.skipComment()
		return Token{}, false
	case r == ',':
		tok := Token{Kind: COMMA, Text: ",", Line: l.line, Col: l.col}
		l.advance()
		return tok, true
	case r == '.':
		return l.scanDirective(), true
	case r == '"':
		return l.scanString(), true
	case unicode.IsDigit(r):
		return l.scanNumber(), true
	case unicode.IsLetter(r) || r == '_':
		return l.scanIdent(), true
	default:
		// Anything else is skipped without complaint.
		l.advance()
		return Token{}, false
	}
}

// Lex tokenizes assembly source. The stream always ends with EOF and is
// produced without errors.
func Lex(src string) []Token {
	l := newLexer(src)
	var tokens []Token
	for {
		tok, ok := l.next()
		if !ok {
			continue
		}
		tokens = append(tokens, tok)
		if tok.Kind == EOF {
			return tokens
		}
	}
}
