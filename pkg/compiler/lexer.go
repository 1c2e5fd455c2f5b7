package compiler

import (
	"strconv"
	"unicode"
)

// keywords maps source text to its keyword TokenKind. Matching is
// case-sensitive.
var keywords = map[string]TokenKind{
	"uint8":  UINT8,
	"int8":   INT8,
	"bool":   BOOL,
	"void":   VOID,
	"if":     IF,
	"else":   ELSE,
	"while":  WHILE,
	"for":    FOR,
	"return": RETURN,
	"true":   TRUE,
	"false":  FALSE,
}

// Lexer holds all mutable state for a single scanning pass over src.
// It never fails: characters it cannot classify are skipped.
type Lexer struct {
	src  []rune
	pos  int // index of the next rune to consume
	line int // current 1-based source line
	col  int // current 1-based source column
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

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

// skipLineComment discards everything from the current position to
// end-of-line. The opening "//" must already have been consumed.
func (l *Lexer) skipLineComment() {
	for l.pos < len(l.src) && l.peek() != '\n' {
		l.advance()
	}
}

// skipBlockComment discards everything up to and including the closing
// "*/", counting line breaks on the way. An unterminated comment simply
// swallows the rest of the input.
func (l *Lexer) skipBlockComment() {
	for l.pos < len(l.src) {
		if l.peek() == '*' && l.peek2() == '/' {
			l.advance()
			l.advance()
			return
		}
		l.advance()
	}
}

// scanIdent collects an identifier or keyword token.
func (l *Lexer) scanIdent() Token {
	line, col := l.line, l.col
	start := l.pos
	for l.pos < len(l.src) {
		r := l.peek()
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}
		l.advance()
	}
	text := string(l.src[start:l.pos])
	kind := IDENT
	if kw, ok := keywords[text]; ok {
		kind = kw
	}
	return Token{Kind: kind, Text: text, Line: line, Col: col}
}

// scanNumber collects a decimal, 0x hexadecimal or 0b binary literal.
func (l *Lexer) scanNumber() Token {
	line, col := l.line, l.col
	start := l.pos
	if l.peek() == '0' && (l.peek2() == 'x' || l.peek2() == 'X' || l.peek2() == 'b' || l.peek2() == 'B') {
		l.advance()
		l.advance()
	}
	for l.pos < len(l.src) {
		r := l.peek()
		if unicode.IsDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F') {
			l.advance()
		} else {
			break
		}
	}
	return Token{Kind: NUMBER, Text: string(l.src[start:l.pos]), Line: line, Col: col}
}

// scanChar collects a character literal 'c' and emits it as a NUMBER
// token carrying the character code. Escapes after a backslash are taken
// as written.
func (l *Lexer) scanChar() Token {
	line, col := l.line, l.col
	l.advance() // opening '
	var val rune
	if l.peek() == '\\' {
		l.advance()
		switch l.peek() {
		case 'n':
			val = '\n'
		case 'r':
			val = '\r'
		case 't':
			val = '\t'
		case '0':
			val = 0
		default:
			val = l.peek()
		}
		l.advance()
	} else {
		val = l.advance()
	}
	if l.peek() == '\'' {
		l.advance()
	}
	return Token{Kind: NUMBER, Text: strconv.Itoa(int(val)), Line: line, Col: col}
}

// scanString collects a string literal "...". Backslash escapes are
// passed through verbatim; an unterminated string ends at the line break.
func (l *Lexer) scanString() Token {
	line, col := l.line, l.col
	l.advance() // opening "
	var val []rune
	for l.pos < len(l.src) && l.peek() != '"' && l.peek() != '\n' {
		r := l.advance()
		if r == '\\' && l.pos < len(l.src) {
			val = append(val, r)
			r = l.advance()
		}
		val = append(val, r)
	}
	if l.peek() == '"' {
		l.advance()
	}
	return Token{Kind: STRING, Text: string(val), Line: line, Col: col}
}

// next returns the next token. ok is false when the current character
// was skipped without producing one.
func (l *Lexer) next() (Token, bool) {
	for {
		l.skipWhitespace()
		if l.pos >= len(l.src) {
			return Token{Kind: EOF, Line: l.line, Col: l.col}, true
		}
		if l.peek() == '/' && l.peek2() == '/' {
			l.advance()
			l.advance()
			l.skipLineComment()
			continue
		}
		if l.peek() == '/' && l.peek2() == '*' {
			l.advance()
			l.advance()
			l.skipBlockComment()
			continue
		}
		break
	}

	r := l.peek()
	line, col := l.line, l.col

	if unicode.IsLetter(r) || r == '_' {
		return l.scanIdent(), true
	}
	if unicode.IsDigit(r) {
		return l.scanNumber(), true
	}
	if r == '"' {
		return l.scanString(), true
	}
	if r == '\'' {
		return l.scanChar(), true
	}

	l.advance()
	two := func(kind TokenKind, text string) (Token, bool) {
		l.advance()
		return Token{Kind: kind, Text: text, Line: line, Col: col}, true
	}
	one := func(kind TokenKind, text string) (Token, bool) {
		return Token{Kind: kind, Text: text, Line: line, Col: col}, true
	}

	switch r {
	case '{':
		return one(LBRACE, "{")
	case '}':
		return one(RBRACE, "}")
	case '(':
		return one(LPAREN, "(")
	case ')':
		return one(RPAREN, ")")
	case '[':
		return one(LBRACKET, "[")
	case ']':
		return one(RBRACKET, "]")
	case ';':
		return one(SEMICOLON, ";")
	case ',':
		return one(COMMA, ",")
	case '+':
		return one(PLUS, "+")
	case '-':
		return one(MINUS, "-")
	case '^':
		return one(CARET, "^")
	case '~':
		return one(TILDE, "~")
	case '|':
		if l.peek() == '|' {
			return two(OROR, "||")
		}
		return one(PIPE, "|")
	case '&':
		if l.peek() == '&' {
			return two(ANDAND, "&&")
		}
		return one(AMP, "&")
	case '!':
		if l.peek() == '=' {
			return two(NEQ, "!=")
		}
		return one(BANG, "!")
	case '=':
		if l.peek() == '=' { // lookahead: distinguish = vs ==
			return two(EQ, "==")
		}
		return one(ASSIGN, "=")
	case '<':
		if l.peek() == '=' {
			return two(LTE, "<=")
		}
		return one(LT, "<")
	case '>':
		if l.peek() == '=' {
			return two(GTE, ">=")
		}
		return one(GT, ">")
	default:
		// Unrecognized characters are skipped, not reported.
		return Token{}, false
	}
}

// Lex tokenizes src and returns all tokens including the final EOF
// token. Lexing never fails.
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
