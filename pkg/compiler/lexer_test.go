package compiler

import (
	"reflect"
	"testing"
)

func flatten(tokens []Token) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, tok.Kind.String()+":"+tok.Text)
	}
	return out
}

func TestLex(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "keywords and identifiers",
			src:  "uint8 x if ifx",
			want: []string{"UINT8:uint8", "IDENT:x", "IF:if", "IDENT:ifx", "EOF:"},
		},
		{
			name: "keywords are case sensitive",
			src:  "IF While",
			want: []string{"IDENT:IF", "IDENT:While", "EOF:"},
		},
		{
			name: "single and double operators",
			src:  "| || & && = == ! != < <= > >=",
			want: []string{
				"PIPE:|", "OROR:||", "AMP:&", "ANDAND:&&",
				"ASSIGN:=", "EQ:==", "BANG:!", "NEQ:!=",
				"LT:<", "LTE:<=", "GT:>", "GTE:>=", "EOF:",
			},
		},
		{
			name: "arithmetic and bitwise",
			src:  "+ - ^ ~",
			want: []string{"PLUS:+", "MINUS:-", "CARET:^", "TILDE:~", "EOF:"},
		},
		{
			name: "number bases",
			src:  "42 0xFF 0b101",
			want: []string{"NUMBER:42", "NUMBER:0xFF", "NUMBER:0b101", "EOF:"},
		},
		{
			name: "char literals lex as numbers",
			src:  `'A' '\n' '\0'`,
			want: []string{"NUMBER:65", "NUMBER:10", "NUMBER:0", "EOF:"},
		},
		{
			name: "string literal",
			src:  `"hello"`,
			want: []string{"STRING:hello", "EOF:"},
		},
		{
			name: "line comment",
			src:  "a // rest is gone\nb",
			want: []string{"IDENT:a", "IDENT:b", "EOF:"},
		},
		{
			name: "block comment",
			src:  "a /* gone */ b",
			want: []string{"IDENT:a", "IDENT:b", "EOF:"},
		},
		{
			name: "unterminated block comment swallows the rest",
			src:  "a /* b c d",
			want: []string{"IDENT:a", "EOF:"},
		},
		{
			name: "unknown characters skipped",
			src:  "@ $ x",
			want: []string{"IDENT:x", "EOF:"},
		},
		{
			name: "delimiters",
			src:  "{ } ( ) [ ] ; ,",
			want: []string{
				"LBRACE:{", "RBRACE:}", "LPAREN:(", "RPAREN:)",
				"LBRACKET:[", "RBRACKET:]", "SEMICOLON:;", "COMMA:,", "EOF:",
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := flatten(Lex(tc.src))
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Lex(%q) = %v; want %v", tc.src, got, tc.want)
			}
		})
	}
}

// Block comments count the line breaks they contain, so tokens after one
// still carry real source positions.
func TestLexCommentLineTracking(t *testing.T) {
	tokens := Lex("x /* a\nb */ y")
	if tokens[0].Line != 1 {
		t.Errorf("x at line %d; want 1", tokens[0].Line)
	}
	if tokens[1].Line != 2 {
		t.Errorf("y at line %d; want 2", tokens[1].Line)
	}
}
