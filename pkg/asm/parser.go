package asm

import (
	"fmt"
	"strconv"

	"octo8/pkg/isa"
)

// OperandKind says how an operand was written in the source.
type OperandKind int

const (
	OperandNumber OperandKind = iota
	OperandSymbol             // bare identifier: register or label, decided in pass 2
	OperandString
)

// Operand is one comma-separated instruction argument.
type Operand struct {
	Kind   OperandKind
	Value  int    // set for OperandNumber
	Symbol string // set for OperandSymbol and OperandString
}

// Instruction is a mnemonic with its operands, placed at a byte address.
type Instruction struct {
	Mnemonic string
	Operands []Operand
	Address  int
	Line     int
}

// Directive is a layout pseudo-instruction (.ORG, .DB, .DW).
type Directive struct {
	Name    string
	Value   int
	Address int
	Line    int
}

// Program is the pass-1 result: instructions and directives in source
// order with their addresses fixed, the label table, and any errors.
type Program struct {
	Instructions []Instruction
	Labels       map[string]int
	Directives   []Directive
	Errors       []string
}

// Parser is pass 1 of the assembler. It walks the token stream keeping a
// running address counter, binds labels, sizes directives and collects
// instructions for pass 2. Errors are recorded and recovery skips to the
// next line so several independent mistakes surface in one run.
type Parser struct {
	tokens []Token
	pos    int
	addr   int
	prog   *Program
}

// Parse runs pass 1 over a token stream.
func Parse(tokens []Token) *Program {
	p := &Parser{
		tokens: tokens,
		prog:   &Program{Labels: make(map[string]int)},
	}
	p.run()
	return p.prog
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Kind: EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) errorf(line int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	p.prog.Errors = append(p.prog.Errors, fmt.Sprintf("line %d: %s", line, msg))
}

// sync discards tokens until the next line or the start of a new
// statement, so one mistake does not cascade.
func (p *Parser) sync() {
	for {
		switch p.peek().Kind {
		case EOF, LABEL, DIRECTIVE:
			return
		case NEWLINE:
			p.advance()
			return
		default:
			p.advance()
		}
	}
}

func (p *Parser) run() {
	for {
		tok := p.peek()
		switch tok.Kind {
		case EOF:
			return
		case NEWLINE:
			p.advance()
		case LABEL:
			p.advance()
			p.defineLabel(tok)
		case DIRECTIVE:
			p.advance()
			if err := p.parseDirective(tok); err != nil {
				p.errorf(tok.Line, "%s", err)
				p.sync()
			}
		case IDENT:
			p.advance()
			if err := p.parseInstruction(tok); err != nil {
				p.errorf(tok.Line, "%s", err)
				p.sync()
			}
		default:
			p.errorf(tok.Line, "unexpected %s %q", tok.Kind, tok.Text)
			p.advance()
			p.sync()
		}
	}
}

// defineLabel binds a label to the current address. A label names the
// next emitted item; redefining it is an error, never an overwrite.
func (p *Parser) defineLabel(tok Token) {
	if _, exists := p.prog.Labels[tok.Text]; exists {
		p.errorf(tok.Line, "duplicate label %q", tok.Text)
		return
	}
	p.prog.Labels[tok.Text] = p.addr
}

func (p *Parser) parseDirective(tok Token) error {
	arg := p.peek()
	if arg.Kind != NUMBER {
		return fmt.Errorf("%s expects a numeric operand, got %s %q", tok.Text, arg.Kind, arg.Text)
	}
	p.advance()
	value, err := parseNumber(arg.Text)
	if err != nil {
		return fmt.Errorf("%s: %v", tok.Text, err)
	}

	switch tok.Text {
	case ".ORG":
		p.prog.Directives = append(p.prog.Directives, Directive{Name: ".ORG", Value: value, Address: p.addr, Line: tok.Line})
		p.addr = value
	case ".DB":
		p.prog.Directives = append(p.prog.Directives, Directive{Name: ".DB", Value: value, Address: p.addr, Line: tok.Line})
		p.addr++
	case ".DW":
		p.prog.Directives = append(p.prog.Directives, Directive{Name: ".DW", Value: value, Address: p.addr, Line: tok.Line})
		p.addr += 2
	default:
		return fmt.Errorf("unknown directive %s", tok.Text)
	}
	return nil
}

// parseInstruction reads exactly the operand count the table declares
// for the mnemonic and advances the address by 1 + operand count.
func (p *Parser) parseInstruction(tok Token) error {
	def, ok := isa.Lookup(tok.Text)
	if !ok {
		return fmt.Errorf("unknown mnemonic %q", tok.Text)
	}

	ins := Instruction{Mnemonic: def.Mnemonic, Address: p.addr, Line: tok.Line}
	for i := 0; i < def.Operands; i++ {
		if i > 0 {
			if p.peek().Kind != COMMA {
				return fmt.Errorf("%s expects %d operands separated by commas", def.Mnemonic, def.Operands)
			}
			p.advance()
		}
		op, err := p.parseOperand(def.Mnemonic)
		if err != nil {
			return err
		}
		ins.Operands = append(ins.Operands, op)
	}

	if next := p.peek(); next.Kind != NEWLINE && next.Kind != EOF && next.Kind != LABEL {
		return fmt.Errorf("%s expects %d operands, found extra %q", def.Mnemonic, def.Operands, next.Text)
	}

	p.prog.Instructions = append(p.prog.Instructions, ins)
	p.addr += 1 + def.Operands
	return nil
}

func (p *Parser) parseOperand(mnemonic string) (Operand, error) {
	tok := p.peek()
	switch tok.Kind {
	case NUMBER:
		p.advance()
		value, err := parseNumber(tok.Text)
		if err != nil {
			return Operand{}, err
		}
		return Operand{Kind: OperandNumber, Value: value}, nil
	case IDENT:
		p.advance()
		return Operand{Kind: OperandSymbol, Symbol: tok.Text}, nil
	case STRING:
		p.advance()
		return Operand{Kind: OperandString, Symbol: tok.Text}, nil
	default:
		return Operand{}, fmt.Errorf("%s: expected operand, got %s %q", mnemonic, tok.Kind, tok.Text)
	}
}

// parseNumber accepts decimal, 0x hexadecimal and 0b binary forms.
func parseNumber(text string) (int, error) {
	v, err := strconv.ParseUint(text, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", text)
	}
	return int(v), nil
}
