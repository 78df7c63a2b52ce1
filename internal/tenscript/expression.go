package tenscript

import (
	"strconv"
	"strings"
)

type Kind int

const (
	KindList Kind = iota
	KindIdent
	KindAtom
	KindString
	KindInteger
	KindFloat
	KindPercent
)

// Expr is one node of the s-expression tree.
type Expr struct {
	Kind   Kind
	Pos    Pos
	Text   string
	Number float64
	List   []Expr
}

// Head returns the identifier at the front of a list, if any.
func (e Expr) Head() (string, bool) {
	if e.Kind != KindList || len(e.List) == 0 || e.List[0].Kind != KindIdent {
		return "", false
	}
	return e.List[0].Text, true
}

// Args returns the list elements after the head.
func (e Expr) Args() []Expr {
	if e.Kind != KindList || len(e.List) == 0 {
		return nil
	}
	return e.List[1:]
}

// IsNumber reports whether the expression is an integer, float or percent.
func (e Expr) IsNumber() bool {
	return e.Kind == KindInteger || e.Kind == KindFloat || e.Kind == KindPercent
}

func (e Expr) String() string {
	switch e.Kind {
	case KindList:
		parts := make([]string, len(e.List))
		for i, term := range e.List {
			parts[i] = term.String()
		}
		return "(" + strings.Join(parts, " ") + ")"
	case KindAtom:
		return ":" + e.Text
	case KindString:
		return strconv.Quote(e.Text)
	case KindPercent:
		return e.Text + "%"
	default:
		return e.Text
	}
}

// Parse reads exactly one expression from source.
func Parse(source string) (Expr, error) {
	tokens, err := Scan(source)
	if err != nil {
		return Expr{}, err
	}
	p := &exprParser{tokens: tokens}
	expr, err := p.expression()
	if err != nil {
		return Expr{}, err
	}
	if tok := p.current(); tok.Type != TokenEOF {
		return Expr{}, &Error{Pos: tok.Pos, Term: tok.Literal, Expected: "end of input", Wrapped: ErrUnbalanced}
	}
	return expr, nil
}

// ParseAll reads a sequence of top-level expressions.
func ParseAll(source string) ([]Expr, error) {
	tokens, err := Scan(source)
	if err != nil {
		return nil, err
	}
	p := &exprParser{tokens: tokens}
	var exprs []Expr
	for p.current().Type != TokenEOF {
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

type exprParser struct {
	tokens []Token
	index  int
}

func (p *exprParser) current() Token { return p.tokens[p.index] }

func (p *exprParser) next() Token {
	tok := p.tokens[p.index]
	if tok.Type != TokenEOF {
		p.index++
	}
	return tok
}

func (p *exprParser) expression() (Expr, error) {
	tok := p.next()
	switch tok.Type {
	case TokenLParen:
		return p.list(tok.Pos)
	case TokenIdent:
		return Expr{Kind: KindIdent, Pos: tok.Pos, Text: tok.Literal}, nil
	case TokenAtom:
		return Expr{Kind: KindAtom, Pos: tok.Pos, Text: tok.Literal}, nil
	case TokenString:
		return Expr{Kind: KindString, Pos: tok.Pos, Text: tok.Literal}, nil
	case TokenInteger, TokenFloat, TokenPercent:
		return number(tok)
	case TokenRParen:
		return Expr{}, &Error{Pos: tok.Pos, Term: ")", Expected: "expression", Wrapped: ErrUnbalanced}
	default:
		return Expr{}, &Error{Pos: tok.Pos, Term: tok.String(), Expected: "expression", Wrapped: ErrUnbalanced}
	}
}

func (p *exprParser) list(start Pos) (Expr, error) {
	e := Expr{Kind: KindList, Pos: start}
	for {
		switch tok := p.current(); tok.Type {
		case TokenRParen:
			p.next()
			return e, nil
		case TokenEOF:
			return Expr{}, &Error{Pos: start, Term: "(", Expected: "')'", Wrapped: ErrUnbalanced}
		}
		term, err := p.expression()
		if err != nil {
			return Expr{}, err
		}
		e.List = append(e.List, term)
	}
}

func number(tok Token) (Expr, error) {
	value, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		return Expr{}, &Error{Pos: tok.Pos, Term: tok.Literal, Expected: "number", Wrapped: err}
	}
	e := Expr{Pos: tok.Pos, Text: tok.Literal, Number: value}
	switch tok.Type {
	case TokenInteger:
		e.Kind = KindInteger
	case TokenFloat:
		e.Kind = KindFloat
	default:
		e.Kind = KindPercent
		e.Number = value / 100
	}
	return e, nil
}
