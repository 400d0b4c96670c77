package affine

import (
	"fmt"
	"go/scanner"
	"go/token"
	"strconv"
)

// SyntaxError reports the first problem found while parsing an expression or map
type SyntaxError struct {
	// Offset is the byte offset into the source
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("affine syntax error at offset %d: %s", e.Offset, e.Msg)
}

const (
	keywordFloorDiv = "floordiv"
	keywordMod      = "mod"
)

type tok struct {
	offset int
	kind   token.Token
	lit    string
}

type parser struct {
	toks []tok
	pos  int
	// lookup resolves identifiers to variables
	lookup func(name string) (Expr, bool)
}

func tokenize(src string) ([]tok, error) {
	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(src))
	var firstErr error
	var s scanner.Scanner
	s.Init(file, []byte(src), func(pos token.Position, msg string) {
		if firstErr == nil {
			firstErr = &SyntaxError{Offset: pos.Offset, Msg: msg}
		}
	}, 0)

	var toks []tok
	for {
		pos, kind, lit := s.Scan()
		if firstErr != nil {
			return nil, firstErr
		}
		// the scanner inserts semicolons at newlines and at EOF
		if kind == token.SEMICOLON && lit == "\n" {
			continue
		}
		toks = append(toks, tok{offset: file.Offset(pos), kind: kind, lit: lit})
		if kind == token.EOF {
			return toks, nil
		}
	}
}

func (p *parser) peek() tok { return p.toks[p.pos] }

func (p *parser) next() tok {
	t := p.toks[p.pos]
	if t.kind != token.EOF {
		p.pos++
	}
	return t
}

func (p *parser) errorf(at tok, format string, args ...any) error {
	return &SyntaxError{Offset: at.offset, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) expect(kind token.Token) (tok, error) {
	t := p.next()
	if t.kind != kind {
		return t, p.errorf(t, "expected %s, found %s", kind, describe(t))
	}
	return t, nil
}

func describe(t tok) string {
	if t.lit != "" {
		return fmt.Sprintf("%q", t.lit)
	}
	return t.kind.String()
}

// ParseExpr parses a single expression where dimensions are named d0, d1, ...
// and symbols s0, s1, ...
func ParseExpr(src string) (Expr, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, lookup: positionalVariable}
	e, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.EOF); err != nil {
		return nil, err
	}
	return e, nil
}

func positionalVariable(name string) (Expr, bool) {
	if len(name) < 2 || (name[0] != 'd' && name[0] != 's') {
		return nil, false
	}
	pos, err := strconv.Atoi(name[1:])
	if err != nil || pos < 0 {
		return nil, false
	}
	if name[0] == 'd' {
		return Dim{Pos: pos}, true
	}
	return Symbol{Pos: pos}, true
}

// sum := product (('+' | '-') product)*
func (p *parser) parseSum() (Expr, error) {
	lhs, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().kind {
		case token.ADD:
			p.next()
			rhs, err := p.parseProduct()
			if err != nil {
				return nil, err
			}
			lhs = Add(lhs, rhs)
		case token.SUB:
			// '->' belongs to the map syntax, not to the expression
			if p.toks[p.pos+1].kind == token.GTR {
				return lhs, nil
			}
			p.next()
			rhs, err := p.parseProduct()
			if err != nil {
				return nil, err
			}
			lhs = Sub(lhs, rhs)
		default:
			return lhs, nil
		}
	}
}

// product := unary (('*' | 'floordiv' | 'mod') unary)*
func (p *parser) parseProduct() (Expr, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		var combine func(lhs, rhs Expr) Expr
		switch {
		case t.kind == token.MUL:
			combine = Mul
		case t.kind == token.IDENT && t.lit == keywordFloorDiv:
			combine = FloorDivExpr
		case t.kind == token.IDENT && t.lit == keywordMod:
			combine = ModExpr
		default:
			return lhs, nil
		}
		p.next()
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		lhs = combine(lhs, rhs)
	}
}

// unary := '-' unary | primary
func (p *parser) parseUnary() (Expr, error) {
	if p.peek().kind == token.SUB {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Scale(-1, operand), nil
	}
	return p.parsePrimary()
}

// primary := INT | IDENT | '(' sum ')'
func (p *parser) parsePrimary() (Expr, error) {
	t := p.next()
	switch t.kind {
	case token.INT:
		v, err := strconv.ParseInt(t.lit, 0, 64)
		if err != nil {
			return nil, p.errorf(t, "invalid integer %s", t.lit)
		}
		return Const(v), nil
	case token.IDENT:
		if t.lit == keywordFloorDiv || t.lit == keywordMod {
			return nil, p.errorf(t, "unexpected keyword %s", t.lit)
		}
		v, ok := p.lookup(t.lit)
		if !ok {
			return nil, p.errorf(t, "unknown identifier %s", t.lit)
		}
		return v, nil
	case token.LPAREN:
		e, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, p.errorf(t, "unexpected %s", describe(t))
	}
}
