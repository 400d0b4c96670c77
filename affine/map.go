package affine

import (
	"fmt"
	"go/token"
	"slices"
	"strings"
)

// Map is a list of result expressions over NumDims dimensions and NumSymbols symbols,
// written `(d0, d1)[s0] -> (d0 floordiv 4, s0)`
type Map struct {
	NumDims    int
	NumSymbols int
	Results    []Expr
}

// Value is an opaque handle to an operand of a host operation
type Value string

// AccessMap bundles a Map with the operands its variables are bound to:
// dimension operands first, then symbol operands
type AccessMap struct {
	Map
	Operands []Value
}

func (m Map) String() string {
	sb := &strings.Builder{}
	sb.WriteString("(")
	for i := range m.NumDims {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(fmt.Sprintf("d%d", i))
	}
	sb.WriteString(")")
	if m.NumSymbols > 0 {
		sb.WriteString("[")
		for i := range m.NumSymbols {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(fmt.Sprintf("s%d", i))
		}
		sb.WriteString("]")
	}
	sb.WriteString(" -> (")
	for i, r := range m.Results {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(ExprString(r))
	}
	sb.WriteString(")")
	return sb.String()
}

func (m Map) Equal(other Map) bool {
	return m.NumDims == other.NumDims &&
		m.NumSymbols == other.NumSymbols &&
		slices.EqualFunc(m.Results, other.Results, Equal)
}

// WithResults returns a copy of m with different results, leaving m untouched
func (m Map) WithResults(results []Expr) Map {
	return Map{
		NumDims:    m.NumDims,
		NumSymbols: m.NumSymbols,
		Results:    slices.Clone(results),
	}
}

// Validate checks that every variable referenced by the results is within bounds
func (m Map) Validate() error {
	for i, r := range m.Results {
		for d := range UsedDims(r).Items() {
			if d >= m.NumDims {
				return fmt.Errorf("result %d (%v) uses d%d but the map only has %d dimensions", i, r, d, m.NumDims)
			}
		}
		for s := range UsedSymbols(r).Items() {
			if s >= m.NumSymbols {
				return fmt.Errorf("result %d (%v) uses s%d but the map only has %d symbols", i, r, s, m.NumSymbols)
			}
		}
	}
	return nil
}

func (a AccessMap) DimOperands() []Value {
	return a.Operands[:a.NumDims]
}

func (a AccessMap) SymbolOperands() []Value {
	return a.Operands[a.NumDims:]
}

// WithMap returns a copy of a with m replacing its map, keeping the same operands
func (a AccessMap) WithMap(m Map) AccessMap {
	return AccessMap{Map: m, Operands: slices.Clone(a.Operands)}
}

func (a AccessMap) Validate() error {
	if len(a.Operands) != a.NumDims+a.NumSymbols {
		return fmt.Errorf("map %v expects %d operands but got %d", a.Map, a.NumDims+a.NumSymbols, len(a.Operands))
	}
	return a.Map.Validate()
}

func (a AccessMap) String() string {
	names := make([]string, len(a.Operands))
	for i, o := range a.Operands {
		names[i] = string(o)
	}
	return fmt.Sprintf("%v(%s)", a.Map, strings.Join(names, ", "))
}

// ParseMap parses `(d0, d1)[s0] -> (expr, ...)`. Variables may have any name
// in the header, and the symbol list is optional
func ParseMap(src string) (Map, error) {
	toks, err := tokenize(src)
	if err != nil {
		return Map{}, err
	}
	p := &parser{toks: toks}

	dimNames, err := p.parseNameList(token.LPAREN, token.RPAREN)
	if err != nil {
		return Map{}, err
	}
	var symNames []string
	if p.peek().kind == token.LBRACK {
		symNames, err = p.parseNameList(token.LBRACK, token.RBRACK)
		if err != nil {
			return Map{}, err
		}
	}

	vars := make(map[string]Expr, len(dimNames)+len(symNames))
	for i, name := range dimNames {
		vars[name] = Dim{Pos: i}
	}
	for i, name := range symNames {
		if _, ok := vars[name]; ok {
			return Map{}, &SyntaxError{Msg: fmt.Sprintf("variable %s declared twice", name)}
		}
		vars[name] = Symbol{Pos: i}
	}
	p.lookup = func(name string) (Expr, bool) {
		v, ok := vars[name]
		return v, ok
	}

	if _, err := p.expect(token.SUB); err != nil {
		return Map{}, err
	}
	if _, err := p.expect(token.GTR); err != nil {
		return Map{}, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return Map{}, err
	}
	var results []Expr
	if p.peek().kind != token.RPAREN {
		for {
			e, err := p.parseSum()
			if err != nil {
				return Map{}, err
			}
			results = append(results, e)
			if p.peek().kind != token.COMMA {
				break
			}
			p.next()
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return Map{}, err
	}
	if _, err := p.expect(token.EOF); err != nil {
		return Map{}, err
	}
	return Map{NumDims: len(dimNames), NumSymbols: len(symNames), Results: results}, nil
}

func (p *parser) parseNameList(open, close token.Token) ([]string, error) {
	if _, err := p.expect(open); err != nil {
		return nil, err
	}
	var names []string
	if p.peek().kind == close {
		p.next()
		return names, nil
	}
	for {
		t, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		if t.lit == keywordFloorDiv || t.lit == keywordMod {
			return nil, p.errorf(t, "keyword %s cannot name a variable", t.lit)
		}
		if slices.Contains(names, t.lit) {
			return nil, p.errorf(t, "variable %s declared twice", t.lit)
		}
		names = append(names, t.lit)
		if p.peek().kind != token.COMMA {
			break
		}
		p.next()
	}
	if _, err := p.expect(close); err != nil {
		return nil, err
	}
	return names, nil
}
