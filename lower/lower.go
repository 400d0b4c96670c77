// Package lower expands affine expressions into plain Go arithmetic
package lower

import (
	"bytes"
	"fmt"
	"github.com/cottand/affinesimp/affine"
	"github.com/cottand/affinesimp/hostir"
	goast "go/ast"
	"go/format"
	goparser "go/parser"
	"go/token"
	"slices"
	"strconv"
)

const goVersion = "1.23.3"

const (
	floorDivName = "floorDiv"
	floorModName = "floorMod"
)

// Go's / and % truncate towards zero, while floordiv and mod round
// towards negative infinity
const helperSource = `package helpers

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}
`

// Helpers declares floorDiv and floorMod, which lowered expressions call
func Helpers() []goast.Decl {
	f, err := goparser.ParseFile(token.NewFileSet(), "helpers.go", helperSource, 0)
	if err != nil {
		panic(fmt.Sprintf("helper source does not parse: %v", err))
	}
	return f.Decls
}

type lowering struct {
	dimNames []string
	symNames []string
}

// Expr expands e into a Go expression of type int64, where dimension i is
// the variable dimNames[i] and symbol i is symNames[i]
func Expr(e affine.Expr, dimNames, symNames []string) (goast.Expr, error) {
	l := lowering{dimNames: dimNames, symNames: symNames}
	return l.lower(e)
}

func (l lowering) lower(e affine.Expr) (goast.Expr, error) {
	switch e := e.(type) {
	case affine.Constant:
		return intLit(e.Value), nil
	case affine.Dim:
		if e.Pos >= len(l.dimNames) {
			return nil, fmt.Errorf("no name for dimension d%d", e.Pos)
		}
		return goast.NewIdent(l.dimNames[e.Pos]), nil
	case affine.Symbol:
		if e.Pos >= len(l.symNames) {
			return nil, fmt.Errorf("no name for symbol s%d", e.Pos)
		}
		return goast.NewIdent(l.symNames[e.Pos]), nil
	case affine.Sum:
		return l.binary(token.ADD, e.LHS, e.RHS)
	case affine.Scaled:
		return l.binary(token.MUL, e.Operand, affine.Const(e.Coeff))
	case affine.Product:
		return l.binary(token.MUL, e.LHS, e.RHS)
	case affine.FloorDiv:
		return l.call(floorDivName, e.Num, e.Den)
	case affine.Mod:
		return l.call(floorModName, e.Num, e.Den)
	default:
		return nil, fmt.Errorf("unexpected affine expression %T", e)
	}
}

func intLit(v int64) goast.Expr {
	if v < 0 {
		// keeps `x - -3` readable as `x - (-3)`
		return &goast.ParenExpr{X: &goast.BasicLit{Kind: token.INT, Value: strconv.FormatInt(v, 10)}}
	}
	return &goast.BasicLit{Kind: token.INT, Value: strconv.FormatInt(v, 10)}
}

// binary parenthesises operands that are binary expressions themselves: the
// printer does not add parentheses on its own
func (l lowering) binary(op token.Token, lhs, rhs affine.Expr) (goast.Expr, error) {
	x, err := l.lower(lhs)
	if err != nil {
		return nil, err
	}
	y, err := l.lower(rhs)
	if err != nil {
		return nil, err
	}
	return &goast.BinaryExpr{X: paren(x), Op: op, Y: paren(y)}, nil
}

func paren(e goast.Expr) goast.Expr {
	if _, ok := e.(*goast.BinaryExpr); ok {
		return &goast.ParenExpr{X: e}
	}
	return e
}

func (l lowering) call(helper string, num, den affine.Expr) (goast.Expr, error) {
	x, err := l.lower(num)
	if err != nil {
		return nil, err
	}
	y, err := l.lower(den)
	if err != nil {
		return nil, err
	}
	return &goast.CallExpr{Fun: goast.NewIdent(helper), Args: []goast.Expr{x, y}}, nil
}

// IndexFunc declares `func name(operands...) (int64, ...)` returning the
// results of m. The first m.NumDims operand names are its dimensions
func IndexFunc(name string, m affine.Map, operandNames []string) (*goast.FuncDecl, error) {
	if len(operandNames) != m.NumDims+m.NumSymbols {
		return nil, fmt.Errorf("map %v expects %d operands but got %d", m, m.NumDims+m.NumSymbols, len(operandNames))
	}
	for _, n := range append([]string{name}, operandNames...) {
		if !token.IsIdentifier(n) {
			return nil, fmt.Errorf("%q is not a Go identifier", n)
		}
	}
	dimNames, symNames := operandNames[:m.NumDims], operandNames[m.NumDims:]

	results := make([]goast.Expr, len(m.Results))
	resultTypes := make([]*goast.Field, len(m.Results))
	for i, r := range m.Results {
		lowered, err := Expr(r, dimNames, symNames)
		if err != nil {
			return nil, fmt.Errorf("result %d: %w", i, err)
		}
		results[i] = lowered
		resultTypes[i] = &goast.Field{Type: goast.NewIdent("int64")}
	}

	var params []*goast.Field
	if len(operandNames) > 0 {
		names := make([]*goast.Ident, len(operandNames))
		for i, n := range operandNames {
			names[i] = goast.NewIdent(n)
		}
		params = []*goast.Field{{Names: names, Type: goast.NewIdent("int64")}}
	}

	return &goast.FuncDecl{
		Name: goast.NewIdent(name),
		Type: &goast.FuncType{
			Params:  &goast.FieldList{List: params},
			Results: &goast.FieldList{List: resultTypes},
		},
		Body: &goast.BlockStmt{List: []goast.Stmt{
			&goast.ReturnStmt{Results: results},
		}},
	}, nil
}

// File assembles funcs and the helpers they call into a Go source file
func File(pkg string, funcs ...*goast.FuncDecl) *goast.File {
	decls := Helpers()
	for _, f := range funcs {
		decls = append(decls, f)
	}
	return &goast.File{
		Name:      goast.NewIdent(pkg),
		GoVersion: goVersion,
		Decls:     decls,
	}
}

// Source formats f
func Source(f *goast.File) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := format.Node(buf, token.NewFileSet(), f); err != nil {
		return nil, fmt.Errorf("could not format generated code: %w", err)
	}
	return buf.Bytes(), nil
}

// Program declares one index function per operation of p, named after the
// function, the memref and the position of the operation. Operands keep
// their names when they can, and are called d0, d1, s0... otherwise
func Program(pkg string, p *hostir.Program) (*goast.File, error) {
	var funcs []*goast.FuncDecl
	for _, fn := range p.Funcs {
		for i, op := range fn.Ops {
			name := fmt.Sprintf("%s_%s%d", fn.Name, op.Memref, i)
			decl, err := IndexFunc(name, op.Access.Map, operandNames(op.Access))
			if err != nil {
				return nil, fmt.Errorf("%s op %d: %w", fn.Name, i, err)
			}
			funcs = append(funcs, decl)
		}
	}
	return File(pkg, funcs...), nil
}

func operandNames(access affine.AccessMap) []string {
	names := make([]string, len(access.Operands))
	usable := true
	for i, o := range access.Operands {
		names[i] = string(o)
		usable = usable && token.IsIdentifier(names[i]) && !slices.Contains(names[:i], names[i]) &&
			names[i] != floorDivName && names[i] != floorModName
	}
	if usable {
		return names
	}
	for i := range names {
		if i < access.NumDims {
			names[i] = "d" + strconv.Itoa(i)
		} else {
			names[i] = "s" + strconv.Itoa(i-access.NumDims)
		}
	}
	return names
}
