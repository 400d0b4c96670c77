// Package playground runs the whole pipeline on a program given as text, for
// the browser build
package playground

import (
	"bytes"
	"fmt"
	"github.com/cottand/affinesimp/hostir"
	"github.com/cottand/affinesimp/lower"
)

// maxVerifiedPoints keeps verification responsive in a browser tab
const maxVerifiedPoints = 1 << 16

type Result struct {
	// Program is the simplified program, as YAML
	Program string
	// GoOutput holds the index functions of the simplified program
	GoOutput string
	Rewrites map[string]int
}

// Simplify loads the YAML program src, simplifies it, checks the result
// against the original, and lowers it to Go
func Simplify(src string) (Result, error) {
	p, err := hostir.LoadProgram(bytes.NewBufferString(src))
	if err != nil {
		return Result{}, err
	}
	original := p.Clone()

	stats, err := hostir.ApplyToProgram(p, hostir.DefaultRules(), hostir.DefaultDriverConfig())
	if err != nil {
		return Result{}, err
	}
	if err := hostir.VerifyProgram(original, p, maxVerifiedPoints); err != nil {
		return Result{}, fmt.Errorf("simplified program is not equivalent: %w", err)
	}

	programBuf := &bytes.Buffer{}
	if err := hostir.WriteProgram(programBuf, p); err != nil {
		return Result{}, err
	}
	f, err := lower.Program("index", p)
	if err != nil {
		return Result{}, err
	}
	goSource, err := lower.Source(f)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Program:  programBuf.String(),
		GoOutput: string(goSource),
		Rewrites: stats.Rewrites,
	}, nil
}
