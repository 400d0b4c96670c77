package cmd

import (
	"fmt"
	"github.com/cottand/affinesimp/affine"
	"github.com/cottand/affinesimp/hostir"
	"github.com/fatih/color"
	"io"
)

var (
	headerStyle  = color.New(color.FgCyan, color.Bold)
	ruleStyle    = color.New(color.FgYellow)
	removedStyle = color.New(color.FgRed)
	addedStyle   = color.New(color.FgGreen)
	okStyle      = color.New(color.FgGreen, color.Bold)
	warnStyle    = color.New(color.FgHiYellow, color.Bold)
)

// formatRewrite shows one rule application as a two-line diff of the access map
func formatRewrite(fn *hostir.Func, op *hostir.Op, rule string, before affine.AccessMap) string {
	return headerStyle.Sprintf("%s: %s %s", fn.Name, op.Kind, op.Memref) + " " + ruleStyle.Sprintf("(%s)", rule) + "\n" +
		removedStyle.Sprintf("- %v", before.Map) + "\n" +
		addedStyle.Sprintf("+ %v", op.Access.Map) + "\n"
}

func diffPrinter(w io.Writer) func(fn *hostir.Func, op *hostir.Op, rule string, before affine.AccessMap) {
	return func(fn *hostir.Func, op *hostir.Op, rule string, before affine.AccessMap) {
		_, _ = fmt.Fprint(w, formatRewrite(fn, op, rule, before))
	}
}
