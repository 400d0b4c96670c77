//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/cottand/affinesimp/playground"
)

func main() {
	js.Global().Set("SimplifyAndShow", js.FuncOf(playground.SimplifyAndShow))
	js.Global().Set("EvaluateIndex", playground.EvaluateIndex)

	// wait indefinitely so that Go does not terminate execution
	// and the function remains available
	<-make(chan struct{})
}
