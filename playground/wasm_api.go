//go:build js && wasm

package playground

import (
	"fmt"
	"github.com/traefik/yaegi/interp"
	"reflect"
	"syscall/js"
)

// SimplifyAndShow simplifies the YAML program in args[0] and returns an
// object holding the simplified program and its lowered Go code, or an
// error message
func SimplifyAndShow(_ js.Value, args []js.Value) (ret any) {
	errorObj := func(err string) any {
		return js.ValueOf(map[string]any{
			"error": err,
		})
	}
	defer func() {
		if r := recover(); r != nil {
			ret = errorObj("simplifier panicked: " + fmt.Sprint(r))
		}
	}()
	if len(args) != 1 {
		return errorObj(fmt.Sprintf("expected 1 argument, got %d", len(args)))
	}

	result, err := Simplify(args[0].String())
	if err != nil {
		return errorObj(err.Error())
	}
	rewrites := make(map[string]any, len(result.Rewrites))
	for rule, n := range result.Rewrites {
		rewrites[rule] = n
	}
	return js.ValueOf(map[string]any{
		"program":  result.Program,
		"goOutput": result.GoOutput,
		"rewrites": rewrites,
	})
}

// evaluateIndex interprets lowered Go code in args[0] and calls the index
// function named args[1] with the integer arguments that follow
func evaluateIndex(_ js.Value, args []js.Value) (ret any, err error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("expected at least 2 arguments, got %d", len(args))
	}
	i := interp.New(interp.Options{})
	if _, err := i.Eval(args[0].String()); err != nil {
		return nil, fmt.Errorf("error during evaluation: %w", err)
	}
	f, err := i.Eval("index." + args[1].String())
	if err != nil {
		return nil, fmt.Errorf("no index function %s: %w", args[1].String(), err)
	}
	callArgs := make([]reflect.Value, len(args)-2)
	for k, a := range args[2:] {
		callArgs[k] = reflect.ValueOf(int64(a.Int()))
	}
	if f.Type().NumIn() != len(callArgs) {
		return nil, fmt.Errorf("%s takes %d arguments, got %d", args[1].String(), f.Type().NumIn(), len(callArgs))
	}
	results := f.Call(callArgs)
	indices := make([]any, len(results))
	for k, r := range results {
		indices[k] = r.Int()
	}
	return indices, nil
}

// asPromise implemented based on
// https://stackoverflow.com/questions/67437284/how-to-throw-js-error-from-go-web-assembly
//
// It wraps a function that may fail into one returning a promise, which is
// rejected with the error, if any
func asPromise(function func(js.Value, []js.Value) (any, error)) any {
	return js.FuncOf(func(this js.Value, args []js.Value) any {
		handler := js.FuncOf(func(_ js.Value, promiseArgs []js.Value) any {
			resolve := promiseArgs[0]
			reject := promiseArgs[1]

			go func() {
				defer func() {
					if r := recover(); r != nil {
						reject.Invoke(js.Global().Get("Error").New(fmt.Sprintf("%s", r)))
					}
				}()

				data, err := function(this, args)
				if err != nil {
					reject.Invoke(js.Global().Get("Error").New(err.Error()))
				} else {
					resolve.Invoke(js.ValueOf(data))
				}
			}()

			return nil
		})
		return js.Global().Get("Promise").New(handler)
	})
}

var EvaluateIndex = asPromise(evaluateIndex)
