//go:build js && wasm

// Command wasm exposes the action selector to the browser via WebAssembly.
// After loading, it registers a global JavaScript function:
//
//	selectActions(jsonString) -> jsonString
//
// The input and output are JSON-encoded ReplayInput and ReplayLog respectively,
// matching the contract used by the CLI.
package main

import (
	"syscall/js"

	"github.com/meghdeepj/Social-Navigation-Simulator/internal/engine"
)

func main() {
	js.Global().Set("selectActions", js.FuncOf(selectActions))
	select {} // keep the WASM module alive until the page is closed
}

func selectActions(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		return map[string]any{"error": "no input provided"}
	}

	result, err := engine.RunJSON(args[0].String())
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	return result
}
