// Package main provides the entry point for BPSim.
// BPSim replays branch traces through configurable branch predictors.
//
// For the full CLI, use: go run ./cmd/bpsim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("BPSim - Branch Predictor Simulator")
	fmt.Println("Built on Akita simulation framework")
	fmt.Println("")
	fmt.Println("Usage: bpsim <command> [options]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  simulate   Replay a trace file through predictor configurations")
	fmt.Println("  alias      Report table aliasing for synthetic branch patterns")
	fmt.Println("  synth      Write a synthetic trace file")
	fmt.Println("  resolve    Build a trace file from disassembly and flag samples")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/bpsim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/bpsim' instead.")
	}
}
