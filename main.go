// Package main is the entrypoint for the heft CLI.
// It delegates all command handling to the cmd package.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/toyinlola/heft/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, cmd.ErrRiskThreshold) {
			fmt.Fprintf(os.Stderr, "heft: %v\n", err)
		}
		os.Exit(1)
	}
}
