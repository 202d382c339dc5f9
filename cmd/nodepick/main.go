// Package main is the entry point for the nodepick CLI.
package main

import (
	"os"

	"github.com/runger/nodepick/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
