// Package main is the entry point for the dress2mydoor CLI.
package main

import (
	"fmt"
	"os"

	"github.com/dress2mydoor/dress2mydoor/cmd/dress2mydoor/commands"
	"github.com/dress2mydoor/dress2mydoor/internal/seed"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(seed.ExitCode(err))
	}
}
