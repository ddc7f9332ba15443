// Package main is the entry point for the yuno command line.
package main

import (
	"fmt"
	"os"

	"github.com/luckylabs-yuno/yuno/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
