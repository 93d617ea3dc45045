// Package main provides the entry point for the webide CLI.
package main

import (
	"fmt"
	"os"

	"github.com/mobidic/webide/cmd/webide/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
