// Package main is the entry point for the bluberry server.
package main

import (
	"os"

	"github.com/bluberryhq/bluberry/cmd/bluberry/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
