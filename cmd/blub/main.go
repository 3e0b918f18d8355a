// Package main is the entry point for the blub CLI client.
package main

import (
	"github.com/bluberryhq/bluberry/cmd/blub/cmd"
)

func main() {
	cmd.Execute()
}
