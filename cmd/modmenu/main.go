// Package main is the entry point for the modmenu CLI.
package main

import (
	"fmt"
	"os"

	"github.com/git-pkgs/modmenu/internal/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
