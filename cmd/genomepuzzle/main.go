package main

import (
	"fmt"
	"os"
)

// Set by linker via -ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func versionString() string {
	return fmt.Sprintf("genomepuzzle %s (%s) built %s", version, commit, date)
}

func main() {
	// Check for --version before full flag parsing
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" {
			fmt.Println(versionString())
			os.Exit(0)
		}
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "genomepuzzle: %v\n", err)
		os.Exit(1)
	}
}
