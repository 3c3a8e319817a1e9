package main

import (
	"os"
)

// Build information injected via ldflags at build time.
var (
	version = "dev"
	commit  = "none"
)

// main hands off to the cobra command tree. Business logic lives in the
// internal service packages.
func main() {
	rootCmd.Version = version + " (" + commit + ")"
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
