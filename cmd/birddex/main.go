// Package main provides the birddex CLI application.
// birddex manages the local species dictionary: one-time ingestion of
// the reference dataset and coordinated queries against it.
package main

import (
	"os"
)

var (
	// Version is set by build flags
	Version = "dev"
)

func main() {
	if err := getRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
