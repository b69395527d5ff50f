// Package main provides the trellis command-line interface for
// managing the lifecycle of PostgreSQL views and materialized views:
// cascade-safe definition updates, dependency-ordered refreshes,
// declarative plan application, and schema dumps.
package main

import "os"

// Version is set during build time via ldflags.
var Version = "v0.1.0-dev"

func main() {
	if err := getRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
