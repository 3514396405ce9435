// Package demo runs the ranking engine offline against a fixture
// catalog, printing classical, quantum, and comparison outcomes so the
// two strategies can be inspected without any upstream credentials.
package demo

import "os"

// Config controls a demo run.
type Config struct {
	Query   string // single query; empty runs the built-in set
	Mode    string // classical, quantum, or both
	Compare bool   // also run the comparator for every query
	Verbose bool
}

// ShowHelp prints usage information for the demo tool.
func ShowHelp() {
	os.Stdout.WriteString(`qflick Ranking Demo
===================

Runs both ranking strategies over a built-in movie catalog, no API keys
required.

Usage:
  go run cmd/demo/main.go [options]

Options:
  -query string
        Query to rank (default: run the built-in query set)
  -mode string
        Ranking mode: classical, quantum or both (default "both")
  -compare
        Also run the mode comparator for every query
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Rank the built-in queries with both strategies
  go run cmd/demo/main.go

  # Rank one query with the quantum strategy only
  go run cmd/demo/main.go -query "space dream heist" -mode quantum

  # Show where the strategies disagree
  go run cmd/demo/main.go -compare
`)
}
