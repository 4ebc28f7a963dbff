// Package cli defines the Cobra command tree for the csb CLI. Each file in
// this package registers one top-level command (init, mcp, context, etc.)
// with the root command. Command implementations delegate to the sandbox
// engine and only handle flag parsing and output formatting.
package cli
