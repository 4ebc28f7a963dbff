// Package sandbox is the engine behind every csb command. Each operation
// takes the project lock, loads the selection record, applies its change,
// and regenerates exactly the artifacts the overwrite policy allows for it.
package sandbox
