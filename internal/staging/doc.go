// Package staging builds the staged context tree under
// .devcontainer/claude-context. Every sync rebuilds the tree from scratch in
// a sibling directory and swaps it into place, so a removed source never
// leaves stale content behind and identical inputs give identical bytes.
//
// Layout of the staged tree:
//
//	parents/level-<n>/<document>        ancestor instructions
//	parents/level-<n>/<kind>/...        ancestor skills, agents, commands, rules
//	extra/<name>-<hash>/...             extra sources
package staging
