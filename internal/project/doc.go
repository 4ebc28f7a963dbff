// Package project manages the per-project selection record
// (.devcontainer/csb.yaml): which built-in servers are selected, which custom
// servers were defined, and how agent context is aggregated. The record is the
// only authoritative input for regenerating artifacts; it is schema-validated
// on load and persisted atomically. Layout names every path the engine owns
// inside a project.
package project
