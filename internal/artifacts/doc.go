// Package artifacts renders the generated files of a project's .devcontainer
// directory and writes them under a per-artifact overwrite policy.
package artifacts
