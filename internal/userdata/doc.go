// Package userdata resolves host-side user paths (the agent home directory
// holding global context and settings) and checks the user's environment:
// env files next to a project, redaction of secret values for display, and
// the doctor report of required variables and tools.
package userdata
