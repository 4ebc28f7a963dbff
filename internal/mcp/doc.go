// Package mcp holds server definitions for the agent's tool servers: the
// built-in catalog, an insertion-ordered ServerMap, the loader for the
// user's global server document, and the Merge resolver that overlays a
// project's selection onto the global set.
package mcp
