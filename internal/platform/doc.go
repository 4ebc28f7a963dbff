// Package platform provides the filesystem primitives the engine relies on
// for crash safety: atomic temp-then-rename writes, batched writes that commit
// all-or-nothing, directory swaps, advisory file locks, and permission bits
// that degrade to no-ops on Windows.
package platform
