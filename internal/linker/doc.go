// Package linker decides how staged context is exposed inside the container.
// Resolve assigns display names by locality: names already present in the
// global agent home win, then extra sources in list order, then ancestor
// levels from nearest to farthest; later claimants get a suffix. The result
// is a declarative Manifest of (target, link) pairs, and Emit turns a
// manifest into the POSIX setup script the container runs on start.
package linker
