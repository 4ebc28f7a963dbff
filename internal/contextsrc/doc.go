// Package contextsrc finds agent context on disk. Classify decides what a
// path is (an instructions document, a fragment directory such as skills/ or
// agents/, or a context root holding both). Discover walks a bounded number
// of ancestor directories and reports what each level contributes. All reads
// go through an afero.Fs and nothing is written.
package contextsrc
