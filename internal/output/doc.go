// Package output names and writes the artifacts of an alignment run.
//
// Writer.WriteAll emits a set of files all-or-nothing: every file is first
// staged as a synced temp file next to its target, existing targets are set
// aside, and only then are the temps renamed into place. Any failure restores
// the previous files and removes the temps. A per-directory flock keeps two
// runs from interleaving writes into the same output directory.
package output
