// Package batch runs many independent alignment requests in parallel.
//
// Requests come from a TOML manifest (LoadManifest) and run through any
// Executor, normally a workflow.Runner, with a bounded errgroup. Alignment
// holds no shared state, so the only coordination is the output directory
// lock taken by the writer when two jobs target the same directory.
package batch
