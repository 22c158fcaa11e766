// Package runs records one audit entry per synchronization run.
//
// Tracker.Track wraps a run function and always appends exactly one Record to
// its Sink, whether the run succeeds, fails or panics. A failed run keeps the
// total and skipped counts it reached but reports zero accepted records, since
// nothing it wrote was committed.
package runs
