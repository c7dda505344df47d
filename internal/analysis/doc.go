// Package analysis derives the scheduling metadata of an application.
//
// The Analyzer folds the immutable input graph (core.App) through a fixed set
// of passes and returns a core.Analysis for the code generator:
//
//   - late: partitions late resources across the cores' init routines
//   - ownership: classifies each resource as owned, co-owned or contended and
//     computes its priority ceiling
//   - location: records the owning core of each resource
//   - channels: buckets spawn edges by dispatch priority and sizes the
//     channels and free queues
//   - timer-queue: aggregates schedule edges into the single timer queue
//   - safety: collects the types that must be transferable across contexts
//
// # Pass Ordering
//
// Each pass declares the passes whose results it reads. The pipeline is
// ordered with a dag.Graph, so adding a pass never requires editing a
// hard-coded sequence. Passes share one accumulator; none of them keeps state
// between Analyze calls.
//
// # Usage
//
//	analyzer := analysis.New(analysis.Config{Logger: logger})
//	result := analyzer.Analyze(app)
//	if result.NeedsLock("buffer", 1) {
//		// emit a ceiling lock
//	}
//
// The input graph must satisfy the preconditions checked by loader.Validate.
// Analyze has no error path: invoking it on an invalid graph is a contract
// violation and panics.
package analysis
