// Package dataset implements a lazy, composable operator algebra over
// record streams, built for feeding ML training loops.
//
// A Dataset is a node in an operator graph. Operators are pure factories:
//
//	pairs := dataset.FromRecords(rows...).
//		Filter(valid).
//		Map(normalize, executor.WithThreads(8)).
//		Shuffle(dataset.WithBuffer(4096)).
//		Batch(32)
//
// Nothing runs until a terminal (List, First, ForEach, ...) or an explicit
// Iterate opens a pass. Each per-record stage picks its executor from its
// own options or inherits the left-most upstream's choice; see the
// executor package for the precedence rules.
//
// Merge nodes combine datasets: Concat drains upstreams in order,
// RoundRobin interleaves them one record at a time. Both cut the executor
// inheritance chain.
package dataset
