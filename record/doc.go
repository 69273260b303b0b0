// Package record defines the unit of data flowing through datakit pipelines.
//
// A Record is a sealed tagged variant with four concrete types:
//
//   - Scalar: a single primitive (float, int, string, bool)
//   - Sequence: an ordered tuple of records
//   - KeyedMap: a string-keyed map of records
//   - Tensor: a dense multi-dimensional numeric array
//
// Consumers pattern-match with a type switch rather than probing attributes.
// Stack builds batched records (new leading axis) from windows of records,
// and ShapeOf/TypesOf produce the structural descriptors used by the
// dataset package's memoized shape inference.
//
// All concrete types are gob-registered so records can cross the process
// boundary inside multi-process executor tasks.
package record
