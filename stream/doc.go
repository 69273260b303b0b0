// Package stream defines the pull-based iteration contract shared by the
// dataset algebra, the executors and the storage layer.
//
// An Iterator yields records one at a time; nothing upstream runs until the
// consumer asks for the next record, which gives natural backpressure. Close
// must release every resource the iterator holds and is safe to call on any
// exit path — normal exhaustion, early abandonment, or error.
package stream
