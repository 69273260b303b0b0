// Package training assembles record datasets into the streams a training
// loop consumes: an endless, shuffled, batched mix of the configured
// datasets, plus eagerly loaded held-out sets for evaluation.
package training
