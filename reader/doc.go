// Package reader builds lazy datasets over record files written by the
// writer package. Files decode on demand, one at a time, so a pass over
// a large corpus never holds more than the current file's state.
package reader
