// Package recfile implements the on-disk record file format shared by
// the reader and writer packages: a small header carrying a magic
// string, format version, and compression codec, followed by
// length-prefixed gob-encoded records.
package recfile
