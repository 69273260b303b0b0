// Package writer persists datasets as record files, optionally sharded
// and compressed, in the format the reader package consumes.
package writer
