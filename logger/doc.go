// Package logger provides structured logging for datakit built on zerolog.
//
// Pipelines write their payload to stdout or storage, so logs default to
// stderr. Components obtain a tagged logger via WithComponent and attach
// structured fields with the Fields helper.
package logger
