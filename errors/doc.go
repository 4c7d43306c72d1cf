// Package errors provides structured error types for the bridge.
//
// Link outcomes never travel as Go errors; they are carried by the
// bridge's Result per its flat call contract. This package covers the
// rest: driver construction, module compilation, and configuration,
// where an error with a Phase and Kind beats a bare string when a host
// has to decide what to do.
package errors
