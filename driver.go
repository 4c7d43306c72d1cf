package lldbridge

import "io"

// Driver is the linking capability for one flavor. Link runs a single
// link with the marshaled argument vector, writing informational text
// to stdout and error text to stderr, and reports whether the link
// succeeded.
//
// Implementations do not need to be safe for concurrent use; the
// bridge serializes all calls to a flavor's driver. The argument slice
// and both sinks are only valid for the duration of the call and must
// not be retained.
type Driver interface {
	Link(args []string, stdout, stderr io.Writer) bool
}

// DriverFunc adapts a plain function to the Driver interface.
type DriverFunc func(args []string, stdout, stderr io.Writer) bool

// Link calls f.
func (f DriverFunc) Link(args []string, stdout, stderr io.Writer) bool {
	return f(args, stdout, stderr)
}
