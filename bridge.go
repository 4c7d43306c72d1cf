package lldbridge

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Bridge dispatches link invocations to per-flavor drivers and
// serializes calls into each driver. Safe for concurrent use.
//
// The guards are process-lifetime: created with the Bridge, never
// rebound or destroyed. At most one invocation per flavor executes its
// driver at any instant; different flavors run independently.
type Bridge struct {
	drivers [flavorCount]Driver
	guards  [flavorCount]sync.Mutex
}

// New creates a Bridge with no drivers registered. Linking a flavor
// without a driver fails the same way an unsupported flavor does.
func New() *Bridge {
	return &Bridge{}
}

// RegisterDriver installs the driver serving one flavor. Registration
// is not synchronized against in-flight links; install all drivers
// before the first Link call.
func (b *Bridge) RegisterDriver(f Flavor, d Driver) error {
	if !f.Valid() {
		return fmt.Errorf("lldbridge: register driver: unsupported flavor %s", f)
	}
	if d == nil {
		return fmt.Errorf("lldbridge: register driver: nil driver for flavor %s", f)
	}
	b.drivers[f] = d
	return nil
}

// Driver returns the driver registered for f, or nil.
func (b *Bridge) Driver(f Flavor) Driver {
	if !f.Valid() {
		return nil
	}
	return b.drivers[f]
}

// Link runs one link invocation for the given flavor.
//
// The argument slice excludes the program name and is not retained
// past the call; flavors whose driver expects argv[0] to name the
// program get a fixed placeholder prepended. The call blocks until any
// in-flight invocation of the same flavor completes, then holds the
// flavor's guard for the driver call's duration. There is no timeout
// and no cancellation.
//
// An unsupported flavor, or a flavor with no registered driver, yields
// a failed Result with absent diagnostics without touching any guard.
// The returned diagnostics, if present, are owned by the caller; see
// Result.Release.
func (b *Bridge) Link(flavor Flavor, args []string) Result {
	if !flavor.Valid() || b.drivers[flavor] == nil {
		Logger().Debug("link rejected",
			zap.Stringer("flavor", flavor),
			zap.Bool("registered", flavor.Valid() && b.drivers[flavor] != nil))
		return Result{Success: false}
	}

	argv := marshalArgs(flavor, args)
	errSink := getDiagBuf()
	outSink := getDiagBuf()

	start := time.Now()
	ok := b.invoke(flavor, argv, errSink, outSink)

	res := Result{
		Success:     ok,
		Diagnostics: packageDiagnostics(errSink, outSink),
	}
	Logger().Debug("link finished",
		zap.Stringer("flavor", flavor),
		zap.Int("args", len(args)),
		zap.Bool("success", res.Success),
		zap.Int("diagnostics_bytes", res.Diagnostics.Len()),
		zap.Duration("elapsed", time.Since(start)))
	return res
}

// invoke runs the driver under the flavor's guard. A panic escaping
// the driver is converted to a failed link with the fault appended to
// the error sink; the guard is released either way. A process-fatal
// fault inside the driver never returns here and leaves the guard
// held, which is moot once the process dies.
func (b *Bridge) invoke(flavor Flavor, argv []string, errSink, outSink *bytes.Buffer) (ok bool) {
	b.guards[flavor].Lock()
	defer b.guards[flavor].Unlock()
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(errSink, "%s driver fault: %v\n", flavor, r)
			ok = false
		}
	}()
	return b.drivers[flavor].Link(argv, outSink, errSink)
}

// marshalArgs builds the vector handed to the driver. ELF and COFF
// drivers descend from process entry points and require a program
// name at argv[0]; the rest take the caller's arguments verbatim. The
// caller's slice is copied, never aliased.
func marshalArgs(flavor Flavor, args []string) []string {
	argv0 := flavorSpecs[flavor].argv0
	if argv0 == "" {
		argv := make([]string, len(args))
		copy(argv, args)
		return argv
	}
	argv := make([]string, 0, len(args)+1)
	argv = append(argv, argv0)
	return append(argv, args...)
}
