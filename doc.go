// Package lldbridge embeds a linker driver in the host process and
// exposes a single call surface for producing final binary artifacts
// (shared objects, executables) across four object-file ecosystems:
// ELF, WebAssembly, Mach-O, and COFF.
//
// The linking algorithms themselves are out of scope here. Each flavor
// is served by an opaque Driver capability; the bridge owns everything
// around the call: flavor dispatch, per-flavor serialization, argv
// marshaling quirks, diagnostic capture, and the ownership handoff of
// the diagnostic text.
//
// # Quick Start
//
//	bridge := lldbridge.New()
//	bridge.RegisterDriver(lldbridge.Elf, driver)
//
//	res := bridge.Link(lldbridge.Elf, []string{"-o", "out.so", "a.o"})
//	defer res.Release()
//	if !res.Success {
//	    log.Fatal(res.Diagnostics.String())
//	}
//
// # Thread Safety
//
// Bridge is safe for concurrent use. Invocations of the same flavor are
// serialized by a dedicated guard because linker drivers keep internal
// state that concurrent or re-entrant calls corrupt; invocations of
// different flavors proceed concurrently. Guard acquisition blocks with
// no timeout and no cancellation: the underlying drivers offer no
// cancellation contract, and the bridge does not fake one.
//
// # Diagnostic Ownership
//
// A Result with non-nil Diagnostics owns a pooled buffer. The caller
// must call Release exactly once when done with it. Releasing a Result
// without diagnostics is a safe no-op any number of times, but
// releasing the same present buffer twice (for example through two
// copies of one Result) is undefined: the buffer returns to the pool
// and may already back another invocation's diagnostics.
//
// # Faults
//
// A panic inside a driver is recovered, converted to a failed Result
// whose diagnostics describe the fault, and the flavor's guard is
// released. A process-fatal fault inside a driver (the driver aborts
// the process) is not recoverable; no guard state survives it.
package lldbridge
