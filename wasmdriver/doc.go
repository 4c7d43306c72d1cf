// Package wasmdriver implements the bridge's Driver capability with a
// linker toolchain compiled to a WASI preview1 command module, run
// in-process on wazero. No external linker process is spawned: the
// toolchain executes inside the host, taking its argument vector via
// WASI args and emitting diagnostics on its stdout and stderr.
//
// # Main Types
//
//   - Driver: compile-once, instantiate-per-link wrapper around one
//     toolchain binary
//   - Config: name, host directory mounts, memory limit
//
// # Thread Safety
//
// Driver does not serialize its own invocations; the bridge's
// per-flavor guard does. See the lldbridge package.
package wasmdriver
