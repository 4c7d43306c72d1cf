package wasmdriver

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"
	"go.uber.org/zap"

	"github.com/wippyai/lld-bridge/errors"
)

// Mount maps a host directory into the driver's guest filesystem.
type Mount struct {
	Host  string
	Guest string
}

// Config holds configuration for driver creation
type Config struct {
	// Name labels the driver in logs and errors, e.g. "wasm-ld".
	Name string

	// Mounts lists host directories visible to the toolchain. A
	// driver with no mounts cannot read objects or write artifacts;
	// most configurations mount at least the build tree.
	Mounts []Mount

	// MemoryLimitPages caps guest memory in 64KB pages. 0 means the
	// wazero default.
	MemoryLimitPages uint32
}

// Driver runs a linker toolchain compiled to a WASI preview1 command
// module, in-process on wazero. The module is compiled once at
// construction; every Link instantiates it fresh, so each invocation
// starts from pristine guest state.
//
// Driver itself performs no serialization. Concurrent instantiation is
// safe at the wazero level, but the guest toolchain mutates the shared
// host filesystem through its mounts; the bridge's per-flavor guard is
// what keeps invocations from interleaving.
type Driver struct {
	runtime  wazero.Runtime
	compiled wazero.CompiledModule
	fsConfig wazero.FSConfig
	name     string
}

// New compiles the given WASI command module into a reusable driver.
// The binary must export _start.
func New(ctx context.Context, binary []byte, cfg Config) (*Driver, error) {
	name := cfg.Name
	if name == "" {
		name = "linker"
	}

	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}
	runtime := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)
	wasi_snapshot_preview1.MustInstantiate(ctx, runtime)

	compiled, err := runtime.CompileModule(ctx, binary)
	if err != nil {
		runtime.Close(ctx)
		return nil, errors.CompileFailed(fmt.Sprintf("compile %s module", name), err)
	}

	fsConfig := wazero.NewFSConfig()
	for _, m := range cfg.Mounts {
		fsConfig = fsConfig.WithDirMount(m.Host, m.Guest)
	}

	return &Driver{
		runtime:  runtime,
		compiled: compiled,
		fsConfig: fsConfig,
		name:     name,
	}, nil
}

// Name returns the driver's label.
func (d *Driver) Name() string {
	return d.name
}

// Link satisfies the bridge's Driver interface. It instantiates the
// compiled toolchain with the marshaled argument vector, wiring its
// stdout and stderr to the call-scoped sinks, and maps the guest's
// exit status onto the success flag: a clean _start return or exit(0)
// is success, anything else is failure. Instantiation faults that
// never reach guest code are reported as failure with the fault text
// on the error sink.
func (d *Driver) Link(args []string, stdout, stderr io.Writer) bool {
	ctx := context.Background()

	modConfig := wazero.NewModuleConfig().
		WithName(""). // anonymous, repeat instantiation must not collide
		WithArgs(args...).
		WithStdout(stdout).
		WithStderr(stderr).
		WithFSConfig(d.fsConfig)

	start := time.Now()
	mod, err := d.runtime.InstantiateModule(ctx, d.compiled, modConfig)
	if mod != nil {
		mod.Close(ctx)
	}
	Logger().Debug("driver run",
		zap.String("driver", d.name),
		zap.Int("args", len(args)),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err))

	if err == nil {
		return true
	}
	var exitErr *sys.ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr.ExitCode() == 0
	}
	fmt.Fprintf(stderr, "%s: %v\n", d.name, err)
	return false
}

// Close releases the compiled module and its runtime. The driver must
// not be used afterwards.
func (d *Driver) Close(ctx context.Context) error {
	return d.runtime.Close(ctx)
}

// ParseMount parses "host:guest" mount syntax. A bare path mounts the
// same location on both sides.
func ParseMount(s string) (Mount, error) {
	if s == "" {
		return Mount{}, errors.InvalidData(errors.PhaseConfig, "empty mount", nil)
	}
	host, guest, found := strings.Cut(s, ":")
	if !found {
		return Mount{Host: s, Guest: s}, nil
	}
	if host == "" || guest == "" {
		return Mount{}, errors.InvalidData(errors.PhaseConfig,
			fmt.Sprintf("mount %q: both host and guest paths required", s), nil)
	}
	return Mount{Host: host, Guest: guest}, nil
}
