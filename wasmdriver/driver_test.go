package wasmdriver

import (
	"bytes"
	"context"
	stderrors "errors"
	"strings"
	"testing"

	bridgeerrors "github.com/wippyai/lld-bridge/errors"
)

// Minimal hand-assembled WASI command modules. Layout per the wasm
// binary format: magic+version, then type (1), import (2), function
// (3), export (7), and code (10) sections.

// returnModule exports a _start that returns immediately.
func returnModule() []byte {
	return []byte{
		0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00, // \0asm v1
		0x01, 0x04, 0x01, 0x60, 0x00, 0x00, // type: () -> ()
		0x03, 0x02, 0x01, 0x00, // func 0 uses type 0
		0x07, 0x0a, 0x01, 0x06, '_', 's', 't', 'a', 'r', 't', 0x00, 0x00, // export "_start"
		0x0a, 0x04, 0x01, 0x02, 0x00, 0x0b, // body: end
	}
}

// trapModule exports a _start that executes unreachable.
func trapModule() []byte {
	return []byte{
		0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
		0x01, 0x04, 0x01, 0x60, 0x00, 0x00,
		0x03, 0x02, 0x01, 0x00,
		0x07, 0x0a, 0x01, 0x06, '_', 's', 't', 'a', 'r', 't', 0x00, 0x00,
		0x0a, 0x05, 0x01, 0x03, 0x00, 0x00, 0x0b, // body: unreachable, end
	}
}

// exitModule exports a _start that calls wasi proc_exit(1).
func exitModule() []byte {
	mod := []byte{
		0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
		0x01, 0x08, 0x02, 0x60, 0x00, 0x00, 0x60, 0x01, 0x7f, 0x00, // types: ()->(), (i32)->()
	}
	// import wasi_snapshot_preview1.proc_exit as func 0 (type 1)
	imp := []byte{0x01, 0x16}
	imp = append(imp, []byte("wasi_snapshot_preview1")...)
	imp = append(imp, 0x09)
	imp = append(imp, []byte("proc_exit")...)
	imp = append(imp, 0x00, 0x01)
	mod = append(mod, 0x02, byte(len(imp)))
	mod = append(mod, imp...)
	mod = append(mod,
		0x03, 0x02, 0x01, 0x00, // func 1 uses type 0
		0x07, 0x0a, 0x01, 0x06, '_', 's', 't', 'a', 'r', 't', 0x00, 0x01, // export func 1
		0x0a, 0x08, 0x01, 0x06, 0x00, 0x41, 0x01, 0x10, 0x00, 0x0b, // i32.const 1, call 0, end
	)
	return mod
}

func TestNewInvalidBinary(t *testing.T) {
	ctx := context.Background()

	_, err := New(ctx, []byte("not a wasm module"), Config{Name: "bogus"})
	if err == nil {
		t.Fatal("expected compile error for invalid binary")
	}
	if !stderrors.Is(err, &bridgeerrors.Error{
		Phase: bridgeerrors.PhaseCompile,
		Kind:  bridgeerrors.KindInvalidData,
	}) {
		t.Errorf("expected structured compile error, got %v", err)
	}
}

func TestLinkCleanReturn(t *testing.T) {
	ctx := context.Background()

	d, err := New(ctx, returnModule(), Config{Name: "stub-ld"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer d.Close(ctx)

	var stdout, stderr bytes.Buffer
	if !d.Link([]string{"stub-ld", "-o", "out"}, &stdout, &stderr) {
		t.Errorf("expected success, stderr: %q", stderr.String())
	}
	if stdout.Len() != 0 || stderr.Len() != 0 {
		t.Errorf("expected silent run, got stdout=%q stderr=%q", stdout.String(), stderr.String())
	}
}

func TestLinkRepeatInstantiation(t *testing.T) {
	ctx := context.Background()

	d, err := New(ctx, returnModule(), Config{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer d.Close(ctx)

	var stdout, stderr bytes.Buffer
	for i := 0; i < 3; i++ {
		if !d.Link(nil, &stdout, &stderr) {
			t.Fatalf("run %d failed, stderr: %q", i, stderr.String())
		}
	}
}

func TestLinkNonZeroExit(t *testing.T) {
	ctx := context.Background()

	d, err := New(ctx, exitModule(), Config{Name: "exit-ld"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer d.Close(ctx)

	var stdout, stderr bytes.Buffer
	if d.Link(nil, &stdout, &stderr) {
		t.Error("expected failure for exit code 1")
	}
}

func TestLinkTrap(t *testing.T) {
	ctx := context.Background()

	d, err := New(ctx, trapModule(), Config{Name: "trap-ld"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer d.Close(ctx)

	var stdout, stderr bytes.Buffer
	if d.Link(nil, &stdout, &stderr) {
		t.Error("expected failure for trapping driver")
	}
	if !strings.Contains(stderr.String(), "trap-ld") {
		t.Errorf("expected fault text on error sink, got %q", stderr.String())
	}
}

func TestParseMount(t *testing.T) {
	cases := []struct {
		in      string
		want    Mount
		wantErr bool
	}{
		{in: "/build:/work", want: Mount{Host: "/build", Guest: "/work"}},
		{in: "/build", want: Mount{Host: "/build", Guest: "/build"}},
		{in: "", wantErr: true},
		{in: ":/work", wantErr: true},
		{in: "/build:", wantErr: true},
	}

	for _, tc := range cases {
		got, err := ParseMount(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseMount(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMount(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseMount(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestDriverName(t *testing.T) {
	ctx := context.Background()

	d, err := New(ctx, returnModule(), Config{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer d.Close(ctx)

	if d.Name() != "linker" {
		t.Errorf("default name = %q, want %q", d.Name(), "linker")
	}
}
