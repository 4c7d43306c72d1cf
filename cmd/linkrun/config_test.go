package main

import (
	"os"
	"path/filepath"
	"testing"

	lldbridge "github.com/wippyai/lld-bridge"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "linkrun.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[drivers.elf]
path = "toolchains/lld-elf.wasm"
mounts = ["/build:/build", "/tmp"]

[drivers.wasm]
path = "toolchains/wasm-ld.wasm"
name = "wasm-ld"
memory_limit_pages = 1024
`)

	setups, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if len(setups) != 2 {
		t.Fatalf("got %d setups, want 2", len(setups))
	}

	elf := setups[0]
	if elf.flavor != lldbridge.Elf {
		t.Errorf("first setup flavor = %v, want elf", elf.flavor)
	}
	if elf.path != "toolchains/lld-elf.wasm" {
		t.Errorf("elf path = %q", elf.path)
	}
	if elf.config.Name != "elf-ld" {
		t.Errorf("elf default name = %q, want %q", elf.config.Name, "elf-ld")
	}
	if len(elf.config.Mounts) != 2 {
		t.Fatalf("elf mounts = %+v", elf.config.Mounts)
	}
	if elf.config.Mounts[1].Host != "/tmp" || elf.config.Mounts[1].Guest != "/tmp" {
		t.Errorf("bare mount = %+v", elf.config.Mounts[1])
	}

	wasm := setups[1]
	if wasm.flavor != lldbridge.Wasm {
		t.Errorf("second setup flavor = %v, want wasm", wasm.flavor)
	}
	if wasm.config.Name != "wasm-ld" {
		t.Errorf("wasm name = %q", wasm.config.Name)
	}
	if wasm.config.MemoryLimitPages != 1024 {
		t.Errorf("wasm memory limit = %d", wasm.config.MemoryLimitPages)
	}
}

func TestLoadConfigUnknownFlavor(t *testing.T) {
	path := writeConfig(t, `
[drivers.pe]
path = "toolchains/pe-ld.wasm"
`)
	if _, err := loadConfig(path); err == nil {
		t.Error("expected error for unknown flavor key")
	}
}

func TestLoadConfigMissingPath(t *testing.T) {
	path := writeConfig(t, `
[drivers.coff]
mounts = ["/build"]
`)
	if _, err := loadConfig(path); err == nil {
		t.Error("expected error for missing path")
	}
}

func TestLoadConfigBadMount(t *testing.T) {
	path := writeConfig(t, `
[drivers.elf]
path = "toolchains/lld-elf.wasm"
mounts = [":/build"]
`)
	if _, err := loadConfig(path); err == nil {
		t.Error("expected error for malformed mount")
	}
}

func TestLoadConfigEmpty(t *testing.T) {
	path := writeConfig(t, "")
	if _, err := loadConfig(path); err == nil {
		t.Error("expected error for config without drivers")
	}
}
