package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	lldbridge "github.com/wippyai/lld-bridge"
	"github.com/wippyai/lld-bridge/wasmdriver"
)

// fileConfig is the on-disk shape:
//
//	[drivers.elf]
//	path = "toolchains/lld-elf.wasm"
//	mounts = ["/build:/build"]
type fileConfig struct {
	Drivers map[string]driverFileConfig `toml:"drivers"`
}

type driverFileConfig struct {
	Path             string   `toml:"path"`
	Name             string   `toml:"name"`
	Mounts           []string `toml:"mounts"`
	MemoryLimitPages uint32   `toml:"memory_limit_pages"`
}

// driverSetup is one resolved [drivers.*] entry.
type driverSetup struct {
	flavor lldbridge.Flavor
	path   string
	config wasmdriver.Config
}

func loadConfig(path string) ([]driverSetup, error) {
	var raw fileConfig
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if len(raw.Drivers) == 0 {
		return nil, fmt.Errorf("config %s: no [drivers.*] tables", path)
	}

	setups := make([]driverSetup, 0, len(raw.Drivers))
	for key, dc := range raw.Drivers {
		flavor, err := lldbridge.ParseFlavor(key)
		if err != nil {
			return nil, fmt.Errorf("config %s: [drivers.%s]: %w", path, key, err)
		}
		if strings.TrimSpace(dc.Path) == "" {
			return nil, fmt.Errorf("config %s: [drivers.%s]: path required", path, key)
		}

		cfg := wasmdriver.Config{
			Name:             dc.Name,
			MemoryLimitPages: dc.MemoryLimitPages,
		}
		if cfg.Name == "" {
			cfg.Name = key + "-ld"
		}
		for _, m := range dc.Mounts {
			mount, err := wasmdriver.ParseMount(m)
			if err != nil {
				return nil, fmt.Errorf("config %s: [drivers.%s]: %w", path, key, err)
			}
			cfg.Mounts = append(cfg.Mounts, mount)
		}

		setups = append(setups, driverSetup{
			flavor: flavor,
			path:   strings.TrimSpace(dc.Path),
			config: cfg,
		})
	}

	sort.Slice(setups, func(i, j int) bool { return setups[i].flavor < setups[j].flavor })
	return setups, nil
}
