package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"

	lldbridge "github.com/wippyai/lld-bridge"
	"github.com/wippyai/lld-bridge/wasmdriver"
)

func main() {
	var (
		configPath  = flag.String("config", "linkrun.toml", "Path to driver config")
		flavorName  = flag.String("flavor", "", "Target flavor: elf, wasm, mach-o, coff")
		verbose     = flag.Bool("v", false, "Enable debug logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		lldbridge.SetLogger(logger)
		wasmdriver.SetLogger(logger)
	}

	if !*interactive && *flavorName == "" {
		fmt.Fprintln(os.Stderr, "Usage: linkrun -flavor <elf|wasm|mach-o|coff> [-config file] [args...]")
		fmt.Fprintln(os.Stderr, "       linkrun -i  (interactive mode)")
		os.Exit(1)
	}

	ok, err := run(*configPath, *flavorName, *interactive, flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !ok {
		os.Exit(1)
	}
}

func run(configPath, flavorName string, interactive bool, args []string) (bool, error) {
	ctx := context.Background()

	setups, err := loadConfig(configPath)
	if err != nil {
		return false, err
	}

	bridge := lldbridge.New()
	var drivers []*wasmdriver.Driver
	defer func() {
		for _, d := range drivers {
			d.Close(ctx)
		}
	}()

	for _, s := range setups {
		binary, err := os.ReadFile(s.path)
		if err != nil {
			return false, fmt.Errorf("read %s driver: %w", s.flavor, err)
		}
		d, err := wasmdriver.New(ctx, binary, s.config)
		if err != nil {
			return false, fmt.Errorf("build %s driver: %w", s.flavor, err)
		}
		drivers = append(drivers, d)
		if err := bridge.RegisterDriver(s.flavor, d); err != nil {
			return false, err
		}
	}

	if interactive {
		return true, runInteractive(bridge, setups)
	}

	flavor, err := lldbridge.ParseFlavor(flavorName)
	if err != nil {
		return false, err
	}

	res := bridge.Link(flavor, args)
	defer res.Release()

	printDiagnostics(res)
	return res.Success, nil
}

var (
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD166"))
)

// printDiagnostics writes the diagnostic blob to stderr, styled when
// stderr is a terminal. Diagnostics on success are warnings, not
// errors, and are tinted accordingly.
func printDiagnostics(res lldbridge.Result) {
	if res.Diagnostics == nil {
		return
	}
	text := res.Diagnostics.String()
	if term.IsTerminal(int(os.Stderr.Fd())) {
		style := failStyle
		if res.Success {
			style = warnStyle
		}
		text = style.Render(text)
	}
	fmt.Fprintln(os.Stderr, text)
}
