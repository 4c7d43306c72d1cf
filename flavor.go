package lldbridge

import "fmt"

// Flavor selects the object-file ecosystem a link targets. It decides
// which driver and which serialization guard the bridge uses, and
// whether the driver expects a synthetic program name as argv[0].
type Flavor int

const (
	Elf Flavor = iota
	Wasm
	MachO
	Coff

	flavorCount
)

// flavorSpec carries the per-flavor invocation quirks. The argv0 field
// is non-empty for drivers originally written as process entry points;
// those still insist on a program name at the front of the vector.
type flavorSpec struct {
	name  string
	argv0 string
}

var flavorSpecs = [flavorCount]flavorSpec{
	Elf:   {name: "elf", argv0: "lld"},
	Wasm:  {name: "wasm"},
	MachO: {name: "mach-o"},
	Coff:  {name: "coff", argv0: "lld.exe"},
}

// Valid reports whether f is one of the supported flavors.
func (f Flavor) Valid() bool {
	return f >= 0 && f < flavorCount
}

// String returns the flavor's canonical lowercase name, or a
// diagnostic form for out-of-range values.
func (f Flavor) String() string {
	if !f.Valid() {
		return fmt.Sprintf("flavor(%d)", int(f))
	}
	return flavorSpecs[f].name
}

// Flavors returns all supported flavors in dispatch order.
func Flavors() []Flavor {
	return []Flavor{Elf, Wasm, MachO, Coff}
}

// ParseFlavor maps a canonical flavor name to its Flavor value.
// Accepted names are "elf", "wasm", "mach-o", and "coff".
func ParseFlavor(name string) (Flavor, error) {
	for f := Flavor(0); f < flavorCount; f++ {
		if flavorSpecs[f].name == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("lldbridge: unknown flavor %q", name)
}
