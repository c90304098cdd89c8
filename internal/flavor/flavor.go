// Package flavor defines the server distributions mvm knows how to manage.
package flavor

import "fmt"

// Flavor identifies a Minecraft server distribution.
type Flavor int

const (
	// Vanilla is the official Mojang server.
	Vanilla Flavor = iota
	// Paper is the PaperMC community fork.
	Paper
)

// All returns every known flavor in display order.
func All() []Flavor {
	return []Flavor{Vanilla, Paper}
}

// String returns the lowercase name, which doubles as the on-disk path
// segment and the key in the active-version record.
func (f Flavor) String() string {
	switch f {
	case Vanilla:
		return "vanilla"
	case Paper:
		return "paper"
	default:
		return fmt.Sprintf("flavor(%d)", int(f))
	}
}

// Valid reports whether f is one of the known flavors.
func (f Flavor) Valid() bool {
	return f == Vanilla || f == Paper
}

// Parse maps a flavor name back to its Flavor.
func Parse(s string) (Flavor, error) {
	switch s {
	case "vanilla":
		return Vanilla, nil
	case "paper":
		return Paper, nil
	default:
		return Vanilla, fmt.Errorf("unknown server flavor %q (expected vanilla or paper)", s)
	}
}

// FromPaperFlag mirrors the CLI --paper switch.
func FromPaperFlag(paper bool) Flavor {
	if paper {
		return Paper
	}
	return Vanilla
}
