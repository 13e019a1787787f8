package lattice

import (
	"fmt"
	"strings"
)

// InitMode selects how spins are set when a lattice is created.
type InitMode int

const (
	// Hot draws each spin independently as +1 or -1 with equal probability.
	Hot InitMode = iota
	// Cold sets every spin to +1.
	Cold
)

func (m InitMode) String() string {
	switch m {
	case Hot:
		return "hot"
	case Cold:
		return "cold"
	default:
		return fmt.Sprintf("InitMode(%d)", int(m))
	}
}

// ParseInitMode maps a mode name to an InitMode. "heat" is accepted as an
// alias of "hot".
func ParseInitMode(name string) (InitMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "hot", "heat":
		return Hot, nil
	case "cold":
		return Cold, nil
	default:
		return 0, fmt.Errorf("%w: %q (use hot or cold)", ErrInitMode, name)
	}
}

// MarshalText implements encoding.TextMarshaler so modes round-trip through
// YAML and JSON as their names.
func (m InitMode) MarshalText() ([]byte, error) {
	if m != Hot && m != Cold {
		return nil, fmt.Errorf("%w: %d", ErrInitMode, int(m))
	}
	return []byte(m.String()), nil
}

func (m *InitMode) UnmarshalText(text []byte) error {
	parsed, err := ParseInitMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
