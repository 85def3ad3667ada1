package types

import (
	"fmt"
	"strings"
)

// Mode selects how the independent pipeline steps are run.
type Mode int

const (
	// Sequential runs marker loading, probing and copying one after another.
	Sequential Mode = iota
	// Concurrent runs the three steps in parallel and joins on all of them.
	Concurrent
)

// String returns the configuration name of the mode.
func (m Mode) String() string {
	switch m {
	case Sequential:
		return "sequential"
	case Concurrent:
		return "concurrent"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps a configuration value to a Mode.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sequential":
		return Sequential, nil
	case "concurrent", "parallel":
		return Concurrent, nil
	}
	return Sequential, fmt.Errorf("unknown mode %q (want sequential or concurrent)", name)
}
