package presquile

import "github.com/simonhull/presquile/internal/types"

// Mode selects how loading, probing and copying are run.
type Mode = types.Mode

const (
	// Sequential runs the steps one after another.
	Sequential = types.Sequential
	// Concurrent runs the steps in parallel.
	Concurrent = types.Concurrent
)

// ParseMode maps "sequential" or "concurrent" to a Mode.
func ParseMode(name string) (Mode, error) {
	return types.ParseMode(name)
}
