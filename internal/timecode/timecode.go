// Package timecode converts marker time-codes of the form [HH:]MM:SS.mmm
// into millisecond offsets.
package timecode

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/simonhull/presquile/internal/types"
)

// Layout selects which colon-separated shapes are accepted.
type Layout int

const (
	// Flexible accepts MM:SS.mmm and HH:MM:SS.mmm.
	Flexible Layout = iota
	// Strict accepts only HH:MM:SS.mmm.
	Strict
)

// String returns the configuration name of the layout.
func (l Layout) String() string {
	switch l {
	case Flexible:
		return "flexible"
	case Strict:
		return "strict"
	default:
		return fmt.Sprintf("Layout(%d)", int(l))
	}
}

// ParseLayoutName maps a configuration value to a Layout.
func ParseLayoutName(name string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "flexible":
		return Flexible, nil
	case "strict":
		return Strict, nil
	}
	return Flexible, fmt.Errorf("unknown time code layout %q", name)
}

// multipliers are applied right-to-left to the colon segments.
var multipliers = [...]uint64{1000, 60 * 1000, 60 * 60 * 1000}

// Parse converts s using the Flexible layout.
func Parse(s string) (uint32, error) {
	return ParseLayout(s, Flexible)
}

// ParseLayout converts s to milliseconds. The digits after the decimal
// point are a count of milliseconds, so "0:01.5" is 1005ms, not 1500ms.
func ParseLayout(s string, layout Layout) (uint32, error) {
	clock, millis, ok := cutLast(s, ".")
	if !ok {
		return 0, &types.TimeFormatError{Input: s, Reason: "missing '.' before milliseconds"}
	}
	if !strings.Contains(clock, ":") {
		return 0, &types.TimeFormatError{Input: s, Reason: "missing ':' separator"}
	}

	segments := strings.Split(clock, ":")
	switch {
	case layout == Strict && len(segments) != 3:
		return 0, &types.TimeFormatError{Input: s, Reason: fmt.Sprintf("want HH:MM:SS, got %d segments", len(segments))}
	case len(segments) > len(multipliers):
		return 0, &types.TimeFormatError{Input: s, Reason: fmt.Sprintf("too many segments (%d)", len(segments))}
	}

	if len(millis) == 0 || len(millis) > 3 {
		return 0, &types.TimeFormatError{Input: s, Reason: "milliseconds must have 1 to 3 digits"}
	}
	total, err := segment(s, millis)
	if err != nil {
		return 0, err
	}

	for i := range segments {
		v, err := segment(s, segments[len(segments)-1-i])
		if err != nil {
			return 0, err
		}
		total += v * multipliers[i]
		if total > math.MaxUint32 {
			return 0, &types.TimeFormatError{Input: s, Reason: "value overflows 32-bit milliseconds"}
		}
	}

	return uint32(total), nil
}

// segment parses one run of ASCII digits.
func segment(input, seg string) (uint64, error) {
	if seg == "" {
		return 0, &types.TimeFormatError{Input: input, Reason: "empty segment"}
	}
	for _, r := range seg {
		if r < '0' || r > '9' {
			return 0, &types.TimeFormatError{Input: input, Reason: fmt.Sprintf("segment %q is not a non-negative integer", seg)}
		}
	}
	v, err := strconv.ParseUint(seg, 10, 32)
	if err != nil {
		return 0, &types.TimeFormatError{Input: input, Reason: fmt.Sprintf("segment %q out of range", seg)}
	}
	return v, nil
}

func cutLast(s, sep string) (before, after string, found bool) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+len(sep):], true
}

// Format renders ms as H:MM:SS.mmm.
func Format(ms uint32) string {
	h := ms / 3_600_000
	m := ms / 60_000 % 60
	sec := ms / 1000 % 60
	return fmt.Sprintf("%d:%02d:%02d.%03d", h, m, sec, ms%1000)
}
