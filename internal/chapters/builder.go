// Package chapters derives chapter boundaries from an ordered marker list.
package chapters

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/simonhull/presquile/internal/timecode"
	"github.com/simonhull/presquile/internal/types"
)

// EndSource selects where a chapter's end time comes from.
type EndSource int

const (
	// EndFromNextStart ends each chapter where the next one starts and the
	// last one at the end of the track.
	EndFromNextStart EndSource = iota
	// EndFromDuration ends a chapter at start + the marker's Duration field,
	// using the next-start rule for markers without one.
	EndFromDuration
)

// String returns the configuration name of the end source.
func (s EndSource) String() string {
	switch s {
	case EndFromNextStart:
		return "next_start"
	case EndFromDuration:
		return "duration"
	default:
		return fmt.Sprintf("EndSource(%d)", int(s))
	}
}

// ParseEndSource maps a configuration value to an EndSource.
func ParseEndSource(name string) (EndSource, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "next_start":
		return EndFromNextStart, nil
	case "duration":
		return EndFromDuration, nil
	}
	return EndFromNextStart, fmt.Errorf("unknown chapter end source %q", name)
}

// Option configures Build.
type Option func(*options)

type options struct {
	layout    timecode.Layout
	endSource EndSource
}

// WithLayout sets the accepted time-code layout. Default is timecode.Flexible.
func WithLayout(l timecode.Layout) Option {
	return func(o *options) {
		o.layout = l
	}
}

// WithEndSource sets how chapter ends are derived. Default is EndFromNextStart.
func WithEndSource(s EndSource) Option {
	return func(o *options) {
		o.endSource = s
	}
}

// Build returns one chapter per marker, in marker order.
//
// Chapter i starts at markers[i].Start and ends at markers[i+1].Start, or at
// totalMS for the last marker. Markers are trusted to be chronological.
func Build(markers []types.Marker, totalMS uint32, opts ...Option) ([]types.Chapter, error) {
	o := options{layout: timecode.Flexible, endSource: EndFromNextStart}
	for _, opt := range opts {
		opt(&o)
	}

	if len(markers) == 0 {
		return nil, &types.EmptyMarkerListError{}
	}

	starts := make([]uint32, len(markers))
	for i, m := range markers {
		ms, err := timecode.ParseLayout(m.Start, o.layout)
		if err != nil {
			return nil, fmt.Errorf("marker %d (%q) start: %w", i, m.Name, err)
		}
		starts[i] = ms
	}

	chapters := make([]types.Chapter, len(markers))
	for i, m := range markers {
		end := totalMS
		if i+1 < len(markers) {
			end = starts[i+1]
		}

		if o.endSource == EndFromDuration && m.Duration != "" {
			d, err := timecode.ParseLayout(m.Duration, o.layout)
			if err != nil {
				return nil, fmt.Errorf("marker %d (%q) duration: %w", i, m.Name, err)
			}
			end = uint32(min(uint64(starts[i])+uint64(d), uint64(totalMS)))
		}

		chapters[i] = types.Chapter{
			ID:      strconv.Itoa(i),
			Title:   m.Name,
			StartMS: starts[i],
			EndMS:   end,
		}
	}

	return chapters, nil
}
