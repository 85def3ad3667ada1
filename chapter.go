package presquile

import (
	"github.com/simonhull/presquile/internal/chapters"
	"github.com/simonhull/presquile/internal/id3"
	"github.com/simonhull/presquile/internal/timecode"
	"github.com/simonhull/presquile/internal/types"
)

// Marker is an alias to types.Marker.
// Re-exporting from internal/types to maintain public API.
type Marker = types.Marker

// Chapter is an alias to types.Chapter.
// Re-exporting from internal/types to maintain public API.
type Chapter = types.Chapter

// Tag is the set of CHAP and CTOC frames written to the enriched copy.
type Tag = id3.Tag

// TimeCodeLayout selects which time-code shapes are accepted.
type TimeCodeLayout = timecode.Layout

// Time-code layouts.
const (
	// FlexibleTimeCodes accepts MM:SS.mmm and HH:MM:SS.mmm.
	FlexibleTimeCodes = timecode.Flexible
	// StrictTimeCodes accepts only HH:MM:SS.mmm.
	StrictTimeCodes = timecode.Strict
)

// ChapterEnd selects where chapter end times come from.
type ChapterEnd = chapters.EndSource

// Chapter end sources.
const (
	EndFromNextStart = chapters.EndFromNextStart
	EndFromDuration  = chapters.EndFromDuration
)

// TextEncoding selects how chapter titles are stored.
type TextEncoding = id3.TextEncoding

// Writable text encodings.
const (
	UTF8  = id3.EncodingUTF8
	UTF16 = id3.EncodingUTF16
)

// ParseTimeCode converts a [HH:]MM:SS.mmm time-code to milliseconds.
func ParseTimeCode(s string) (uint32, error) {
	return timecode.Parse(s)
}

// BuildChapters derives chapters from markers and the total duration in
// milliseconds, using the default layout and end source.
func BuildChapters(markers []Marker, totalMS uint32) ([]Chapter, error) {
	return chapters.Build(markers, totalMS)
}

// ReadTag reads the chapter frames of a tagged file.
func ReadTag(path string) (*Tag, error) {
	return id3.ReadFile(path)
}
