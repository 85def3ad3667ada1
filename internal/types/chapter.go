package types

import "time"

// Marker is one row of a marker export: a named timestamp that opens a
// chapter. Start and Duration hold the raw time-code text of the row.
//
// Markers are kept in file order, which must already be chronological.
type Marker struct {
	Name     string `json:"name"`
	Start    string `json:"start"`
	Duration string `json:"duration,omitempty"`
}

// Chapter is a named time range destined for an ID3v2 CHAP frame.
//
// ID is the zero-based index of the marker the chapter was built from,
// in decimal. Times are milliseconds from the start of the track.
type Chapter struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	StartMS uint32 `json:"start_ms"`
	EndMS   uint32 `json:"end_ms"`
}

// Start returns the chapter start as a time.Duration.
func (c Chapter) Start() time.Duration {
	return time.Duration(c.StartMS) * time.Millisecond
}

// End returns the chapter end as a time.Duration.
func (c Chapter) End() time.Duration {
	return time.Duration(c.EndMS) * time.Millisecond
}

// Length returns the chapter duration. Inverted ranges report zero.
func (c Chapter) Length() time.Duration {
	if c.EndMS < c.StartMS {
		return 0
	}
	return c.End() - c.Start()
}
