// Package presquile embeds chapter markers into MP3 files.
//
// It reads a tab-separated marker export (the "Markers" export of Adobe
// Audition), measures the audio, and writes one ID3v2.4 CHAP frame per
// marker plus a CTOC table of contents into a copy of the audio file named
// "<stem>_enriched<ext>". The original file is never modified.
//
// # Quick Start
//
//	out, err := presquile.Apply(ctx, "markers.csv", "episode.mp3")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println("Chapters written to", out)
//
// # Marker Files
//
// The first row names the columns. Name and Start are required; Duration
// is optional and only used with WithChapterEnd(EndFromDuration). Other
// columns are ignored:
//
//	Name	Start	Duration	Time Format	Type	Description
//	Intro	0:00.000	0:10.000	decimal	Cue
//	Part 1	0:10.000	1:00.000	decimal	Cue
//
// Start is a time-code of the form [HH:]MM:SS.mmm. Rows must be in
// chronological order. Chapter i runs from marker i to marker i+1; the last
// chapter runs to the end of the audio.
//
// # Modes
//
// Loading the markers, probing the audio and copying it are independent.
// Sequential (the default) runs them one after another. Concurrent runs them
// in parallel and waits for all three:
//
//	out, err := presquile.Apply(ctx, markers, audio,
//	    presquile.WithMode(presquile.Concurrent),
//	)
//
// Both modes write byte-identical tags. In Concurrent mode the untagged copy
// may be left behind when loading or probing fails.
//
// # Error Handling
//
// Failures are typed and can be matched with errors.As:
//
//   - MarkerFileError: the marker file is unreadable or malformed
//   - TimeFormatError: a Start value is not a valid time-code
//   - AudioFormatError: the audio is not MP3 or cannot be measured
//   - CopyError: the enriched copy could not be created
//   - WorkerInterruptedError: a concurrent step panicked
package presquile
