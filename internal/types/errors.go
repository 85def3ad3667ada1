package types

import "fmt"

// UnsupportedFormatError is returned when a file's container cannot be
// identified from its magic bytes.
type UnsupportedFormatError struct {
	Path   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: unsupported format: %s", e.Path, e.Reason)
}

// CorruptedFileError is returned when a tag or frame structure is invalid.
type CorruptedFileError struct {
	Path   string
	Reason string
	Offset int64
}

func (e *CorruptedFileError) Error() string {
	return fmt.Sprintf("%s: corrupted file at offset %d: %s", e.Path, e.Offset, e.Reason)
}

// AudioFormatError is returned when the audio input is not an MP3 file,
// or when it could not be probed at all.
type AudioFormatError struct {
	Path   string
	Detail string // probed container name, or the path when probing failed
	Err    error
}

func (e *AudioFormatError) Error() string {
	return fmt.Sprintf("invalid audio file format %s", e.Detail)
}

func (e *AudioFormatError) Unwrap() error { return e.Err }

// MarkerFileError is returned when the marker export cannot be used:
// it is not tab-separated, a row is malformed, a start time lacks its
// separators, or there are no data rows.
type MarkerFileError struct {
	Path   string
	Reason string
	Line   int // 0 when the problem is not tied to a row
	Err    error
}

func (e *MarkerFileError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid chapter file format: %s: line %d: %s", e.Path, e.Line, e.Reason)
	}
	return fmt.Sprintf("invalid chapter file format: %s: %s", e.Path, e.Reason)
}

func (e *MarkerFileError) Unwrap() error { return e.Err }

// TimeFormatError is returned when a time-code cannot be decomposed into
// [HH:]MM:SS.mmm segments.
type TimeFormatError struct {
	Input  string
	Reason string
}

func (e *TimeFormatError) Error() string {
	return fmt.Sprintf("invalid time code %q: %s", e.Input, e.Reason)
}

// EmptyMarkerListError is returned when chapters are requested for no markers.
type EmptyMarkerListError struct{}

func (e *EmptyMarkerListError) Error() string {
	return "no markers to build chapters from"
}

// DestinationUnresolvableError is returned when no output file name can be
// derived from the audio path.
type DestinationUnresolvableError struct {
	Path string
}

func (e *DestinationUnresolvableError) Error() string {
	return fmt.Sprintf("cannot derive output file name from %q", e.Path)
}

// DestinationConflictError is returned when two jobs of a batch would
// write the same enriched file.
type DestinationConflictError struct {
	Dst    string
	First  string // audio path of the earlier job
	Second string // audio path of the later job
}

func (e *DestinationConflictError) Error() string {
	return fmt.Sprintf("%s and %s both write %s", e.First, e.Second, e.Dst)
}

// CopyError is returned when the source audio cannot be duplicated.
type CopyError struct {
	Src string
	Dst string
	Err error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("error while copying file %s to %s: %v", e.Src, e.Dst, e.Err)
}

func (e *CopyError) Unwrap() error { return e.Err }

// WorkerInterruptedError is returned when a concurrent step panicked
// instead of returning a result.
type WorkerInterruptedError struct {
	Worker string
	Value  any // value recovered from the panic
}

func (e *WorkerInterruptedError) Error() string {
	return fmt.Sprintf("%s worker has been interrupted: %v", e.Worker, e.Value)
}
