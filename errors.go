package presquile

import (
	"github.com/simonhull/presquile/internal/types"
)

// UnsupportedFormatError is an alias to types.UnsupportedFormatError.
// Re-exporting from internal/types to maintain public API.
type UnsupportedFormatError = types.UnsupportedFormatError

// CorruptedFileError is an alias to types.CorruptedFileError.
// Re-exporting from internal/types to maintain public API.
type CorruptedFileError = types.CorruptedFileError

// AudioFormatError is an alias to types.AudioFormatError.
// Re-exporting from internal/types to maintain public API.
type AudioFormatError = types.AudioFormatError

// MarkerFileError is an alias to types.MarkerFileError.
// Re-exporting from internal/types to maintain public API.
type MarkerFileError = types.MarkerFileError

// TimeFormatError is an alias to types.TimeFormatError.
// Re-exporting from internal/types to maintain public API.
type TimeFormatError = types.TimeFormatError

// EmptyMarkerListError is an alias to types.EmptyMarkerListError.
// Re-exporting from internal/types to maintain public API.
type EmptyMarkerListError = types.EmptyMarkerListError

// DestinationUnresolvableError is an alias to types.DestinationUnresolvableError.
// Re-exporting from internal/types to maintain public API.
type DestinationUnresolvableError = types.DestinationUnresolvableError

// DestinationConflictError is an alias to types.DestinationConflictError.
// Re-exporting from internal/types to maintain public API.
type DestinationConflictError = types.DestinationConflictError

// CopyError is an alias to types.CopyError.
// Re-exporting from internal/types to maintain public API.
type CopyError = types.CopyError

// WorkerInterruptedError is an alias to types.WorkerInterruptedError.
// Re-exporting from internal/types to maintain public API.
type WorkerInterruptedError = types.WorkerInterruptedError
