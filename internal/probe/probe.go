// Package probe reports the container format and playing time of an audio
// file. Only MPEG audio is measured; other containers are identified by
// their signature and reported with zero duration.
package probe

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"

	binutil "github.com/simonhull/presquile/internal/binary"
	"github.com/simonhull/presquile/internal/id3"
	"github.com/simonhull/presquile/internal/types"
)

// Result describes a probed audio file.
type Result struct {
	// ContainerFormat is the detected container name, e.g. "MP3" or "FLAC".
	ContainerFormat string `json:"container_format"`

	// DurationSeconds is the playing time. Zero for containers that are not measured.
	DurationSeconds float64 `json:"duration_seconds"`

	Bitrate    int  `json:"bitrate,omitempty"`     // bits per second of the first frame
	SampleRate int  `json:"sample_rate,omitempty"` // Hz
	Channels   int  `json:"channels,omitempty"`
	VBR        bool `json:"vbr,omitempty"` // duration came from a Xing or VBRI frame count
}

// DurationMillis returns the duration rounded to the nearest millisecond,
// saturating at the largest value a chapter time can hold.
func (r Result) DurationMillis() uint32 {
	ms := math.Round(r.DurationSeconds * 1000)
	switch {
	case ms <= 0 || math.IsNaN(ms):
		return 0
	case ms >= math.MaxUint32:
		return math.MaxUint32
	}
	return uint32(ms)
}

// Prober probes files on disk.
type Prober struct{}

// New returns a Prober.
func New() *Prober {
	return &Prober{}
}

// Probe opens path and inspects it.
func (p *Prober) Probe(ctx context.Context, path string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close() //nolint:errcheck // Read-only file

	info, err := f.Stat()
	if err != nil {
		return Result{}, fmt.Errorf("stat file: %w", err)
	}

	return Read(f, info.Size(), path)
}

// Read inspects size bytes of r. path is only used in error messages.
func Read(r io.ReaderAt, size int64, path string) (Result, error) {
	format, err := types.DetectFormat(r, size, path)
	if err != nil {
		return Result{}, err
	}

	res := Result{ContainerFormat: format.String()}
	if format != types.FormatMP3 {
		return res, nil
	}

	tagSize, err := id3.TagSize(r, size)
	if err != nil {
		return Result{}, &types.CorruptedFileError{Path: path, Reason: "unreadable ID3v2 header"}
	}

	sr := binutil.NewSafeReader(r, size, path)
	if err := parseTechnicalInfo(sr, tagSize, &res); err != nil {
		return Result{}, err
	}
	return res, nil
}
