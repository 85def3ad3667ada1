package types

import (
	"io"

	"github.com/simonhull/presquile/internal/binary"
)

// Format represents a detected audio container.
type Format int

const (
	// FormatUnknown represents an unknown or unsupported format.
	FormatUnknown Format = iota
	// FormatMP3 represents MPEG audio, with or without an ID3v2 tag.
	FormatMP3
	// FormatFLAC represents FLAC audio files.
	FormatFLAC
	// FormatOgg represents Ogg Vorbis audio files.
	FormatOgg
	// FormatOpus represents Ogg Opus audio files.
	FormatOpus
	// FormatWAV represents RIFF/WAVE audio files.
	FormatWAV
	// FormatAIFF represents AIFF and AIFF-C audio files.
	FormatAIFF
	// FormatM4A represents MPEG-4 audio files.
	FormatM4A
	// FormatM4B represents MPEG-4 audiobook files.
	FormatM4B
)

var formatNames = [...]string{
	FormatUnknown: "Unknown",
	FormatMP3:     "MP3",
	FormatFLAC:    "FLAC",
	FormatOgg:     "OGG",
	FormatOpus:    "Opus",
	FormatWAV:     "WAV",
	FormatAIFF:    "AIFF",
	FormatM4A:     "M4A",
	FormatM4B:     "M4B",
}

// String returns the container name reported by the audio probe.
func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return formatNames[FormatUnknown]
	}
	return formatNames[f]
}

// DetectFormat determines the container by examining magic bytes at the
// start of the file. It does not validate anything past the signature.
func DetectFormat(r io.ReaderAt, size int64, path string) (Format, error) {
	if size < 4 {
		return FormatUnknown, &UnsupportedFormatError{Path: path, Reason: "file too small"}
	}

	sr := binary.NewSafeReader(r, size, path)

	head := make([]byte, min(size, 12))
	if err := sr.ReadAt(head, 0, "file magic bytes"); err != nil {
		return FormatUnknown, &UnsupportedFormatError{Path: path, Reason: "failed to read file header"}
	}

	switch {
	case string(head[:3]) == "ID3":
		return FormatMP3, nil
	case head[0] == 0xFF && head[1]&0xE0 == 0xE0:
		// MPEG frame sync without a leading tag.
		return FormatMP3, nil
	case string(head[:4]) == "fLaC":
		return FormatFLAC, nil
	case string(head[:4]) == "OggS":
		return detectOggCodec(sr), nil
	case len(head) == 12 && string(head[:4]) == "RIFF" && string(head[8:12]) == "WAVE":
		return FormatWAV, nil
	case len(head) == 12 && string(head[:4]) == "FORM" &&
		(string(head[8:12]) == "AIFF" || string(head[8:12]) == "AIFC"):
		return FormatAIFF, nil
	case len(head) == 12 && string(head[4:8]) == "ftyp":
		switch string(head[8:12]) {
		case "M4B ":
			return FormatM4B, nil
		case "M4A ", "mp42", "isom":
			return FormatM4A, nil
		}
		return FormatUnknown, &UnsupportedFormatError{Path: path, Reason: "unsupported file brand"}
	}

	return FormatUnknown, &UnsupportedFormatError{Path: path, Reason: "unsupported file format"}
}

// detectOggCodec peeks at the first packet of the first page:
// 27 header bytes, then segment_count table entries, then the codec magic.
func detectOggCodec(sr *binary.SafeReader) Format {
	segCount, err := binary.Read[uint8](sr, 26, "segment count")
	if err != nil {
		return FormatOgg
	}
	magic := make([]byte, 8)
	if err := sr.ReadAt(magic, 27+int64(segCount), "codec magic"); err != nil {
		return FormatOgg
	}
	if string(magic) == "OpusHead" {
		return FormatOpus
	}
	return FormatOgg
}
