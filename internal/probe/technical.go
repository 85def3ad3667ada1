package probe

import (
	"encoding/binary"
	"fmt"

	binutil "github.com/simonhull/presquile/internal/binary"
	"github.com/simonhull/presquile/internal/types"
)

const (
	mpeg25 = 0
	mpeg2  = 2
	mpeg1  = 3

	layer3 = 1

	// maxSyncScan bounds how far past the tag the first frame is searched for.
	maxSyncScan = 1 << 20

	// id3v1Size is the length of a trailing "TAG" block.
	id3v1Size = 128
)

// Layer III bitrates in kbps, indexed by the 4-bit bitrate field.
var (
	bitrateMPEG1 = [16]int{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 0}
	bitrateMPEG2 = [16]int{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0}
)

// Sample rates in Hz, indexed by version then the 2-bit sample rate field.
var sampleRateTable = map[uint32][4]int{
	mpeg1:  {44100, 48000, 32000, 0},
	mpeg2:  {22050, 24000, 16000, 0},
	mpeg25: {11025, 12000, 8000, 0},
}

// frameHeader is a decoded MPEG audio frame header.
type frameHeader struct {
	version    uint32
	bitrate    int // bps
	sampleRate int
	channels   int
}

// samplesPerFrame is 1152 for MPEG1 Layer III and 576 for MPEG2/2.5.
func (h frameHeader) samplesPerFrame() int {
	if h.version == mpeg1 {
		return 1152
	}
	return 576
}

// sideInfoSize is the Layer III side information length, which places the
// Xing/Info header inside the first frame.
func (h frameHeader) sideInfoSize() int64 {
	switch {
	case h.version == mpeg1 && h.channels == 1:
		return 17
	case h.version == mpeg1:
		return 32
	case h.channels == 1:
		return 9
	default:
		return 17
	}
}

// decodeFrameHeader validates a 32-bit frame header.
func decodeFrameHeader(header uint32) (frameHeader, bool) {
	// Frame sync (11 bits set)
	if header&0xFFE00000 != 0xFFE00000 {
		return frameHeader{}, false
	}

	version := (header >> 19) & 0x3
	layer := (header >> 17) & 0x3
	if version == 1 || layer != layer3 {
		return frameHeader{}, false
	}

	bitrateIdx := (header >> 12) & 0xF
	sampleRateIdx := (header >> 10) & 0x3

	h := frameHeader{version: version}
	if version == mpeg1 {
		h.bitrate = bitrateMPEG1[bitrateIdx] * 1000
	} else {
		h.bitrate = bitrateMPEG2[bitrateIdx] * 1000
	}
	h.sampleRate = sampleRateTable[version][sampleRateIdx]
	if h.bitrate == 0 || h.sampleRate == 0 {
		return frameHeader{}, false
	}

	// Channel mode 3 is mono; stereo, joint stereo and dual channel carry two.
	if (header>>6)&0x3 == 3 {
		h.channels = 1
	} else {
		h.channels = 2
	}
	return h, true
}

// parseTechnicalInfo finds the first Layer III frame after the tag and
// fills in bitrate, sample rate, channels and duration.
func parseTechnicalInfo(sr *binutil.SafeReader, tagSize int64, res *Result) error {
	offset, h, err := findFirstFrame(sr, tagSize)
	if err != nil {
		return err
	}

	res.Bitrate = h.bitrate
	res.SampleRate = h.sampleRate
	res.Channels = h.channels

	if frames, ok := vbrFrameCount(sr, offset, h); ok {
		res.DurationSeconds = float64(uint64(frames)*uint64(h.samplesPerFrame())) / float64(h.sampleRate)
		res.VBR = true
		return nil
	}

	res.DurationSeconds = estimateCBRDuration(sr, h.bitrate, tagSize)
	return nil
}

// findFirstFrame scans for a frame sync starting at tagSize.
func findFirstFrame(sr *binutil.SafeReader, tagSize int64) (int64, frameHeader, error) {
	window := min(sr.Size()-tagSize, maxSyncScan)
	if window < 4 {
		return 0, frameHeader{}, &types.CorruptedFileError{
			Path:   sr.Path(),
			Offset: tagSize,
			Reason: "no audio data after ID3v2 tag",
		}
	}

	buf := make([]byte, window)
	if err := sr.ReadAt(buf, tagSize, "MP3 frame search window"); err != nil {
		return 0, frameHeader{}, err
	}

	for i := 0; i+4 <= len(buf); i++ {
		if buf[i] != 0xFF {
			continue
		}
		if h, ok := decodeFrameHeader(binary.BigEndian.Uint32(buf[i:])); ok {
			return tagSize + int64(i), h, nil
		}
	}

	return 0, frameHeader{}, &types.CorruptedFileError{
		Path:   sr.Path(),
		Offset: tagSize,
		Reason: fmt.Sprintf("no valid MP3 frame found in the first %d bytes of audio", window),
	}
}

// vbrFrameCount reads the frame count of a Xing/Info or VBRI header in the
// first frame.
func vbrFrameCount(sr *binutil.SafeReader, frameOffset int64, h frameHeader) (uint32, bool) {
	// Xing/Info: [tag(4)][flags(4)][frames(4) if flags&1]...
	xing := make([]byte, 12)
	if err := sr.ReadAt(xing, frameOffset+4+h.sideInfoSize(), "Xing header"); err == nil {
		if tag := string(xing[0:4]); tag == "Xing" || tag == "Info" {
			flags := binary.BigEndian.Uint32(xing[4:8])
			if flags&0x0001 != 0 {
				frames := binary.BigEndian.Uint32(xing[8:12])
				return frames, frames > 0
			}
			return 0, false
		}
	}

	// VBRI always sits 32 bytes after the frame header:
	// [tag(4)][version(2)][delay(2)][quality(2)][bytes(4)][frames(4)]
	vbri := make([]byte, 18)
	if err := sr.ReadAt(vbri, frameOffset+36, "VBRI header"); err == nil && string(vbri[0:4]) == "VBRI" {
		frames := binary.BigEndian.Uint32(vbri[14:18])
		return frames, frames > 0
	}

	return 0, false
}

// estimateCBRDuration derives the duration of constant bitrate audio from
// its byte length. A trailing ID3v1 block is not audio.
func estimateCBRDuration(sr *binutil.SafeReader, bitrate int, tagSize int64) float64 {
	if bitrate == 0 {
		return 0
	}

	fileSize := sr.Size()
	audioSize := fileSize - tagSize
	if audioSize >= id3v1Size {
		trailer := make([]byte, 3)
		if err := sr.ReadAt(trailer, fileSize-id3v1Size, "ID3v1 tag"); err == nil && string(trailer) == "TAG" {
			audioSize -= id3v1Size
		}
	}

	return float64(audioSize*8) / float64(bitrate)
}
