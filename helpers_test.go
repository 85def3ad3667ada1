package presquile_test

import (
	"os"
	"path/filepath"
	"testing"
)

// audioSize is 12.345 seconds of 128 kbps audio.
const (
	audioSize = 197520
	audioMS   = 12345
)

const validMarkers = "Name\tStart\tDuration\tTime Format\tType\tDescription\n" +
	"Intro\t0:00.000\t0:02.000\tdecimal\tCue\t\n" +
	"Chapter 1\t0:03.000\t0:04.500\tdecimal\tCue\t\n" +
	"Chapter 2\t0:07.500\t0:10.000\tdecimal\tCue\t\n"

// cbrAudio returns size bytes of MPEG1 Layer III frames at 128 kbps,
// 44.1 kHz, stereo. Frame payloads are zero.
func cbrAudio(size int) []byte {
	const frameLen = 417
	data := make([]byte, size)
	for off := 0; off+4 <= size; off += frameLen {
		copy(data[off:], []byte{0xFF, 0xFB, 0x90, 0x00})
	}
	return data
}

// oggAudio returns the start of an Ogg Vorbis stream.
func oggAudio() []byte {
	data := make([]byte, 64)
	copy(data, "OggS")
	return data
}

func writeFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// fixture writes a marker file and an MP3 into a fresh directory.
func fixture(t testing.TB, markers string) (markerPath, audioPath string) {
	t.Helper()
	dir := t.TempDir()
	return writeFile(t, dir, "valid_chaps.csv", []byte(markers)),
		writeFile(t, dir, "audio.mp3", cbrAudio(audioSize))
}
