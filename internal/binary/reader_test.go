package binary

import (
	"encoding/binary"
	"io"
	"strings"
	"testing"
)

// mockReader implements io.ReaderAt for testing.
type mockReader struct {
	data []byte
}

func (m *mockReader) ReadAt(p []byte, off int64) (n int, err error) {
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n = copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func TestSafeReader_ReadAt_Success(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}
	sr := NewSafeReader(&mockReader{data: data}, int64(len(data)), "test.mp3")

	buf := make([]byte, 2)
	if err := sr.ReadAt(buf, 0, "test read"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if buf[0] != 0x01 || buf[1] != 0x02 {
		t.Errorf("expected [0x01, 0x02], got [0x%02x, 0x%02x]", buf[0], buf[1])
	}
}

func TestSafeReader_ReadAt_OutOfBounds(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}
	sr := NewSafeReader(&mockReader{data: data}, int64(len(data)), "test.mp3")

	tests := []struct {
		name string
		off  int64
		n    int
	}{
		{"offset past end", 10, 2},
		{"negative offset", -1, 1},
		{"read straddles end", 3, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sr.ReadAt(make([]byte, tt.n), tt.off, "ID3v2 header")
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			msg := err.Error()
			if !strings.Contains(msg, "test.mp3") {
				t.Errorf("error should contain filename: %v", msg)
			}
			if !strings.Contains(msg, "ID3v2 header") {
				t.Errorf("error should contain context: %v", msg)
			}
		})
	}
}

func TestRead_Widths(t *testing.T) {
	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, 0x123456789ABCDEF0)
	sr := NewSafeReader(&mockReader{data: data}, int64(len(data)), "test.mp3")

	if v, err := Read[uint8](sr, 0, "u8"); err != nil || v != 0x12 {
		t.Errorf("Read[uint8] = 0x%02x, %v", v, err)
	}
	if v, err := Read[uint16](sr, 0, "u16"); err != nil || v != 0x1234 {
		t.Errorf("Read[uint16] = 0x%04x, %v", v, err)
	}
	if v, err := Read[uint32](sr, 4, "u32"); err != nil || v != 0x9ABCDEF0 {
		t.Errorf("Read[uint32] = 0x%08x, %v", v, err)
	}
	if v, err := Read[uint64](sr, 0, "u64"); err != nil || v != 0x123456789ABCDEF0 {
		t.Errorf("Read[uint64] = 0x%016x, %v", v, err)
	}
	if _, err := Read[uint32](sr, 6, "u32 past end"); err == nil {
		t.Error("expected error reading past end")
	}
}

func TestReader_Sequential(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 'T', 'I', 'T', '2', 0xFF}
	sr := NewSafeReader(&mockReader{data: data}, int64(len(data)), "test.mp3")
	r := NewReader(sr, 0)

	v1, err := ReadValue[uint8](r, "first byte")
	if err != nil || v1 != 0x01 {
		t.Fatalf("read 1 = 0x%02x, %v", v1, err)
	}

	v2, err := ReadValue[uint16](r, "second word")
	if err != nil || v2 != 0x0203 {
		t.Fatalf("read 2 = 0x%04x, %v", v2, err)
	}

	id, err := r.ReadString(4, "frame id")
	if err != nil || id != "TIT2" {
		t.Fatalf("read 3 = %q, %v", id, err)
	}

	if r.Offset() != 7 {
		t.Errorf("expected offset 7, got %d", r.Offset())
	}
	if r.Remaining() != 1 {
		t.Errorf("expected 1 byte remaining, got %d", r.Remaining())
	}

	r.Skip(1)
	if _, err := ReadValue[uint8](r, "past end"); err == nil {
		t.Error("expected error after skipping to end")
	}
}
