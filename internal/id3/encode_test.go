package id3

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/simonhull/presquile/internal/types"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestAssemble(t *testing.T) {
	chapters := []types.Chapter{
		{ID: "0", Title: "Intro", StartMS: 0, EndMS: 1000},
		{ID: "1", Title: "Middle", StartMS: 1000, EndMS: 2000},
		{ID: "2", Title: "End", StartMS: 2000, EndMS: 3000},
	}

	tag := Assemble(chapters)

	if len(tag.Chapters) != 3 {
		t.Fatalf("expected 3 chapters, got %d", len(tag.Chapters))
	}
	if len(tag.TablesOfContents) != 1 {
		t.Fatalf("expected 1 table of contents, got %d", len(tag.TablesOfContents))
	}

	toc, ok := tag.TopLevelTOC()
	if !ok {
		t.Fatal("expected a top-level table of contents")
	}
	if toc.ID != "toc" || toc.Title != "chapters-chapz" {
		t.Errorf("toc = {%q, %q}, expected {\"toc\", \"chapters-chapz\"}", toc.ID, toc.Title)
	}
	if !toc.Ordered || !toc.TopLevel {
		t.Errorf("toc flags ordered=%v top_level=%v, expected both true", toc.Ordered, toc.TopLevel)
	}
	if got := strings.Join(toc.Elements, ","); got != "0,1,2" {
		t.Errorf("toc elements = %s, expected 0,1,2", got)
	}
}

func TestAssemble_Empty(t *testing.T) {
	tag := Assemble(nil)
	toc, ok := tag.TopLevelTOC()
	if !ok {
		t.Fatal("expected a top-level table of contents")
	}
	if len(toc.Elements) != 0 {
		t.Errorf("expected no elements, got %v", toc.Elements)
	}
}

func TestEncode_Layout(t *testing.T) {
	tag := Assemble([]types.Chapter{{ID: "0", Title: "Intro", StartMS: 0, EndMS: 1000}})

	data, err := Bytes(tag)
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}

	// CHAP: 10 header + "0\0" + 16 bytes of times/offsets + 16 byte TIT2 subframe
	// CTOC: 10 header + "toc\0" + flags + count + "0\0" + 25 byte TIT2 subframe
	const tagSize = 44 + 43

	wantHeader := []byte{'I', 'D', '3', 0x04, 0x00, 0x00, 0x00, 0x00, 0x00, tagSize}
	if !bytes.Equal(data[:10], wantHeader) {
		t.Errorf("header = % x, expected % x", data[:10], wantHeader)
	}
	if len(data) != 10+tagSize {
		t.Fatalf("encoded length = %d, expected %d", len(data), 10+tagSize)
	}

	wantCHAP := []byte{
		'C', 'H', 'A', 'P', 0x00, 0x00, 0x00, 34, 0x00, 0x00,
		'0', 0x00,
		0x00, 0x00, 0x00, 0x00, // start
		0x00, 0x00, 0x03, 0xE8, // end = 1000
		0xFF, 0xFF, 0xFF, 0xFF, // start offset unused
		0xFF, 0xFF, 0xFF, 0xFF, // end offset unused
		'T', 'I', 'T', '2', 0x00, 0x00, 0x00, 6, 0x00, 0x00,
		0x03, 'I', 'n', 't', 'r', 'o',
	}
	if !bytes.Equal(data[10:54], wantCHAP) {
		t.Errorf("CHAP frame = % x\nexpected    % x", data[10:54], wantCHAP)
	}

	wantCTOCHead := []byte{
		'C', 'T', 'O', 'C', 0x00, 0x00, 0x00, 33, 0x00, 0x00,
		't', 'o', 'c', 0x00,
		0x03, // top-level | ordered
		0x01, // entry count
		'0', 0x00,
		'T', 'I', 'T', '2', 0x00, 0x00, 0x00, 15, 0x00, 0x00,
		0x03,
	}
	ctoc := data[54:]
	if !bytes.HasPrefix(ctoc, wantCTOCHead) {
		t.Errorf("CTOC frame = % x\nexpected prefix % x", ctoc, wantCTOCHead)
	}
	if !bytes.HasSuffix(ctoc, []byte("chapters-chapz")) {
		t.Errorf("CTOC frame does not end with its title: % x", ctoc)
	}
}

func TestEncode_UTF16Title(t *testing.T) {
	tag := Assemble([]types.Chapter{{ID: "0", Title: "Intro", StartMS: 0, EndMS: 1000}})

	data, err := Bytes(tag, WithTextEncoding(EncodingUTF16))
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}

	want := []byte{0x01, 0xFF, 0xFE, 'I', 0x00, 'n', 0x00, 't', 0x00, 'r', 0x00, 'o', 0x00}
	if !bytes.Contains(data, want) {
		t.Errorf("expected UTF-16 title % x in % x", want, data)
	}
}

func TestEncode_Padding(t *testing.T) {
	tag := Assemble([]types.Chapter{{ID: "0", Title: "A", StartMS: 0, EndMS: 10}})

	plain, err := Bytes(tag)
	if err != nil {
		t.Fatal(err)
	}
	padded, err := Bytes(tag, WithPadding(64))
	if err != nil {
		t.Fatal(err)
	}

	if len(padded) != len(plain)+64 {
		t.Errorf("padded length = %d, expected %d", len(padded), len(plain)+64)
	}
	if got := decodeSynchsafe(padded[6:10]); got != uint32(len(padded)-10) {
		t.Errorf("header size = %d, expected %d", got, len(padded)-10)
	}
}

func TestEncode_TOCEntryLimit(t *testing.T) {
	build := func(n int) *Tag {
		chapters := make([]types.Chapter, n)
		for i := range chapters {
			chapters[i] = types.Chapter{ID: strconv.Itoa(i), Title: "c", StartMS: uint32(i), EndMS: uint32(i + 1)}
		}
		return Assemble(chapters)
	}

	if _, err := Bytes(build(255)); err != nil {
		t.Errorf("255 entries should encode, got %v", err)
	}
	if _, err := Bytes(build(256)); err == nil {
		t.Error("expected error for 256 entries")
	}
}

func TestEncode_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		tag  *Tag
		opts []EncodeOption
	}{
		{"empty chapter id", Assemble([]types.Chapter{{ID: "", Title: "x"}}), nil},
		{"non-ascii chapter id", Assemble([]types.Chapter{{ID: "kapitel-ü", Title: "x"}}), nil},
		{"null in chapter id", Assemble([]types.Chapter{{ID: "a\x00b", Title: "x"}}), nil},
		{"read-only encoding", Assemble(nil), []EncodeOption{WithTextEncoding(EncodingISO88591)}},
		{"negative padding", Assemble(nil), []EncodeOption{WithPadding(-1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Bytes(tt.tag, tt.opts...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestEncode_WriterError(t *testing.T) {
	err := Encode(failingWriter{}, Assemble(nil))
	if err == nil {
		t.Fatal("expected error from failing writer")
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Errorf("error %q does not carry the writer failure", err)
	}
}

func TestSynchsafe(t *testing.T) {
	tests := []struct {
		input    []byte
		expected uint32
	}{
		{[]byte{0x00, 0x00, 0x00, 0x00}, 0},
		{[]byte{0x00, 0x00, 0x00, 0x7F}, 127},
		{[]byte{0x00, 0x00, 0x01, 0x00}, 128},
		{[]byte{0x00, 0x00, 0x02, 0x00}, 256},
		{[]byte{0x7F, 0x7F, 0x7F, 0x7F}, 0x0FFFFFFF},
	}

	for _, tt := range tests {
		if got := decodeSynchsafe(tt.input); got != tt.expected {
			t.Errorf("decodeSynchsafe(% x) = %d, expected %d", tt.input, got, tt.expected)
		}
		if got := encodeSynchsafe(tt.expected); !bytes.Equal(got, tt.input) {
			t.Errorf("encodeSynchsafe(%d) = % x, expected % x", tt.expected, got, tt.input)
		}
	}
}

func TestParseTextEncoding(t *testing.T) {
	tests := []struct {
		input   string
		want    TextEncoding
		wantErr bool
	}{
		{"", EncodingUTF8, false},
		{"utf8", EncodingUTF8, false},
		{"UTF-8", EncodingUTF8, false},
		{"utf16", EncodingUTF16, false},
		{" utf-16 ", EncodingUTF16, false},
		{"latin1", EncodingUTF8, true},
	}

	for _, tt := range tests {
		got, err := ParseTextEncoding(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTextEncoding(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTextEncoding(%q) = %s, expected %s", tt.input, got, tt.want)
		}
	}
}
