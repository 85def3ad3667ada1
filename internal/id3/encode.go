package id3

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	binutil "github.com/simonhull/presquile/internal/binary"
)

const (
	headerSize = 10
	// maxSynchsafe is the largest value a 4-byte synchsafe integer holds.
	maxSynchsafe = 1<<28 - 1
	// noOffset marks CHAP byte offsets as unused.
	noOffset = 0xFFFFFFFF
)

// MaxTOCEntries is bounded by the one-byte CTOC entry count.
const MaxTOCEntries = 255

// EncodeOption configures Encode.
type EncodeOption func(*encodeOptions)

type encodeOptions struct {
	encoding TextEncoding
	padding  int
}

// WithTextEncoding selects how titles are written. Default is EncodingUTF8.
func WithTextEncoding(enc TextEncoding) EncodeOption {
	return func(o *encodeOptions) {
		o.encoding = enc
	}
}

// WithPadding appends n zero bytes after the frames, leaving room for
// later in-place edits by other tools.
func WithPadding(n int) EncodeOption {
	return func(o *encodeOptions) {
		o.padding = n
	}
}

// Encode writes tag as a complete ID3v2.4 tag: header, one CHAP frame per
// chapter, then the CTOC frames.
func Encode(w io.Writer, tag *Tag, opts ...EncodeOption) error {
	o := encodeOptions{encoding: EncodingUTF8}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.encoding.writable() {
		return fmt.Errorf("id3: cannot write text as %s", o.encoding)
	}
	if o.padding < 0 {
		return fmt.Errorf("id3: negative padding %d", o.padding)
	}

	frames := &bytes.Buffer{}
	for _, ch := range tag.Chapters {
		body, err := chapterBody(ch.ID, ch.StartMS, ch.EndMS, ch.Title, o.encoding)
		if err != nil {
			return fmt.Errorf("id3: chapter %q: %w", ch.ID, err)
		}
		if err := writeFrame(frames, "CHAP", body); err != nil {
			return fmt.Errorf("id3: chapter %q: %w", ch.ID, err)
		}
	}
	for _, toc := range tag.TablesOfContents {
		body, err := tocBody(toc, o.encoding)
		if err != nil {
			return fmt.Errorf("id3: table of contents %q: %w", toc.ID, err)
		}
		if err := writeFrame(frames, "CTOC", body); err != nil {
			return fmt.Errorf("id3: table of contents %q: %w", toc.ID, err)
		}
	}

	size := frames.Len() + o.padding
	if size > maxSynchsafe {
		return fmt.Errorf("id3: tag of %d bytes exceeds the ID3v2 size limit", size)
	}

	sw := binutil.NewSafeWriter(w)
	_ = sw.WriteString("ID3")
	_ = binutil.Write[uint8](sw, 4) // major version
	_ = binutil.Write[uint8](sw, 0) // revision
	_ = binutil.Write[uint8](sw, 0) // flags
	_ = sw.WriteBytes(encodeSynchsafe(uint32(size)))
	_ = sw.WriteBytes(frames.Bytes())
	if o.padding > 0 {
		_ = sw.WriteBytes(make([]byte, o.padding))
	}
	if err := sw.Err(); err != nil {
		return fmt.Errorf("id3: write tag: %w", err)
	}
	return nil
}

// Bytes returns the encoded form of tag.
func Bytes(tag *Tag, opts ...EncodeOption) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := Encode(buf, tag, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// chapterBody lays out a CHAP frame:
//
//	[element_id\0][start(4)][end(4)][start_offset(4)][end_offset(4)][TIT2 subframe]
func chapterBody(id string, start, end uint32, title string, enc TextEncoding) ([]byte, error) {
	if err := checkElementID(id); err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	sw := binutil.NewSafeWriter(buf)
	_ = sw.WriteString(id)
	_ = binutil.Write[uint8](sw, 0)
	_ = binutil.Write(sw, start)
	_ = binutil.Write(sw, end)
	_ = binutil.Write[uint32](sw, noOffset)
	_ = binutil.Write[uint32](sw, noOffset)

	if err := writeTitle(buf, title, enc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// tocBody lays out a CTOC frame:
//
//	[element_id\0][flags(1)][entry_count(1)][child_id\0]...[TIT2 subframe]
func tocBody(toc TableOfContents, enc TextEncoding) ([]byte, error) {
	if err := checkElementID(toc.ID); err != nil {
		return nil, err
	}
	if len(toc.Elements) > MaxTOCEntries {
		return nil, fmt.Errorf("%d entries exceed the limit of %d", len(toc.Elements), MaxTOCEntries)
	}

	var flags uint8
	if toc.TopLevel {
		flags |= 0x02
	}
	if toc.Ordered {
		flags |= 0x01
	}

	buf := &bytes.Buffer{}
	sw := binutil.NewSafeWriter(buf)
	_ = sw.WriteString(toc.ID)
	_ = binutil.Write[uint8](sw, 0)
	_ = binutil.Write(sw, flags)
	_ = binutil.Write(sw, uint8(len(toc.Elements)))
	for _, el := range toc.Elements {
		if err := checkElementID(el); err != nil {
			return nil, err
		}
		_ = sw.WriteString(el)
		_ = binutil.Write[uint8](sw, 0)
	}

	if err := writeTitle(buf, toc.Title, enc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeTitle(buf *bytes.Buffer, title string, enc TextEncoding) error {
	if title == "" {
		return nil
	}
	text, err := encodeText(title, enc)
	if err != nil {
		return err
	}
	return writeFrame(buf, "TIT2", append([]byte{byte(enc)}, text...))
}

// writeFrame appends a v2.4 frame header and body.
func writeFrame(buf *bytes.Buffer, id string, body []byte) error {
	if len(body) > maxSynchsafe {
		return fmt.Errorf("frame %s of %d bytes is too large", id, len(body))
	}
	buf.WriteString(id)
	buf.Write(encodeSynchsafe(uint32(len(body))))
	buf.Write([]byte{0, 0}) // flags
	buf.Write(body)
	return nil
}

// checkElementID rejects ids that cannot be stored as a null-terminated
// ISO-8859-1 string.
func checkElementID(id string) error {
	if id == "" {
		return fmt.Errorf("empty element id")
	}
	if strings.IndexByte(id, 0) >= 0 {
		return fmt.Errorf("element id %q contains a null byte", id)
	}
	for _, r := range id {
		if r > 0x7F {
			return fmt.Errorf("element id %q is not ASCII", id)
		}
	}
	return nil
}

// encodeSynchsafe stores v in 4 bytes of 7 bits each.
func encodeSynchsafe(v uint32) []byte {
	return []byte{
		byte(v>>21) & 0x7F,
		byte(v>>14) & 0x7F,
		byte(v>>7) & 0x7F,
		byte(v) & 0x7F,
	}
}

// decodeSynchsafe decodes a synchsafe integer (7 bits per byte).
func decodeSynchsafe(b []byte) uint32 {
	if len(b) != 4 {
		return 0
	}
	return uint32(b[0]&0x7F)<<21 |
		uint32(b[1]&0x7F)<<14 |
		uint32(b[2]&0x7F)<<7 |
		uint32(b[3]&0x7F)
}
