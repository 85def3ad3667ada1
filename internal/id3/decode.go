package id3

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	binutil "github.com/simonhull/presquile/internal/binary"
	"github.com/simonhull/presquile/internal/types"
)

// header represents an ID3v2 tag header.
type header struct {
	Version  byte // Major version (3 or 4)
	Revision byte
	Flags    byte
	Size     uint32 // Tag size excluding header (and footer)
}

const (
	flagExtendedHeader = 0x40
	flagFooter         = 0x10
)

// TagSize returns the number of bytes an ID3v2 tag occupies at the start of
// r, header and footer included. It returns 0 when r does not start with a tag.
func TagSize(r io.ReaderAt, size int64) (int64, error) {
	if size < headerSize {
		return 0, nil
	}
	h, ok, err := readHeader(binutil.NewSafeReader(r, size, ""))
	if err != nil || !ok {
		return 0, err
	}
	total := int64(headerSize) + int64(h.Size)
	if h.Version == 4 && h.Flags&flagFooter != 0 {
		total += headerSize
	}
	return min(total, size), nil
}

func readHeader(sr *binutil.SafeReader) (header, bool, error) {
	buf := make([]byte, headerSize)
	if err := sr.ReadAt(buf, 0, "ID3v2 header"); err != nil {
		return header{}, false, err
	}
	if string(buf[0:3]) != "ID3" {
		return header{}, false, nil
	}
	return header{
		Version:  buf[3],
		Revision: buf[4],
		Flags:    buf[5],
		Size:     decodeSynchsafe(buf[6:10]),
	}, true, nil
}

// Decode parses the ID3v2 tag at the start of r and returns its chapter,
// table of contents and title frames. Other frames are listed in
// Tag.Frames but not interpreted.
func Decode(r io.ReaderAt, size int64, path string) (*Tag, error) {
	sr := binutil.NewSafeReader(r, size, path)

	h, ok, err := readHeader(sr)
	if err != nil {
		return nil, &types.UnsupportedFormatError{Path: path, Reason: "failed to read ID3v2 header"}
	}
	if !ok {
		return nil, &types.UnsupportedFormatError{Path: path, Reason: "not an ID3v2 file (missing ID3 header)"}
	}
	if h.Version != 3 && h.Version != 4 {
		return nil, &types.UnsupportedFormatError{
			Path:   path,
			Reason: fmt.Sprintf("unsupported ID3v2 version: 2.%d", h.Version),
		}
	}

	tagEnd := int64(headerSize) + int64(h.Size)
	if tagEnd > size {
		return nil, &types.CorruptedFileError{Path: path, Offset: 6, Reason: "tag size exceeds file size"}
	}

	offset := int64(headerSize)
	if h.Flags&flagExtendedHeader != 0 {
		ext, err := binutil.Read[uint32](sr, offset, "extended header size")
		if err != nil {
			return nil, &types.CorruptedFileError{Path: path, Offset: offset, Reason: "truncated extended header"}
		}
		if h.Version == 4 {
			// v2.4 counts the size field itself.
			offset += int64(decodeSynchsafe(be32(ext)))
		} else {
			offset += int64(ext) + 4
		}
	}

	tag := &Tag{Version: h.Version}
	fr := binutil.NewReader(binutil.NewSafeReader(r, tagEnd, path), offset)
	for fr.Remaining() >= headerSize {
		frameOffset := fr.Offset()
		id, err := fr.ReadString(4, "frame id")
		if err != nil {
			return nil, err
		}
		if id[0] == 0 {
			break // padding
		}
		rawSize, err := binutil.ReadValue[uint32](fr, "frame size")
		if err != nil {
			return nil, err
		}
		flags, err := binutil.ReadValue[uint16](fr, "frame flags")
		if err != nil {
			return nil, err
		}

		dataSize := frameSize(rawSize, h.Version)
		if int64(dataSize) > fr.Remaining() {
			return nil, &types.CorruptedFileError{
				Path:   path,
				Offset: frameOffset,
				Reason: fmt.Sprintf("frame %s of %d bytes overruns the tag", id, dataSize),
			}
		}
		data, err := fr.ReadBytes(int(dataSize), "frame "+id+" data")
		if err != nil {
			return nil, err
		}

		tag.Frames = append(tag.Frames, FrameHeader{ID: id, Offset: frameOffset, Size: dataSize, Flags: flags})

		switch id {
		case "TIT2":
			tag.Title = parseTextFrame(data)
		case "CHAP":
			ch, err := parseChapter(data, h.Version)
			if err != nil {
				return nil, &types.CorruptedFileError{Path: path, Offset: frameOffset, Reason: err.Error()}
			}
			tag.Chapters = append(tag.Chapters, ch)
		case "CTOC":
			toc, err := parseTOC(data, h.Version)
			if err != nil {
				return nil, &types.CorruptedFileError{Path: path, Offset: frameOffset, Reason: err.Error()}
			}
			tag.TablesOfContents = append(tag.TablesOfContents, toc)
		}
	}

	return tag, nil
}

func frameSize(raw uint32, version byte) uint32 {
	if version == 4 {
		return decodeSynchsafe(be32(raw))
	}
	return raw
}

func be32(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

// parseTextFrame decodes a text frame body: [encoding][text].
func parseTextFrame(data []byte) string {
	if len(data) < 1 {
		return ""
	}
	return decodeText(data[1:], TextEncoding(data[0]))
}

// cutElementID splits a null-terminated ISO-8859-1 element id off data.
func cutElementID(data []byte) (string, []byte, error) {
	i := bytes.IndexByte(data, 0)
	if i < 0 {
		return "", nil, fmt.Errorf("unterminated element id")
	}
	return string(data[:i]), data[i+1:], nil
}

// parseChapter decodes a CHAP body. The title comes from the first TIT2
// subframe, if any.
func parseChapter(data []byte, version byte) (types.Chapter, error) {
	id, rest, err := cutElementID(data)
	if err != nil {
		return types.Chapter{}, err
	}
	if len(rest) < 16 {
		return types.Chapter{}, fmt.Errorf("chapter %q: truncated time fields", id)
	}

	ch := types.Chapter{
		ID:      id,
		StartMS: binutil.Decode[uint32](rest[0:4]),
		EndMS:   binutil.Decode[uint32](rest[4:8]),
	}
	ch.Title = subframeTitle(rest[16:], version)
	return ch, nil
}

// parseTOC decodes a CTOC body.
func parseTOC(data []byte, version byte) (TableOfContents, error) {
	id, rest, err := cutElementID(data)
	if err != nil {
		return TableOfContents{}, err
	}
	if len(rest) < 2 {
		return TableOfContents{}, fmt.Errorf("table of contents %q: truncated header", id)
	}

	toc := TableOfContents{
		ID:       id,
		TopLevel: rest[0]&0x02 != 0,
		Ordered:  rest[0]&0x01 != 0,
	}
	count := int(rest[1])
	rest = rest[2:]

	toc.Elements = make([]string, 0, count)
	for range count {
		var el string
		el, rest, err = cutElementID(rest)
		if err != nil {
			return TableOfContents{}, fmt.Errorf("table of contents %q: %w", id, err)
		}
		toc.Elements = append(toc.Elements, el)
	}

	toc.Title = subframeTitle(rest, version)
	return toc, nil
}

// subframeTitle walks embedded frames and returns the first TIT2 text.
func subframeTitle(data []byte, version byte) string {
	for len(data) >= headerSize {
		id := string(data[0:4])
		size := int(frameSize(binutil.Decode[uint32](data[4:8]), version))
		if data[0] == 0 || headerSize+size > len(data) {
			return ""
		}
		body := data[headerSize : headerSize+size]
		if id == "TIT2" {
			return parseTextFrame(body)
		}
		data = data[headerSize+size:]
	}
	return ""
}
