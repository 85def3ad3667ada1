package id3

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// TextEncoding is the encoding byte that prefixes ID3v2 text frames.
type TextEncoding byte

const (
	EncodingISO88591 TextEncoding = 0 // read only
	EncodingUTF16    TextEncoding = 1 // UTF-16 with byte order mark
	EncodingUTF16BE  TextEncoding = 2 // read only
	EncodingUTF8     TextEncoding = 3
)

// String returns the configuration name of the encoding.
func (e TextEncoding) String() string {
	switch e {
	case EncodingISO88591:
		return "iso-8859-1"
	case EncodingUTF16:
		return "utf16"
	case EncodingUTF16BE:
		return "utf16be"
	case EncodingUTF8:
		return "utf8"
	default:
		return fmt.Sprintf("TextEncoding(%d)", byte(e))
	}
}

// ParseTextEncoding maps a configuration value to a writable encoding.
func ParseTextEncoding(name string) (TextEncoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf8", "utf-8":
		return EncodingUTF8, nil
	case "utf16", "utf-16":
		return EncodingUTF16, nil
	}
	return EncodingUTF8, fmt.Errorf("unsupported text encoding %q (want utf8 or utf16)", name)
}

func (e TextEncoding) writable() bool {
	return e == EncodingUTF8 || e == EncodingUTF16
}

// encodeText returns s in the given encoding without a terminator.
func encodeText(s string, enc TextEncoding) ([]byte, error) {
	switch enc {
	case EncodingUTF8:
		return []byte(s), nil
	case EncodingUTF16:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(s))
	}
	return nil, fmt.Errorf("cannot write text as %s", enc)
}

// decodeText decodes frame text, dropping trailing terminators.
// Undecodable input falls back to the raw bytes.
func decodeText(data []byte, enc TextEncoding) string {
	if len(data) == 0 {
		return ""
	}

	var dec *encoding.Decoder
	switch enc {
	case EncodingISO88591:
		dec = charmap.ISO8859_1.NewDecoder()
	case EncodingUTF16:
		dec = unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
	case EncodingUTF16BE:
		dec = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	default:
		return strings.TrimRight(string(data), "\x00")
	}

	if enc != EncodingISO88591 && len(data)%2 != 0 {
		data = data[:len(data)-1]
	}
	out, err := dec.Bytes(data)
	if err != nil {
		return strings.TrimRight(string(data), "\x00")
	}
	return strings.TrimRight(string(out), "\x00")
}
