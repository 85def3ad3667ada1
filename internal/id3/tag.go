// Package id3 assembles, encodes, writes and reads ID3v2 chapter tags:
// CHAP frames for chapters and a CTOC frame listing them.
//
// Tags are always written as ID3v2.4. Reading accepts v2.3 and v2.4.
package id3

import (
	"github.com/simonhull/presquile/internal/types"
)

const (
	// TOCElementID is the element id of the synthesized table of contents.
	TOCElementID = "toc"
	// TOCTitle is the TIT2 title carried by the synthesized table of contents.
	TOCTitle = "chapters-chapz"
)

// TableOfContents mirrors an ID3v2 CTOC frame.
type TableOfContents struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Elements []string `json:"elements"`
	Ordered  bool     `json:"ordered"`
	TopLevel bool     `json:"top_level"`
}

// FrameHeader describes one top-level frame found while decoding.
type FrameHeader struct {
	ID     string
	Offset int64
	Size   uint32
	Flags  uint16
}

// Tag is the set of chapter frames written to, or read from, an audio file.
type Tag struct {
	// Chapters in frame order.
	Chapters []types.Chapter `json:"chapters"`

	// TablesOfContents in frame order. Assembled tags hold exactly one.
	TablesOfContents []TableOfContents `json:"tables_of_contents"`

	// Title is the top-level TIT2 text. Only set by Decode.
	Title string `json:"title,omitempty"`

	// Version is the major version (3 or 4). Only set by Decode.
	Version byte `json:"version,omitempty"`

	// Frames lists every top-level frame header. Only set by Decode.
	Frames []FrameHeader `json:"-"`
}

// Assemble wraps chapters into a Tag together with one ordered, top-level
// table of contents whose elements are the chapter ids in the same order.
func Assemble(chapters []types.Chapter) *Tag {
	elements := make([]string, len(chapters))
	for i, ch := range chapters {
		elements[i] = ch.ID
	}

	return &Tag{
		Chapters: chapters,
		TablesOfContents: []TableOfContents{{
			ID:       TOCElementID,
			Title:    TOCTitle,
			Elements: elements,
			Ordered:  true,
			TopLevel: true,
		}},
	}
}

// TopLevelTOC returns the first table of contents flagged top-level.
func (t *Tag) TopLevelTOC() (TableOfContents, bool) {
	for _, toc := range t.TablesOfContents {
		if toc.TopLevel {
			return toc, true
		}
	}
	return TableOfContents{}, false
}
