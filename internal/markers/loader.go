// Package markers decodes tab-separated marker exports, such as the
// "Markers" export of Adobe Audition, into an ordered marker list.
package markers

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/simonhull/presquile/internal/types"
)

// Column names recognised in the header row.
const (
	ColumnName     = "Name"
	ColumnStart    = "Start"
	ColumnDuration = "Duration"
)

// Loader reads marker files from disk.
type Loader struct{}

// Load implements presquile.RecordLoader.
func (Loader) Load(ctx context.Context, path string) ([]types.Marker, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Load(path)
}

// Load opens path and parses it with Parse.
func Load(path string) ([]types.Marker, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &types.MarkerFileError{Path: path, Reason: "cannot open file", Err: err}
	}
	defer f.Close()

	return Parse(f, path)
}

// Parse decodes a marker export. The first row is a header naming at least
// the Name and Start columns; every following row is one marker. Any
// malformed row invalidates the whole file.
//
// UTF-8 input with or without a byte order mark is accepted, as is UTF-16
// with a byte order mark.
func Parse(r io.Reader, path string) ([]types.Marker, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	cr := csv.NewReader(decoded)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &types.MarkerFileError{Path: path, Reason: "file is empty"}
	}
	if err != nil {
		return nil, rowError(path, err)
	}

	cols, err := locateColumns(header)
	if err != nil {
		return nil, &types.MarkerFileError{Path: path, Line: 1, Reason: err.Error()}
	}

	var markers []types.Marker
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, rowError(path, err)
		}

		line, _ := cr.FieldPos(0)
		m := types.Marker{
			Name:  strings.TrimSpace(record[cols.name]),
			Start: strings.TrimSpace(record[cols.start]),
		}
		if cols.duration >= 0 {
			m.Duration = strings.TrimSpace(record[cols.duration])
		}

		if !strings.Contains(m.Start, ":") || !strings.Contains(m.Start, ".") {
			return nil, &types.MarkerFileError{
				Path:   path,
				Line:   line,
				Reason: fmt.Sprintf("start time %q lacks ':' or '.'", m.Start),
			}
		}

		markers = append(markers, m)
	}

	if len(markers) == 0 {
		return nil, &types.MarkerFileError{Path: path, Reason: "no data rows"}
	}

	return markers, nil
}

type columns struct {
	name, start, duration int
}

func locateColumns(header []string) (columns, error) {
	cols := columns{name: -1, start: -1, duration: -1}
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case ColumnName:
			cols.name = i
		case ColumnStart:
			cols.start = i
		case ColumnDuration:
			cols.duration = i
		}
	}

	var missing []string
	if cols.name < 0 {
		missing = append(missing, ColumnName)
	}
	if cols.start < 0 {
		missing = append(missing, ColumnStart)
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("header lacks column(s) %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func rowError(path string, err error) error {
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		return &types.MarkerFileError{Path: path, Line: perr.Line, Reason: perr.Err.Error(), Err: err}
	}
	return &types.MarkerFileError{Path: path, Reason: "cannot read file", Err: err}
}
