package id3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ReadFile opens path and decodes its ID3v2 tag.
func ReadFile(path string) (*Tag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close() //nolint:errcheck // Read-only file

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	return Decode(f, info.Size(), path)
}

// WriteFile replaces the ID3v2 tag of the file at path with tag.
//
// Any existing tag is dropped and the audio bytes after it are kept as-is.
// This is an atomic operation: the new file is written to a temporary file
// in the same directory, synced, then renamed over path. If any step fails,
// the file at path remains unchanged.
func WriteFile(ctx context.Context, path string, tag *Tag, opts ...EncodeOption) error { //nolint:gocyclo // Atomic file operations require sequential steps
	if err := ctx.Err(); err != nil {
		return err
	}

	encoded, err := Bytes(tag, opts...)
	if err != nil {
		return err
	}

	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer src.Close() //nolint:errcheck // Read-only file

	info, err := src.Stat()
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}

	existing, err := TagSize(src, info.Size())
	if err != nil {
		return fmt.Errorf("read existing tag: %w", err)
	}

	// Create temp file in same directory as output (for atomic rename)
	tempFile, err := os.CreateTemp(filepath.Dir(path), ".presquile-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	success := false
	defer func() {
		if !success {
			_ = tempFile.Close()    //nolint:errcheck // Best effort cleanup
			_ = os.Remove(tempPath) //nolint:errcheck // Best effort cleanup
		}
	}()

	if _, err := io.Copy(tempFile, bytes.NewReader(encoded)); err != nil {
		return fmt.Errorf("write tag: %w", err)
	}
	audio := io.NewSectionReader(src, existing, info.Size()-existing)
	if _, err := io.Copy(tempFile, audio); err != nil {
		return fmt.Errorf("write audio: %w", err)
	}

	if err := tempFile.Chmod(info.Mode().Perm()); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}

	// Sync temp file (fsync) to ensure data is on disk
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("rename temp to output: %w", err)
	}
	success = true

	return nil
}

// Writer writes tags with a fixed set of encode options.
type Writer struct {
	opts []EncodeOption
}

// NewWriter returns a Writer that passes opts to every WriteFile call.
func NewWriter(opts ...EncodeOption) *Writer {
	return &Writer{opts: opts}
}

// WriteTag replaces the tag of the file at path.
func (w *Writer) WriteTag(ctx context.Context, path string, tag *Tag) error {
	return WriteFile(ctx, path, tag, w.opts...)
}
