// Package copier duplicates an audio file next to itself under the
// "_enriched" name that receives the new tag.
package copier

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/simonhull/presquile/internal/types"
)

// Suffix is appended to the file stem of the copy.
const Suffix = "_enriched"

// EnrichedPath returns the destination for src: the same directory, with
// Suffix inserted between stem and extension.
//
//	/books/ep1.mp3 -> /books/ep1_enriched.mp3
//
// Paths without a usable stem give a DestinationUnresolvableError. A name
// that is only an extension, such as ".mp3", has no stem.
func EnrichedPath(src string) (string, error) {
	base := filepath.Base(src)
	if src == "" || base == "." || base == ".." || base == string(filepath.Separator) ||
		strings.HasSuffix(src, string(filepath.Separator)) {
		return "", &types.DestinationUnresolvableError{Path: src}
	}

	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" {
		return "", &types.DestinationUnresolvableError{Path: src}
	}

	return filepath.Join(filepath.Dir(src), stem+Suffix+ext), nil
}

// Copier duplicates files to their enriched path.
type Copier struct{}

// New returns a Copier.
func New() *Copier {
	return &Copier{}
}

// Copy writes the bytes of src to EnrichedPath(src) and returns that path.
// An existing destination is truncated. The copy keeps the permission bits
// of src and is synced before returning.
func (c *Copier) Copy(ctx context.Context, src string) (string, error) {
	dst, err := EnrichedPath(src)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", &types.CopyError{Src: src, Dst: dst, Err: err}
	}

	if err := copyFile(src, dst); err != nil {
		return "", &types.CopyError{Src: src, Dst: dst, Err: err}
	}
	return dst, nil
}

// Copy is shorthand for New().Copy.
func Copy(ctx context.Context, src string) (string, error) {
	return New().Copy(ctx, src)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close() //nolint:errcheck // Read-only file

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return &os.PathError{Op: "copy", Path: src, Err: os.ErrInvalid}
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close() //nolint:errcheck // Copy error takes precedence
		return err
	}
	// OpenFile only applies the mode on create, and umask may have masked it.
	if err := out.Chmod(info.Mode().Perm()); err != nil {
		_ = out.Close() //nolint:errcheck // Chmod error takes precedence
		return err
	}
	if err := out.Sync(); err != nil {
		_ = out.Close() //nolint:errcheck // Sync error takes precedence
		return err
	}
	return out.Close()
}
