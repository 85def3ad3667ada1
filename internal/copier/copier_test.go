package copier

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/simonhull/presquile/internal/types"
)

func TestEnrichedPath(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"/books/ep1.mp3", "/books/ep1_enriched.mp3"},
		{"ep1.mp3", "ep1_enriched.mp3"},
		{"dir/podcast.final.mp3", "dir/podcast.final_enriched.mp3"},
		{"/books/noext", "/books/noext_enriched"},
		{"./book.MP3", "book_enriched.MP3"},
	}

	for _, tt := range tests {
		got, err := EnrichedPath(tt.src)
		if err != nil {
			t.Errorf("EnrichedPath(%q) failed: %v", tt.src, err)
			continue
		}
		if got != filepath.FromSlash(tt.want) {
			t.Errorf("EnrichedPath(%q) = %q, expected %q", tt.src, got, tt.want)
		}
	}
}

func TestEnrichedPath_Unresolvable(t *testing.T) {
	for _, src := range []string{"", ".mp3", "/books/.mp3", ".", "..", "/", "/books/"} {
		_, err := EnrichedPath(src)
		var target *types.DestinationUnresolvableError
		if !errors.As(err, &target) {
			t.Errorf("EnrichedPath(%q): expected DestinationUnresolvableError, got %v", src, err)
			continue
		}
		if target.Path != src {
			t.Errorf("EnrichedPath(%q): error path = %q", src, target.Path)
		}
	}
}

func TestCopy(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "ep1.mp3")
	content := []byte{0xFF, 0xFB, 0x90, 0x00, 1, 2, 3, 4}
	if err := os.WriteFile(src, content, 0o600); err != nil {
		t.Fatal(err)
	}

	dst, err := Copy(context.Background(), src)
	if err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	if dst != filepath.Join(dir, "ep1_enriched.mp3") {
		t.Errorf("dst = %q", dst)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("copy = % x, expected % x", got, content)
	}

	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, expected 0600", info.Mode().Perm())
	}

	src2, err := os.ReadFile(src)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(src2, content) {
		t.Error("source was modified")
	}
}

func TestCopy_TruncatesExisting(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "ep1.mp3")
	if err := os.WriteFile(src, []byte("short"), 0o644); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(dir, "ep1_enriched.mp3")
	if err := os.WriteFile(stale, bytes.Repeat([]byte("stale"), 100), 0o644); err != nil {
		t.Fatal(err)
	}

	dst, err := New().Copy(context.Background(), src)
	if err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "short" {
		t.Errorf("copy = %q, expected %q", got, "short")
	}
}

func TestCopy_Errors(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "folder.mp3"), 0o755); err != nil {
		t.Fatal(err)
	}
	existing := filepath.Join(dir, "ep1.mp3")
	if err := os.WriteFile(existing, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		src  string
		is   error
	}{
		{"missing source", context.Background(), filepath.Join(dir, "missing.mp3"), os.ErrNotExist},
		{"directory source", context.Background(), filepath.Join(dir, "folder.mp3"), os.ErrInvalid},
		{"cancelled", cancelled, existing, context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Copy(tt.ctx, tt.src)

			var copyErr *types.CopyError
			if !errors.As(err, &copyErr) {
				t.Fatalf("expected CopyError, got %v", err)
			}
			if copyErr.Src != tt.src {
				t.Errorf("Src = %q, expected %q", copyErr.Src, tt.src)
			}
			if !errors.Is(err, tt.is) {
				t.Errorf("expected error wrapping %v, got %v", tt.is, err)
			}
		})
	}

	if _, err := Copy(context.Background(), ""); err == nil {
		t.Error("expected error for empty path")
	}
}
