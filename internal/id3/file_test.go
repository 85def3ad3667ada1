package id3

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/simonhull/presquile/internal/types"
)

var audioPayload = []byte{0xFF, 0xFB, 0x90, 0x00, 'a', 'u', 'd', 'i', 'o'}

func writeTemp(t *testing.T, data []byte, perm os.FileMode) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book.mp3")
	if err := os.WriteFile(path, data, perm); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestWriteFile_UntaggedAudio(t *testing.T) {
	path := writeTemp(t, audioPayload, 0o644)
	tag := Assemble(sampleChapters())

	if err := WriteFile(context.Background(), path, tag); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	encoded, err := Bytes(tag)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(got, encoded) {
		t.Error("file does not start with the encoded tag")
	}
	if !bytes.Equal(got[len(encoded):], audioPayload) {
		t.Errorf("audio after tag = % x, expected % x", got[len(encoded):], audioPayload)
	}
}

func TestWriteFile_ReplacesExistingTag(t *testing.T) {
	old, err := Bytes(Assemble([]types.Chapter{{ID: "old", Title: "Old", StartMS: 0, EndMS: 5}}), WithPadding(128))
	if err != nil {
		t.Fatal(err)
	}
	path := writeTemp(t, append(old, audioPayload...), 0o640)

	tag := Assemble(sampleChapters())
	if err := WriteFile(context.Background(), path, tag, WithTextEncoding(EncodingUTF16)); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !reflect.DeepEqual(got.Chapters, tag.Chapters) {
		t.Errorf("chapters = %+v, expected %+v", got.Chapters, tag.Chapters)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasSuffix(raw, audioPayload) {
		t.Error("audio bytes were not preserved")
	}
	if bytes.Contains(raw, []byte("old\x00")) {
		t.Error("old tag is still present")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o640 {
		t.Errorf("mode = %v, expected 0640", info.Mode().Perm())
	}
}

func TestWriteFile_NoTempLeftovers(t *testing.T) {
	path := writeTemp(t, audioPayload, 0o644)

	if err := NewWriter().WriteTag(context.Background(), path, Assemble(sampleChapters())); err != nil {
		t.Fatalf("WriteTag failed: %v", err)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("expected only book.mp3 in directory, got %v", names)
	}
}

func TestWriteFile_FailureLeavesFileUnchanged(t *testing.T) {
	tests := []struct {
		name string
		ctx  func() context.Context
		tag  *Tag
	}{
		{
			name: "cancelled context",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			tag: Assemble(sampleChapters()),
		},
		{
			name: "unencodable tag",
			ctx:  context.Background,
			tag:  Assemble([]types.Chapter{{ID: "", Title: "x"}}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemp(t, audioPayload, 0o644)

			if err := WriteFile(tt.ctx(), path, tt.tag); err == nil {
				t.Fatal("expected error")
			}

			got, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, audioPayload) {
				t.Errorf("file changed after failed write: % x", got)
			}
		})
	}
}

func TestWriteFile_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.mp3")
	if err := WriteFile(context.Background(), path, Assemble(nil)); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriter_Options(t *testing.T) {
	path := writeTemp(t, audioPayload, 0o644)
	tag := Assemble([]types.Chapter{{ID: "0", Title: "Intro", StartMS: 0, EndMS: 1000}})

	if err := NewWriter(WithTextEncoding(EncodingUTF16)).WriteTag(context.Background(), path, tag); err != nil {
		t.Fatalf("WriteTag failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(raw, []byte{0x01, 0xFF, 0xFE, 'I', 0x00}) {
		t.Error("expected UTF-16 titles from writer options")
	}
}
