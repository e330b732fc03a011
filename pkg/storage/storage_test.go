package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/klauspost/compress/zip"
)

func backends(t *testing.T) map[string]Storage {
	fs, err := NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create file storage: %v", err)
	}
	return map[string]Storage{
		"memory": NewMemoryStorage(),
		"file":   fs,
	}
}

func TestStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.SaveText(ctx, "buyer_persona.txt", "Busy parents"); err != nil {
				t.Fatalf("Failed to save: %v", err)
			}
			if err := store.Save(ctx, "USP.pdf", []byte{0x25, 0x50, 0x44, 0x46}); err != nil {
				t.Fatalf("Failed to save bytes: %v", err)
			}

			text, err := store.LoadText(ctx, "buyer_persona.txt")
			if err != nil {
				t.Fatalf("Failed to load: %v", err)
			}
			if text != "Busy parents" {
				t.Errorf("Expected stored text, got %q", text)
			}

			exists, err := store.Exists(ctx, "USP.pdf")
			if err != nil || !exists {
				t.Errorf("Expected USP.pdf to exist, got %v, %v", exists, err)
			}

			names, err := store.List(ctx)
			if err != nil {
				t.Fatalf("Failed to list: %v", err)
			}
			if len(names) != 2 || names[0] != "USP.pdf" || names[1] != "buyer_persona.txt" {
				t.Errorf("Unexpected listing %v", names)
			}

			if err := store.Delete(ctx, "USP.pdf"); err != nil {
				t.Fatalf("Failed to delete: %v", err)
			}
			exists, _ = store.Exists(ctx, "USP.pdf")
			if exists {
				t.Error("Expected USP.pdf to be deleted")
			}
		})
	}
}

func TestStorageMissingArtifact(t *testing.T) {
	ctx := context.Background()
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.LoadText(ctx, "mission.txt")
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("Expected ErrNotFound, got %v", err)
			}
			exists, err := store.Exists(ctx, "mission.txt")
			if err != nil || exists {
				t.Errorf("Expected missing artifact, got %v, %v", exists, err)
			}
		})
	}
}

func TestStorageRejectsPathNames(t *testing.T) {
	ctx := context.Background()
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, bad := range []string{"", "../escape.txt", "a/b.txt", `a\b.txt`, ".."} {
				if err := store.SaveText(ctx, bad, "x"); err == nil {
					t.Errorf("Expected %q to be rejected", bad)
				}
			}
		})
	}
}

func TestWriteBundle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()
	_ = store.SaveText(ctx, "mission.txt", "Make shoes")
	_ = store.SaveText(ctx, "buyer_persona.txt", "Runners")
	_ = store.SaveText(ctx, "unrelated.txt", "skip me")

	var buf bytes.Buffer
	if err := WriteBundle(ctx, store, []string{"buyer_persona.txt", "mission.txt"}, &buf); err != nil {
		t.Fatalf("Failed to write bundle: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("Failed to open bundle: %v", err)
	}
	if len(zr.File) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(zr.File))
	}
	if zr.File[0].Name != "buyer_persona.txt" {
		t.Errorf("Expected entries in requested order, got %s first", zr.File[0].Name)
	}

	rc, err := zr.File[1].Open()
	if err != nil {
		t.Fatalf("Failed to open entry: %v", err)
	}
	defer rc.Close()
	content, _ := io.ReadAll(rc)
	if string(content) != "Make shoes" {
		t.Errorf("Unexpected entry content %q", content)
	}
}

func TestWriteBundleAllAndMissing(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()
	_ = store.SaveText(ctx, "a.txt", "a")
	_ = store.SaveText(ctx, "b.txt", "b")

	var buf bytes.Buffer
	if err := WriteBundle(ctx, store, nil, &buf); err != nil {
		t.Fatalf("Failed to write bundle: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("Failed to open bundle: %v", err)
	}
	if len(zr.File) != 2 {
		t.Errorf("Expected every artifact, got %d", len(zr.File))
	}

	err = WriteBundle(ctx, store, []string{"a.txt", "missing.txt"}, io.Discard)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
