package storage

import (
	"bytes"
	"context"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("save_and_delete", func(t *testing.T) {
		root := t.TempDir()
		store := NewLocalStorage(root)

		err := store.Save(ctx, "uploads/recipe/a.png", strings.NewReader("payload"), "image/png")
		if err != nil {
			t.Fatalf("save failed: %v", err)
		}

		data, err := os.ReadFile(filepath.Join(root, "uploads", "recipe", "a.png"))
		if err != nil {
			t.Fatalf("expected file on disk: %v", err)
		}
		if string(data) != "payload" {
			t.Errorf("expected file contents 'payload', got %q", data)
		}

		if err := store.Delete(ctx, "uploads/recipe/a.png"); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if _, err := os.Stat(filepath.Join(root, "uploads", "recipe", "a.png")); !os.IsNotExist(err) {
			t.Errorf("expected file removed, stat err: %v", err)
		}
	})

	t.Run("delete_missing_is_noop", func(t *testing.T) {
		store := NewLocalStorage(t.TempDir())
		if err := store.Delete(ctx, "uploads/recipe/missing.png"); err != nil {
			t.Errorf("expected no error deleting missing file, got %v", err)
		}
	})

	t.Run("rejects_path_traversal", func(t *testing.T) {
		store := NewLocalStorage(t.TempDir())
		if err := store.Save(ctx, "../escape.png", strings.NewReader("x"), "image/png"); err == nil {
			t.Error("expected error for key escaping the media root")
		}
	})
}

func TestSniffImage(t *testing.T) {
	encode := func(t *testing.T, format string) []byte {
		t.Helper()
		var buf bytes.Buffer
		img := image.NewRGBA(image.Rect(0, 0, 2, 2))
		var err error
		switch format {
		case "png":
			err = png.Encode(&buf, img)
		case "jpeg":
			err = jpeg.Encode(&buf, img, nil)
		case "gif":
			err = gif.Encode(&buf, img, nil)
		}
		if err != nil {
			t.Fatalf("failed to encode %s: %v", format, err)
		}
		return buf.Bytes()
	}

	t.Run("detects_content_type", func(t *testing.T) {
		cases := map[string]string{
			"png":  "image/png",
			"jpeg": "image/jpeg",
			"gif":  "image/gif",
		}
		for format, want := range cases {
			payload := encode(t, format)
			data, contentType, err := SniffImage(bytes.NewReader(payload))
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", format, err)
			}
			if contentType != want {
				t.Errorf("%s: expected content type %s, got %s", format, want, contentType)
			}
			if !bytes.Equal(data, payload) {
				t.Errorf("%s: expected full payload returned", format)
			}
		}
	})

	t.Run("rejects_non_image", func(t *testing.T) {
		_, _, err := SniffImage(strings.NewReader("just some text"))
		if err == nil {
			t.Error("expected error for non-image payload")
		}
	})

	t.Run("rejects_empty", func(t *testing.T) {
		_, _, err := SniffImage(bytes.NewReader(nil))
		if err == nil {
			t.Error("expected error for empty payload")
		}
	})
}
