package ioutils

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// 1x1 lossless WebP.
const tinyWebP = "UklGRhoAAABXRUJQVlA4TA0AAAAvAAAAEAcQERGIiP4HAA=="

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestFitDimensions(t *testing.T) {
	tests := []struct {
		name             string
		w, h, maxW, maxH int
		wantW, wantH     int
	}{
		{"already fits", 80, 60, 100, 100, 80, 60},
		{"square", 300, 300, 100, 100, 100, 100},
		{"wide", 400, 200, 100, 100, 100, 50},
		{"tall", 200, 400, 100, 100, 50, 100},
		{"degenerate", 0, 10, 100, 100, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := fitDimensions(tt.w, tt.h, tt.maxW, tt.maxH)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("fitDimensions() = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestImageService_ResizeImage(t *testing.T) {
	svc := NewImageService()
	out, err := svc.ResizeImage(context.Background(), pngBytes(t, 300, 150), 100, 100)
	if err != nil {
		t.Fatalf("ResizeImage failed: %v", err)
	}

	img, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not JPEG: %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(100, 50) {
		t.Errorf("size = %v, want 100x50", got)
	}
}

func TestImageService_DecodeWebP(t *testing.T) {
	data, err := base64.StdEncoding.DecodeString(tinyWebP)
	if err != nil {
		t.Fatal(err)
	}

	img, err := NewImageService().Decode(context.Background(), data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(1, 1) {
		t.Errorf("size = %v, want 1x1", got)
	}
}

func TestImageService_DecodeErrors(t *testing.T) {
	svc := NewImageService()

	if _, err := svc.Decode(context.Background(), nil); !errors.Is(err, ErrNoCover) {
		t.Errorf("Decode(nil) error = %v, want ErrNoCover", err)
	}
	if _, err := svc.Decode(context.Background(), []byte("<html>not an image</html>")); err == nil {
		t.Error("expected error for non-image data")
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "tracks.csv")

	if err := WriteFileAtomic(context.Background(), path, []byte("first")); err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	if err := WriteFileAtomic(context.Background(), path, []byte("second")); err != nil {
		t.Fatalf("second write failed: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "second" {
		t.Errorf("content = %q, want %q", got, "second")
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want only the target file", len(entries))
	}
}

func TestWriteFileAtomic_CancelledKeepsOld(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracks.csv")
	if err := os.WriteFile(path, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := WriteFileAtomic(ctx, path, []byte("new")); err == nil {
		t.Fatal("expected error for cancelled context")
	}

	got, _ := os.ReadFile(path)
	if string(got) != "old" {
		t.Errorf("content = %q, want %q", got, "old")
	}
}
