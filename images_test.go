package pythontorust

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestFitImageDownscalesWideImages(t *testing.T) {
	raw := pngBytes(t, 1600, 400)
	out, err := fitImage(raw, ".png", 800)
	if err != nil {
		t.Fatalf("fitImage() error = %v", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 800 || cfg.Height != 200 {
		t.Errorf("resized to %dx%d, want 800x200", cfg.Width, cfg.Height)
	}
}

func TestFitImageKeepsSmallImages(t *testing.T) {
	raw := pngBytes(t, 400, 300)
	out, err := fitImage(raw, ".png", 800)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, raw) {
		t.Error("image within bounds was re-encoded")
	}
}

func TestCopyImages(t *testing.T) {
	content := t.TempDir()
	out := t.TempDir()
	src := filepath.Join(content, "learning-path")
	if err := os.MkdirAll(src, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "diagram.png"), pngBytes(t, 1200, 600), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "notes.md"), []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := copyImages(content, out, 800); err != nil {
		t.Fatalf("copyImages() error = %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(out, "learning-path", "diagram.png"))
	if err != nil {
		t.Fatalf("image not copied: %v", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 800 {
		t.Errorf("copied image width = %d, want 800", cfg.Width)
	}
	if _, err := os.Stat(filepath.Join(out, "learning-path", "notes.md")); !os.IsNotExist(err) {
		t.Error("non-image file copied by the image pass")
	}
}
