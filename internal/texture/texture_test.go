package texture

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestIndexAndCache(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "textures")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}
	writePNG(t, filepath.Join(sub, "Scan_Albedo.png"))

	idx := BuildIndex(root)
	if idx.Len() != 1 {
		t.Fatalf("indexed %d textures, want 1", idx.Len())
	}

	// Stem lookup is case-insensitive and ignores path components.
	if _, ok := idx.ResolvePath("materials\\scan_albedo.png"); !ok {
		t.Fatal("stem lookup failed")
	}

	cache := NewCache(idx)
	img := cache.Resolve("scan_albedo.jpg")
	if img == nil {
		t.Fatal("cache did not resolve texture")
	}
	if again := cache.Resolve("scan_albedo.jpg"); again != img {
		t.Error("cache returned a different image on second resolve")
	}
	if cache.Resolve("missing") != nil {
		t.Error("resolved a texture that does not exist")
	}
}
