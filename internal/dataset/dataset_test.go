package dataset

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"mesh-cells-renderer/internal/cellcolor"
)

func TestStructurePaths(t *testing.T) {
	s := New("/data/scenes/mug_01")
	want := filepath.Join("/data/scenes/mug_01", "processed", "rendered_images", "000042_mesh_cells.png")
	if got := s.MeshCellsImageFile(42); got != want {
		t.Errorf("MeshCellsImageFile(42) = %s, want %s", got, want)
	}
	if got := filepath.Base(s.MeshCellsWebPFile(7)); got != "000007_mesh_cells.webp" {
		t.Errorf("webp name = %s", got)
	}
	if got := filepath.Base(s.CameraInfoFile()); got != "camera_info.yaml" {
		t.Errorf("camera info name = %s", got)
	}
}

func TestFindMesh(t *testing.T) {
	root := t.TempDir()
	s := New(root)

	if _, err := s.FindMesh(); err == nil {
		t.Fatal("expected error with no mesh present")
	}

	processed := s.ProcessedDir()
	if err := os.MkdirAll(processed, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(processed, "mesh.obj"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	path, err := s.FindMesh()
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "mesh.obj" {
		t.Errorf("found %s", path)
	}

	// PLY candidates take priority over OBJ.
	if err := os.WriteFile(filepath.Join(processed, "fusion_mesh.ply"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	path, err = s.FindMesh()
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "fusion_mesh.ply" {
		t.Errorf("found %s, want fusion_mesh.ply", path)
	}
}

func TestImageSinkRoundTrip(t *testing.T) {
	s := New(t.TempDir())
	sink := &ImageSink{Scene: s, WriteWebP: true}

	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	i := src.PixOffset(1, 1)
	src.Pix[i+2] = 5 // cell 4
	src.Pix[i+3] = 255
	idx := cellcolor.DecodeImage(src)

	path, err := sink.SaveIndexImage(9, idx)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "000009_mesh_cells.png" {
		t.Errorf("path = %s", path)
	}
	for _, p := range []string{path, s.MeshCellsWebPFile(9)} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing output %s: %v", p, err)
		}
	}
}
