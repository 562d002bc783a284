package batch

import (
	"encoding/json"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"mesh-cells-renderer/internal/cellcolor"
	"mesh-cells-renderer/internal/dataset"
)

const testPLY = `ply
format ascii 1.0
element vertex 3
property float x
property float y
property float z
element face 1
property list uchar int vertex_indices
end_header
-1 -1 2
1 -1 2
0 1 2
3 0 1 2
`

const testCameraInfo = `camera_matrix:
  rows: 3
  cols: 3
  data: [64.0, 0.0, 32.0, 0.0, 64.0, 32.0, 0.0, 0.0, 1.0]
image_width: 64
image_height: 64
`

const testPoseData = `0:
  camera_to_world:
    quaternion: {w: 1.0, x: 0.0, y: 0.0, z: 0.0}
    translation: {x: 0.0, y: 0.0, z: 0.0}
  timestamp: 0.0
1:
  camera_to_world:
    quaternion: {w: 1.0, x: 0.0, y: 0.0, z: 0.0}
    translation: {x: 0.0, y: 0.0, z: 0.5}
  timestamp: 0.1
`

func writeTestScene(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	imagesDir := filepath.Join(root, "processed", "images")
	if err := os.MkdirAll(imagesDir, 0755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		filepath.Join(root, "processed", "fusion_mesh.ply"): testPLY,
		filepath.Join(imagesDir, "camera_info.yaml"):        testCameraInfo,
		filepath.Join(imagesDir, "pose_data.yaml"):          testPoseData,
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestRunRendersScene(t *testing.T) {
	root := writeTestScene(t)

	results := Run(Config{Workers: 1, Logger: quietLogger()}, []string{root})
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	r := results[0]
	if r.Error != "" {
		t.Fatalf("scene failed: %s", r.Error)
	}
	if r.Poses != 2 || r.FailedPoses != 0 {
		t.Fatalf("poses = %d failed = %d, want 2 and 0", r.Poses, r.FailedPoses)
	}

	scene := dataset.New(root)
	f, err := os.Open(scene.MeshCellsImageFile(0))
	if err != nil {
		t.Fatalf("index image missing: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	nrgba, ok := img.(*image.NRGBA)
	if !ok {
		nrgba = image.NewNRGBA(img.Bounds())
		for y := 0; y < img.Bounds().Dy(); y++ {
			for x := 0; x < img.Bounds().Dx(); x++ {
				nrgba.Set(x, y, img.At(x, y))
			}
		}
	}
	idx := cellcolor.DecodeImage(nrgba)
	if cell, ok := idx.At(32, 32); !ok || cell != 0 {
		t.Errorf("center pixel = (%d, %v), want cell 0", cell, ok)
	}
	if _, ok := idx.At(0, 0); ok {
		t.Errorf("corner pixel should be background")
	}
}

func TestRunWritesManifest(t *testing.T) {
	root := writeTestScene(t)
	Run(Config{Workers: 2, Logger: quietLogger()}, []string{root})

	data, err := os.ReadFile(dataset.New(root).ManifestFile())
	if err != nil {
		t.Fatalf("manifest missing: %v", err)
	}
	var entries []ManifestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("manifest parse: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d manifest entries, want 2", len(entries))
	}
	if entries[0].PoseID != 0 || entries[0].Error != "" || entries[0].Image == "" {
		t.Errorf("entry 0 = %+v", entries[0])
	}
	if entries[1].PoseID != 1 {
		t.Errorf("entry 1 pose = %d, want 1", entries[1].PoseID)
	}
}

func TestRunMaxPoses(t *testing.T) {
	root := writeTestScene(t)
	results := Run(Config{Workers: 1, MaxPoses: 1, Logger: quietLogger()}, []string{root})
	if results[0].Poses != 1 {
		t.Fatalf("poses = %d, want 1", results[0].Poses)
	}
	if _, err := os.Stat(dataset.New(root).MeshCellsImageFile(1)); !os.IsNotExist(err) {
		t.Errorf("pose 1 should not have been rendered")
	}
}

func TestRunMissingMesh(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "processed"), 0755); err != nil {
		t.Fatal(err)
	}
	results := Run(Config{Workers: 1, Logger: quietLogger()}, []string{root})
	if results[0].Error == "" {
		t.Fatal("expected a scene error for a missing mesh")
	}
}
