// Package dataset resolves the on-disk layout of one reconstructed scene
// and persists rendered images into it.
package dataset

import (
	"fmt"
	"os"
	"path/filepath"
)

// Structure resolves paths inside a scene folder:
//
//	<root>/processed/
//	    fusion_mesh.ply              reconstructed mesh
//	    images/camera_info.yaml      pinhole intrinsics
//	    images/pose_data.yaml        per-image camera-to-world poses
//	    rendered_images/             output index images
type Structure struct {
	Root string
}

func New(root string) Structure {
	return Structure{Root: root}
}

func (s Structure) ProcessedDir() string {
	return filepath.Join(s.Root, "processed")
}

func (s Structure) CameraInfoFile() string {
	return filepath.Join(s.ProcessedDir(), "images", "camera_info.yaml")
}

func (s Structure) PoseDataFile() string {
	return filepath.Join(s.ProcessedDir(), "images", "pose_data.yaml")
}

func (s Structure) RenderedImagesDir() string {
	return filepath.Join(s.ProcessedDir(), "rendered_images")
}

// MeshCellsImageFile is the index image for one pose, PNG.
func (s Structure) MeshCellsImageFile(idx int) string {
	return filepath.Join(s.RenderedImagesDir(), fmt.Sprintf("%06d_mesh_cells.png", idx))
}

// MeshCellsWebPFile is the lossless WebP twin of MeshCellsImageFile.
func (s Structure) MeshCellsWebPFile(idx int) string {
	return filepath.Join(s.RenderedImagesDir(), fmt.Sprintf("%06d_mesh_cells.webp", idx))
}

// PreviewImageFile is the shaded preview render for one pose.
func (s Structure) PreviewImageFile(idx int) string {
	return filepath.Join(s.RenderedImagesDir(), fmt.Sprintf("%06d_mesh_preview.webp", idx))
}

func (s Structure) ManifestFile() string {
	return filepath.Join(s.RenderedImagesDir(), "manifest.json")
}

// meshCandidates in lookup order. Reconstruction pipelines differ in what
// they name the fused mesh.
var meshCandidates = []string{
	"fusion_mesh.ply",
	"fusion_mesh_foreground.ply",
	"mesh.ply",
	"fusion_mesh.obj",
	"mesh.obj",
}

// FindMesh locates the scene's mesh file.
func (s Structure) FindMesh() (string, error) {
	for _, name := range meshCandidates {
		path := filepath.Join(s.ProcessedDir(), name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("dataset: no mesh found under %s (tried %v)", s.ProcessedDir(), meshCandidates)
}
