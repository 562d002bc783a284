package dataset

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/HugoSmits86/nativewebp"

	"mesh-cells-renderer/internal/cellcolor"
)

// ImageSink writes index images into a scene's rendered_images directory.
// Both formats are lossless. Any quantization would silently rewrite cell
// indices, which is exactly the class of corruption the encoding cannot
// detect downstream.
type ImageSink struct {
	Scene Structure

	// WriteWebP additionally stores a lossless WebP next to each PNG.
	WriteWebP bool
}

// SaveIndexImage persists one decoded index image keyed by pose id and
// returns the primary (PNG) path.
func (s *ImageSink) SaveIndexImage(poseID int, img *cellcolor.IndexImage) (string, error) {
	rgb := img.EncodeNRGBA()

	pngPath := s.Scene.MeshCellsImageFile(poseID)
	if err := os.MkdirAll(filepath.Dir(pngPath), 0755); err != nil {
		return "", fmt.Errorf("dataset: %w", err)
	}
	if err := writePNG(pngPath, rgb); err != nil {
		return "", err
	}

	if s.WriteWebP {
		if err := writeWebP(s.Scene.MeshCellsWebPFile(poseID), rgb); err != nil {
			return "", err
		}
	}
	return pngPath, nil
}

// SavePreview persists a shaded preview frame as WebP.
func (s *ImageSink) SavePreview(poseID int, img *image.NRGBA) (string, error) {
	path := s.Scene.PreviewImageFile(poseID)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("dataset: %w", err)
	}
	if err := writeWebP(path, img); err != nil {
		return "", err
	}
	return path, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dataset: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("dataset: PNG encode %s: %w", path, err)
	}
	return nil
}

func writeWebP(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dataset: %w", err)
	}
	defer f.Close()
	if err := nativewebp.Encode(f, img, nil); err != nil {
		return fmt.Errorf("dataset: WebP encode %s: %w", path, err)
	}
	return nil
}
