package camera

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Intrinsics holds a pinhole camera model and the image size it projects
// into. The view size is locked for a whole render session: decoded pixel
// positions are only meaningful against the projection that produced them.
type Intrinsics struct {
	Fx, Fy float64 // focal lengths in pixels
	Cx, Cy float64 // principal point
	Width  int
	Height int
}

// cameraInfoFile mirrors the camera_info.yaml layout written by the
// reconstruction pipeline: a row-major 3x3 camera matrix plus image size.
type cameraInfoFile struct {
	CameraMatrix struct {
		Rows int       `yaml:"rows"`
		Cols int       `yaml:"cols"`
		Data []float64 `yaml:"data"`
	} `yaml:"camera_matrix"`
	ImageWidth  int `yaml:"image_width"`
	ImageHeight int `yaml:"image_height"`
}

// LoadIntrinsics reads a camera_info.yaml file.
func LoadIntrinsics(path string) (Intrinsics, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Intrinsics{}, fmt.Errorf("camera: read %s: %w", path, err)
	}

	var info cameraInfoFile
	if err := yaml.Unmarshal(raw, &info); err != nil {
		return Intrinsics{}, fmt.Errorf("camera: parse %s: %w", path, err)
	}

	d := info.CameraMatrix.Data
	if len(d) != 9 {
		return Intrinsics{}, fmt.Errorf("camera: %s: camera_matrix has %d entries, want 9", path, len(d))
	}
	intr := Intrinsics{
		Fx:     d[0],
		Cx:     d[2],
		Fy:     d[4],
		Cy:     d[5],
		Width:  info.ImageWidth,
		Height: info.ImageHeight,
	}
	if err := intr.Validate(); err != nil {
		return Intrinsics{}, fmt.Errorf("camera: %s: %w", path, err)
	}
	return intr, nil
}

// Validate checks the model is usable for projection.
func (in Intrinsics) Validate() error {
	if in.Fx <= 0 || in.Fy <= 0 {
		return fmt.Errorf("non-positive focal length (fx=%g, fy=%g)", in.Fx, in.Fy)
	}
	if in.Width <= 0 || in.Height <= 0 {
		return fmt.Errorf("non-positive image size %dx%d", in.Width, in.Height)
	}
	return nil
}
