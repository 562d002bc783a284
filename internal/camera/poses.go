package camera

import (
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"mesh-cells-renderer/internal/mathutil"
)

// Pose is one camera placement: an integer image index and the rigid
// camera-to-world transform recorded by the reconstruction.
type Pose struct {
	ID            int
	CameraToWorld mathutil.Mat4
}

// poseEntry mirrors one record of pose_data.yaml.
type poseEntry struct {
	CameraToWorld struct {
		Quaternion struct {
			W float64 `yaml:"w"`
			X float64 `yaml:"x"`
			Y float64 `yaml:"y"`
			Z float64 `yaml:"z"`
		} `yaml:"quaternion"`
		Translation struct {
			X float64 `yaml:"x"`
			Y float64 `yaml:"y"`
			Z float64 `yaml:"z"`
		} `yaml:"translation"`
	} `yaml:"camera_to_world"`
	Timestamp        float64 `yaml:"timestamp"`
	RGBImageFilename string  `yaml:"rgb_image_filename"`
}

// LoadPoses reads pose_data.yaml and returns the poses ordered by image
// index. The sorted index order is the pose-source contract: callers may
// rely on it matching the image numbering on disk.
func LoadPoses(path string) ([]Pose, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("camera: read %s: %w", path, err)
	}

	entries := make(map[int]poseEntry)
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("camera: parse %s: %w", path, err)
	}

	poses := make([]Pose, 0, len(entries))
	for id, e := range entries {
		q := e.CameraToWorld.Quaternion
		tr := e.CameraToWorld.Translation

		norm := math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
		if norm < 1e-9 {
			return nil, fmt.Errorf("camera: %s: pose %d has a zero quaternion", path, id)
		}
		quat := mathutil.Quat{q.X / norm, q.Y / norm, q.Z / norm, q.W / norm}

		rot := mathutil.QuatToMat3(quat)
		m := mathutil.FromMat3Translation(rot, mathutil.Vec3{tr.X, tr.Y, tr.Z})
		poses = append(poses, Pose{ID: id, CameraToWorld: m})
	}

	sort.Slice(poses, func(i, j int) bool { return poses[i].ID < poses[j].ID })
	return poses, nil
}
