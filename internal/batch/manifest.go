package batch

import (
	"encoding/json"
	"os"

	"mesh-cells-renderer/internal/session"
)

// ManifestEntry records one rendered pose in the scene manifest.
type ManifestEntry struct {
	PoseID int    `json:"pose_id"`
	Image  string `json:"image,omitempty"`
	Error  string `json:"error,omitempty"`
}

// WriteManifest writes render_manifest.json next to the rendered images.
func WriteManifest(path string, results []session.PoseResult) error {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		entries[i] = ManifestEntry{PoseID: r.PoseID, Image: r.Path}
		if r.Err != nil {
			entries[i].Error = r.Err.Error()
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
