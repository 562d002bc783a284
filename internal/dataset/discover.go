package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// DiscoverScenes lists scene folders under root. A directory counts as a
// scene when it has a processed/ subdirectory; root itself may be a single
// scene. Results are sorted for a deterministic processing order.
func DiscoverScenes(root string) ([]string, error) {
	if _, err := os.Stat(filepath.Join(root, "processed")); err == nil {
		return []string{root}, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("dataset: read %s: %w", root, err)
	}

	var scenes []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(root, e.Name())
		if _, err := os.Stat(filepath.Join(dir, "processed")); err == nil {
			scenes = append(scenes, dir)
		}
	}
	if len(scenes) == 0 {
		return nil, fmt.Errorf("dataset: no scenes found under %s", root)
	}
	sort.Strings(scenes)
	return scenes, nil
}
