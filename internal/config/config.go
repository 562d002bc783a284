package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths
	DataDir string `json:"data_dir"` // root holding scene folders (or one scene)
	Scene   string `json:"scene"`    // optional: restrict to a single scene name

	// Render settings
	WriteWebP   bool `json:"write_webp"`  // also store lossless WebP index images
	Supersample int  `json:"supersample"` // preview renders only; index maps never resample
	Workers     int  `json:"workers"`     // parallel scenes, one viewport each
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	DataDir string
	Scene   string
	Workers int
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.DataDir != "" {
		c.DataDir = flags.DataDir
	}
	if flags.Scene != "" {
		c.Scene = flags.Scene
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.DataDir == "" {
		c.DataDir = detectDataDir()
	}

	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// detectDataDir falls back to the working directory when it looks like a
// scene root (itself a scene, or a folder of scenes).
func detectDataDir() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	if _, err := os.Stat(filepath.Join(cwd, "processed")); err == nil {
		return cwd
	}
	entries, _ := os.ReadDir(cwd)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(cwd, e.Name(), "processed")); err == nil {
			return cwd
		}
	}
	return ""
}
