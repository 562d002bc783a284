package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"mesh-cells-renderer/internal/batch"
	"mesh-cells-renderer/internal/config"
	"mesh-cells-renderer/internal/dataset"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	dataDir := flag.String("data", "", "Path to scene data directory (default: auto-detect)")
	scene := flag.String("scene", "", "Render only this scene (directory name)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	webp := flag.Bool("webp", false, "Also write lossless WebP next to each PNG")
	testN := flag.Int("test", 0, "Render only first N poses per scene for testing")
	verbose := flag.Bool("v", false, "Verbose logging")

	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			logger.Fatal("config load failed", "err", err)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		DataDir: *dataDir,
		Scene:   *scene,
		Workers: *workers,
	})
	if *webp {
		cfg.WriteWebP = true
	}

	if cfg.DataDir == "" {
		logger.Fatal("cannot find a scene data directory; use -data or config.json")
	}

	scenes, err := dataset.DiscoverScenes(cfg.DataDir)
	if err != nil {
		logger.Fatal("scene discovery failed", "err", err)
	}
	if cfg.Scene != "" {
		scenes = filterScenes(scenes, cfg.Scene)
		if len(scenes) == 0 {
			logger.Fatal("scene not found", "scene", cfg.Scene)
		}
	}

	mode := ""
	if *testN > 0 {
		mode = fmt.Sprintf(" (TEST: first %d poses)", *testN)
	}
	fmt.Printf("Mesh Cell-Index Renderer%s\n", mode)
	fmt.Printf("Scenes: %d, Workers: %d\n", len(scenes), cfg.Workers)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	results := batch.Run(batch.Config{
		WriteWebP: cfg.WriteWebP,
		Workers:   cfg.Workers,
		MaxPoses:  *testN,
		Logger:    logger,
	}, scenes)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	success, failed, failedPoses := 0, 0, 0
	for _, r := range results {
		if r.Error == "" {
			success++
			failedPoses += r.FailedPoses
		} else {
			failed++
		}
	}
	fmt.Printf("Scenes rendered: %d/%d\n", success, len(scenes))
	if failedPoses > 0 {
		fmt.Printf("Poses failed: %d\n", failedPoses)
	}

	if failed > 0 {
		fmt.Printf("\nFailed scenes (%d):\n", failed)
		for _, r := range results {
			if r.Error != "" {
				fmt.Printf("  %s: %s\n", r.Scene, r.Error)
			}
		}
	}

	if failed > 0 || failedPoses > 0 {
		os.Exit(1)
	}
}

func filterScenes(scenes []string, name string) []string {
	var out []string
	for _, s := range scenes {
		if s == name || filepath.Base(s) == name {
			out = append(out, s)
		}
	}
	return out
}
