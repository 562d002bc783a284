package batch

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"mesh-cells-renderer/internal/camera"
	"mesh-cells-renderer/internal/dataset"
	"mesh-cells-renderer/internal/mesh"
	"mesh-cells-renderer/internal/raster"
	"mesh-cells-renderer/internal/session"
)

// Config holds shared settings for a batch run.
type Config struct {
	WriteWebP bool
	Workers   int
	MaxPoses  int // render only the first N poses per scene; 0 = all
	Logger    *log.Logger
}

// Result holds the outcome of processing one scene.
type Result struct {
	Scene       string
	Poses       int // poses attempted
	FailedPoses int
	Error       string // fatal scene error; empty on success
}

// Run processes scenes with a worker pool. Each worker builds its own
// viewport: the single-writer constraint on a viewport is per session, so
// scenes parallelize freely while poses within a scene stay sequential.
func Run(cfg Config, scenes []string) []Result {
	total := len(scenes)
	results := make([]Result, total)
	var processed atomic.Int64

	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					logger.Info("progress", "scenes", fmt.Sprintf("%d/%d", p, total),
						"rate", fmt.Sprintf("%.2f/min", float64(p)/elapsed*60))
				}
			}
		}
	}()

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	sceneChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range sceneChan {
				results[idx] = processScene(cfg, logger, scenes[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range scenes {
		sceneChan <- i
	}
	close(sceneChan)

	wg.Wait()
	close(done)

	return results
}

func processScene(cfg Config, logger *log.Logger, sceneDir string) Result {
	res := Result{Scene: sceneDir}
	fail := func(err error) Result {
		res.Error = err.Error()
		return res
	}

	scene := dataset.New(sceneDir)

	meshPath, err := scene.FindMesh()
	if err != nil {
		return fail(err)
	}
	m, err := mesh.Load(meshPath)
	if err != nil {
		return fail(err)
	}
	if m.CellCount() == 0 {
		return fail(fmt.Errorf("batch: %s has no faces", meshPath))
	}

	intr, err := camera.LoadIntrinsics(scene.CameraInfoFile())
	if err != nil {
		return fail(err)
	}
	poses, err := camera.LoadPoses(scene.PoseDataFile())
	if err != nil {
		return fail(err)
	}
	if cfg.MaxPoses > 0 && cfg.MaxPoses < len(poses) {
		poses = poses[:cfg.MaxPoses]
	}
	res.Poses = len(poses)

	logger.Debug("rendering scene", "dir", sceneDir, "cells", m.CellCount(), "poses", len(poses))

	sess := session.New(raster.NewViewport(m, intr), m, intr)
	if err := sess.Initialize(); err != nil {
		return fail(err)
	}
	sess.DisableLighting()

	sink := &dataset.ImageSink{Scene: scene, WriteWebP: cfg.WriteWebP}
	poseResults, err := sess.RenderImages(poses, sink)
	if err != nil {
		return fail(err)
	}

	for _, pr := range poseResults {
		if pr.Err != nil {
			res.FailedPoses++
			logger.Warn("pose failed", "scene", sceneDir, "pose", pr.PoseID, "err", pr.Err)
		}
	}

	if err := WriteManifest(scene.ManifestFile(), poseResults); err != nil {
		logger.Warn("manifest write failed", "scene", sceneDir, "err", err)
	}
	return res
}
