package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"mesh-cells-renderer/internal/camera"
	"mesh-cells-renderer/internal/config"
	"mesh-cells-renderer/internal/dataset"
	"mesh-cells-renderer/internal/mesh"
	"mesh-cells-renderer/internal/postprocess"
	"mesh-cells-renderer/internal/raster"
	"mesh-cells-renderer/internal/texture"
)

// previewrender produces shaded WebP previews of a scene's mesh, one per
// pose. Unlike the index renderer it keeps lighting and supersampling on:
// the output is for humans, not for decoding.
func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	sceneDir := flag.String("scene", "", "Scene directory (contains processed/)")
	poseID := flag.Int("pose", -1, "Render only this pose index (default: all)")
	supersample := flag.Int("ss", 0, "Supersampling factor (default: from config, else 2)")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	if *sceneDir == "" {
		fmt.Fprintln(os.Stderr, "Usage: previewrender -scene <dir> [-pose N] [-ss N]")
		os.Exit(1)
	}

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			logger.Fatal("config load failed", "err", err)
		}
	}
	cfg.Resolve(config.Flags{DataDir: *sceneDir})

	ss := *supersample
	if ss <= 0 {
		ss = cfg.Supersample
	}
	if ss < 1 {
		ss = 1
	}

	scene := dataset.New(*sceneDir)
	meshPath, err := scene.FindMesh()
	if err != nil {
		logger.Fatal("mesh lookup failed", "err", err)
	}
	m, err := mesh.Load(meshPath)
	if err != nil {
		logger.Fatal("mesh load failed", "err", err)
	}
	m.SetColorMode(mesh.ColorShaded)
	intr, err := camera.LoadIntrinsics(scene.CameraInfoFile())
	if err != nil {
		logger.Fatal("intrinsics load failed", "err", err)
	}
	poses, err := camera.LoadPoses(scene.PoseDataFile())
	if err != nil {
		logger.Fatal("pose load failed", "err", err)
	}
	if *poseID >= 0 {
		poses = selectPose(poses, *poseID)
		if len(poses) == 0 {
			logger.Fatal("pose not found", "pose", *poseID)
		}
	}

	// Render at a scaled resolution and downsample for smooth edges.
	hi := camera.Intrinsics{
		Fx: intr.Fx * float64(ss), Fy: intr.Fy * float64(ss),
		Cx: intr.Cx * float64(ss), Cy: intr.Cy * float64(ss),
		Width: intr.Width * ss, Height: intr.Height * ss,
	}

	vp := raster.NewViewport(m, hi)
	if err := vp.LockViewSize(hi.Width, hi.Height); err != nil {
		logger.Fatal("viewport setup failed", "err", err)
	}
	if m.TexName != "" {
		texIndex := texture.BuildIndex(scene.ProcessedDir())
		vp.SetTextures(texture.NewCache(texIndex))
		logger.Debug("texture index built", "textures", texIndex.Len())
	}

	sink := &dataset.ImageSink{Scene: scene}
	rendered, failed := 0, 0
	for _, pose := range poses {
		vp.SetCameraTransform(pose.CameraToWorld)
		img, err := vp.ForceRender()
		if err != nil {
			logger.Warn("render failed", "pose", pose.ID, "err", err)
			failed++
			continue
		}
		if ss > 1 {
			img = postprocess.Downsample(img, intr.Width, intr.Height)
		}
		path, err := sink.SavePreview(pose.ID, img)
		if err != nil {
			logger.Warn("save failed", "pose", pose.ID, "err", err)
			failed++
			continue
		}
		logger.Debug("preview written", "pose", pose.ID, "path", path)
		rendered++
	}

	fmt.Printf("Previews: %d rendered, %d failed\n", rendered, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func selectPose(poses []camera.Pose, id int) []camera.Pose {
	for _, p := range poses {
		if p.ID == id {
			return []camera.Pose{p}
		}
	}
	return nil
}
