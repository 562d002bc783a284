// Package session orchestrates cell-index rendering: one colorized mesh,
// one locked viewport, many camera poses, one decoded index image per pose.
package session

import (
	"errors"
	"fmt"
	"image"

	"mesh-cells-renderer/internal/camera"
	"mesh-cells-renderer/internal/cellcolor"
	"mesh-cells-renderer/internal/mathutil"
)

// Renderer is the session's view of a rendering backend. The raster
// package provides the offscreen implementation; anything that can honor
// these calls (a GPU viewport, a remote renderer) works the same.
type Renderer interface {
	SetCameraTransform(camToWorld mathutil.Mat4)
	ForceRender() (*image.NRGBA, error)
	SetBackgroundColor(c cellcolor.Color)
	SetLighting(enabled bool)
	LockViewSize(w, h int) error
}

// MeshHandle is the session's view of a mesh. CellCount must enumerate
// cells in the same stable order the renderer draws them in; the index
// encoding is only as good as that guarantee.
type MeshHandle interface {
	CellCount() int
	AttachCellColors(table []cellcolor.Color) error
}

// Sink receives finished index images keyed by pose id. File naming and
// layout are the sink's policy.
type Sink interface {
	SaveIndexImage(poseID int, img *cellcolor.IndexImage) (string, error)
}

// ErrLightingEnabled reports a render attempted before DisableLighting.
// Rendering with lighting on does not fail loudly on its own. It silently
// produces colors that no longer decode, so the session refuses to start.
var ErrLightingEnabled = errors.New("session: lighting not disabled before rendering")

// PoseResult is the outcome for one camera pose.
type PoseResult struct {
	PoseID int
	Path   string // where the sink stored the image, when it succeeded
	Err    error
}

// Session renders cell-index images of one mesh from many poses.
type Session struct {
	renderer Renderer
	mesh     MeshHandle
	intr     camera.Intrinsics

	colorTable       []cellcolor.Color
	lightingDisabled bool
}

// New binds a renderer, mesh, and intrinsics into an uninitialized session.
func New(r Renderer, m MeshHandle, intr camera.Intrinsics) *Session {
	return &Session{renderer: r, mesh: m, intr: intr}
}

// Initialize locks the view size from the camera intrinsics and assigns the
// per-cell color table. Fails fast, before any rendering, when the mesh has
// more cells than the encoding can address.
func (s *Session) Initialize() error {
	if err := s.intr.Validate(); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	if err := s.renderer.LockViewSize(s.intr.Width, s.intr.Height); err != nil {
		return fmt.Errorf("session: %w", err)
	}

	table, err := cellcolor.MakeColorTable(s.mesh.CellCount())
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}
	if err := s.mesh.AttachCellColors(table); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	s.colorTable = table
	return nil
}

// ColorTable returns the assigned per-cell colors. Read-only after
// Initialize; valid for the rest of the session.
func (s *Session) ColorTable() []cellcolor.Color {
	return s.colorTable
}

// DisableLighting turns off shading and forces the background to (0,0,0).
// Must run before the first render; calling it again is a no-op.
func (s *Session) DisableLighting() {
	if s.lightingDisabled {
		return
	}
	s.renderer.SetLighting(false)
	s.renderer.SetBackgroundColor(cellcolor.Background)
	s.lightingDisabled = true
}

// RenderImages renders, decodes, and persists one index image per pose, in
// order. Poses share the one mutable viewport, so the loop is strictly
// sequential. A failing pose is recorded with its id and the loop moves on;
// earlier results are never invalidated.
func (s *Session) RenderImages(poses []camera.Pose, sink Sink) ([]PoseResult, error) {
	if s.colorTable == nil {
		return nil, errors.New("session: not initialized")
	}
	if !s.lightingDisabled {
		return nil, ErrLightingEnabled
	}

	results := make([]PoseResult, 0, len(poses))
	for _, pose := range poses {
		results = append(results, s.renderPose(pose, sink))
	}
	return results, nil
}

func (s *Session) renderPose(pose camera.Pose, sink Sink) PoseResult {
	s.renderer.SetCameraTransform(pose.CameraToWorld)

	frame, err := s.renderer.ForceRender()
	if err != nil {
		return PoseResult{PoseID: pose.ID, Err: fmt.Errorf("session: render pose %d: %w", pose.ID, err)}
	}

	idxImg := cellcolor.DecodeImage(frame)
	path, err := sink.SaveIndexImage(pose.ID, idxImg)
	if err != nil {
		return PoseResult{PoseID: pose.ID, Err: fmt.Errorf("session: save pose %d: %w", pose.ID, err)}
	}
	return PoseResult{PoseID: pose.ID, Path: path}
}
