package raster

import (
	"errors"
	"fmt"
	"image"

	"mesh-cells-renderer/internal/camera"
	"mesh-cells-renderer/internal/cellcolor"
	"mesh-cells-renderer/internal/mathutil"
	"mesh-cells-renderer/internal/mesh"
	"mesh-cells-renderer/internal/texture"
)

// ErrViewSizeLocked reports an attempt to change a locked view size.
var ErrViewSizeLocked = errors.New("raster: view size is locked")

// Viewport is an offscreen render target bound to one mesh and one pinhole
// camera model. It is the single mutable resource of a render session:
// camera transform and framebuffer are shared state, so a viewport must
// only ever be driven by one goroutine. Parallelism happens across
// viewports, never within one.
type Viewport struct {
	mesh       *mesh.Mesh
	intr       camera.Intrinsics
	worldToCam mathutil.Mat4
	background cellcolor.Color
	lighting   bool
	light      LightConfig
	tex        texture.Resolver

	width, height int
	locked        bool
	near          float64

	// Projection scratch buffers, reused across poses.
	px, py, pz []float64
	valid      []bool
}

// NewViewport creates a viewport for the mesh. Lighting starts enabled,
// mirroring a freshly constructed interactive view: an index-map session
// must explicitly disable it before rendering.
func NewViewport(m *mesh.Mesh, intr camera.Intrinsics) *Viewport {
	return &Viewport{
		mesh:       m,
		intr:       intr,
		worldToCam: mathutil.Mat4Identity(),
		background: cellcolor.Background,
		lighting:   true,
		light:      DefaultLightConfig(),
		near:       1e-3,
	}
}

// LockViewSize fixes the output size. Changing it once locked is an error:
// decoded pixels are only meaningful against a constant projection.
func (v *Viewport) LockViewSize(w, h int) error {
	if v.locked {
		if w != v.width || h != v.height {
			return fmt.Errorf("%w: %dx%d, cannot change to %dx%d", ErrViewSizeLocked, v.width, v.height, w, h)
		}
		return nil
	}
	if w <= 0 || h <= 0 {
		return fmt.Errorf("raster: invalid view size %dx%d", w, h)
	}
	v.width, v.height = w, h
	v.locked = true
	n := len(v.mesh.Verts)
	v.px = make([]float64, n)
	v.py = make([]float64, n)
	v.pz = make([]float64, n)
	v.valid = make([]bool, n)
	return nil
}

// SetCameraTransform positions the camera from a camera-to-world transform.
func (v *Viewport) SetCameraTransform(camToWorld mathutil.Mat4) {
	v.worldToCam = camToWorld.InverseRigid()
}

// SetBackgroundColor sets the clear color.
func (v *Viewport) SetBackgroundColor(c cellcolor.Color) {
	v.background = c
}

// SetLighting switches between the shaded preview pipeline (true) and the
// verbatim flat-color pipeline (false).
func (v *Viewport) SetLighting(enabled bool) {
	v.lighting = enabled
}

// SetTextures provides a texture resolver for preview renders.
func (v *Viewport) SetTextures(r texture.Resolver) {
	v.tex = r
}

// ForceRender projects the mesh through the pinhole model and rasterizes
// every face synchronously, returning the finished frame.
//
// With lighting disabled each face is filled with its attached cell color,
// untouched: no shading, no anti-aliasing, no resampling. Faces with any
// vertex at or behind the near plane are skipped whole. Conservative, but
// a clipped face can never smear a wrong color across the image.
func (v *Viewport) ForceRender() (*image.NRGBA, error) {
	if !v.locked {
		return nil, errors.New("raster: view size not locked")
	}
	if !v.lighting && v.mesh.ColorMode() != mesh.ColorFlatPerCell {
		return nil, errors.New("raster: lighting disabled but mesh has no flat cell coloring")
	}

	fb := NewFrameBuffer(v.width, v.height)
	fb.Clear(v.background)

	// Project all vertices into the image. Depth is stored as 1/Z so that
	// larger means closer, matching the framebuffer's -inf clear value.
	fx, fy := v.intr.Fx, v.intr.Fy
	cx, cy := v.intr.Cx, v.intr.Cy
	for i, p := range v.mesh.Verts {
		c := v.worldToCam.MulPoint(mathutil.Vec3{p[0], p[1], p[2]})
		if c[2] <= v.near {
			v.valid[i] = false
			continue
		}
		invZ := 1.0 / c[2]
		v.px[i] = fx*c[0]*invZ + cx
		v.py[i] = fy*c[1]*invZ + cy
		v.pz[i] = invZ
		v.valid[i] = true
	}

	if v.lighting {
		v.renderShaded(fb)
	} else {
		if err := v.renderFlat(fb); err != nil {
			return nil, err
		}
	}

	img := image.NewNRGBA(image.Rect(0, 0, v.width, v.height))
	copy(img.Pix, fb.Color)
	return img, nil
}

func (v *Viewport) renderFlat(fb *FrameBuffer) error {
	for i, f := range v.mesh.Faces {
		if !v.valid[f[0]] || !v.valid[f[1]] || !v.valid[f[2]] {
			continue
		}
		c, ok := v.mesh.CellColor(i)
		if !ok {
			return fmt.Errorf("raster: face %d has no cell color", i)
		}
		RasterizeTriangleFlat(fb, v.px, v.py, v.pz, f, c)
	}
	return nil
}

func (v *Viewport) renderShaded(fb *FrameBuffer) {
	var tex *image.NRGBA
	if v.tex != nil && v.mesh.TexName != "" {
		tex = v.tex.Resolve(v.mesh.TexName)
	}

	for _, f := range v.mesh.Faces {
		if !v.valid[f[0]] || !v.valid[f[1]] || !v.valid[f[2]] {
			continue
		}
		base := v.faceBaseColor(f)
		RasterizeTriangleShaded(fb, v.px, v.py, v.pz, v.mesh.UVs, f, tex, base, &v.light)
	}
}

// faceBaseColor averages the per-vertex scan colors when present, else a
// neutral gray.
func (v *Viewport) faceBaseColor(f [3]int32) cellcolor.Color {
	vc := v.mesh.VertColors
	if len(vc) == 0 {
		return cellcolor.Color{160, 160, 170}
	}
	var sum [3]int
	for _, i := range f {
		c := vc[i]
		sum[0] += int(c[0])
		sum[1] += int(c[1])
		sum[2] += int(c[2])
	}
	return cellcolor.Color{uint8(sum[0] / 3), uint8(sum[1] / 3), uint8(sum[2] / 3)}
}
