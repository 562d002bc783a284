package raster

import (
	"image"
	"math"

	"mesh-cells-renderer/internal/cellcolor"
)

// triBounds clips a triangle's screen-space bounding box to the framebuffer.
// ok is false when the triangle is fully outside or degenerate.
func triBounds(fb *FrameBuffer, x0, y0, x1, y1, x2, y2 float64) (minX, maxX, minY, maxY int, ok bool) {
	minX = int(math.Min(math.Min(x0, x1), x2))
	maxX = int(math.Max(math.Max(x0, x1), x2)) + 1
	minY = int(math.Min(math.Min(y0, y1), y2))
	maxY = int(math.Max(math.Max(y0, y1), y2)) + 1

	if minX < 0 {
		minX = 0
	}
	if maxX >= fb.Width {
		maxX = fb.Width - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= fb.Height {
		maxY = fb.Height - 1
	}
	if minX > maxX || minY > maxY {
		return 0, 0, 0, 0, false
	}
	return minX, maxX, minY, maxY, true
}

// RasterizeTriangleFlat fills a triangle with one exact color under the
// z-buffer.
//
// This is the index-map HOT PATH: the color is written verbatim, with no
// shading, blending, or interpolation of any kind: a decoded pixel must
// reproduce the cell color bit for bit. Only depth is interpolated.
//
// The half-pixel coverage tolerance matches the shaded path so adjacent
// cells share edge pixels instead of leaving background gaps between them.
func RasterizeTriangleFlat(
	fb *FrameBuffer,
	px, py, pz []float64,
	vi [3]int32,
	c cellcolor.Color,
) {
	i0, i1, i2 := int(vi[0]), int(vi[1]), int(vi[2])
	x0, y0, z0 := px[i0], py[i0], pz[i0]
	x1, y1, z1 := px[i1], py[i1], pz[i1]
	x2, y2, z2 := px[i2], py[i2], pz[i2]

	minX, maxX, minY, maxY, ok := triBounds(fb, x0, y0, x1, y1, x2, y2)
	if !ok {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}
			fb.ZBuf[zIdx] = z

			pxIdx := zIdx * 4
			fb.Color[pxIdx] = c[0]
			fb.Color[pxIdx+1] = c[1]
			fb.Color[pxIdx+2] = c[2]
			fb.Color[pxIdx+3] = 255
		}
	}
}

// RasterizeTriangleShaded rasterizes a triangle for preview output: flat
// per-face shading from the light rig, optional bilinear texturing, sRGB
// decode/encode and ACES tone mapping. Never used for index maps; every
// step here corrupts the cell encoding.
func RasterizeTriangleShaded(
	fb *FrameBuffer,
	px, py, pz []float64,
	uvs [][2]float64,
	vi [3]int32,
	tex *image.NRGBA,
	base cellcolor.Color,
	lc *LightConfig,
) {
	i0, i1, i2 := int(vi[0]), int(vi[1]), int(vi[2])
	x0, y0, z0 := px[i0], py[i0], pz[i0]
	x1, y1, z1 := px[i1], py[i1], pz[i1]
	x2, y2, z2 := px[i2], py[i2], pz[i2]

	hasUV := tex != nil && i0 < len(uvs) && i1 < len(uvs) && i2 < len(uvs)
	var u0, v0, u1, v1, u2, v2 float64
	if hasUV {
		u0, v0 = uvs[i0][0], uvs[i0][1]
		u1, v1 = uvs[i1][0], uvs[i1][1]
		u2, v2 = uvs[i2][0], uvs[i2][1]
	}

	// Face normal in screen space for flat shading.
	e1x, e1y, e1z := x1-x0, y1-y0, z1-z0
	e2x, e2y, e2z := x2-x0, y2-y0, z2-z0
	nx := e1y*e2z - e1z*e2y
	ny := e1z*e2x - e1x*e2z
	nz := e1x*e2y - e1y*e2x
	nl := math.Sqrt(nx*nx + ny*ny + nz*nz)
	if nl < 1e-8 {
		return
	}
	shade := lc.ComputeShade(nx/nl, ny/nl, nz/nl)

	minX, maxX, minY, maxY, ok := triBounds(fb, x0, y0, x1, y1, x2, y2)
	if !ok {
		return
	}

	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	exposure := lc.Exposure
	invGamma := lc.InvGamma

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}

			cr, cg, cb := base[0], base[1], base[2]
			var ca uint8 = 255
			if hasUV {
				u := w0*u0 + w1*u1 + w2*u2
				v := w0*v0 + w1*v1 + w2*v2
				cr, cg, cb, ca = SampleTexture(tex, u, v)
			}
			if ca < 8 {
				continue // transparent texel
			}
			fb.ZBuf[zIdx] = z

			// sRGB decode → shade → tonemap → sRGB encode.
			sr := srgbToLinear[cr] * shade * exposure
			sg := srgbToLinear[cg] * shade * exposure
			sb := srgbToLinear[cb] * shade * exposure

			fr := math.Pow(ACESTonemap(sr), invGamma)
			fg := math.Pow(ACESTonemap(sg), invGamma)
			fbv := math.Pow(ACESTonemap(sb), invGamma)

			pxIdx := zIdx * 4
			fb.Color[pxIdx] = clamp255(fr * 255)
			fb.Color[pxIdx+1] = clamp255(fg * 255)
			fb.Color[pxIdx+2] = clamp255(fbv * 255)
			fb.Color[pxIdx+3] = 255
		}
	}
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
