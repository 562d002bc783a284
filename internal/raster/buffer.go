package raster

import (
	"math"

	"mesh-cells-renderer/internal/cellcolor"
)

// FrameBuffer holds the rendering target as flat slices for cache locality.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint8   // RGBA interleaved, len = W*H*4
	ZBuf   []float64 // inverse depth per pixel, len = W*H, initialized to -inf
}

// NewFrameBuffer allocates a black, fully opaque color buffer and a -inf
// z-buffer (any rendered fragment wins over empty space).
func NewFrameBuffer(w, h int) *FrameBuffer {
	fb := &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  make([]uint8, w*h*4),
		ZBuf:   make([]float64, w*h),
	}
	fb.Clear(cellcolor.Background)
	return fb
}

// Clear resets every pixel to the given color (opaque) and the z-buffer to
// -inf.
func (fb *FrameBuffer) Clear(c cellcolor.Color) {
	for i := 0; i < len(fb.Color); i += 4 {
		fb.Color[i] = c[0]
		fb.Color[i+1] = c[1]
		fb.Color[i+2] = c[2]
		fb.Color[i+3] = 255
	}
	for i := range fb.ZBuf {
		fb.ZBuf[i] = math.Inf(-1)
	}
}
