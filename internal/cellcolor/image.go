package cellcolor

import "image"

// backgroundCell marks a pixel with no rendered cell. Kept internal so
// callers go through At and cannot confuse the sentinel with a cell index.
const backgroundCell int32 = -1

// IndexImage is a per-pixel cell-index map decoded from a rendered frame.
type IndexImage struct {
	Width  int
	Height int
	cells  []int32 // row-major, backgroundCell where no cell rendered
}

// NewIndexImage allocates an all-background index image.
func NewIndexImage(w, h int) *IndexImage {
	cells := make([]int32, w*h)
	for i := range cells {
		cells[i] = backgroundCell
	}
	return &IndexImage{Width: w, Height: h, cells: cells}
}

// At returns the cell index at (x, y). The second return value is false
// for background pixels; the index is only valid when it is true.
func (m *IndexImage) At(x, y int) (int, bool) {
	c := m.cells[y*m.Width+x]
	if c == backgroundCell {
		return 0, false
	}
	return int(c), true
}

// setCell records a decoded cell index at (x, y).
func (m *IndexImage) setCell(x, y int, idx int32) {
	m.cells[y*m.Width+x] = idx
}

// DecodeImage converts a rendered RGB frame into a cell-index map.
// Pixels equal to the background color map to the background sentinel
// before any index arithmetic, so a black pixel can never come out as
// index −1 or wrap around.
func DecodeImage(img *image.NRGBA) *IndexImage {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := NewIndexImage(w, h)

	for y := 0; y < h; y++ {
		row := img.Pix[(y+b.Min.Y-img.Rect.Min.Y)*img.Stride:]
		for x := 0; x < w; x++ {
			i := (x + b.Min.X - img.Rect.Min.X) * 4
			// 24-bit value in 32-bit arithmetic: no overflow headroom needed
			// beyond int32.
			v := uint32(row[i])<<16 | uint32(row[i+1])<<8 | uint32(row[i+2])
			if v == 0 {
				continue // stays background
			}
			out.setCell(x, y, int32(v)-1)
		}
	}
	return out
}

// EncodeNRGBA re-encodes the index map as an opaque RGB image, the exact
// inverse of DecodeImage. Useful for lossless persistence: the image
// round-trips through any lossless codec without touching the indices.
func (m *IndexImage) EncodeNRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			i := y*img.Stride + x*4
			c := m.cells[y*m.Width+x]
			if c != backgroundCell {
				v := uint32(c) + 1
				img.Pix[i] = uint8(v >> 16)
				img.Pix[i+1] = uint8(v >> 8)
				img.Pix[i+2] = uint8(v)
			}
			img.Pix[i+3] = 255
		}
	}
	return img
}

// Stats summarizes an index image.
type Stats struct {
	Background int // pixels with no cell
	Foreground int // pixels with a valid cell index
	MinIndex   int // smallest cell index seen (0 if none)
	MaxIndex   int // largest cell index seen (0 if none)
	Unique     int // number of distinct cell indices
}

// ComputeStats scans the image once and returns coverage statistics.
func (m *IndexImage) ComputeStats() Stats {
	var s Stats
	seen := make(map[int32]struct{})
	first := true
	for _, c := range m.cells {
		if c == backgroundCell {
			s.Background++
			continue
		}
		s.Foreground++
		seen[c] = struct{}{}
		if first || int(c) < s.MinIndex {
			s.MinIndex = int(c)
		}
		if first || int(c) > s.MaxIndex {
			s.MaxIndex = int(c)
		}
		first = false
	}
	s.Unique = len(seen)
	return s
}
