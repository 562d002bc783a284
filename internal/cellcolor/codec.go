package cellcolor

import (
	"errors"
	"fmt"
)

// Color is an 8-bit RGB triple (value type, stack-allocated).
type Color [3]uint8

// Background is the color reserved for pixels where no mesh cell was
// rendered. No cell index ever encodes to it.
var Background = Color{0, 0, 0}

const (
	// MaxIndex is the largest encodable cell index. Index idx is stored as
	// idx+1 in 24 bits, so the top value 0xFFFFFF maps back to 256³−2.
	MaxIndex = 256*256*256 - 2

	// MaxCells is the largest cell count a mesh may have for every cell to
	// receive a unique non-background color.
	MaxCells = MaxIndex + 1
)

var (
	// ErrIndexOutOfRange reports an index that does not fit in the 24-bit
	// encoding.
	ErrIndexOutOfRange = errors.New("cellcolor: index out of range")

	// ErrCapacityExceeded reports a mesh with more cells than the encoding
	// can address.
	ErrCapacityExceeded = errors.New("cellcolor: cell count exceeds color capacity")
)

// IndexToColor encodes a cell index as an RGB color. The value idx+1 is
// written base-256 across the three channels, most significant in R.
// Index 0 becomes (0,0,1); (0,0,0) is unreachable and stays reserved for
// the background.
func IndexToColor(idx int) (Color, error) {
	if idx < 0 || idx > MaxIndex {
		return Color{}, fmt.Errorf("%w: %d (max %d)", ErrIndexOutOfRange, idx, MaxIndex)
	}
	v := uint32(idx + 1)
	return Color{
		uint8(v >> 16),
		uint8(v >> 8),
		uint8(v),
	}, nil
}

// ColorToIndex decodes a color back to its cell index. The second return
// value is false for the background color (0,0,0), which carries no index.
func ColorToIndex(c Color) (int, bool) {
	v := uint32(c[0])<<16 | uint32(c[1])<<8 | uint32(c[2])
	if v == 0 {
		return 0, false
	}
	return int(v) - 1, true
}

// MakeColorTable builds the per-cell color table for a mesh with n cells:
// table[i] = IndexToColor(i). Fails before any rendering when n exceeds
// the addressable color space.
func MakeColorTable(n int) ([]Color, error) {
	if n < 0 || n > MaxCells {
		return nil, fmt.Errorf("%w: %d cells (max %d)", ErrCapacityExceeded, n, MaxCells)
	}
	table := make([]Color, n)
	for i := range table {
		v := uint32(i + 1)
		table[i] = Color{uint8(v >> 16), uint8(v >> 8), uint8(v)}
	}
	return table, nil
}
