package mesh

import (
	"fmt"

	"mesh-cells-renderer/internal/cellcolor"
	"mesh-cells-renderer/internal/mathutil"
)

// ColorMode selects how per-cell colors are applied during rasterization.
type ColorMode int

const (
	// ColorShaded renders with the lighting rig and textures (preview).
	ColorShaded ColorMode = iota

	// ColorFlatPerCell renders each face as one uniform color from the
	// attached cell-color table, with no interpolation and no shading.
	// Anything else would corrupt the index encoding at face edges.
	ColorFlatPerCell
)

// Mesh holds a triangle mesh with a stable face order.
//
// Face i keeps position i for the life of the mesh: loaders append faces in
// file order and nothing reorders them afterwards. The cell-index encoding
// depends on this: the color assigned to face i at session start must still
// mean face i when a rendered frame is decoded.
type Mesh struct {
	Verts [][3]float64 // vertex positions, world frame
	Faces [][3]int32   // vertex index triples, file order

	// Optional preview attributes. Empty slices mean "not present".
	UVs        [][2]float64 // per-vertex texture coordinates (OBJ vt)
	VertColors []cellcolor.Color
	TexName    string // texture file referenced by the material, if any

	cellColors []cellcolor.Color
	colorMode  ColorMode
}

// CellCount returns the number of faces (cells).
func (m *Mesh) CellCount() int {
	return len(m.Faces)
}

// AttachCellColors attaches a per-cell color table and switches the mesh to
// flat per-cell coloring. The table must have exactly one entry per face.
// Re-attaching replaces the previous table.
func (m *Mesh) AttachCellColors(table []cellcolor.Color) error {
	if len(table) != len(m.Faces) {
		return fmt.Errorf("mesh: color table has %d entries for %d faces", len(table), len(m.Faces))
	}
	m.cellColors = table
	m.colorMode = ColorFlatPerCell
	return nil
}

// SetColorMode selects the rendering mode for attached colors.
func (m *Mesh) SetColorMode(mode ColorMode) {
	m.colorMode = mode
}

// ColorMode reports the active rendering mode.
func (m *Mesh) ColorMode() ColorMode {
	return m.colorMode
}

// CellColor returns the attached color for face i, or (Background, false)
// when no table is attached.
func (m *Mesh) CellColor(i int) (cellcolor.Color, bool) {
	if m.cellColors == nil {
		return cellcolor.Background, false
	}
	return m.cellColors[i], true
}

// Bounds returns the axis-aligned bounding box of all vertices.
func (m *Mesh) Bounds() (min, max mathutil.Vec3) {
	if len(m.Verts) == 0 {
		return mathutil.Vec3{}, mathutil.Vec3{}
	}
	min = mathutil.Vec3{m.Verts[0][0], m.Verts[0][1], m.Verts[0][2]}
	max = min
	for _, v := range m.Verts[1:] {
		for k := 0; k < 3; k++ {
			if v[k] < min[k] {
				min[k] = v[k]
			}
			if v[k] > max[k] {
				max[k] = v[k]
			}
		}
	}
	return min, max
}
