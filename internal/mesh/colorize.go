package mesh

import "mesh-cells-renderer/internal/cellcolor"

// ColorizeCells computes the cell-color table for the mesh, attaches it as
// the active per-cell attribute, and switches the mesh to flat per-cell
// coloring. The returned table is the one attached; treat it as read-only.
//
// Calling it again recomputes and reattaches the same table; nothing
// accumulates.
func ColorizeCells(m *Mesh) ([]cellcolor.Color, error) {
	table, err := cellcolor.MakeColorTable(m.CellCount())
	if err != nil {
		return nil, err
	}
	if err := m.AttachCellColors(table); err != nil {
		return nil, err
	}
	return table, nil
}
