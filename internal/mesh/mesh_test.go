package mesh

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"mesh-cells-renderer/internal/cellcolor"
)

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOBJ(t *testing.T) {
	obj := `# quad split into two triangles, then an explicit quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
f 1/1 2/2 3/1
f 1 3 4
f 1 2 3 4
`
	m, err := LoadOBJ(writeTemp(t, "m.obj", []byte(obj)))
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Verts) != 4 {
		t.Fatalf("got %d vertices, want 4", len(m.Verts))
	}
	// 2 triangles + quad fan (2 more) = 4 faces, in file order.
	wantFaces := [][3]int32{{0, 1, 2}, {0, 2, 3}, {0, 1, 2}, {0, 2, 3}}
	if len(m.Faces) != len(wantFaces) {
		t.Fatalf("got %d faces, want %d", len(m.Faces), len(wantFaces))
	}
	for i, w := range wantFaces {
		if m.Faces[i] != w {
			t.Errorf("face %d = %v, want %v", i, m.Faces[i], w)
		}
	}
	if len(m.UVs) != 2 {
		t.Errorf("got %d texcoords, want 2", len(m.UVs))
	}
}

func TestLoadOBJNegativeIndices(t *testing.T) {
	obj := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf -3 -2 -1\n"
	m, err := LoadOBJ(writeTemp(t, "neg.obj", []byte(obj)))
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Faces) != 1 || m.Faces[0] != ([3]int32{0, 1, 2}) {
		t.Fatalf("faces = %v, want [[0 1 2]]", m.Faces)
	}
}

func TestLoadOBJBadIndex(t *testing.T) {
	obj := "v 0 0 0\nf 1 2 3\n"
	if _, err := LoadOBJ(writeTemp(t, "bad.obj", []byte(obj))); err == nil {
		t.Fatal("expected out-of-range face index error")
	}
}

func TestLoadPLYASCII(t *testing.T) {
	ply := `ply
format ascii 1.0
comment generated for test
element vertex 4
property float x
property float y
property float z
property uchar red
property uchar green
property uchar blue
element face 2
property list uchar int vertex_indices
end_header
0 0 0 255 0 0
1 0 0 0 255 0
1 1 0 0 0 255
0 1 0 10 20 30
3 0 1 2
3 0 2 3
`
	m, err := LoadPLY(writeTemp(t, "m.ply", []byte(ply)))
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Verts) != 4 || len(m.Faces) != 2 {
		t.Fatalf("got %d verts, %d faces; want 4, 2", len(m.Verts), len(m.Faces))
	}
	if m.Faces[0] != ([3]int32{0, 1, 2}) || m.Faces[1] != ([3]int32{0, 2, 3}) {
		t.Errorf("faces = %v", m.Faces)
	}
	if len(m.VertColors) != 4 || m.VertColors[3] != (cellcolor.Color{10, 20, 30}) {
		t.Errorf("vertex colors = %v", m.VertColors)
	}
	if m.Verts[2] != ([3]float64{1, 1, 0}) {
		t.Errorf("vertex 2 = %v", m.Verts[2])
	}
}

func TestLoadPLYBinary(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("ply\n")
	buf.WriteString("format binary_little_endian 1.0\n")
	buf.WriteString("element vertex 3\n")
	buf.WriteString("property float x\nproperty float y\nproperty float z\n")
	buf.WriteString("element face 1\n")
	buf.WriteString("property list uchar int vertex_indices\n")
	buf.WriteString("end_header\n")

	verts := [][3]float32{{0, 0, 0}, {2, 0, 0}, {0, 2, 0.5}}
	for _, v := range verts {
		for _, c := range v {
			binary.Write(&buf, binary.LittleEndian, c)
		}
	}
	buf.WriteByte(3)
	for _, i := range []int32{0, 1, 2} {
		binary.Write(&buf, binary.LittleEndian, i)
	}

	m, err := LoadPLY(writeTemp(t, "m.ply", buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Verts) != 3 || len(m.Faces) != 1 {
		t.Fatalf("got %d verts, %d faces; want 3, 1", len(m.Verts), len(m.Faces))
	}
	if m.Faces[0] != ([3]int32{0, 1, 2}) {
		t.Errorf("face = %v", m.Faces[0])
	}
	if math.Abs(m.Verts[2][2]-0.5) > 1e-9 {
		t.Errorf("vertex 2 z = %v, want 0.5", m.Verts[2][2])
	}
}

func TestLoadPLYTruncated(t *testing.T) {
	ply := "ply\nformat binary_little_endian 1.0\nelement vertex 10\nproperty float x\nproperty float y\nproperty float z\nend_header\n\x00\x00"
	if _, err := LoadPLY(writeTemp(t, "trunc.ply", []byte(ply))); err == nil {
		t.Fatal("expected truncation error")
	}
}

func TestColorizeCells(t *testing.T) {
	m := &Mesh{
		Verts: [][3]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}},
		Faces: [][3]int32{{0, 1, 2}, {1, 3, 2}, {0, 2, 3}},
	}
	table, err := ColorizeCells(m)
	if err != nil {
		t.Fatal(err)
	}
	want := []cellcolor.Color{{0, 0, 1}, {0, 0, 2}, {0, 0, 3}}
	for i := range want {
		if table[i] != want[i] {
			t.Errorf("table[%d] = %v, want %v", i, table[i], want[i])
		}
		if c, ok := m.CellColor(i); !ok || c != want[i] {
			t.Errorf("CellColor(%d) = %v,%v", i, c, ok)
		}
	}
	if m.ColorMode() != ColorFlatPerCell {
		t.Error("mode not flat per cell after colorize")
	}

	// Re-colorizing replaces, never accumulates.
	table2, err := ColorizeCells(m)
	if err != nil {
		t.Fatal(err)
	}
	if len(table2) != 3 {
		t.Errorf("second colorize produced %d entries", len(table2))
	}
}

func TestAttachCellColorsLengthMismatch(t *testing.T) {
	m := &Mesh{Faces: [][3]int32{{0, 1, 2}}}
	if err := m.AttachCellColors([]cellcolor.Color{{0, 0, 1}, {0, 0, 2}}); err == nil {
		t.Fatal("expected length mismatch error")
	}
}

func TestLoadUnsupported(t *testing.T) {
	_, err := Load(writeTemp(t, "m.stl", nil))
	if err == nil || errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want unsupported format", err)
	}
}
