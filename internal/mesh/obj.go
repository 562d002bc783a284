package mesh

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// LoadOBJ reads a Wavefront OBJ file. Faces are appended in file order,
// polygons fan-triangulated in place, so the cell enumeration matches the
// file exactly. Materials are reduced to the first diffuse texture map
// referenced via mtllib, which is all the preview renderer uses.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mesh: open %s: %w", path, err)
	}
	defer f.Close()

	m := &Mesh{}
	var mtlFile string

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("mesh: %s:%d: short vertex line", path, lineNo)
			}
			var p [3]float64
			for k := 0; k < 3; k++ {
				p[k], err = strconv.ParseFloat(fields[k+1], 64)
				if err != nil {
					return nil, fmt.Errorf("mesh: %s:%d: vertex: %w", path, lineNo, err)
				}
			}
			m.Verts = append(m.Verts, p)
		case "vt":
			if len(fields) < 3 {
				return nil, fmt.Errorf("mesh: %s:%d: short texcoord line", path, lineNo)
			}
			u, err1 := strconv.ParseFloat(fields[1], 64)
			v, err2 := strconv.ParseFloat(fields[2], 64)
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("mesh: %s:%d: bad texcoord", path, lineNo)
			}
			m.UVs = append(m.UVs, [2]float64{u, v})
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("mesh: %s:%d: face with <3 vertices", path, lineNo)
			}
			idx := make([]int32, 0, len(fields)-1)
			for _, spec := range fields[1:] {
				vi, err := objVertexIndex(spec, len(m.Verts))
				if err != nil {
					return nil, fmt.Errorf("mesh: %s:%d: %w", path, lineNo, err)
				}
				idx = append(idx, vi)
			}
			// Fan triangulation keeps a deterministic face order.
			for k := 1; k+1 < len(idx); k++ {
				m.Faces = append(m.Faces, [3]int32{idx[0], idx[k], idx[k+1]})
			}
		case "mtllib":
			if len(fields) >= 2 && mtlFile == "" {
				mtlFile = fields[1]
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("mesh: scan %s: %w", path, err)
	}

	if mtlFile != "" {
		if tex := diffuseMapFromMTL(filepath.Join(filepath.Dir(path), mtlFile)); tex != "" {
			m.TexName = tex
		}
	}
	return m, nil
}

// objVertexIndex parses the vertex part of an OBJ face spec ("7", "7/3",
// "7/3/1", "7//1"), resolving negative (relative) indices.
func objVertexIndex(spec string, nVerts int) (int32, error) {
	s := spec
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("face index %q: %w", spec, err)
	}
	if v < 0 {
		v = nVerts + v + 1
	}
	if v < 1 || v > nVerts {
		return 0, fmt.Errorf("face index %d out of range (have %d vertices)", v, nVerts)
	}
	return int32(v - 1), nil
}

// diffuseMapFromMTL returns the first map_Kd entry of an MTL file, or "".
// Errors are swallowed: a missing material only degrades the preview.
func diffuseMapFromMTL(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) >= 2 && strings.EqualFold(fields[0], "map_Kd") {
			return fields[len(fields)-1]
		}
	}
	return ""
}
