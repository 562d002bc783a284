package mesh

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"mesh-cells-renderer/internal/cellcolor"
)

// LoadPLY reads a PLY mesh in ascii or binary_little_endian format, the two
// layouts fusion pipelines emit. Vertices keep x/y/z and, when present,
// uchar red/green/blue (used by the preview renderer); all other properties
// are skipped. Faces keep their file order, polygons fan-triangulated.
func LoadPLY(path string) (*Mesh, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mesh: read %s: %w", path, err)
	}

	hdr, body, err := parsePLYHeader(raw)
	if err != nil {
		return nil, fmt.Errorf("mesh: %s: %w", path, err)
	}

	if hdr.binary {
		return parsePLYBinary(hdr, body, path)
	}
	return parsePLYASCII(hdr, body, path)
}

type plyProp struct {
	name     string
	size     int    // scalar size in bytes; 0 for list properties
	listCnt  int    // list count size in bytes
	listElem int    // list element size in bytes
	floating bool   // scalar is float/double
}

type plyElement struct {
	name  string
	count int
	props []plyProp
}

type plyHeader struct {
	binary   bool
	elements []plyElement
}

var plyTypeSizes = map[string]int{
	"char": 1, "int8": 1, "uchar": 1, "uint8": 1,
	"short": 2, "int16": 2, "ushort": 2, "uint16": 2,
	"int": 4, "int32": 4, "uint": 4, "uint32": 4,
	"float": 4, "float32": 4, "double": 8, "float64": 8,
}

func plyIsFloat(t string) bool {
	switch t {
	case "float", "float32", "double", "float64":
		return true
	}
	return false
}

func parsePLYHeader(raw []byte) (plyHeader, []byte, error) {
	var hdr plyHeader
	off := 0
	readLine := func() (string, bool) {
		i := off
		for i < len(raw) && raw[i] != '\n' {
			i++
		}
		if i >= len(raw) {
			return "", false
		}
		line := strings.TrimRight(string(raw[off:i]), "\r")
		off = i + 1
		return line, true
	}

	first, ok := readLine()
	if !ok || first != "ply" {
		return hdr, nil, fmt.Errorf("not a PLY file")
	}

	for {
		line, ok := readLine()
		if !ok {
			return hdr, nil, fmt.Errorf("truncated header")
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "comment", "obj_info":
		case "format":
			if len(fields) < 2 {
				return hdr, nil, fmt.Errorf("bad format line")
			}
			switch fields[1] {
			case "ascii":
				hdr.binary = false
			case "binary_little_endian":
				hdr.binary = true
			default:
				return hdr, nil, fmt.Errorf("unsupported format %q", fields[1])
			}
		case "element":
			if len(fields) < 3 {
				return hdr, nil, fmt.Errorf("bad element line")
			}
			n, err := strconv.Atoi(fields[2])
			if err != nil || n < 0 {
				return hdr, nil, fmt.Errorf("bad element count %q", fields[2])
			}
			hdr.elements = append(hdr.elements, plyElement{name: fields[1], count: n})
		case "property":
			if len(hdr.elements) == 0 {
				return hdr, nil, fmt.Errorf("property before element")
			}
			el := &hdr.elements[len(hdr.elements)-1]
			if len(fields) >= 5 && fields[1] == "list" {
				cs, ok1 := plyTypeSizes[fields[2]]
				es, ok2 := plyTypeSizes[fields[3]]
				if !ok1 || !ok2 {
					return hdr, nil, fmt.Errorf("unknown list types %q %q", fields[2], fields[3])
				}
				el.props = append(el.props, plyProp{name: fields[4], listCnt: cs, listElem: es})
			} else if len(fields) >= 3 {
				sz, ok := plyTypeSizes[fields[1]]
				if !ok {
					return hdr, nil, fmt.Errorf("unknown type %q", fields[1])
				}
				el.props = append(el.props, plyProp{name: fields[2], size: sz, floating: plyIsFloat(fields[1])})
			} else {
				return hdr, nil, fmt.Errorf("bad property line")
			}
		case "end_header":
			return hdr, raw[off:], nil
		default:
			return hdr, nil, fmt.Errorf("unknown header keyword %q", fields[0])
		}
	}
}

// readScalar reads a little-endian scalar of the given byte size as float64.
func readScalar(data []byte, size int, floating bool) float64 {
	switch size {
	case 1:
		return float64(data[0])
	case 2:
		return float64(binary.LittleEndian.Uint16(data))
	case 4:
		if floating {
			return float64(math.Float32frombits(binary.LittleEndian.Uint32(data)))
		}
		return float64(int32(binary.LittleEndian.Uint32(data)))
	case 8:
		return math.Float64frombits(binary.LittleEndian.Uint64(data))
	}
	return 0
}

func parsePLYBinary(hdr plyHeader, body []byte, path string) (*Mesh, error) {
	m := &Mesh{}
	off := 0
	need := func(n int) error {
		if off+n > len(body) {
			return fmt.Errorf("mesh: truncated PLY data in %s", path)
		}
		return nil
	}

	for _, el := range hdr.elements {
		switch el.name {
		case "vertex":
			hasColor := false
			for _, p := range el.props {
				if p.name == "red" {
					hasColor = true
				}
			}
			for i := 0; i < el.count; i++ {
				var pos [3]float64
				var col cellcolor.Color
				for _, p := range el.props {
					if p.size == 0 {
						return nil, fmt.Errorf("mesh: list property %q on vertex in %s", p.name, path)
					}
					if err := need(p.size); err != nil {
						return nil, err
					}
					v := readScalar(body[off:], p.size, p.floating)
					off += p.size
					switch p.name {
					case "x":
						pos[0] = v
					case "y":
						pos[1] = v
					case "z":
						pos[2] = v
					case "red":
						col[0] = uint8(v)
					case "green":
						col[1] = uint8(v)
					case "blue":
						col[2] = uint8(v)
					}
				}
				m.Verts = append(m.Verts, pos)
				if hasColor {
					m.VertColors = append(m.VertColors, col)
				}
			}
		case "face":
			for i := 0; i < el.count; i++ {
				for _, p := range el.props {
					if p.size != 0 {
						// Scalar face property, skip.
						if err := need(p.size); err != nil {
							return nil, err
						}
						off += p.size
						continue
					}
					if err := need(p.listCnt); err != nil {
						return nil, err
					}
					n := int(readScalar(body[off:], p.listCnt, false))
					off += p.listCnt
					if err := need(n * p.listElem); err != nil {
						return nil, err
					}
					idx := make([]int32, n)
					for k := 0; k < n; k++ {
						idx[k] = int32(readScalar(body[off:], p.listElem, false))
						off += p.listElem
					}
					if p.name == "vertex_indices" || p.name == "vertex_index" {
						if err := appendFan(m, idx, path); err != nil {
							return nil, err
						}
					}
				}
			}
		default:
			// Unknown element: skip its data if fixed-size, reject otherwise.
			rowSize := 0
			for _, p := range el.props {
				if p.size == 0 {
					return nil, fmt.Errorf("mesh: cannot skip list element %q in %s", el.name, path)
				}
				rowSize += p.size
			}
			if err := need(el.count * rowSize); err != nil {
				return nil, err
			}
			off += el.count * rowSize
		}
	}
	return m, nil
}

func parsePLYASCII(hdr plyHeader, body []byte, path string) (*Mesh, error) {
	m := &Mesh{}
	sc := bufio.NewScanner(strings.NewReader(string(body)))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	nextFields := func() ([]string, error) {
		for sc.Scan() {
			f := strings.Fields(sc.Text())
			if len(f) > 0 {
				return f, nil
			}
		}
		return nil, fmt.Errorf("mesh: truncated PLY data in %s", path)
	}

	for _, el := range hdr.elements {
		for i := 0; i < el.count; i++ {
			fields, err := nextFields()
			if err != nil {
				return nil, err
			}
			switch el.name {
			case "vertex":
				var pos [3]float64
				var col cellcolor.Color
				hasColor := false
				fi := 0
				for _, p := range el.props {
					if fi >= len(fields) {
						return nil, fmt.Errorf("mesh: short vertex row in %s", path)
					}
					v, err := strconv.ParseFloat(fields[fi], 64)
					if err != nil {
						return nil, fmt.Errorf("mesh: vertex value in %s: %w", path, err)
					}
					fi++
					switch p.name {
					case "x":
						pos[0] = v
					case "y":
						pos[1] = v
					case "z":
						pos[2] = v
					case "red":
						col[0], hasColor = uint8(v), true
					case "green":
						col[1] = uint8(v)
					case "blue":
						col[2] = uint8(v)
					}
				}
				m.Verts = append(m.Verts, pos)
				if hasColor {
					m.VertColors = append(m.VertColors, col)
				}
			case "face":
				if len(fields) < 1 {
					return nil, fmt.Errorf("mesh: empty face row in %s", path)
				}
				n, err := strconv.Atoi(fields[0])
				if err != nil || len(fields) < 1+n {
					return nil, fmt.Errorf("mesh: bad face row in %s", path)
				}
				idx := make([]int32, n)
				for k := 0; k < n; k++ {
					v, err := strconv.Atoi(fields[1+k])
					if err != nil {
						return nil, fmt.Errorf("mesh: face index in %s: %w", path, err)
					}
					idx[k] = int32(v)
				}
				if err := appendFan(m, idx, path); err != nil {
					return nil, err
				}
			}
		}
	}
	return m, nil
}

// appendFan triangulates a polygon as a fan and appends the triangles in
// order, preserving the deterministic cell enumeration.
func appendFan(m *Mesh, idx []int32, path string) error {
	if len(idx) < 3 {
		return fmt.Errorf("mesh: face with %d vertices in %s", len(idx), path)
	}
	nv := int32(len(m.Verts))
	for _, v := range idx {
		if v < 0 || v >= nv {
			return fmt.Errorf("mesh: face index %d out of range in %s", v, path)
		}
	}
	for k := 1; k+1 < len(idx); k++ {
		m.Faces = append(m.Faces, [3]int32{idx[0], idx[k], idx[k+1]})
	}
	return nil
}
