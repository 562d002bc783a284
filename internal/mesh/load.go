package mesh

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Load reads a mesh file, picking the parser from the extension.
func Load(path string) (*Mesh, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ply":
		return LoadPLY(path)
	case ".obj":
		return LoadOBJ(path)
	default:
		return nil, fmt.Errorf("mesh: unsupported mesh format: %s", path)
	}
}
