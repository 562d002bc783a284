package texture

import (
	"os"
	"path/filepath"
	"strings"
)

// Index maps lowercase texture stems to filesystem paths.
type Index struct {
	entries map[string]string // stem.lower() → full path
}

// texturePriority ranks formats when several files share a stem. Formats
// with an alpha channel win.
var texturePriority = map[string]int{
	".png":  3,
	".tga":  2,
	".jpg":  1,
	".jpeg": 1,
}

// BuildIndex scans a scene directory tree for texture files referenced by
// mesh materials.
func BuildIndex(root string) *Index {
	idx := &Index{entries: make(map[string]string)}

	filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		prio, ok := texturePriority[ext]
		if !ok {
			return nil
		}
		stem := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))

		if existing, exists := idx.entries[stem]; exists {
			if texturePriority[strings.ToLower(filepath.Ext(existing))] >= prio {
				return nil
			}
		}
		idx.entries[stem] = path
		return nil
	})

	return idx
}

// ResolvePath returns the filesystem path for a texture name, or ("", false).
// The name may carry directory components or a foreign path separator; only
// the stem matters.
func (idx *Index) ResolvePath(texName string) (string, bool) {
	texName = strings.ReplaceAll(texName, "\\", "/")
	base := filepath.Base(texName)
	stem := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))

	path, ok := idx.entries[stem]
	return path, ok
}

// Len returns the number of indexed textures.
func (idx *Index) Len() int {
	return len(idx.entries)
}
