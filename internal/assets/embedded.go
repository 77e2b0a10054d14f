package assets

import (
	"embed"
	"io/fs"
	"sort"
	"strings"
)

//go:embed styles/*.css templates/*.html
var embedded embed.FS

// EmbeddedLoader serves the styles and templates compiled into the binary.
type EmbeddedLoader struct {
	fsys fs.FS
}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{fsys: embedded}
}

// Load implements Loader.
func (e *EmbeddedLoader) Load(kind Kind, name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	data, err := fs.ReadFile(e.fsys, kind.relPath(name))
	if err != nil {
		return "", kind.notFound(name)
	}
	return string(data), nil
}

// Names implements Loader.
func (e *EmbeddedLoader) Names(kind Kind) []string {
	return listNames(e.fsys, kind)
}

// listNames returns the sorted bare names of kind found in fsys.
func listNames(fsys fs.FS, kind Kind) []string {
	ki := kind.info()
	entries, err := fs.ReadDir(fsys, ki.dir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if name, ok := strings.CutSuffix(entry.Name(), ki.ext); ok && ValidateAssetName(name) == nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

var _ Loader = (*EmbeddedLoader)(nil)
