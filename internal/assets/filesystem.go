package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemLoader loads an institution's asset overrides from a directory
// laid out like the embedded assets.
type FilesystemLoader struct {
	basePath string
}

// NewFilesystemLoader checks that basePath is a readable directory.
// Symlinks in basePath itself are resolved once here.
func NewFilesystemLoader(basePath string) (*FilesystemLoader, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	info, err := os.Stat(abs)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, abs)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	case !info.IsDir():
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, abs)
	}
	if _, err := os.ReadDir(abs); err != nil {
		return nil, fmt.Errorf("%w: cannot read directory: %v", ErrInvalidBasePath, err)
	}
	return &FilesystemLoader{basePath: abs}, nil
}

// BasePath returns the resolved asset directory.
func (f *FilesystemLoader) BasePath() string { return f.basePath }

// Load implements Loader.
func (f *FilesystemLoader) Load(kind Kind, name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	p := filepath.Join(f.basePath, filepath.FromSlash(kind.relPath(name)))
	if err := f.contain(p); err != nil {
		return "", err
	}

	data, err := os.ReadFile(p) // #nosec G304 -- name validated and path contained
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", kind.notFound(name)
		}
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return string(data), nil
}

// Names implements Loader.
func (f *FilesystemLoader) Names(kind Kind) []string {
	return listNames(os.DirFS(f.basePath), kind)
}

// contain rejects p when, after resolving symlinks, it is outside basePath.
// A path that does not resolve is kept as is and fails on read.
func (f *FilesystemLoader) contain(p string) error {
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		p = resolved
	}
	if !strings.HasPrefix(p, f.basePath+string(filepath.Separator)) {
		return fmt.Errorf("%w: path escapes base directory", ErrPathTraversal)
	}
	return nil
}

var _ Loader = (*FilesystemLoader)(nil)
