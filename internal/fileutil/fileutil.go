// Package fileutil holds the file helpers shared by the browser backend and
// the CLI: scratch pages, atomic output writes, and image lookup.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Permissions for generated output.
const (
	DirPerm  os.FileMode = 0o750
	FilePerm os.FileMode = 0o644
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
	ErrEmptyPath              = errors.New("path cannot be empty")
)

// WriteTemp writes data to a new temporary file ending in ext.
// The caller removes the file with cleanup.
func WriteTemp(data []byte, ext string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(ext); err != nil {
		return "", nil, err
	}

	f, err := os.CreateTemp("", "marksheet-*."+ext)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}
	path = f.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", err)
	}
	return path, cleanup, nil
}

// WriteAtomic writes data to path through a sibling temporary file and a
// rename, so readers never see a partially written document. Missing parent
// directories are created.
func WriteAtomic(path string, data []byte) error {
	if path == "" {
		return ErrEmptyPath
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DirPerm); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmp := f.Name()
	fail := func(err error) error {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}

	if _, err := f.Write(data); err != nil {
		return fail(fmt.Errorf("writing %s: %w", path, err))
	}
	if err := f.Chmod(FilePerm); err != nil {
		return fail(fmt.Errorf("setting permissions on %s: %w", path, err))
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	return nil
}

// ValidateExtension checks that ext is safe for use in a temp file name.
func ValidateExtension(ext string) error {
	if ext == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(ext, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// HasExt reports whether path ends in one of exts, ignoring case.
// Extensions include the dot.
func HasExt(path string, exts ...string) bool {
	got := strings.ToLower(filepath.Ext(path))
	for _, ext := range exts {
		if got == strings.ToLower(ext) {
			return true
		}
	}
	return false
}

// FindWithExt returns the first existing file named base plus one of exts,
// or "" when none exists.
func FindWithExt(base string, exts ...string) string {
	for _, ext := range exts {
		if FileExists(base + ext) {
			return base + ext
		}
	}
	return ""
}

// IsURL returns true if the string looks like a URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
