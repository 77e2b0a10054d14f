package assets

import (
	"os"
	"path/filepath"
	"testing"
)

// writeAsset writes content to basePath/rel, creating directories.
func writeAsset(t *testing.T, basePath, rel, content string) {
	t.Helper()
	p := filepath.Join(basePath, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}
