package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-marksheet/internal/fileutil"
)

// Sentinel errors for roster discovery.
var (
	ErrNoInput          = errors.New("no input specified")
	ErrInvalidExtension = errors.New("roster must have .yaml or .yml extension")
)

// FileToRender is one roster and the PDF it produces.
type FileToRender struct {
	InputPath  string
	OutputPath string
}

// isRoster reports whether path has a roster extension.
func isRoster(path string) bool {
	return fileutil.HasExt(path, ".yaml", ".yml")
}

// discoverFiles finds the rosters to render. suffix is appended to each
// output file name, e.g. "_ledger".
func discoverFiles(inputPath, outputDir, suffix string) ([]FileToRender, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if !isRoster(inputPath) {
			return nil, fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(inputPath))
		}
		return []FileToRender{{InputPath: inputPath, OutputPath: resolveOutputPath(inputPath, outputDir, "", suffix)}}, nil
	}

	var files []FileToRender
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || !isRoster(path) {
			return nil
		}
		files = append(files, FileToRender{InputPath: path, OutputPath: resolveOutputPath(path, outputDir, inputPath, suffix)})
		return nil
	})
	return files, err
}

// resolveOutputPath determines the PDF path of a roster. An outputDir
// ending in .pdf names the file directly; batches keep the input tree
// layout below outputDir.
func resolveOutputPath(inputPath, outputDir, baseInputDir, suffix string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), ext) + suffix + ".pdf"

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base)
	}
	if strings.HasSuffix(strings.ToLower(outputDir), ".pdf") {
		return outputDir
	}
	if baseInputDir != "" {
		if rel, err := filepath.Rel(baseInputDir, inputPath); err == nil {
			return filepath.Join(outputDir, filepath.Dir(rel), base)
		}
	}
	return filepath.Join(outputDir, base)
}

// resolveInputPath picks the positional argument or the configured default
// directory.
func resolveInputPath(args []string, defaultDir string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if defaultDir != "" {
		return defaultDir, nil
	}
	return "", ErrNoInput
}
