package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-marksheet/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits for multi-tenant safety.
const (
	MaxPathLength        = 4096
	MaxDSNLength         = 2048
	MaxInstitutionLength = 50
	MaxStyleLength       = 64
	MaxExamNameLength    = 200
	MaxMonthYearLength   = 30 // "NOVEMBER 2025" or "auto:MMMM YYYY"
	MaxSessionLength     = 50
	MaxBatchLength       = 50
	MaxTitleLength       = 100
	MaxNotesLength       = 4000
	MaxWorkers           = 32
)

// Backend names.
const (
	BackendFPDF    = "fpdf"
	BackendBrowser = "browser"
)

// Config holds the CLI defaults read from a YAML file.
type Config struct {
	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
	Settings SettingsConfig `yaml:"settings"`
	Backend  BackendConfig  `yaml:"backend"`
	Document DocumentConfig `yaml:"document"`
	Workers  int            `yaml:"workers"` // 0 = auto
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default roster directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
}

// SettingsConfig locates institution templates: a YAML file or a
// PostgreSQL DSN. The database wins when both are set.
type SettingsConfig struct {
	File        string `yaml:"file"`
	DSN         string `yaml:"dsn"`
	Institution string `yaml:"institution"`
	CacheTTL    string `yaml:"cacheTTL"` // duration, e.g. "5m"
}

// BackendConfig selects and tunes the PDF backend.
type BackendConfig struct {
	Name      string `yaml:"name"`      // "fpdf" (default) or "browser"
	Style     string `yaml:"style"`     // browser stylesheet name
	AssetPath string `yaml:"assetPath"` // custom browser assets
	Timeout   string `yaml:"timeout"`   // duration, e.g. "30s"
}

// DocumentConfig holds header text defaults used when a roster omits them.
type DocumentConfig struct {
	ExamName  string `yaml:"examName"`
	MonthYear string `yaml:"monthYear"`
	Session   string `yaml:"session"`
	Batch     string `yaml:"batch"`
	Title     string `yaml:"title"`
	Notes     string `yaml:"notes"` // markdown printed on hall tickets
	// ClusterGroups orders course columns group by group (CG1..CG4)
	// instead of in roster order.
	ClusterGroups bool `yaml:"clusterGroups"`
}

// Validate checks field lengths and enumerations.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	lengths := []struct {
		field string
		value string
		max   int
	}{
		{"input.defaultDir", c.Input.DefaultDir, MaxPathLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"settings.file", c.Settings.File, MaxPathLength},
		{"settings.dsn", c.Settings.DSN, MaxDSNLength},
		{"settings.institution", c.Settings.Institution, MaxInstitutionLength},
		{"backend.style", c.Backend.Style, MaxStyleLength},
		{"backend.assetPath", c.Backend.AssetPath, MaxPathLength},
		{"document.examName", c.Document.ExamName, MaxExamNameLength},
		{"document.monthYear", c.Document.MonthYear, MaxMonthYearLength},
		{"document.session", c.Document.Session, MaxSessionLength},
		{"document.batch", c.Document.Batch, MaxBatchLength},
		{"document.title", c.Document.Title, MaxTitleLength},
		{"document.notes", c.Document.Notes, MaxNotesLength},
	}
	for _, l := range lengths {
		if err := validateFieldLength(l.field, l.value, l.max); err != nil {
			return err
		}
	}

	switch strings.ToLower(c.Backend.Name) {
	case "", BackendFPDF, BackendBrowser:
	default:
		return fmt.Errorf("%w: backend.name %q (must be fpdf or browser)", ErrInvalidValue, c.Backend.Name)
	}
	if _, err := ParseDuration("backend.timeout", c.Backend.Timeout); err != nil {
		return err
	}
	if _, err := ParseDuration("settings.cacheTTL", c.Settings.CacheTTL); err != nil {
		return err
	}
	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Workers)
	}
	return nil
}

// ParseDuration parses an optional positive duration. Empty means zero.
func ParseDuration(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: %s %q (must be a positive duration like 30s)", ErrInvalidValue, field, value)
	}
	return d, nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{Name: BackendFPDF},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-marksheet/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-marksheet", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
