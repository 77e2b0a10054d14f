package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/alnah/go-marksheet/internal/config"
)

// envPrefix marks the variables read by the CLI.
const envPrefix = "MARKSHEET_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath   string        // MARKSHEET_CONFIG: config file name or path
	SettingsFile string        // MARKSHEET_SETTINGS_FILE: template settings YAML
	DSN          string        // MARKSHEET_DSN: PostgreSQL settings database
	Institution  string        // MARKSHEET_INSTITUTION: institution code
	InputDir     string        // MARKSHEET_INPUT_DIR: default roster directory
	OutputDir    string        // MARKSHEET_OUTPUT_DIR: default output directory
	Backend      string        // MARKSHEET_BACKEND: fpdf or browser
	Style        string        // MARKSHEET_STYLE: browser stylesheet name
	LogLevel     string        // MARKSHEET_LOG_LEVEL: logrus level name
	Timeout      time.Duration // MARKSHEET_TIMEOUT: per-document draw timeout
	Workers      int           // MARKSHEET_WORKERS: parallel workers
	Cluster      bool          // MARKSHEET_CLUSTER_GROUPS: order columns by group
}

// knownEnvVars lists valid MARKSHEET_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MARKSHEET_CONFIG":         true,
	"MARKSHEET_SETTINGS_FILE":  true,
	"MARKSHEET_DSN":            true,
	"MARKSHEET_INSTITUTION":    true,
	"MARKSHEET_INPUT_DIR":      true,
	"MARKSHEET_OUTPUT_DIR":     true,
	"MARKSHEET_BACKEND":        true,
	"MARKSHEET_STYLE":          true,
	"MARKSHEET_LOG_LEVEL":      true,
	"MARKSHEET_TIMEOUT":        true,
	"MARKSHEET_WORKERS":        true,
	"MARKSHEET_CLUSTER_GROUPS": true,
	// Read by the integration tests only.
	"MARKSHEET_TEST_DSN":    true,
	"MARKSHEET_TEST_OUTPUT": true,
}

// loadDotEnv loads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numbers, durations and booleans are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:   os.Getenv("MARKSHEET_CONFIG"),
		SettingsFile: os.Getenv("MARKSHEET_SETTINGS_FILE"),
		DSN:          os.Getenv("MARKSHEET_DSN"),
		Institution:  os.Getenv("MARKSHEET_INSTITUTION"),
		InputDir:     os.Getenv("MARKSHEET_INPUT_DIR"),
		OutputDir:    os.Getenv("MARKSHEET_OUTPUT_DIR"),
		Backend:      os.Getenv("MARKSHEET_BACKEND"),
		Style:        os.Getenv("MARKSHEET_STYLE"),
		LogLevel:     os.Getenv("MARKSHEET_LOG_LEVEL"),
	}

	if timeout := os.Getenv("MARKSHEET_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("MARKSHEET_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	if cluster := os.Getenv("MARKSHEET_CLUSTER_GROUPS"); cluster != "" {
		if b, err := strconv.ParseBool(cluster); err == nil {
			cfg.Cluster = b
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MARKSHEET_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name := strings.SplitN(env, "=", 2)[0]
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig overlays environment values on the loaded config file.
// Flags are merged afterwards, giving flags > env > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.SettingsFile != "" {
		cfg.Settings.File = env.SettingsFile
	}
	if env.DSN != "" {
		cfg.Settings.DSN = env.DSN
	}
	if env.Institution != "" {
		cfg.Settings.Institution = env.Institution
	}
	if env.InputDir != "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.Backend != "" {
		cfg.Backend.Name = env.Backend
	}
	if env.Style != "" {
		cfg.Backend.Style = env.Style
	}
	if env.Timeout > 0 {
		cfg.Backend.Timeout = env.Timeout.String()
	}
	if env.Workers > 0 {
		cfg.Workers = env.Workers
	}
	if env.Cluster {
		cfg.Document.ClusterGroups = true
	}
}
