package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	marksheet "github.com/alnah/go-marksheet"
	"github.com/alnah/go-marksheet/internal/config"
	"github.com/alnah/go-marksheet/internal/hints"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Sentinel errors for command dispatch.
var (
	ErrUsage          = errors.New("invalid usage")
	ErrUnknownCommand = errors.New("unknown command")
)

func main() {
	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain dispatches the command and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if err := loadDotEnv(env.DotEnv); err != nil {
		fmt.Fprintf(env.Stderr, "warning: %v\n", err)
	}
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	name, rest := args[1], args[2:]
	var err error
	switch name {
	case cmdLedger, cmdGradeCard, cmdHallTicket:
		err = runRender(ctx, documentCommands[name], rest, env)
	case "layout":
		err = runLayout(ctx, rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "marksheet %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		return runHelp(rest, env)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownCommand, name)
		printUsage(env.Stderr)
	}

	if errors.Is(err, flag.ErrHelp) {
		runHelp([]string{name}, env)
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// loadConfig loads the named config file, or the defaults when no name is
// given by flag or MARKSHEET_CONFIG, then overlays the environment.
func loadConfig(name string) (*config.Config, error) {
	env := loadEnvConfig()
	if name == "" {
		name = env.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		var err error
		cfg, err = config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(triedPaths(err)))
			}
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}
	applyEnvConfig(env, cfg)
	return cfg, nil
}

// triedPaths extracts the searched locations from a config lookup error.
func triedPaths(err error) []string {
	_, list, ok := strings.Cut(err.Error(), "tried ")
	if !ok {
		return nil
	}
	return strings.Split(list, ", ")
}

// mergeRenderFlags applies command-line values over the config.
func mergeRenderFlags(f *renderFlags, cfg *config.Config) {
	mergeSettingsFlags(f.settings, cfg)
	if f.output != "" {
		cfg.Output.DefaultDir = f.output
	}
	if f.workers != 0 {
		cfg.Workers = f.workers
	}
	if f.timeout != "" {
		cfg.Backend.Timeout = f.timeout
	}
	if f.backend.name != "" {
		cfg.Backend.Name = f.backend.name
	}
	if f.backend.style != "" {
		cfg.Backend.Style = f.backend.style
	}
	if f.backend.assetPath != "" {
		cfg.Backend.AssetPath = f.backend.assetPath
	}
	if f.document.cluster {
		cfg.Document.ClusterGroups = true
	}
}

// mergeSettingsFlags applies the settings source flags over the config.
func mergeSettingsFlags(f settingsFlags, cfg *config.Config) {
	if f.file != "" {
		cfg.Settings.File = f.file
	}
	if f.dsn != "" {
		cfg.Settings.DSN = f.dsn
	}
	if f.institution != "" {
		cfg.Settings.Institution = f.institution
	}
}

// configInfo converts configured header defaults to document info.
func configInfo(d config.DocumentConfig) marksheet.DocumentInfo {
	return marksheet.DocumentInfo{
		ExamName:  d.ExamName,
		MonthYear: d.MonthYear,
		Session:   d.Session,
		Batch:     d.Batch,
		Title:     d.Title,
		Notes:     d.Notes,
	}
}

// newLogger builds the CLI logger. Quiet and verbose flags win over the
// level name from the environment.
func newLogger(w io.Writer, f commonFlags, levelName string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	level := logrus.InfoLevel
	if levelName != "" {
		if l, err := logrus.ParseLevel(levelName); err == nil {
			level = l
		} else {
			log.WithField("value", levelName).Warn("unknown MARKSHEET_LOG_LEVEL")
		}
	}
	switch {
	case f.quiet:
		level = logrus.ErrorLevel
	case f.verbose:
		level = logrus.DebugLevel
	}
	log.SetLevel(level)
	return log
}
