package main

import (
	"context"
	"fmt"
	"os"

	marksheet "github.com/alnah/go-marksheet"
)

// runLayout prints the order-to-group table and the header layout a roster
// resolves to, without rendering anything.
func runLayout(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseLayoutFlags(args)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	cmd, ok := documentCommands[flags.kind]
	if !ok {
		return fmt.Errorf("%w: --kind must be ledger, gradecard or hallticket, got %q", ErrUsage, flags.kind)
	}
	if len(positional) == 0 {
		return ErrNoInput
	}

	cfg, err := loadConfig(flags.common.config)
	if err != nil {
		return err
	}
	mergeSettingsFlags(flags.settings, cfg)
	if flags.cluster {
		cfg.Document.ClusterGroups = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	log := newLogger(env.Stderr, flags.common, os.Getenv("MARKSHEET_LOG_LEVEL"))

	roster, err := loadRoster(positional[0])
	if err != nil {
		return err
	}
	store, closeStore, err := openSettingsStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	institution := cfg.Settings.Institution
	if institution == "" {
		institution = roster.Institution
	}
	settings, err := store.Resolve(ctx, institution, cmd.templateType)
	if err != nil {
		return err
	}
	info := mergeInfo(roster.Info, configInfo(cfg.Document))
	layout, err := resolveLayout(cmd, roster.Courses, roster.Students, settings, info, cfg.Document.ClusterGroups)
	if err != nil {
		return withRenderHint(err, settings)
	}

	maxOrder := 0
	for _, c := range roster.Courses {
		maxOrder = max(maxOrder, c.Order)
	}
	fmt.Fprintln(env.Stdout, marksheet.MappingTable(maxOrder))
	fmt.Fprintln(env.Stdout)
	fmt.Fprintln(env.Stdout, marksheet.VisualLayout(layout))
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "\n%s %s, printable width %.2fmm, used %.2fmm\n",
			settings.PaperSize, settings.Orientation, layout.PrintableWidth(), layout.TotalWidth())
	}
	return nil
}
