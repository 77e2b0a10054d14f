package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	marksheet "github.com/alnah/go-marksheet"
	"github.com/alnah/go-marksheet/internal/config"
	"github.com/alnah/go-marksheet/internal/fileutil"
	"github.com/alnah/go-marksheet/internal/hints"
	"github.com/alnah/go-marksheet/internal/settingsstore"
)

// builtinSource serves built-in templates for any institution when neither
// a settings file nor a database is configured: an A4 portrait default and
// a Legal landscape template for consolidated marksheets.
type builtinSource struct{}

func (builtinSource) Templates(_ context.Context, institution string) ([]*marksheet.Settings, error) {
	ledger := marksheet.DefaultSettings(institution)
	ledger.TemplateName = "Consolidated marksheet"
	ledger.TemplateType = marksheet.TemplateMarksheet
	ledger.PaperSize = "Legal"
	ledger.Orientation = marksheet.OrientationLandscape
	ledger.MarginLeft = "10mm"
	ledger.MarginRight = "10mm"

	return []*marksheet.Settings{marksheet.DefaultSettings(institution), ledger}, nil
}

// openSettingsStore builds the settings store from the merged config.
// A database wins over a file; the returned close function releases it.
func openSettingsStore(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*settingsstore.Store, func() error, error) {
	opts := []settingsstore.Option{settingsstore.WithLogger(log)}
	ttl, err := config.ParseDuration("settings.cacheTTL", cfg.Settings.CacheTTL)
	if err != nil {
		return nil, nil, err
	}
	if ttl > 0 {
		opts = append(opts, settingsstore.WithTTL(ttl))
	}

	noop := func() error { return nil }
	switch {
	case cfg.Settings.DSN != "":
		src, err := settingsstore.OpenSQLSource(ctx, cfg.Settings.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("opening settings database: %w", err)
		}
		log.Debug("settings: PostgreSQL")
		return settingsstore.New(src, opts...), src.Close, nil
	case cfg.Settings.File != "":
		src, err := settingsstore.NewFileSource(cfg.Settings.File)
		if err != nil {
			return nil, nil, err
		}
		log.WithField("path", src.Path()).Debug("settings: file")
		return settingsstore.New(src, opts...), noop, nil
	}
	log.Debug("settings: built-in templates")
	return settingsstore.New(builtinSource{}, opts...), noop, nil
}

// resolveSettings looks the template up and loads local logo files.
func resolveSettings(ctx context.Context, store *settingsstore.Store, institution, templateType string, log logrus.FieldLogger) (*marksheet.Settings, error) {
	s, err := store.Resolve(ctx, institution, templateType)
	if err != nil {
		if hint := hints.ForSettingsNotFound(institution); hint != "" {
			return nil, fmt.Errorf("%w%s", err, hint)
		}
		return nil, err
	}

	logos := []struct {
		url string
		dst *[]byte
	}{
		{s.LogoURL, &s.LogoImage},
		{s.SecondaryLogoURL, &s.SecondaryLogoImage},
	}
	for _, l := range logos {
		if l.url == "" || len(*l.dst) > 0 {
			continue
		}
		if fileutil.IsURL(l.url) {
			log.WithField("url", l.url).Warn("remote logo not fetched; set a local path")
			continue
		}
		data, err := readImage(l.url)
		if err != nil {
			return nil, fmt.Errorf("logo: %w%s", err, hints.ForImage())
		}
		*l.dst = data
	}
	return s, nil
}
