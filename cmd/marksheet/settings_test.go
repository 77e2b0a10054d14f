package main

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	marksheet "github.com/alnah/go-marksheet"
	"github.com/alnah/go-marksheet/internal/config"
	"github.com/alnah/go-marksheet/internal/settingsstore"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestBuiltinSource(t *testing.T) {
	t.Parallel()
	store := settingsstore.New(builtinSource{})

	tests := []struct {
		templateType string
		wantPaper    string
		wantOrient   string
	}{
		{marksheet.TemplateMarksheet, "Legal", marksheet.OrientationLandscape},
		{marksheet.TemplateHallTicket, marksheet.DefaultPaperSize, marksheet.OrientationPortrait},
		{marksheet.TemplateCertificate, marksheet.DefaultPaperSize, marksheet.OrientationPortrait},
	}
	for _, tt := range tests {
		s, err := store.Resolve(context.Background(), "INST07", tt.templateType)
		if err != nil {
			t.Fatalf("Resolve(%s) error = %v", tt.templateType, err)
		}
		if s.InstitutionCode != "INST07" || s.PaperSize != tt.wantPaper || s.Orientation != tt.wantOrient {
			t.Errorf("Resolve(%s) = %s %s %s", tt.templateType, s.InstitutionCode, s.PaperSize, s.Orientation)
		}
	}
}

func TestResolveSettings_Logo(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	logo := writeFile(t, dir, "logo.png", string(pngStub))

	src := settingsstore.NewMemorySource()
	withLogo := marksheet.DefaultSettings("INST01")
	withLogo.LogoURL = logo
	withLogo.SecondaryLogoURL = "https://example.edu/seal.png"
	src.Add(withLogo)
	broken := marksheet.DefaultSettings("INST02")
	broken.LogoURL = filepath.Join(dir, "missing.png")
	src.Add(broken)
	store := settingsstore.New(src)

	s, err := resolveSettings(context.Background(), store, "INST01", marksheet.TemplateHallTicket, quietLogger())
	if err != nil {
		t.Fatalf("resolveSettings() error = %v", err)
	}
	if len(s.LogoImage) != len(pngStub) {
		t.Errorf("LogoImage = %d bytes, want %d", len(s.LogoImage), len(pngStub))
	}
	if s.SecondaryLogoImage != nil {
		t.Error("remote logos must not be fetched")
	}

	if _, err := resolveSettings(context.Background(), store, "INST02", marksheet.TemplateHallTicket, quietLogger()); !errors.Is(err, ErrReadImage) {
		t.Errorf("error = %v, want ErrReadImage", err)
	}
	if _, err := resolveSettings(context.Background(), store, "INST03", marksheet.TemplateHallTicket, quietLogger()); !errors.Is(err, settingsstore.ErrSettingsNotFound) {
		t.Errorf("error = %v, want ErrSettingsNotFound", err)
	}
}

func TestOpenSettingsStore(t *testing.T) {
	t.Parallel()

	t.Run("file source", func(t *testing.T) {
		t.Parallel()
		cfg := config.DefaultConfig()
		cfg.Settings.File = writeFile(t, t.TempDir(), "t.yaml", "templates:\n  - institution_code: INST05\n    paper_size: Letter\n")
		store, closeFn, err := openSettingsStore(context.Background(), cfg, quietLogger())
		if err != nil {
			t.Fatalf("openSettingsStore() error = %v", err)
		}
		defer closeFn()
		s, err := store.Resolve(context.Background(), "INST05", marksheet.TemplateMarksheet)
		if err != nil || s.PaperSize != "Letter" {
			t.Errorf("Resolve() = %v, %v", s, err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		cfg := config.DefaultConfig()
		cfg.Settings.File = filepath.Join(t.TempDir(), "none.yaml")
		if _, _, err := openSettingsStore(context.Background(), cfg, quietLogger()); err == nil {
			t.Error("expected error for missing settings file")
		}
	})
}
