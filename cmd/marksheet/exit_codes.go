package main

import (
	"errors"
	"os"

	marksheet "github.com/alnah/go-marksheet"
	"github.com/alnah/go-marksheet/internal/assets"
	"github.com/alnah/go-marksheet/internal/config"
	"github.com/alnah/go-marksheet/internal/settingsstore"
)

// Exit codes for the marksheet CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Every document rendered
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, settings or layout
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/PDF errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, marksheet.ErrBrowserConnect) ||
		errors.Is(err, marksheet.ErrPageCreate) ||
		errors.Is(err, marksheet.ErrPageLoad) ||
		errors.Is(err, marksheet.ErrHTMLRender) ||
		errors.Is(err, marksheet.ErrPDFGeneration) {
		return ExitBrowser
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadRoster) ||
		errors.Is(err, ErrReadImage) ||
		errors.Is(err, ErrWritePDF) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, marksheet.ErrConfiguration) ||
		errors.Is(err, marksheet.ErrLayout) ||
		errors.Is(err, marksheet.ErrNoStudents) ||
		errors.Is(err, marksheet.ErrUnknownKind) ||
		errors.Is(err, settingsstore.ErrSettingsNotFound) ||
		errors.Is(err, settingsstore.ErrInvalidTemplateFile) ||
		errors.Is(err, assets.ErrStyleNotFound) ||
		errors.Is(err, assets.ErrInvalidBasePath) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidRoster) ||
		errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnknownCommand) {
		return ExitUsage
	}

	return ExitGeneral
}
