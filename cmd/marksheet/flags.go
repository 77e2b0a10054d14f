package main

import (
	"io"

	flag "github.com/spf13/pflag"

	marksheet "github.com/alnah/go-marksheet"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// settingsFlags select where institution templates come from.
type settingsFlags struct {
	file        string
	dsn         string
	institution string
}

// backendFlags select and configure the drawing backend.
type backendFlags struct {
	name      string
	style     string
	assetPath string
}

// documentFlags override the header text of every rendered document.
type documentFlags struct {
	examName  string
	monthYear string
	session   string
	batch     string
	title     string
	cluster   bool
}

// renderFlags holds all flags of the ledger, gradecard and hallticket
// commands.
type renderFlags struct {
	common   commonFlags
	settings settingsFlags
	backend  backendFlags
	document documentFlags
	output   string
	workers  int
	timeout  string
}

// layoutFlags holds the flags of the layout command.
type layoutFlags struct {
	common   commonFlags
	settings settingsFlags
	kind     string
	cluster  bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing and debug logs")
}

// addSettingsFlags adds template settings flags to a FlagSet.
func addSettingsFlags(fs *flag.FlagSet, f *settingsFlags) {
	fs.StringVar(&f.file, "settings", "", "template settings YAML file")
	fs.StringVar(&f.dsn, "dsn", "", "PostgreSQL DSN of the settings database")
	fs.StringVar(&f.institution, "institution", "", "institution code")
}

// addBackendFlags adds backend flags to a FlagSet.
func addBackendFlags(fs *flag.FlagSet, f *backendFlags) {
	fs.StringVar(&f.name, "backend", "", "drawing backend: fpdf, browser")
	fs.StringVar(&f.style, "style", "", "browser stylesheet name")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom browser asset directory")
}

// addDocumentFlags adds document header flags to a FlagSet.
func addDocumentFlags(fs *flag.FlagSet, f *documentFlags) {
	fs.StringVar(&f.examName, "exam-name", "", "examination name")
	fs.StringVar(&f.monthYear, "month-year", "", "month and year of examination (\"auto\" = today)")
	fs.StringVar(&f.session, "session", "", "examination session")
	fs.StringVar(&f.batch, "batch", "", "student batch")
	fs.StringVar(&f.title, "title", "", "document title")
	fs.BoolVar(&f.cluster, "cluster-groups", false, "order course columns by column group")
}

// parseRenderFlags parses the flags of a rendering command and returns the
// positional args.
func parseRenderFlags(cmd string, args []string) (*renderFlags, []string, error) {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	f := &renderFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-document timeout (e.g., 30s, 2m)")

	addCommonFlags(fs, &f.common)
	addSettingsFlags(fs, &f.settings)
	addBackendFlags(fs, &f.backend)
	addDocumentFlags(fs, &f.document)

	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseLayoutFlags parses the flags of the layout command.
func parseLayoutFlags(args []string) (*layoutFlags, []string, error) {
	fs := flag.NewFlagSet("layout", flag.ContinueOnError)
	f := &layoutFlags{}

	fs.StringVarP(&f.kind, "kind", "k", cmdLedger, "document kind: ledger, gradecard, hallticket")
	fs.BoolVar(&f.cluster, "cluster-groups", false, "order course columns by column group")
	addCommonFlags(fs, &f.common)
	addSettingsFlags(fs, &f.settings)

	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// info returns the header overrides given on the command line.
func (f documentFlags) info() marksheet.DocumentInfo {
	return marksheet.DocumentInfo{
		ExamName:  f.examName,
		MonthYear: f.monthYear,
		Session:   f.session,
		Batch:     f.batch,
		Title:     f.title,
	}
}
