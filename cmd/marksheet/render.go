package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/automaxprocs/maxprocs"

	marksheet "github.com/alnah/go-marksheet"
	"github.com/alnah/go-marksheet/internal/config"
	"github.com/alnah/go-marksheet/internal/fileutil"
	"github.com/alnah/go-marksheet/internal/hints"
	"github.com/alnah/go-marksheet/internal/settingsstore"
)

// ErrWritePDF is returned when the output file cannot be written.
var ErrWritePDF = errors.New("failed to write PDF file")

// Command names.
const (
	cmdLedger     = "ledger"
	cmdGradeCard  = "gradecard"
	cmdHallTicket = "hallticket"
)

// documentCommand binds a command to a document kind and the template type
// it resolves settings for.
type documentCommand struct {
	name         string
	kind         marksheet.Kind
	format       marksheet.Format
	templateType string
	suffix       string
}

var documentCommands = map[string]documentCommand{
	cmdLedger: {
		name:         cmdLedger,
		kind:         marksheet.KindSemesterMarksheet,
		format:       marksheet.FormatLedger,
		templateType: marksheet.TemplateMarksheet,
		suffix:       "_marksheet",
	},
	cmdGradeCard: {
		name:         cmdGradeCard,
		kind:         marksheet.KindSemesterMarksheet,
		format:       marksheet.FormatGradeCard,
		templateType: marksheet.TemplateCertificate,
		suffix:       "_gradecards",
	},
	cmdHallTicket: {
		name:         cmdHallTicket,
		kind:         marksheet.KindHallTicket,
		templateType: marksheet.TemplateHallTicket,
		suffix:       "_halltickets",
	},
}

// renderJob holds what every file of a batch shares.
type renderJob struct {
	cmd   documentCommand
	cfg   *config.Config
	info  marksheet.DocumentInfo // flag overrides
	store *settingsstore.Store
	log   logrus.FieldLogger
}

// RenderResult holds the outcome of a single roster.
type RenderResult struct {
	InputPath  string
	OutputPath string
	Pages      int
	Warnings   []marksheet.DataError
	Err        error
	Duration   time.Duration
}

// runRender renders every roster found under the input path.
func runRender(ctx context.Context, cmd documentCommand, args []string, env *Environment) error {
	flags, positional, err := parseRenderFlags(cmd.name, args)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	cfg, err := loadConfig(flags.common.config)
	if err != nil {
		return err
	}
	mergeRenderFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := newLogger(env.Stderr, flags.common, os.Getenv("MARKSHEET_LOG_LEVEL"))
	warnUnknownEnvVars(env.Stderr)
	if _, err := maxprocs.Set(maxprocs.Logger(log.Debugf)); err != nil {
		log.WithError(err).Debug("maxprocs")
	}

	timeout, err := config.ParseDuration("backend.timeout", cfg.Backend.Timeout)
	if err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positional, cfg.Input.DefaultDir)
	if err != nil {
		return err
	}
	files, err := discoverFiles(inputPath, cfg.Output.DefaultDir, cmd.suffix)
	if err != nil {
		return fmt.Errorf("discovering rosters: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no .yaml rosters found in %s", ErrNoInput, inputPath)
	}

	store, closeStore, err := openSettingsStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.WithError(err).Warn("closing settings source")
		}
	}()

	poolSize := marksheet.ResolvePoolSize(cfg.Workers)
	if poolSize > len(files) {
		poolSize = len(files)
	}
	log.WithField("workers", poolSize).Debug("renderer pool")
	pool := marksheet.NewRendererPool(poolSize, rendererFactory(cfg, timeout, env, log))
	defer func() {
		if err := pool.Close(); err != nil {
			log.WithError(err).Warn("closing renderers")
		}
	}()

	job := &renderJob{
		cmd:   cmd,
		cfg:   cfg,
		info:  flags.document.info(),
		store: store,
		log:   log,
	}
	results := renderBatch(ctx, pool, files, job)

	failed := printResults(results, flags.common.quiet, flags.common.verbose, env)
	if failed > 0 {
		if len(results) == 1 {
			return results[0].Err
		}
		return fmt.Errorf("%d of %d document(s) failed", failed, len(results))
	}
	return nil
}

// rendererFactory builds pooled renderers with the configured backend.
func rendererFactory(cfg *config.Config, timeout time.Duration, env *Environment, log logrus.FieldLogger) func() (*marksheet.Renderer, error) {
	return func() (*marksheet.Renderer, error) {
		backend, err := newBackend(cfg.Backend, timeout)
		if err != nil {
			return nil, err
		}
		opts := []marksheet.Option{
			marksheet.WithBackend(backend),
			marksheet.WithLogger(log),
			marksheet.WithClock(env.Now),
		}
		if timeout > 0 {
			opts = append(opts, marksheet.WithTimeout(timeout))
		}
		return marksheet.NewRenderer(opts...), nil
	}
}

// newBackend creates the drawing backend named in the config.
func newBackend(bc config.BackendConfig, timeout time.Duration) (marksheet.Backend, error) {
	if !strings.EqualFold(bc.Name, config.BackendBrowser) {
		return marksheet.NewFPDFBackend(), nil
	}
	var opts []marksheet.BrowserOption
	if timeout > 0 {
		opts = append(opts, marksheet.WithBrowserTimeout(timeout))
	}
	if bc.AssetPath != "" {
		opts = append(opts, marksheet.WithAssetPath(bc.AssetPath))
	}
	if bc.Style != "" {
		opts = append(opts, marksheet.WithStyle(bc.Style))
	}
	b, err := marksheet.NewBrowserBackend(opts...)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// renderBatch renders rosters concurrently, one pooled renderer per worker.
func renderBatch(ctx context.Context, pool *marksheet.RendererPool, files []FileToRender, job *renderJob) []RenderResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := pool.Size()
	if concurrency > len(files) {
		concurrency = len(files)
	}

	results := make([]RenderResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			r, err := pool.Acquire(ctx)
			if err != nil {
				for idx := range jobs {
					results[idx] = RenderResult{InputPath: files[idx].InputPath, Err: err}
				}
				return
			}
			defer pool.Release(r)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = RenderResult{InputPath: files[idx].InputPath, Err: ctx.Err()}
					continue
				}
				results[idx] = renderFile(ctx, r, files[idx], job)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// renderFile renders one roster and writes its PDF.
func renderFile(ctx context.Context, r *marksheet.Renderer, f FileToRender, job *renderJob) RenderResult {
	start := time.Now()
	result := RenderResult{InputPath: f.InputPath, OutputPath: f.OutputPath}
	fail := func(err error) RenderResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	req, err := job.request(ctx, f.InputPath)
	if err != nil {
		return fail(err)
	}

	res, err := r.Render(ctx, req)
	if err != nil {
		return fail(withRenderHint(err, req.Settings))
	}
	result.Pages = res.Pages
	result.Warnings = res.Warnings

	if err := fileutil.WriteAtomic(f.OutputPath, res.PDF); err != nil {
		return fail(fmt.Errorf("%w: %w%s", ErrWritePDF, err, hints.ForOutputDirectory()))
	}

	job.log.WithFields(logrus.Fields{
		"input":       f.InputPath,
		"pages":       res.Pages,
		"document_id": res.DocumentID,
	}).Debug("rendered")
	result.Duration = time.Since(start)
	return result
}

// request loads a roster and resolves everything the renderer needs.
func (j *renderJob) request(ctx context.Context, path string) (marksheet.Request, error) {
	roster, err := loadRoster(path)
	if err != nil {
		return marksheet.Request{}, err
	}

	institution := j.cfg.Settings.Institution
	if institution == "" {
		institution = roster.Institution
	}
	settings, err := resolveSettings(ctx, j.store, institution, j.cmd.templateType, j.log)
	if err != nil {
		return marksheet.Request{}, err
	}

	students, err := roster.StudentsWithPhotos()
	if err != nil {
		return marksheet.Request{}, fmt.Errorf("%w%s", err, hints.ForImage())
	}

	info := mergeInfo(mergeInfo(j.info, roster.Info), configInfo(j.cfg.Document))
	layout, err := resolveLayout(j.cmd, roster.Courses, students, settings, info, j.cfg.Document.ClusterGroups)
	if err != nil {
		return marksheet.Request{}, withRenderHint(err, settings)
	}

	return marksheet.Request{
		Kind:     j.cmd.kind,
		Format:   j.cmd.format,
		Students: students,
		Layout:   layout,
		Settings: settings,
		Info:     info,
	}, nil
}

// resolveLayout resolves the course layout for the document's frame and
// printable width. With cluster set, courses are emitted group by group.
func resolveLayout(cmd documentCommand, courses []marksheet.CourseColumn, students []marksheet.StudentMarksheetRow, settings *marksheet.Settings, info marksheet.DocumentInfo, cluster bool) (*marksheet.HeaderStructure, error) {
	geom, err := settings.Geometry()
	if err != nil {
		return nil, err
	}
	programCode := info.ProgramCode
	if programCode == "" && len(students) > 0 {
		programCode = students[0].ProgramCode
	}
	frame, err := marksheet.FrameFor(cmd.kind, cmd.format, geom.PrintableWidth(), marksheet.IsPostgraduate(programCode))
	if err != nil {
		return nil, err
	}
	frame.ClusterGroups = cluster
	return marksheet.ResolveLayout(courses, frame)
}

// withRenderHint appends an actionable hint for known failures.
func withRenderHint(err error, s *marksheet.Settings) error {
	var hint string
	switch {
	case errors.Is(err, marksheet.ErrLayoutOverflow) && s != nil:
		hint = hints.ForLayoutOverflow(s.PaperSize, s.Orientation)
	case errors.Is(err, marksheet.ErrBrowserConnect):
		hint = hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		hint = hints.ForTimeout()
	}
	if hint == "" {
		return err
	}
	return fmt.Errorf("%w%s", err, hint)
}

// ResultSummary holds the count of succeeded and failed documents.
type ResultSummary struct {
	Succeeded int
	Failed    int
	Skipped   int
}

// countResults tallies the batch.
func countResults(results []RenderResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
			continue
		}
		summary.Succeeded++
		summary.Skipped += len(r.Warnings)
	}
	return summary
}

// printResults reports each document and returns the failure count.
// Skipped students are always reported, even in quiet mode.
func printResults(results []RenderResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}
		for _, w := range r.Warnings {
			fmt.Fprintf(env.Stderr, "warning: %s: %v\n", r.InputPath, &w)
		}
		if quiet {
			continue
		}
		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%d pages, %v)\n", r.InputPath, r.OutputPath, r.Pages, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed", summary.Succeeded, summary.Failed)
		if summary.Skipped > 0 {
			fmt.Fprintf(env.Stdout, ", %d student(s) skipped", summary.Skipped)
		}
		fmt.Fprintln(env.Stdout)
	}
	return summary.Failed
}
