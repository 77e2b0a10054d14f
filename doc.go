// Package marksheet lays out and prints university examination documents:
// consolidated semester marksheets, per-student grade cards, and hall
// tickets.
//
// # Quick Start
//
// Resolve the course columns against the frame of the document, then render:
//
//	settings := marksheet.DefaultSettings("INST01")
//	geom, err := settings.Geometry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	frame, err := marksheet.FrameFor(marksheet.KindSemesterMarksheet,
//	    marksheet.FormatLedger, geom.PrintableWidth(), false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	layout, err := marksheet.ResolveLayout(courses, frame)
//	if err != nil {
//	    log.Fatal(err) // errors.Is(err, marksheet.ErrLayoutOverflow) on a narrow page
//	}
//
//	r := marksheet.NewRenderer()
//	defer r.Close()
//	res, err := r.RenderMarksheet(ctx, marksheet.FormatLedger, students,
//	    layout, settings, marksheet.DocumentInfo{MonthYear: "auto"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("ledger.pdf", res.PDF, 0o644)
//
// Students missing a register number or name are skipped and reported in
// Result.Warnings; the rest of the batch still prints.
//
// # Layout
//
// Each course is assigned one of GroupCount column groups from its display
// order through a fixed repeating pattern (ColumnGroupOf), and the groups
// share the width left by the fixed columns of the frame. Courses that do
// not fit the printable width fail with ErrLayoutOverflow rather than
// shrinking text below legibility. MappingTable and VisualLayout describe a
// resolved layout for diagnostics.
//
// # Backends
//
// The renderer composes a backend-neutral Document of positioned boxes and
// hands it to a Backend:
//
//   - FPDFBackend (default) draws with core PDF fonts and needs nothing
//     installed.
//   - BrowserBackend prints an HTML rendition through headless Chrome with
//     go-rod, styled by the embedded or an overriding stylesheet.
//
// # Parallel Processing
//
// RendererPool hands out renderers for batch jobs, one backend each:
//
//	pool := marksheet.NewRendererPool(marksheet.ResolvePoolSize(0), factory)
//	defer pool.Close()
//
//	r, err := pool.Acquire(ctx)
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(r)
//
// # Errors
//
// Failures wrap one of the sentinel errors (ErrLayout, ErrConfiguration,
// ErrNoStudents, ErrPDFGeneration and the browser errors) and can be tested
// with errors.Is. ConfigurationError, DataError and LayoutError carry the
// offending field, student or course.
package marksheet
