package marksheet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/alnah/go-marksheet/internal/richtext"
	"github.com/alnah/go-marksheet/internal/yamlutil"
)

// defaultTimeout bounds a backend draw when no timeout is specified.
const defaultTimeout = 30 * time.Second

// Request is one document to render. Every input must be fully resolved:
// the renderer performs no I/O of its own.
type Request struct {
	Kind     Kind
	Format   Format
	Students []StudentMarksheetRow
	// Layout must be resolved with the frame returned by FrameFor for the
	// same kind, format and settings.
	Layout   *HeaderStructure
	Settings *Settings
	Info     DocumentInfo
}

// Result is a rendered document.
type Result struct {
	PDF []byte
	// Warnings lists the students skipped for missing identity fields.
	Warnings   []DataError
	Pages      int
	DocumentID string
	Document   *Document
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger receiving skipped-student warnings.
func WithLogger(log logrus.FieldLogger) Option {
	return func(r *Renderer) {
		if log != nil {
			r.log = log
		}
	}
}

// WithBackend replaces the default fpdf backend.
func WithBackend(b Backend) Option {
	return func(r *Renderer) {
		r.backend = b
	}
}

// WithClock sets the time source used for generation timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		if now != nil {
			r.now = now
		}
	}
}

// WithTimeout sets the backend draw timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("marksheet: WithTimeout duration must be positive")
	}
	return func(r *Renderer) {
		r.timeout = d
	}
}

// Renderer turns student rows into paginated PDF documents. A Renderer holds
// no per-request state; it is safe for concurrent use when its backend is.
type Renderer struct {
	log     logrus.FieldLogger
	backend Backend
	now     func() time.Time
	timeout time.Duration
	md      *richtext.Markdown
}

// NewRenderer creates a Renderer drawing with fpdf unless WithBackend is set.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		now:     time.Now,
		timeout: defaultTimeout,
		md:      richtext.NewMarkdown(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		r.log = l
	}
	if r.backend == nil {
		r.backend = NewFPDFBackend()
	}
	return r
}

// Close releases the backend.
func (r *Renderer) Close() error {
	if r.backend == nil {
		return nil
	}
	return r.backend.Close()
}

// RenderMarksheet renders a semester marksheet in the ledger or grade card
// format.
func (r *Renderer) RenderMarksheet(ctx context.Context, format Format, students []StudentMarksheetRow, layout *HeaderStructure, settings *Settings, info DocumentInfo) (*Result, error) {
	return r.Render(ctx, Request{
		Kind:     KindSemesterMarksheet,
		Format:   format,
		Students: students,
		Layout:   layout,
		Settings: settings,
		Info:     info,
	})
}

// RenderHallTicket renders hall tickets for every student.
func (r *Renderer) RenderHallTicket(ctx context.Context, students []StudentMarksheetRow, layout *HeaderStructure, settings *Settings, info DocumentInfo) (*Result, error) {
	return r.Render(ctx, Request{
		Kind:     KindHallTicket,
		Students: students,
		Layout:   layout,
		Settings: settings,
		Info:     info,
	})
}

// Render composes, paginates and draws a document.
// Configuration and layout errors are returned before the backend is called.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (r *Renderer) Render(ctx context.Context, req Request) (res *Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			res = nil
			err = fmt.Errorf("%w: internal error: %v", ErrPDFGeneration, p)
		}
	}()

	doc, warnings, err := r.Compose(req)
	if err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	drawCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	pdf, err := r.backend.Draw(drawCtx, doc)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		if errors.Is(err, ErrPDFGeneration) || errors.Is(err, ErrBrowserConnect) ||
			errors.Is(err, ErrPageCreate) || errors.Is(err, ErrPageLoad) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	return &Result{
		PDF:        pdf,
		Warnings:   warnings,
		Pages:      len(doc.Pages),
		DocumentID: doc.ID,
		Document:   doc,
	}, nil
}

// Compose builds the paginated document without drawing it.
func (r *Renderer) Compose(req Request) (*Document, []DataError, error) {
	if req.Settings == nil {
		return nil, nil, &ConfigurationError{Field: "settings", Reason: "is required"}
	}
	geom, err := req.Settings.Geometry()
	if err != nil {
		return nil, nil, err
	}
	style, err := req.Settings.Style()
	if err != nil {
		return nil, nil, err
	}
	if err := checkLayout(req, geom); err != nil {
		return nil, nil, err
	}

	c := &composer{
		req:    req,
		geom:   geom,
		style:  style,
		layout: req.Layout,
		md:     r.md,
		now:    r.now(),
	}

	var warnings []DataError
	for i := range req.Students {
		s := &req.Students[i]
		if derr := s.validate(i); derr != nil {
			r.log.WithFields(logrus.Fields{
				"index":       derr.Index,
				"register_no": derr.RegisterNo,
				"reason":      derr.Field + " " + derr.Reason,
			}).Warn("skipping student")
			warnings = append(warnings, *derr)
			continue
		}
		c.students = append(c.students, student{index: i, row: s})
	}
	if len(c.students) == 0 {
		return nil, warnings, fmt.Errorf("%w: %d of %d students skipped", ErrNoStudents, len(warnings), len(req.Students))
	}

	doc, err := c.compose()
	if err != nil {
		return nil, warnings, err
	}
	doc.ID, err = documentID(req)
	if err != nil {
		return nil, warnings, err
	}
	return doc, warnings, nil
}

// checkLayout verifies that the layout was resolved for this document.
func checkLayout(req Request, geom Geometry) error {
	if req.Layout == nil {
		return &LayoutError{Reason: "layout is required"}
	}
	want := CoursesAsColumns
	switch {
	case req.Kind == KindHallTicket:
		want = CoursesAsRows
	case req.Kind == KindSemesterMarksheet && req.Format == FormatGradeCard:
		want = CoursesAsRows
	case req.Kind != KindSemesterMarksheet:
		return fmt.Errorf("%w: %v", ErrUnknownKind, req.Kind)
	}
	if req.Layout.Mode() != want {
		return &LayoutError{Reason: fmt.Sprintf("%s document needs a %s layout, got %s", req.Kind, want, req.Layout.Mode())}
	}
	if d := req.Layout.TotalWidth() - geom.PrintableWidth(); d > WidthTolerance || d < -WidthTolerance {
		return &LayoutError{
			Reason:    "layout was resolved for a different printable width",
			Required:  req.Layout.TotalWidth(),
			Available: geom.PrintableWidth(),
		}
	}
	return nil
}

// documentID derives a stable identifier from the request inputs so that
// re-rendering the same inputs yields the same ID.
func documentID(req Request) (string, error) {
	canonical := struct {
		Kind     string                `yaml:"kind"`
		Format   string                `yaml:"format"`
		Info     DocumentInfo          `yaml:"info"`
		Settings *Settings             `yaml:"settings"`
		Courses  []CourseColumn        `yaml:"courses"`
		Students []StudentMarksheetRow `yaml:"students"`
	}{
		Kind:     req.Kind.String(),
		Format:   req.Format.String(),
		Info:     req.Info,
		Settings: req.Settings,
		Students: req.Students,
	}
	for _, pc := range req.Layout.Courses() {
		canonical.Courses = append(canonical.Courses, pc.Course)
	}
	data, err := yamlutil.Marshal(canonical)
	if err != nil {
		return "", fmt.Errorf("%w: encoding document identity: %v", ErrPDFGeneration, err)
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, data).String(), nil
}
