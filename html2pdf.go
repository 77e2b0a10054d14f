package marksheet

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-marksheet/internal/assets"
	"github.com/alnah/go-marksheet/internal/fileutil"
	"github.com/alnah/go-marksheet/internal/hints"
	"github.com/alnah/go-marksheet/internal/process"
	"github.com/alnah/go-marksheet/internal/richtext"
	"github.com/alnah/go-marksheet/internal/units"
)

// DefaultBrowserTimeout bounds page load and printing when the context
// carries no deadline.
const DefaultBrowserTimeout = 30 * time.Second

// BrowserBackend prints documents through headless Chrome via go-rod.
// Rod downloads Chromium on first use if no browser is found. It renders
// the same page geometry as FPDFBackend, with CSS typography and full
// Unicode text.
type BrowserBackend struct {
	timeout time.Duration
	tmpl    *template.Template
	css     string
	md      *richtext.Markdown

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
}

// BrowserOption configures a BrowserBackend.
type BrowserOption func(*browserConfig)

type browserConfig struct {
	timeout   time.Duration
	assetPath string
	style     string
}

// WithBrowserTimeout sets the page load timeout.
func WithBrowserTimeout(d time.Duration) BrowserOption {
	return func(c *browserConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithAssetPath loads styles and the page template from dir, falling back
// to the embedded assets for anything missing there.
func WithAssetPath(dir string) BrowserOption {
	return func(c *browserConfig) { c.assetPath = dir }
}

// WithStyle layers a named style over the base stylesheet.
func WithStyle(name string) BrowserOption {
	return func(c *browserConfig) { c.style = name }
}

// NewBrowserBackend loads the stylesheet and page template. The browser
// itself is started on the first Draw.
func NewBrowserBackend(opts ...BrowserOption) (*BrowserBackend, error) {
	cfg := browserConfig{timeout: DefaultBrowserTimeout, style: assets.DefaultStyleName}
	for _, opt := range opts {
		opt(&cfg)
	}

	resolver, err := assets.NewAssetResolver(cfg.assetPath)
	if err != nil {
		return nil, fmt.Errorf("asset path: %w", err)
	}
	css, err := resolver.Stylesheet(cfg.style)
	if err != nil {
		if errors.Is(err, assets.ErrStyleNotFound) {
			return nil, fmt.Errorf("%w%s", err, hints.ForStyleNotFound(resolver.Names(assets.KindStyle)))
		}
		return nil, err
	}

	src, err := resolver.LoadTemplate(assets.DocumentTemplateName)
	if err != nil {
		return nil, fmt.Errorf("loading template: %w", err)
	}
	tmpl, err := template.New(assets.DocumentTemplateName).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing template: %v", ErrHTMLRender, err)
	}

	return &BrowserBackend{
		timeout: cfg.timeout,
		tmpl:    tmpl,
		css:     css,
		md:      richtext.NewMarkdown(),
	}, nil
}

// HTML renders doc as a standalone HTML page, one section per page.
func (b *BrowserBackend) HTML(doc *Document) (string, error) {
	var buf bytes.Buffer
	if err := b.tmpl.Execute(&buf, newHTMLView(doc, b.css, b.md)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLRender, err)
	}
	return buf.String(), nil
}

// Draw renders doc to HTML and prints it to PDF.
func (b *BrowserBackend) Draw(ctx context.Context, doc *Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := b.HTML(doc)
	if err != nil {
		return nil, err
	}
	path, cleanup, err := fileutil.WriteTemp([]byte(content), "html")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHTMLRender, err)
	}
	defer cleanup()

	browser, err := b.ensureBrowser()
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "file://" + path})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	timeout := b.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}
	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.Timeout(timeout).PDF(printOptions(doc.Geometry))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	pdf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdf, nil
}

// printOptions sizes the paper to the document. Page margins are already
// part of the box positions.
func printOptions(g Geometry) *proto.PagePrintToPDF {
	zero := 0.0
	w, h := units.MMToInches(g.Width), units.MMToInches(g.Height)
	return &proto.PagePrintToPDF{
		PaperWidth:        &w,
		PaperHeight:       &h,
		MarginTop:         &zero,
		MarginBottom:      &zero,
		MarginLeft:        &zero,
		MarginRight:       &zero,
		PrintBackground:   true,
		PreferCSSPageSize: true,
	}
}

// ensureBrowser lazily launches and connects to the browser.
func (b *BrowserBackend) ensureBrowser() (*rod.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.browser != nil {
		return b.browser, nil
	}

	l := launcher.New()

	bin := os.Getenv("ROD_BROWSER_BIN")
	if bin != "" {
		l = l.Bin(bin)
	}
	// Chrome's sandbox cannot start in most containers and CI runners.
	if bin != "" || os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("CI") == "true" {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		l.Kill()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	b.launcher = l
	b.browser = browser
	return browser, nil
}

// Close shuts the browser down and kills any orphaned child processes.
func (b *BrowserBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var errs []error
	if b.browser != nil {
		errs = append(errs, b.browser.Close())
		b.browser = nil
	}
	if b.launcher != nil {
		if pid := b.launcher.PID(); pid > 0 {
			errs = append(errs, process.KillTree(pid))
		}
		b.launcher.Kill()
		b.launcher.Cleanup()
		b.launcher = nil
	}
	return errors.Join(errs...)
}
