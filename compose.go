package marksheet

import (
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-marksheet/internal/dateutil"
	"github.com/alnah/go-marksheet/internal/richtext"
	"github.com/alnah/go-marksheet/internal/units"
)

// Spacing between stacked blocks, in millimetres.
const (
	blockGap    = 3.0
	bandGap     = 2.0
	lineSpacing = 1.35
)

// student is an accepted row with its position in the batch.
type student struct {
	index int
	row   *StudentMarksheetRow
}

// composer builds the document for one request.
type composer struct {
	req      Request
	geom     Geometry
	style    Style
	layout   *HeaderStructure
	md       *richtext.Markdown
	now      time.Time
	students []student

	monthYear string
	generated string
}

func (c *composer) compose() (*Document, error) {
	c.monthYear = c.resolveDate(c.req.Info.MonthYear, dateutil.SessionFormat)
	c.generated = c.resolveDate("auto", dateutil.StampFormat)

	doc := &Document{
		Kind:     c.req.Kind,
		Format:   c.req.Format,
		Title:    c.title(),
		Created:  c.now,
		Geometry: c.geom,
		Style:    c.style,
	}

	header := append(c.institutionLines(), c.titleLines()...)
	footer := c.footerLines()
	p := newPaginator(c.geom, c.headerHeight(header), c.footerHeight(footer))

	var err error
	switch {
	case c.req.Kind == KindHallTicket:
		doc.Sections, err = c.hallTickets(p)
	case c.req.Format == FormatGradeCard:
		doc.Sections, err = c.gradeCards(p)
	default:
		doc.Sections, err = c.ledger(p)
	}
	if err != nil {
		return nil, err
	}

	doc.Pages = p.pages
	c.finishPages(doc.Pages, header, footer)
	return doc, nil
}

func (c *composer) title() string {
	if c.req.Info.Title != "" {
		return c.req.Info.Title
	}
	switch {
	case c.req.Kind == KindHallTicket:
		return "HALL TICKET"
	case c.req.Format == FormatGradeCard:
		return "GRADE CARD"
	}
	return "MARKSHEET"
}

// resolveDate expands "auto" date values against the render clock, using
// fallback for a bare "auto". Other values pass through.
func (c *composer) resolveDate(v, fallback string) string {
	out, err := dateutil.Resolve(v, c.now, fallback)
	if err != nil {
		return v
	}
	return out
}

// lineHeight is the height of a text line at size points.
func lineHeight(size float64) float64 {
	return units.PtToMM(size) * lineSpacing
}

func (c *composer) line(text string, size float64, bold bool) TextLine {
	return TextLine{
		Text:   text,
		Size:   size,
		Bold:   bold,
		Align:  AlignCenter,
		Color:  c.style.Primary,
		Height: lineHeight(size),
	}
}

// institutionLines returns the header lines naming the institution. Rich
// header content from the settings replaces the plain fields.
func (c *composer) institutionLines() []TextLine {
	s := c.req.Settings
	var lines []TextLine
	if strings.TrimSpace(s.HeaderHTML) != "" {
		for _, hl := range richtext.HTMLToLines(s.HeaderHTML) {
			size := c.style.BodySize
			switch {
			case hl.Heading == 1:
				size = c.style.HeadingSize
			case hl.Heading > 1:
				size = c.style.SubheadingSize
			}
			lines = append(lines, c.line(hl.Text, size, hl.Bold))
		}
		return lines
	}

	if s.InstitutionName != "" {
		lines = append(lines, c.line(s.InstitutionName, c.style.HeadingSize, true))
	}
	if s.Affiliation != "" {
		lines = append(lines, c.line(s.Affiliation, c.style.BodySize-1, false))
	}
	if s.Address != "" {
		lines = append(lines, c.line(s.Address, c.style.BodySize-1, false))
	}
	if s.AccreditationText != "" {
		lines = append(lines, c.line(s.AccreditationText, c.style.BodySize-2, false))
	}
	return lines
}

// titleLines returns the document-specific header lines.
func (c *composer) titleLines() []TextLine {
	info := c.req.Info
	sub := c.style.SubheadingSize
	var lines []TextLine

	switch {
	case c.req.Kind == KindHallTicket:
		exam := info.ExamName
		if exam == "" {
			exam = "END SEMESTER EXAMINATIONS"
		}
		if c.monthYear != "" {
			exam += " - " + c.monthYear
		}
		lines = append(lines, c.line(strings.ToUpper(exam), sub, true))

	case c.req.Format == FormatGradeCard:
		lines = append(lines, c.line(c.title(), sub, true))
		if c.monthYear != "" {
			lines = append(lines, c.line("EXAMINATION "+strings.ToUpper(c.monthYear), c.style.BodySize, false))
		}

	default:
		exam := "END SEMESTER EXAMINATIONS"
		if c.monthYear != "" {
			exam += " - " + strings.ToUpper(c.monthYear)
		}
		lines = append(lines, c.line(exam, sub, true))
		if info.Session != "" {
			lines = append(lines, c.line("Session: "+info.Session, c.style.BodySize-1, false))
		}
		var parts []string
		if info.Program != "" {
			parts = append(parts, "Program: "+info.Program)
		}
		if info.Semester > 0 {
			parts = append(parts, "Semester: "+Roman(info.Semester))
		}
		if info.Batch != "" {
			parts = append(parts, "Batch: "+info.Batch)
		}
		if len(parts) > 0 {
			lines = append(lines, c.line(strings.Join(parts, "   |   "), c.style.BodySize-1, false))
		}
		lines = append(lines, c.line(c.title(), sub, true))
	}
	return lines
}

func (c *composer) footerLines() []TextLine {
	size := c.style.BodySize - 2
	var lines []TextLine
	for _, hl := range richtext.HTMLToLines(c.req.Settings.FooterHTML) {
		lines = append(lines, TextLine{
			Text: hl.Text, Size: size, Bold: hl.Bold, Align: AlignCenter,
			Color: c.style.Secondary, Height: lineHeight(size),
		})
	}
	if c.style.PageNumbering {
		lines = append(lines, TextLine{
			Text: "{{page_number_text}}", Size: size, Align: c.style.PageNumberAlign,
			Color: c.style.Secondary, Height: lineHeight(size),
		})
	}
	return lines
}

func (c *composer) headerHeight(lines []TextLine) float64 {
	if c.style.HeaderHeight > 0 {
		return c.style.HeaderHeight
	}
	var h float64
	for _, l := range lines {
		h += l.Height
	}
	if c.style.Logo != nil && c.style.Logo.Height > h {
		h = c.style.Logo.Height
	}
	if h == 0 {
		return 0
	}
	return h + bandGap
}

func (c *composer) footerHeight(lines []TextLine) float64 {
	if c.style.FooterHeight > 0 {
		return c.style.FooterHeight
	}
	var h float64
	for _, l := range lines {
		h += l.Height
	}
	if h == 0 {
		return 0
	}
	return h + bandGap
}

// vars returns the placeholder values shared by every page.
func (c *composer) vars() map[string]string {
	s := c.req.Settings
	return map[string]string{
		"institution_name":   s.InstitutionName,
		"institution_code":   s.InstitutionCode,
		"address":            s.Address,
		"accreditation_text": s.AccreditationText,
		"exam_name":          c.req.Info.ExamName,
		"date":               c.monthYear,
		"generation_date":    c.generated,
		"logo_url":           s.LogoURL,
	}
}

// finishPages stamps the header and footer of every page, expanding
// placeholders with the page number.
func (c *composer) finishPages(pages []*Page, header, footer []TextLine) {
	total := len(pages)
	for _, pg := range pages {
		vars := c.vars()
		vars["page_number"] = strconv.Itoa(pg.Number)
		vars["total_pages"] = strconv.Itoa(total)
		vars["page_number_text"] = richtext.PageNumber(c.style.PageNumberFormat, pg.Number, total)

		pg.Header = expandLines(header, vars)
		pg.Footer = expandLines(footer, vars)
		pg.HeaderHTML = richtext.Expand(c.req.Settings.HeaderHTML, vars)
		pg.FooterHTML = richtext.Expand(c.req.Settings.FooterHTML, vars)
	}
}

func expandLines(lines []TextLine, vars map[string]string) []TextLine {
	out := make([]TextLine, len(lines))
	for i, l := range lines {
		l.Text = richtext.Expand(l.Text, vars)
		out[i] = l
	}
	return out
}

// signatures returns the signature block, or nil when disabled.
func (c *composer) signatures(labels []string) *SignatureBlock {
	if len(labels) == 0 {
		return nil
	}
	width := c.style.SignatureLineWidth
	if width <= 0 {
		width = DefaultSignatureLine
	}
	if slot := c.geom.PrintableWidth() / float64(len(labels)); width > slot-4 {
		width = slot - 4
	}
	return &SignatureBlock{
		Labels:    labels,
		LineWidth: width,
		Gap:       10,
		FontSize:  c.style.BodySize - 1,
	}
}

// note builds a formatted text block from markdown.
func (c *composer) note(markdown string, size float64) *NoteBlock {
	markdown = richtext.Expand(markdown, c.vars())
	paras := c.md.Paragraphs(markdown)
	if len(paras) == 0 {
		return nil
	}
	width := c.geom.PrintableWidth()
	lines := 0
	for _, p := range paras {
		lines += richtext.EstimateLines(p.Plain(), width-6, size)
	}
	return &NoteBlock{
		Paragraphs: paras,
		Markdown:   markdown,
		FontSize:   size,
		LineHeight: lineHeight(size),
		Lines:      lines,
	}
}

// Cell formatting.

func formatMark(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatMax(v float64) string {
	if v == 0 {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatGPA(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// resultColor colors pass results green and failures red.
func resultColor(result string) RGB {
	switch strings.ToUpper(strings.TrimSpace(result)) {
	case "PASS", "P":
		return ColorPass
	case "FAIL", "F", "RA", "U", "AAA", "A", "MALPRACTICE", "INELIGIBLE":
		return ColorFail
	}
	return ColorBlack
}

// shortResult abbreviates a result for the narrow RES sub-column.
func shortResult(result string) string {
	switch result {
	case "PASS":
		return "P"
	case "RA":
		return "F"
	case "AAA":
		return "A"
	case "WH":
		return "W"
	case "MALPRACTICE":
		return "M"
	case "INELIGIBLE":
		return "I"
	}
	return result
}

// headerFill is the background of fixed header cells.
var headerFill = ColorHeaderBg

func fixedHeaderCell(col Column, height float64) HeaderCell {
	fill := headerFill
	return HeaderCell{Text: col.Label, X: col.X, Width: col.Width, Height: height, Fill: &fill}
}
