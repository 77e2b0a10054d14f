package marksheet

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/alnah/go-marksheet/internal/units"
)

// cellMargin is the horizontal padding inside table cells, in millimetres.
const cellMargin = 0.8

// FPDFBackend draws documents directly with fpdf using the core PDF fonts.
// Output is deterministic: the creation date comes from the document.
type FPDFBackend struct {
	creator string
}

// NewFPDFBackend creates the default backend.
func NewFPDFBackend() *FPDFBackend {
	return &FPDFBackend{creator: "go-marksheet"}
}

// Close is a no-op; the backend holds no resources between draws.
func (b *FPDFBackend) Close() error { return nil }

// Draw renders every page of doc.
func (b *FPDFBackend) Draw(ctx context.Context, doc *Document) ([]byte, error) {
	g := doc.Geometry
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: g.Width, Ht: g.Height},
	})
	pdf.SetCompression(true)
	pdf.SetCatalogSort(true)
	if !doc.Created.IsZero() {
		pdf.SetCreationDate(doc.Created)
		pdf.SetModificationDate(doc.Created)
	}
	pdf.SetTitle(doc.Title, true)
	pdf.SetSubject(doc.ID, false)
	pdf.SetCreator(b.creator, false)
	pdf.SetMargins(g.MarginLeft, g.MarginTop, g.MarginRight)
	pdf.SetAutoPageBreak(false, g.MarginBottom)
	pdf.SetCellMargin(cellMargin)

	d := &fpdfDrawer{
		pdf:    pdf,
		doc:    doc,
		style:  doc.Style,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		images: make(map[string]bool),
	}

	for _, pg := range doc.Pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pdf.AddPage()
		d.watermark()
		d.header(pg)
		for _, pl := range pg.Blocks {
			d.block(pl)
		}
		d.footer(pg)
		if pdf.Err() {
			return nil, fmt.Errorf("%w: page %d: %v", ErrPDFGeneration, pg.Number, pdf.Error())
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	return buf.Bytes(), nil
}

type fpdfDrawer struct {
	pdf    *fpdf.Fpdf
	doc    *Document
	style  Style
	tr     func(string) string
	images map[string]bool // name -> registered successfully
}

func (d *fpdfDrawer) font(size float64, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	d.pdf.SetFont(d.style.FontFamily, style, size)
}

func (d *fpdfDrawer) textColor(c RGB) { d.pdf.SetTextColor(c.R, c.G, c.B) }
func (d *fpdfDrawer) fillColor(c RGB) { d.pdf.SetFillColor(c.R, c.G, c.B) }
func (d *fpdfDrawer) drawColor(c RGB) { d.pdf.SetDrawColor(c.R, c.G, c.B) }

// fit shortens s with an ellipsis until it fits width with cell padding.
func (d *fpdfDrawer) fit(s string, width float64) string {
	t := d.tr(s)
	avail := width - 2*cellMargin
	if d.pdf.GetStringWidth(t) <= avail {
		return t
	}
	runes := []rune(s)
	for n := len(runes) - 1; n > 0; n-- {
		t = d.tr(strings.TrimSpace(string(runes[:n])) + "...")
		if d.pdf.GetStringWidth(t) <= avail {
			return t
		}
	}
	return ""
}

// wrap breaks s into lines no wider than width, on spaces.
func (d *fpdfDrawer) wrap(s string, width float64) []string {
	avail := width - 2*cellMargin
	var lines []string
	var cur string
	for _, w := range strings.Fields(s) {
		next := w
		if cur != "" {
			next = cur + " " + w
		}
		if cur != "" && d.pdf.GetStringWidth(d.tr(next)) > avail {
			lines = append(lines, cur)
			next = w
		}
		cur = next
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

func (d *fpdfDrawer) text(x, y, w, h float64, s string, align Align) {
	d.pdf.SetXY(x, y)
	d.pdf.CellFormat(w, h, d.fit(s, w), "", 0, string(align)+"M", false, 0, "")
}

// image registers data under name once and reports whether it can be drawn.
func (d *fpdfDrawer) image(name string, data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if ok, seen := d.images[name]; seen {
		return ok
	}
	typ := imageType(data)
	if typ == "" {
		d.images[name] = false
		return false
	}
	d.pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: typ, ReadDpi: true}, bytes.NewReader(data))
	ok := !d.pdf.Err()
	if !ok {
		d.pdf.ClearError()
	}
	d.images[name] = ok
	return ok
}

// imageType maps sniffed image content to an fpdf image type.
func imageType(data []byte) string {
	switch http.DetectContentType(data) {
	case "image/png":
		return "PNG"
	case "image/jpeg":
		return "JPG"
	case "image/gif":
		return "GIF"
	}
	return ""
}

func (d *fpdfDrawer) watermark() {
	if d.style.Watermark == "" {
		return
	}
	g := d.doc.Geometry
	cx, cy := g.Width/2, g.Height/2
	d.pdf.TransformBegin()
	d.pdf.SetAlpha(d.style.WatermarkOpacity, "Normal")
	d.font(60, true)
	d.textColor(ColorPlacehold)
	d.pdf.TransformRotate(45, cx, cy)
	t := d.tr(d.style.Watermark)
	w := d.pdf.GetStringWidth(t)
	d.pdf.Text(cx-w/2, cy, t)
	d.pdf.TransformEnd()
	d.pdf.SetAlpha(1, "Normal")
}

func (d *fpdfDrawer) header(pg *Page) {
	g := d.doc.Geometry
	width := g.PrintableWidth()
	var h float64
	for _, l := range pg.Header {
		h += l.Height
	}
	if d.style.HeaderHeight > 0 {
		h = math.Min(h, d.style.HeaderHeight-bandGap)
	}
	if bg := d.style.HeaderBackground; bg != nil && h > 0 {
		d.fillColor(*bg)
		d.pdf.Rect(g.MarginLeft, g.MarginTop, width, h, "F")
	}

	if logo := d.style.Logo; logo != nil && d.image("logo", logo.Data) {
		x := g.MarginLeft
		switch d.style.LogoAlign {
		case AlignCenter:
			x = g.MarginLeft + (width-logo.Width)/2
		case AlignRight:
			x = g.Width - g.MarginRight - logo.Width
		}
		d.pdf.ImageOptions("logo", x, g.MarginTop, logo.Width, logo.Height, false, fpdf.ImageOptions{}, 0, "")
		if sec := d.style.SecondaryLogo; sec != nil && d.style.LogoAlign == AlignLeft && d.image("logo-secondary", sec.Data) {
			d.pdf.ImageOptions("logo-secondary", g.Width-g.MarginRight-sec.Width, g.MarginTop, sec.Width, sec.Height, false, fpdf.ImageOptions{}, 0, "")
		}
	}

	y := g.MarginTop
	for _, l := range pg.Header {
		if y+l.Height > g.MarginTop+h+fitEpsilon {
			break
		}
		d.font(l.Size, l.Bold)
		d.textColor(l.Color)
		d.text(g.MarginLeft, y, width, l.Height, l.Text, l.Align)
		y += l.Height
	}
	if h > 0 {
		d.drawColor(d.style.Border)
		d.pdf.SetLineWidth(0.3)
		d.pdf.Line(g.MarginLeft, g.MarginTop+h+bandGap/2, g.Width-g.MarginRight, g.MarginTop+h+bandGap/2)
	}
}

func (d *fpdfDrawer) footer(pg *Page) {
	g := d.doc.Geometry
	var h float64
	for _, l := range pg.Footer {
		h += l.Height
	}
	if h == 0 {
		return
	}
	y := g.Height - g.MarginBottom - h
	if bg := d.style.FooterBackground; bg != nil {
		d.fillColor(*bg)
		d.pdf.Rect(g.MarginLeft, y, g.PrintableWidth(), h, "F")
	}
	for _, l := range pg.Footer {
		d.font(l.Size, l.Bold)
		d.textColor(l.Color)
		d.text(g.MarginLeft, y, g.PrintableWidth(), l.Height, l.Text, l.Align)
		y += l.Height
	}
}

func (d *fpdfDrawer) block(pl Placed) {
	d.drawColor(d.style.Border)
	d.pdf.SetLineWidth(0.2)
	d.textColor(ColorBlack)
	switch b := pl.Block.(type) {
	case *TextBlock:
		d.textBlock(pl, b)
	case *InfoBlock:
		d.infoBlock(pl, b)
	case *TableBlock:
		d.tableBlock(pl, b)
	case *SummaryBlock:
		d.summaryBlock(pl, b)
	case *SignatureBlock:
		d.signatureBlock(pl, b)
	case *NoteBlock:
		d.noteBlock(pl, b)
	}
}

func (d *fpdfDrawer) textBlock(pl Placed, b *TextBlock) {
	y := pl.Y
	for _, l := range b.Lines {
		d.font(l.Size, l.Bold)
		d.textColor(l.Color)
		d.text(pl.X, y, pl.Width, l.Height, l.Text, l.Align)
		y += l.Height
	}
}

func (d *fpdfDrawer) infoBlock(pl Placed, b *InfoBlock) {
	width := pl.Width
	if b.Photo != nil {
		width -= b.Photo.Width + blockGap
		d.photo(pl.X+pl.Width-b.Photo.Width, pl.Y, b)
	}

	widths := b.ColumnWidths
	if len(widths) == 0 {
		widths = []float64{width * 0.25, width * 0.25, width * 0.25, width * 0.25}
	}
	y := pl.Y
	for _, row := range b.Rows {
		x := pl.X
		for i, f := range row {
			lw, vw := widths[(2*i)%len(widths)], widths[(2*i+1)%len(widths)]
			if i == len(row)-1 {
				vw = pl.X + width - x - lw
			}
			d.font(b.FontSize, true)
			d.pdf.SetXY(x, y)
			d.pdf.CellFormat(lw, b.RowHeight, d.fit(f.Label, lw), "1", 0, "LM", false, 0, "")
			d.font(b.FontSize, false)
			d.pdf.CellFormat(vw, b.RowHeight, d.fit(f.Value, vw), "1", 0, "LM", false, 0, "")
			x += lw + vw
		}
		y += b.RowHeight
	}
}

func (d *fpdfDrawer) photo(x, y float64, b *InfoBlock) {
	p := b.Photo
	name := "photo-" + strconv.Itoa(b.Student)
	if d.image(name, p.Image) {
		d.pdf.ImageOptions(name, x, y, p.Width, p.Height, false, fpdf.ImageOptions{}, 0, "")
		return
	}
	d.pdf.Rect(x, y, p.Width, p.Height, "D")
	d.font(b.FontSize, false)
	d.textColor(ColorPlacehold)
	d.text(x, y, p.Width, p.Height, "PHOTO", AlignCenter)
	d.textColor(ColorBlack)
}

func (d *fpdfDrawer) tableBlock(pl Placed, b *TableBlock) {
	d.font(b.FontSize, true)
	for _, hc := range b.Header {
		x, y := pl.X+hc.X, pl.Y+hc.Y
		if hc.Fill != nil {
			d.fillColor(*hc.Fill)
			d.pdf.Rect(x, y, hc.Width, hc.Height, "FD")
		} else {
			d.pdf.Rect(x, y, hc.Width, hc.Height, "D")
		}
		d.textColor(hc.Color)
		d.wrapped(x, y, hc.Width, hc.Height, hc.Text, AlignCenter, b.FontSize)
	}

	y := pl.Y + b.HeaderHeight
	for _, row := range b.Rows {
		for i, col := range b.Columns {
			x := pl.X + col.X
			d.pdf.Rect(x, y, col.Width, row.Height, "D")
			if i >= len(row.Cells) {
				continue
			}
			cell := row.Cells[i]
			d.font(b.FontSize, cell.Bold)
			d.textColor(cell.Color)
			align := cell.Align
			if align == "" {
				align = col.Align
			}
			d.wrapped(x, y, col.Width, row.Height, cell.Text, align, b.FontSize)
		}
		y += row.Height
	}
	d.textColor(ColorBlack)
}

// wrapped draws text inside a cell, wrapping when the cell is tall enough
// and centering the lines vertically.
func (d *fpdfDrawer) wrapped(x, y, w, h float64, s string, align Align, size float64) {
	if s == "" {
		return
	}
	lh := units.PtToMM(size) * 1.2
	maxLines := int(h / lh)
	if maxLines <= 1 {
		d.text(x, y, w, h, s, align)
		return
	}
	lines := d.wrap(s, w)
	if len(lines) > maxLines {
		lines = append(lines[:maxLines-1], strings.Join(lines[maxLines-1:], " "))
	}
	top := y + (h-float64(len(lines))*lh)/2
	for i, l := range lines {
		d.text(x, top+float64(i)*lh, w, lh, l, align)
	}
}

func (d *fpdfDrawer) summaryBlock(pl Placed, b *SummaryBlock) {
	y := pl.Y
	h := b.RowHeight
	if b.Title != "" {
		d.font(b.FontSize, true)
		d.fillColor(ColorHeaderBg)
		d.pdf.SetXY(pl.X, y)
		d.pdf.CellFormat(pl.Width, h, d.fit(b.Title, pl.Width), "1", 0, "CM", true, 0, "")
		y += h
	}

	for _, part := range b.Parts {
		d.font(b.FontSize, false)
		d.pdf.SetXY(pl.X, y)
		third := pl.Width / 3
		d.pdf.CellFormat(third, h, d.fit("PART "+part.Part, third), "1", 0, "LM", false, 0, "")
		d.pdf.CellFormat(third, h, d.fit("Credits Earned: "+formatMax(part.CreditsEarned), third), "1", 0, "LM", false, 0, "")
		d.pdf.CellFormat(pl.Width-2*third, h, d.fit("GPA: "+formatGPA(part.GPA), third), "1", 0, "LM", false, 0, "")
		y += h
	}

	if n := len(b.Fields); n > 0 {
		w := pl.Width / float64(n)
		x := pl.X
		for i, f := range b.Fields {
			if i == n-1 {
				w = pl.X + pl.Width - x
			}
			d.font(b.FontSize, true)
			d.textColor(ColorBlack)
			if strings.EqualFold(f.Label, "RESULT") {
				d.textColor(resultColor(f.Value))
			}
			d.pdf.SetXY(x, y)
			d.pdf.CellFormat(w, h, d.fit(f.Label+": "+f.Value, w), "1", 0, "CM", false, 0, "")
			x += w
		}
		d.textColor(ColorBlack)
	}
	y += h

	if b.Note != "" {
		d.font(b.FontSize-1, false)
		d.pdf.SetXY(pl.X, y)
		d.pdf.CellFormat(pl.Width, h, d.fit(b.Note, pl.Width), "", 0, "LM", false, 0, "")
	}
}

func (d *fpdfDrawer) signatureBlock(pl Placed, b *SignatureBlock) {
	n := len(b.Labels)
	if n == 0 {
		return
	}
	slot := pl.Width / float64(n)
	lineY := pl.Y + b.Gap
	d.font(b.FontSize, false)
	for i, label := range b.Labels {
		cx := pl.X + slot*float64(i) + slot/2
		d.pdf.Line(cx-b.LineWidth/2, lineY, cx+b.LineWidth/2, lineY)
		d.text(pl.X+slot*float64(i), lineY+0.5, slot, 5, label, AlignCenter)
	}
}

func (d *fpdfDrawer) noteBlock(pl Placed, b *NoteBlock) {
	g := d.doc.Geometry
	d.pdf.SetLeftMargin(pl.X)
	d.pdf.SetRightMargin(g.Width - pl.X - pl.Width)
	d.pdf.SetXY(pl.X, pl.Y)
	d.textColor(ColorBlack)

	for _, para := range b.Paragraphs {
		d.pdf.SetX(pl.X)
		if para.Bullet != "" {
			d.font(b.FontSize, false)
			d.pdf.Write(b.LineHeight, d.tr(para.Bullet+" "))
		}
		for _, run := range para.Runs {
			style := ""
			if run.Bold || para.Heading {
				style += "B"
			}
			if run.Italic {
				style += "I"
			}
			d.pdf.SetFont(d.style.FontFamily, style, b.FontSize)
			d.pdf.Write(b.LineHeight, d.tr(run.Text))
		}
		d.pdf.Ln(b.LineHeight)
	}

	d.pdf.SetLeftMargin(g.MarginLeft)
	d.pdf.SetRightMargin(g.MarginRight)
}
