package marksheet

import (
	"encoding/base64"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/alnah/go-marksheet/internal/richtext"
)

// htmlView is the data passed to the document template.
type htmlView struct {
	Title          string
	CSS            template.CSS
	PageCSS        template.CSS
	Watermark      string
	WatermarkStyle template.CSS
	Pages          []htmlPage
}

type htmlPage struct {
	Number int
	Boxes  []htmlBox
}

// htmlBox is an absolutely positioned element. Exactly one of Image, HTML
// and Text is rendered.
type htmlBox struct {
	Class string
	Style template.CSS
	Text  string
	Image template.URL
	HTML  template.HTML
}

// htmlBuilder lays out a document as positioned boxes using the same
// geometry as the fpdf backend.
type htmlBuilder struct {
	doc   *Document
	md    *richtext.Markdown
	boxes []htmlBox
}

func newHTMLView(doc *Document, css string, md *richtext.Markdown) htmlView {
	g := doc.Geometry
	st := doc.Style
	v := htmlView{
		Title: doc.Title,
		CSS:   template.CSS(css),
		PageCSS: template.CSS(fmt.Sprintf(
			"@page{size:%smm %smm;margin:0}.page{width:%smm;height:%smm;font-family:%s;font-size:%spt;--border:%s}",
			mm(g.Width), mm(g.Height), mm(g.Width), mm(g.Height),
			cssFontFamily(st.CSSFontFamily), mm(st.BodySize), cssColor(st.Border),
		)),
		Watermark: st.Watermark,
	}
	if st.Watermark != "" {
		v.WatermarkStyle = template.CSS("opacity:" + strconv.FormatFloat(st.WatermarkOpacity, 'f', 2, 64))
	}

	for _, pg := range doc.Pages {
		b := &htmlBuilder{doc: doc, md: md}
		b.header(pg)
		for _, pl := range pg.Blocks {
			b.block(pl)
		}
		b.footer(pg)
		v.Pages = append(v.Pages, htmlPage{Number: pg.Number, Boxes: b.boxes})
	}
	return v
}

func mm(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func cssColor(c RGB) string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

// cssFontFamily quotes a configured family and falls back to sans-serif.
func cssFontFamily(family string) string {
	family = strings.Map(func(r rune) rune {
		switch r {
		case '"', '\'', ';', '{', '}', '<', '>', '\\':
			return -1
		}
		return r
	}, family)
	if strings.TrimSpace(family) == "" {
		return "sans-serif"
	}
	return `"` + family + `",sans-serif`
}

func justify(a Align) string {
	switch a {
	case AlignCenter:
		return "justify-content:center;text-align:center;"
	case AlignRight:
		return "justify-content:flex-end;text-align:right;"
	}
	return "justify-content:flex-start;text-align:left;"
}

// dataURI embeds image bytes, or returns "" for unsupported formats.
func dataURI(data []byte) template.URL {
	if len(data) == 0 || imageType(data) == "" {
		return ""
	}
	return template.URL("data:" + http.DetectContentType(data) + ";base64," + base64.StdEncoding.EncodeToString(data))
}

// add appends a box at x, y sized w by h millimetres.
func (b *htmlBuilder) add(class string, x, y, w, h float64, style string) *htmlBox {
	b.boxes = append(b.boxes, htmlBox{
		Class: class,
		Style: template.CSS(fmt.Sprintf("left:%smm;top:%smm;width:%smm;height:%smm;%s", mm(x), mm(y), mm(w), mm(h), style)),
	})
	return &b.boxes[len(b.boxes)-1]
}

func textStyle(size float64, bold bool, color RGB, align Align) string {
	weight := "normal"
	if bold {
		weight = "bold"
	}
	return fmt.Sprintf("font-size:%spt;font-weight:%s;color:%s;%s", mm(size), weight, cssColor(color), justify(align))
}

func (b *htmlBuilder) line(x, y, w float64, l TextLine) {
	b.add("", x, y, w, l.Height, textStyle(l.Size, l.Bold, l.Color, l.Align)).Text = l.Text
}

func (b *htmlBuilder) header(pg *Page) {
	g := b.doc.Geometry
	st := b.doc.Style
	width := g.PrintableWidth()
	var h float64
	for _, l := range pg.Header {
		h += l.Height
	}
	if st.HeaderHeight > 0 {
		h = min(h, st.HeaderHeight-bandGap)
	}
	if bg := st.HeaderBackground; bg != nil && h > 0 {
		b.add("", g.MarginLeft, g.MarginTop, width, h, "background:"+cssColor(*bg)+";")
	}

	if logo := st.Logo; logo != nil {
		if src := dataURI(logo.Data); src != "" {
			x := g.MarginLeft
			switch st.LogoAlign {
			case AlignCenter:
				x = g.MarginLeft + (width-logo.Width)/2
			case AlignRight:
				x = g.Width - g.MarginRight - logo.Width
			}
			b.add("logo", x, g.MarginTop, logo.Width, logo.Height, "").Image = src
			if sec := st.SecondaryLogo; sec != nil && st.LogoAlign == AlignLeft {
				if src := dataURI(sec.Data); src != "" {
					b.add("logo", g.Width-g.MarginRight-sec.Width, g.MarginTop, sec.Width, sec.Height, "").Image = src
				}
			}
		}
	}

	lines := pg.Header
	y := g.MarginTop
	if strings.TrimSpace(pg.HeaderHTML) != "" {
		// The rich institution header replaces its plain-text lines; the
		// document title lines still follow it.
		n := min(len(richtext.HTMLToLines(pg.HeaderHTML)), len(lines))
		var band float64
		for _, l := range lines[:n] {
			band += l.Height
		}
		if band > 0 {
			b.add("html", g.MarginLeft, y, width, band, "color:"+cssColor(st.Primary)+";").HTML = template.HTML(pg.HeaderHTML)
		}
		lines, y = lines[n:], y+band
	}
	for _, l := range lines {
		if y+l.Height > g.MarginTop+h+fitEpsilon {
			break
		}
		b.line(g.MarginLeft, y, width, l)
		y += l.Height
	}
	if h > 0 {
		b.add("rule", g.MarginLeft, g.MarginTop+h+bandGap/2, width, 0, "")
	}
}

func (b *htmlBuilder) footer(pg *Page) {
	g := b.doc.Geometry
	st := b.doc.Style
	var h float64
	for _, l := range pg.Footer {
		h += l.Height
	}
	if h == 0 {
		return
	}
	y := g.Height - g.MarginBottom - h
	if bg := st.FooterBackground; bg != nil {
		b.add("", g.MarginLeft, y, g.PrintableWidth(), h, "background:"+cssColor(*bg)+";")
	}
	for _, l := range pg.Footer {
		b.line(g.MarginLeft, y, g.PrintableWidth(), l)
		y += l.Height
	}
}

func (b *htmlBuilder) block(pl Placed) {
	switch bl := pl.Block.(type) {
	case *TextBlock:
		y := pl.Y
		for _, l := range bl.Lines {
			b.line(pl.X, y, pl.Width, l)
			y += l.Height
		}
	case *InfoBlock:
		b.infoBlock(pl, bl)
	case *TableBlock:
		b.tableBlock(pl, bl)
	case *SummaryBlock:
		b.summaryBlock(pl, bl)
	case *SignatureBlock:
		b.signatureBlock(pl, bl)
	case *NoteBlock:
		b.noteBlock(pl, bl)
	}
}

func (b *htmlBuilder) infoBlock(pl Placed, ib *InfoBlock) {
	width := pl.Width
	if p := ib.Photo; p != nil {
		width -= p.Width + blockGap
		box := b.add("photo", pl.X+pl.Width-p.Width, pl.Y, p.Width, p.Height, "font-size:"+mm(ib.FontSize)+"pt;")
		if src := dataURI(p.Image); src != "" {
			box.Image = src
		} else {
			box.Text = "PHOTO"
		}
	}

	widths := ib.ColumnWidths
	if len(widths) == 0 {
		widths = []float64{width * 0.25, width * 0.25, width * 0.25, width * 0.25}
	}
	y := pl.Y
	for _, row := range ib.Rows {
		x := pl.X
		for i, f := range row {
			lw, vw := widths[(2*i)%len(widths)], widths[(2*i+1)%len(widths)]
			if i == len(row)-1 {
				vw = pl.X + width - x - lw
			}
			b.add("label", x, y, lw, ib.RowHeight, textStyle(ib.FontSize, true, ColorBlack, AlignLeft)).Text = f.Label
			b.add("value", x+lw, y, vw, ib.RowHeight, textStyle(ib.FontSize, false, ColorBlack, AlignLeft)).Text = f.Value
			x += lw + vw
		}
		y += ib.RowHeight
	}
}

func (b *htmlBuilder) tableBlock(pl Placed, t *TableBlock) {
	for _, hc := range t.Header {
		style := textStyle(t.FontSize, true, hc.Color, AlignCenter)
		if hc.Fill != nil {
			style += "background:" + cssColor(*hc.Fill) + ";"
		}
		b.add("head", pl.X+hc.X, pl.Y+hc.Y, hc.Width, hc.Height, style).Text = hc.Text
	}

	y := pl.Y + t.HeaderHeight
	lh := lineHeight(t.FontSize)
	for _, row := range t.Rows {
		class := "cell"
		if row.Height >= 2*lh {
			class = "cell wrap"
		}
		for i, col := range t.Columns {
			var cell Cell
			if i < len(row.Cells) {
				cell = row.Cells[i]
			}
			align := cell.Align
			if align == "" {
				align = col.Align
			}
			b.add(class, pl.X+col.X, y, col.Width, row.Height, textStyle(t.FontSize, cell.Bold, cell.Color, align)).Text = cell.Text
		}
		y += row.Height
	}
}

func (b *htmlBuilder) summaryBlock(pl Placed, sb *SummaryBlock) {
	y := pl.Y
	h := sb.RowHeight
	if sb.Title != "" {
		b.add("head", pl.X, y, pl.Width, h, textStyle(sb.FontSize, true, ColorBlack, AlignCenter)+"background:"+cssColor(ColorHeaderBg)+";").Text = sb.Title
		y += h
	}

	third := pl.Width / 3
	for _, part := range sb.Parts {
		style := textStyle(sb.FontSize, false, ColorBlack, AlignLeft)
		b.add("cell", pl.X, y, third, h, style).Text = "PART " + part.Part
		b.add("cell", pl.X+third, y, third, h, style).Text = "Credits Earned: " + formatMax(part.CreditsEarned)
		b.add("cell", pl.X+2*third, y, pl.Width-2*third, h, style).Text = "GPA: " + formatGPA(part.GPA)
		y += h
	}

	if n := len(sb.Fields); n > 0 {
		w := pl.Width / float64(n)
		x := pl.X
		for i, f := range sb.Fields {
			if i == n-1 {
				w = pl.X + pl.Width - x
			}
			color := ColorBlack
			if strings.EqualFold(f.Label, "RESULT") {
				color = resultColor(f.Value)
			}
			b.add("cell", x, y, w, h, textStyle(sb.FontSize, true, color, AlignCenter)).Text = f.Label + ": " + f.Value
			x += w
		}
	}
	y += h

	if sb.Note != "" {
		b.add("", pl.X, y, pl.Width, h, textStyle(sb.FontSize-1, false, ColorBlack, AlignLeft)).Text = sb.Note
	}
}

func (b *htmlBuilder) signatureBlock(pl Placed, sg *SignatureBlock) {
	n := len(sg.Labels)
	if n == 0 {
		return
	}
	slot := pl.Width / float64(n)
	for i, label := range sg.Labels {
		cx := pl.X + slot*float64(i) + slot/2
		b.add("signature", cx-sg.LineWidth/2, pl.Y+sg.Gap, sg.LineWidth, 5, textStyle(sg.FontSize, false, ColorBlack, AlignCenter)).Text = label
	}
}

func (b *htmlBuilder) noteBlock(pl Placed, nb *NoteBlock) {
	style := fmt.Sprintf("font-size:%spt;line-height:%smm;", mm(nb.FontSize), mm(nb.LineHeight))
	box := b.add("note", pl.X, pl.Y, pl.Width, nb.Height(), style)
	if b.md != nil {
		if out, err := b.md.HTML(nb.Markdown); err == nil {
			box.HTML = template.HTML(out)
			return
		}
	}
	var plain []string
	for _, p := range nb.Paragraphs {
		plain = append(plain, p.Plain())
	}
	box.Text = strings.Join(plain, "\n")
}
