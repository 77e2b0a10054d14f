package marksheet

import "fmt"

// fitEpsilon absorbs float noise when comparing heights.
const fitEpsilon = 1e-6

// paginator places blocks top to bottom between the header and footer
// bands. Blocks are never split; tables split between rows and repeat
// their header on every page.
type paginator struct {
	geom   Geometry
	top    float64
	bottom float64
	pages  []*Page
	cur    *Page
	y      float64
}

func newPaginator(geom Geometry, headerHeight, footerHeight float64) *paginator {
	return &paginator{
		geom:   geom,
		top:    geom.MarginTop + headerHeight,
		bottom: geom.Height - geom.MarginBottom - footerHeight,
	}
}

// contentHeight is the usable height of a page.
func (p *paginator) contentHeight() float64 {
	return p.bottom - p.top
}

func (p *paginator) newPage() {
	p.cur = &Page{Number: len(p.pages) + 1}
	p.pages = append(p.pages, p.cur)
	p.y = p.top
}

func (p *paginator) ensurePage() {
	if p.cur == nil {
		p.newPage()
	}
}

func (p *paginator) empty() bool {
	return p.cur == nil || len(p.cur.Blocks) == 0
}

func (p *paginator) remaining() float64 {
	return p.bottom - p.y
}

// breakPage makes the next block start on a fresh page.
func (p *paginator) breakPage() {
	if !p.empty() {
		p.cur = nil
	}
}

func (p *paginator) put(b Block) {
	p.cur.Blocks = append(p.cur.Blocks, Placed{
		X:     p.geom.MarginLeft,
		Y:     p.y,
		Width: p.geom.PrintableWidth(),
		Block: b,
	})
	p.y += b.Height()
}

// place adds an unsplittable block, moving to a new page when it does not
// fit in the space left.
func (p *paginator) place(b Block, gap float64) error {
	p.ensurePage()
	h := b.Height()
	if h > p.contentHeight()+fitEpsilon {
		return &LayoutError{
			Reason:    fmt.Sprintf("%s block is taller than the page", b.Kind()),
			Required:  h,
			Available: p.contentHeight(),
		}
	}
	if h > p.remaining()+fitEpsilon && !p.empty() {
		p.newPage()
	}
	p.put(b)
	p.y += gap
	return nil
}

// placeTable adds a table, splitting it between rows as needed.
func (p *paginator) placeTable(t *TableBlock, gap float64) error {
	rows := t.Rows
	continued := false
	for {
		p.ensurePage()
		avail := p.remaining() - t.HeaderHeight

		n, used := 0, 0.0
		for n < len(rows) && used+rows[n].Height <= avail+fitEpsilon {
			used += rows[n].Height
			n++
		}

		if n == 0 && len(rows) > 0 {
			if !p.empty() {
				p.newPage()
				continue
			}
			return &LayoutError{
				Reason:    "table row does not fit on an empty page",
				Required:  t.HeaderHeight + rows[0].Height,
				Available: p.contentHeight(),
			}
		}

		p.put(t.withRows(rows[:n], continued))
		rows = rows[n:]
		if len(rows) == 0 {
			p.y += gap
			return nil
		}
		p.newPage()
		continued = true
	}
}
