package marksheet

import (
	"errors"
	"testing"
)

var testGeometry = Geometry{Width: 100, Height: 100, MarginTop: 10, MarginRight: 10, MarginBottom: 10, MarginLeft: 10}

func textOfHeight(h float64) *TextBlock {
	return &TextBlock{Lines: []TextLine{{Text: "x", Height: h}}}
}

func rowsOf(n int, h float64) []TableRow {
	rows := make([]TableRow, n)
	for i := range rows {
		rows[i] = TableRow{Student: i, Height: h}
	}
	return rows
}

func TestPaginator_Place(t *testing.T) {
	t.Parallel()

	p := newPaginator(testGeometry, 0, 0)
	for i := 0; i < 3; i++ {
		if err := p.place(textOfHeight(30), 0); err != nil {
			t.Fatalf("place() error = %v", err)
		}
	}

	if len(p.pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(p.pages))
	}
	if got := len(p.pages[0].Blocks); got != 2 {
		t.Errorf("page 1 blocks = %d, want 2", got)
	}
	second := p.pages[1].Blocks[0]
	if second.Y != 10 || second.X != 10 || second.Width != 80 {
		t.Errorf("page 2 block at (%v, %v) width %v, want (10, 10) width 80", second.X, second.Y, second.Width)
	}
	if p.pages[1].Number != 2 {
		t.Errorf("page number = %d, want 2", p.pages[1].Number)
	}
}

func TestPaginator_PlaceHeaderFooterBands(t *testing.T) {
	t.Parallel()

	p := newPaginator(testGeometry, 15, 5)
	if got := p.contentHeight(); got != 60 {
		t.Fatalf("contentHeight() = %v, want 60", got)
	}
	if err := p.place(textOfHeight(60), 0); err != nil {
		t.Fatalf("place() of a page-high block error = %v", err)
	}
	if got := p.pages[0].Blocks[0].Y; got != 25 {
		t.Errorf("first block Y = %v, want 25", got)
	}
}

func TestPaginator_PlaceTooTall(t *testing.T) {
	t.Parallel()

	p := newPaginator(testGeometry, 0, 0)
	err := p.place(textOfHeight(81), 0)
	if !errors.Is(err, ErrLayout) {
		t.Fatalf("place() error = %v, want ErrLayout", err)
	}
	var lerr *LayoutError
	if errors.As(err, &lerr) && (lerr.Required != 81 || lerr.Available != 80) {
		t.Errorf("LayoutError = %+v, want Required 81 Available 80", lerr)
	}
}

func TestPaginator_PlaceTableSplitsRows(t *testing.T) {
	t.Parallel()

	p := newPaginator(testGeometry, 0, 0)
	table := &TableBlock{
		Student:      -1,
		Header:       []HeaderCell{{Text: "H", Width: 80, Height: 10}},
		HeaderHeight: 10,
		Rows:         rowsOf(10, 10),
	}
	if err := p.placeTable(table, 0); err != nil {
		t.Fatalf("placeTable() error = %v", err)
	}

	if len(p.pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(p.pages))
	}
	first := p.pages[0].Blocks[0].Block.(*TableBlock)
	second := p.pages[1].Blocks[0].Block.(*TableBlock)
	if len(first.Rows) != 7 || len(second.Rows) != 3 {
		t.Errorf("rows per page = %d, %d, want 7, 3", len(first.Rows), len(second.Rows))
	}
	if first.Continued || !second.Continued {
		t.Errorf("Continued = %v, %v, want false, true", first.Continued, second.Continued)
	}
	if len(second.Header) != 1 {
		t.Error("continued table lost its header")
	}
	if second.Rows[0].Student != 7 {
		t.Errorf("second page starts at row %d, want 7", second.Rows[0].Student)
	}
	if len(table.Rows) != 10 {
		t.Error("placeTable() modified the input table")
	}
}

func TestPaginator_PlaceTableMovesInsteadOfOrphaningHeader(t *testing.T) {
	t.Parallel()

	p := newPaginator(testGeometry, 0, 0)
	if err := p.place(textOfHeight(65), 0); err != nil {
		t.Fatalf("place() error = %v", err)
	}
	table := &TableBlock{HeaderHeight: 10, Rows: rowsOf(2, 10)}
	if err := p.placeTable(table, 0); err != nil {
		t.Fatalf("placeTable() error = %v", err)
	}
	if len(p.pages) != 2 || len(p.pages[0].Blocks) != 1 {
		t.Fatalf("pages = %d, page 1 blocks = %d, want table moved to page 2", len(p.pages), len(p.pages[0].Blocks))
	}
	if got := p.pages[1].Blocks[0].Block.(*TableBlock); got.Continued {
		t.Error("moved table marked as continued")
	}
}

func TestPaginator_PlaceTableRowTooTall(t *testing.T) {
	t.Parallel()

	p := newPaginator(testGeometry, 0, 0)
	err := p.placeTable(&TableBlock{HeaderHeight: 10, Rows: rowsOf(1, 75)}, 0)
	if !errors.Is(err, ErrLayout) {
		t.Errorf("placeTable() error = %v, want ErrLayout", err)
	}
}

func TestPaginator_BreakPage(t *testing.T) {
	t.Parallel()

	p := newPaginator(testGeometry, 0, 0)
	p.breakPage()
	if err := p.place(textOfHeight(5), 0); err != nil {
		t.Fatal(err)
	}
	p.breakPage()
	p.breakPage()
	if err := p.place(textOfHeight(5), 0); err != nil {
		t.Fatal(err)
	}
	if len(p.pages) != 2 {
		t.Errorf("pages = %d, want 2 (breaks on empty pages are no-ops)", len(p.pages))
	}
}
