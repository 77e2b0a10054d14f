package marksheet

import (
	"fmt"
	"time"

	"github.com/alnah/go-marksheet/internal/richtext"
)

// Kind selects the document template.
type Kind int

const (
	KindSemesterMarksheet Kind = iota + 1
	KindHallTicket
)

func (k Kind) String() string {
	switch k {
	case KindSemesterMarksheet:
		return "marksheet"
	case KindHallTicket:
		return "hallticket"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Format selects the semester marksheet variant.
type Format int

const (
	// FormatLedger is the consolidated marksheet: one row per student with
	// every course as a band of columns.
	FormatLedger Format = iota
	// FormatGradeCard merges one grade card per student into a single
	// document, one course per row.
	FormatGradeCard
)

func (f Format) String() string {
	if f == FormatGradeCard {
		return "gradecard"
	}
	return "ledger"
}

// Align is a horizontal text alignment.
type Align string

const (
	AlignLeft   Align = "L"
	AlignCenter Align = "C"
	AlignRight  Align = "R"
)

// RGB is an 8-bit color.
type RGB struct {
	R, G, B int
}

// Common colors.
var (
	ColorBlack     = RGB{}
	ColorPass      = RGB{R: 22, G: 163, B: 74}
	ColorFail      = RGB{R: 220, G: 38, B: 38}
	ColorHeaderBg  = RGB{R: 243, G: 244, B: 246}
	ColorPlacehold = RGB{R: 156, G: 163, B: 175}
)

// BlockKind identifies the role of a block on a page.
type BlockKind int

const (
	BlockTitle BlockKind = iota + 1
	BlockInfo
	BlockTable
	BlockSummary
	BlockSignature
	BlockNote
)

func (k BlockKind) String() string {
	switch k {
	case BlockTitle:
		return "title"
	case BlockInfo:
		return "info"
	case BlockTable:
		return "table"
	case BlockSummary:
		return "summary"
	case BlockSignature:
		return "signature"
	case BlockNote:
		return "note"
	}
	return fmt.Sprintf("BlockKind(%d)", int(k))
}

// Block is a unit of page content. Only tables may be split across pages.
type Block interface {
	Kind() BlockKind
	Height() float64
}

// TextLine is a single line of styled text.
type TextLine struct {
	Text   string
	Size   float64 // points
	Bold   bool
	Align  Align
	Color  RGB
	Height float64 // millimetres
}

// TextBlock is a stack of lines, used for titles.
type TextBlock struct {
	Lines []TextLine
}

func (b *TextBlock) Kind() BlockKind { return BlockTitle }

func (b *TextBlock) Height() float64 {
	var h float64
	for _, l := range b.Lines {
		h += l.Height
	}
	return h
}

// InfoField is a label and value pair.
type InfoField struct {
	Label string
	Value string
}

// Photo is a student photo slot. A nil Image draws a placeholder box.
type Photo struct {
	Image  []byte
	Width  float64
	Height float64
}

// InfoBlock is the student identity block.
type InfoBlock struct {
	Student    int
	RegisterNo string
	// Rows hold one or two fields each; ColumnWidths alternate label and
	// value widths for the widest row.
	Rows         [][]InfoField
	ColumnWidths []float64
	RowHeight    float64
	Photo        *Photo
	FontSize     float64
}

func (b *InfoBlock) Kind() BlockKind { return BlockInfo }

func (b *InfoBlock) Height() float64 {
	h := float64(len(b.Rows)) * b.RowHeight
	if b.Photo != nil && b.Photo.Height > h {
		return b.Photo.Height
	}
	return h
}

// Fields flattens the rows in reading order.
func (b *InfoBlock) Fields() []InfoField {
	var out []InfoField
	for _, r := range b.Rows {
		out = append(out, r...)
	}
	return out
}

// Value returns the value printed for label.
func (b *InfoBlock) Value(label string) (string, bool) {
	for _, f := range b.Fields() {
		if f.Label == label {
			return f.Value, true
		}
	}
	return "", false
}

// HeaderCell is a cell of a table header, positioned relative to the
// table origin so cells may span rows and columns.
type HeaderCell struct {
	Text   string
	X, Y   float64
	Width  float64
	Height float64
	Fill   *RGB
	Color  RGB
}

// Cell is a body cell.
type Cell struct {
	Text  string
	Align Align
	Color RGB
	Bold  bool
}

// TableRow is one body row. Student is the batch index, or -1 for padding.
type TableRow struct {
	Student int
	Cells   []Cell
	Height  float64
}

// TableBlock is a table with a positioned header. Body cells follow
// Columns by index.
type TableBlock struct {
	Student      int // -1 when rows belong to several students
	Columns      []Column
	Header       []HeaderCell
	HeaderHeight float64
	Rows         []TableRow
	FontSize     float64
	Continued    bool
}

func (b *TableBlock) Kind() BlockKind { return BlockTable }

func (b *TableBlock) Height() float64 {
	h := b.HeaderHeight
	for _, r := range b.Rows {
		h += r.Height
	}
	return h
}

// CourseGroups returns the group of each course band in column order.
func (b *TableBlock) CourseGroups() []int {
	var groups []int
	last := ""
	for _, c := range b.Columns {
		if c.CourseCode == "" || c.CourseCode == last {
			continue
		}
		last = c.CourseCode
		groups = append(groups, c.Group)
	}
	return groups
}

// withRows returns a shallow copy holding only rows.
func (b *TableBlock) withRows(rows []TableRow, continued bool) *TableBlock {
	cp := *b
	cp.Rows = rows
	cp.Continued = continued
	return &cp
}

// SummaryBlock prints upstream-computed totals for a student.
type SummaryBlock struct {
	Student   int
	Title     string
	Fields    []InfoField
	Parts     []PartSummary
	Note      string
	RowHeight float64
	FontSize  float64
}

func (b *SummaryBlock) Kind() BlockKind { return BlockSummary }

func (b *SummaryBlock) Height() float64 {
	rows := 1 + len(b.Parts)
	if b.Title != "" {
		rows++
	}
	if b.Note != "" {
		rows++
	}
	return float64(rows) * b.RowHeight
}

// Value returns the value printed for label.
func (b *SummaryBlock) Value(label string) (string, bool) {
	for _, f := range b.Fields {
		if f.Label == label {
			return f.Value, true
		}
	}
	return "", false
}

// SignatureBlock prints signature lines with labels beneath.
type SignatureBlock struct {
	Labels    []string
	LineWidth float64
	Gap       float64
	FontSize  float64
}

func (b *SignatureBlock) Kind() BlockKind { return BlockSignature }

func (b *SignatureBlock) Height() float64 { return b.Gap + 6 }

// NoteBlock is formatted free text such as exam instructions.
type NoteBlock struct {
	Paragraphs []richtext.Paragraph
	Markdown   string
	FontSize   float64
	LineHeight float64
	Lines      int
}

func (b *NoteBlock) Kind() BlockKind { return BlockNote }

func (b *NoteBlock) Height() float64 { return float64(b.Lines) * b.LineHeight }

// Placed is a block at an absolute page position in millimetres.
type Placed struct {
	X, Y  float64
	Width float64
	Block Block
}

// Page is one output page.
type Page struct {
	Number     int
	Header     []TextLine
	HeaderHTML string
	Blocks     []Placed
	Footer     []TextLine
	FooterHTML string
}

// Section is the content composed for one student before pagination.
type Section struct {
	Student    int
	RegisterNo string
	Info       *InfoBlock
	Marks      *TableBlock
	Summary    *SummaryBlock
}

// Document is a fully paginated document, ready for a backend to draw.
type Document struct {
	ID       string
	Kind     Kind
	Format   Format
	Title    string
	Created  time.Time
	Geometry Geometry
	Style    Style
	Sections []Section
	Pages    []*Page
}

// Blocks returns every placed block of kind, page by page.
func (d *Document) Blocks(kind BlockKind) []Block {
	var out []Block
	for _, p := range d.Pages {
		for _, pl := range p.Blocks {
			if pl.Block.Kind() == kind {
				out = append(out, pl.Block)
			}
		}
	}
	return out
}

// Students returns the batch indexes rendered, in order.
func (d *Document) Students() []int {
	out := make([]int, len(d.Sections))
	for i, s := range d.Sections {
		out[i] = s.Student
	}
	return out
}
