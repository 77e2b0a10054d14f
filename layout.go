package marksheet

import (
	"fmt"
	"math"
	"sort"
)

// WidthTolerance is the rounding tolerance, in millimetres, allowed between
// the sum of column widths and the printable width.
const WidthTolerance = 0.01

// Mode selects how courses are laid out in the marks table.
type Mode int

const (
	// CoursesAsColumns places each course as a band of sub-columns,
	// one table row per student.
	CoursesAsColumns Mode = iota + 1
	// CoursesAsRows places each course on its own table row.
	CoursesAsRows
)

func (m Mode) String() string {
	switch m {
	case CoursesAsColumns:
		return "columns"
	case CoursesAsRows:
		return "rows"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// FixedColumn is a non-course column of a frame.
// A Flex column starts at MinWidth and absorbs the remaining width.
type FixedColumn struct {
	Key      string
	Label    string
	Width    float64
	MinWidth float64
	Flex     bool
	Align    Align
}

// Frame describes the page-dependent part of a layout.
type Frame struct {
	PrintableWidth float64
	Leading        []FixedColumn
	Trailing       []FixedColumn
	Mode           Mode
	// ClusterGroups emits courses group by group (CG1..CG4), ordered by
	// course order within a group, instead of in input order.
	ClusterGroups bool
}

// Column is one emitted table column with its absolute offset from the
// left edge of the printable area.
type Column struct {
	Key        string
	Label      string
	X          float64
	Width      float64
	Group      int    // 0 for fixed columns
	CourseCode string // empty for fixed columns
	Sub        string // sub-column key for course columns
	Align      Align
}

// PlacedCourse is a course with its resolved group and position.
// In rows mode X and Width are zero and Row is the table row index.
type PlacedCourse struct {
	Course CourseColumn
	Group  int
	X      float64
	Width  float64
	Row    int
}

// ColumnGroup lists the courses of one group, sorted by order.
type ColumnGroup struct {
	Number     int
	Label      string
	SubColumns []SubColumn
	Courses    []CourseColumn
	Width      float64
}

// HeaderStructure is the resolved layout of a course list. It is read-only:
// accessors return copies so concurrent renders can share one value.
type HeaderStructure struct {
	mode           Mode
	printableWidth float64
	leading        []Column
	trailing       []Column
	courses        []PlacedCourse
	groups         []ColumnGroup
	columns        []Column
}

// Mode reports whether courses are columns or rows.
func (h *HeaderStructure) Mode() Mode { return h.mode }

// PrintableWidth is the width the layout was resolved against.
func (h *HeaderStructure) PrintableWidth() float64 { return h.printableWidth }

// Leading returns the fixed columns before the courses.
func (h *HeaderStructure) Leading() []Column { return append([]Column(nil), h.leading...) }

// Trailing returns the fixed columns after the courses.
func (h *HeaderStructure) Trailing() []Column { return append([]Column(nil), h.trailing...) }

// Courses returns the courses in emission order.
func (h *HeaderStructure) Courses() []PlacedCourse {
	out := make([]PlacedCourse, len(h.courses))
	copy(out, h.courses)
	return out
}

// Groups returns CG1..CG4, including empty groups.
func (h *HeaderStructure) Groups() []ColumnGroup {
	out := make([]ColumnGroup, len(h.groups))
	for i, g := range h.groups {
		g.SubColumns = append([]SubColumn(nil), g.SubColumns...)
		g.Courses = append([]CourseColumn(nil), g.Courses...)
		out[i] = g
	}
	return out
}

// Columns returns every emitted column, left to right.
func (h *HeaderStructure) Columns() []Column { return append([]Column(nil), h.columns...) }

// TotalWidth is the sum of all column widths.
func (h *HeaderStructure) TotalWidth() float64 {
	var w float64
	for _, c := range h.columns {
		w += c.Width
	}
	return w
}

// CourseGroups returns the group of each course in emission order.
func (h *HeaderStructure) CourseGroups() []int {
	out := make([]int, len(h.courses))
	for i, pc := range h.courses {
		out[i] = pc.Group
	}
	return out
}

// ResolveLayout assigns every course to its column group and computes
// absolute column widths so that the columns fill frame.PrintableWidth.
// It fails with a LayoutError on empty input, non-positive orders, a frame
// without a flex column to absorb slack, or width overflow.
func ResolveLayout(courses []CourseColumn, frame Frame) (*HeaderStructure, error) {
	if len(courses) == 0 {
		return nil, &LayoutError{Reason: "course list is empty"}
	}
	if frame.PrintableWidth <= 0 {
		return nil, &LayoutError{Reason: fmt.Sprintf("printable width %.2fmm is not positive", frame.PrintableWidth)}
	}
	mode := frame.Mode
	if mode == 0 {
		mode = CoursesAsColumns
	}

	placed := make([]PlacedCourse, len(courses))
	for i, c := range courses {
		if c.Order < 1 {
			return nil, &LayoutError{Reason: fmt.Sprintf("course %q has order %d, want a positive integer", c.Code, c.Order)}
		}
		placed[i] = PlacedCourse{Course: c, Group: ColumnGroupOf(c.Order)}
	}
	if frame.ClusterGroups {
		sort.SliceStable(placed, func(i, j int) bool {
			if placed[i].Group != placed[j].Group {
				return placed[i].Group < placed[j].Group
			}
			return placed[i].Course.Order < placed[j].Course.Order
		})
	}

	var courseWidth float64
	if mode == CoursesAsColumns {
		for _, pc := range placed {
			courseWidth += GroupWidth(pc.Group)
		}
	}

	fixed := make([]FixedColumn, 0, len(frame.Leading)+len(frame.Trailing))
	fixed = append(fixed, frame.Leading...)
	fixed = append(fixed, frame.Trailing...)

	var fixedWidth float64
	flexCount := 0
	for _, fc := range fixed {
		if fc.Flex {
			fixedWidth += fc.MinWidth
			flexCount++
			continue
		}
		fixedWidth += fc.Width
	}

	required := fixedWidth + courseWidth
	available := frame.PrintableWidth
	if required > available+WidthTolerance {
		return nil, newOverflowError(fmt.Sprintf("%d courses do not fit", len(courses)), required, available)
	}
	slack := available - required
	if flexCount == 0 && slack > WidthTolerance {
		return nil, &LayoutError{
			Reason:    fmt.Sprintf("frame has no flex column to absorb %.2fmm", slack),
			Required:  required,
			Available: available,
		}
	}

	widths := resolveFixedWidths(fixed, slack, flexCount)

	h := &HeaderStructure{mode: mode, printableWidth: available}
	x := 0.0
	for i := range frame.Leading {
		col := fixedColumn(frame.Leading[i], x, widths[i])
		h.leading = append(h.leading, col)
		h.columns = append(h.columns, col)
		x += col.Width
	}

	for i := range placed {
		pc := &placed[i]
		if mode == CoursesAsRows {
			pc.Row = i
			continue
		}
		pc.X = x
		for _, sc := range SubColumnsOf(pc.Group) {
			h.columns = append(h.columns, Column{
				Key:        pc.Course.Code + ":" + sc.Key,
				Label:      sc.Key,
				X:          x,
				Width:      sc.Width,
				Group:      pc.Group,
				CourseCode: pc.Course.Code,
				Sub:        sc.Key,
				Align:      AlignCenter,
			})
			x += sc.Width
		}
		pc.Width = x - pc.X
	}
	h.courses = placed

	for i := range frame.Trailing {
		col := fixedColumn(frame.Trailing[i], x, widths[len(frame.Leading)+i])
		h.trailing = append(h.trailing, col)
		h.columns = append(h.columns, col)
		x += col.Width
	}

	h.groups = buildGroups(placed, mode)
	return h, nil
}

// resolveFixedWidths spreads slack evenly over flex columns. The last flex
// column takes the rounding remainder so the total matches exactly.
func resolveFixedWidths(fixed []FixedColumn, slack float64, flexCount int) []float64 {
	widths := make([]float64, len(fixed))
	if flexCount == 0 {
		for i, fc := range fixed {
			widths[i] = fc.Width
		}
		return widths
	}

	share := math.Floor(slack/float64(flexCount)*1000) / 1000
	lastFlex := -1
	for i, fc := range fixed {
		if fc.Flex {
			widths[i] = fc.MinWidth + share
			lastFlex = i
			continue
		}
		widths[i] = fc.Width
	}
	widths[lastFlex] += slack - share*float64(flexCount)
	return widths
}

func fixedColumn(fc FixedColumn, x, width float64) Column {
	align := fc.Align
	if align == "" {
		align = AlignCenter
	}
	return Column{Key: fc.Key, Label: fc.Label, X: x, Width: width, Align: align}
}

func buildGroups(placed []PlacedCourse, mode Mode) []ColumnGroup {
	groups := make([]ColumnGroup, GroupCount)
	for i := range groups {
		n := i + 1
		groups[i] = ColumnGroup{Number: n, Label: GroupLabel(n), SubColumns: SubColumnsOf(n)}
	}
	for _, pc := range placed {
		g := &groups[pc.Group-1]
		g.Courses = append(g.Courses, pc.Course)
	}
	for i := range groups {
		g := &groups[i]
		sort.SliceStable(g.Courses, func(a, b int) bool { return g.Courses[a].Order < g.Courses[b].Order })
		if mode == CoursesAsColumns {
			g.Width = float64(len(g.Courses)) * GroupWidth(g.Number)
		}
	}
	return groups
}
