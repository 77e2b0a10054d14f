package marksheet

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MappingTable renders the order to group reference table for orders 1..n.
func MappingTable(n int) string {
	var b strings.Builder
	b.WriteString("┌──────────────┬──────────────┐\n")
	b.WriteString("│ course_order │ column_group │\n")
	b.WriteString("├──────────────┼──────────────┤\n")
	for order := 1; order <= n; order++ {
		fmt.Fprintf(&b, "│ %12d │ %12s │\n", order, GroupLabel(ColumnGroupOf(order)))
	}
	b.WriteString("└──────────────┴──────────────┘")
	return b.String()
}

// VisualLayout draws the three header rows of a resolved layout as text,
// followed by a legend.
func VisualLayout(h *HeaderStructure) string {
	var bands, codes, subs []string
	bands = append(bands, fixedLabels(h.leading)...)
	codes = append(codes, blanks(len(h.leading))...)
	subs = append(subs, blanks(len(h.leading))...)

	if h.mode == CoursesAsColumns {
		for _, pc := range h.courses {
			keys := make([]string, 0, GroupCount*2)
			for _, sc := range SubColumnsOf(pc.Group) {
				keys = append(keys, sc.Key)
			}
			sub := strings.Join(keys, "|")
			width := max(utf8.RuneCountInString(sub), len(pc.Course.Code))
			bands = append(bands, pad(GroupLabel(pc.Group), width))
			codes = append(codes, pad(pc.Course.Code, width))
			subs = append(subs, pad(sub, width))
		}
	} else {
		bands = append(bands, fmt.Sprintf("%d course rows", len(h.courses)))
		codes = append(codes, "")
		subs = append(subs, "")
	}

	bands = append(bands, fixedLabels(h.trailing)...)
	codes = append(codes, blanks(len(h.trailing))...)
	subs = append(subs, blanks(len(h.trailing))...)

	for i := range bands {
		w := max(utf8.RuneCountInString(bands[i]), utf8.RuneCountInString(codes[i]), utf8.RuneCountInString(subs[i]))
		bands[i], codes[i], subs[i] = pad(bands[i], w), pad(codes[i], w), pad(subs[i], w)
	}

	rows := []string{
		"║ " + strings.Join(bands, " │ ") + " ║",
		"║ " + strings.Join(codes, " │ ") + " ║",
		"║ " + strings.Join(subs, " │ ") + " ║",
	}
	inner := utf8.RuneCountInString(rows[0]) - 2

	var b strings.Builder
	b.WriteString("╔" + strings.Repeat("═", inner) + "╗\n")
	b.WriteString("║" + center("MARKSHEET HEADER LAYOUT", inner) + "║\n")
	b.WriteString("╠" + strings.Repeat("═", inner) + "╣\n")
	for i, r := range rows {
		b.WriteString(r + "\n")
		if i < len(rows)-1 {
			b.WriteString("╟" + strings.Repeat("─", inner) + "╢\n")
		}
	}
	b.WriteString("╚" + strings.Repeat("═", inner) + "╝\n")
	fmt.Fprintf(&b, "\nTotal width: %.2fmm of %.2fmm printable\n", h.TotalWidth(), h.printableWidth)
	b.WriteString(layoutLegend)
	return b.String()
}

const layoutLegend = `
LEGEND:
  CG1-CG4 = Column groups (assigned from course order)
  SEM     = Semester
  INT     = Internal marks
  EXT     = External marks
  TOT     = Total marks
  RES     = Result (P/F/A)
  GP      = Grade points
  LG      = Letter grade
  SGPA    = Semester grade point average
  CGPA    = Cumulative grade point average
`

func fixedLabels(cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Label
	}
	return out
}

func blanks(n int) []string {
	return make([]string, n)
}

func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func center(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-n-left)
}
