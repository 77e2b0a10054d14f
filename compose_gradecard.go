package marksheet

import (
	"math"

	"github.com/alnah/go-marksheet/internal/richtext"
)

const (
	cardHeaderRow = 5.0
	cardRowHeight = 6.0
	cardFontSize  = 7.5
	cardInfoRow   = 7.0
	photoWidth    = 25.0
	photoHeight   = 30.0
)

// pairHeads labels the max/secured column pairs of the grade card.
var pairHeads = map[string]string{
	ColESEMax:   "ESE",
	ColCIAMax:   "CIA",
	ColTotalMax: "TOTAL",
}

// gradeCards composes one grade card per student, each starting on a new
// page.
func (c *composer) gradeCards(p *paginator) ([]Section, error) {
	cols := c.layout.Columns()
	header := gradeCardHeader(cols)

	sections := make([]Section, 0, len(c.students))
	for _, st := range c.students {
		sec := Section{
			Student:    st.index,
			RegisterNo: st.row.RegisterNo,
			Info:       c.gradeCardInfo(st),
			Marks: &TableBlock{
				Student:      st.index,
				Columns:      cols,
				Header:       header,
				HeaderHeight: 2 * cardHeaderRow,
				Rows:         c.gradeCardRows(cols, st),
				FontSize:     cardFontSize,
			},
			Summary: c.gradeCardSummary(st),
		}
		sections = append(sections, sec)

		p.breakPage()
		if err := p.place(sec.Info, blockGap); err != nil {
			return nil, err
		}
		if err := p.placeTable(sec.Marks, blockGap); err != nil {
			return nil, err
		}
		if err := p.place(sec.Summary, blockGap); err != nil {
			return nil, err
		}
		if sig := c.signatures(c.style.Signatures); sig != nil {
			if err := p.place(sig, 0); err != nil {
				return nil, err
			}
		}
	}
	return sections, nil
}

// gradeCardHeader builds a two-row header: ESE, CIA and TOTAL heads over
// their MAX and SEC columns, every other column spanning both rows.
func gradeCardHeader(cols []Column) []HeaderCell {
	var cells []HeaderCell
	for i, col := range cols {
		head, paired := pairHeads[col.Key]
		switch {
		case paired && i+1 < len(cols):
			fill := headerFill
			next := cols[i+1]
			cells = append(cells,
				HeaderCell{Text: head, X: col.X, Width: col.Width + next.Width, Height: cardHeaderRow, Fill: &fill},
				HeaderCell{Text: col.Label, X: col.X, Y: cardHeaderRow, Width: col.Width, Height: cardHeaderRow, Fill: &fill},
			)
		case isSecuredColumn(col.Key):
			fill := headerFill
			cells = append(cells, HeaderCell{Text: col.Label, X: col.X, Y: cardHeaderRow, Width: col.Width, Height: cardHeaderRow, Fill: &fill})
		default:
			cells = append(cells, fixedHeaderCell(col, 2*cardHeaderRow))
		}
	}
	return cells
}

func isSecuredColumn(key string) bool {
	return key == ColESESecured || key == ColCIASecured || key == ColTotalSecured
}

func (c *composer) gradeCardInfo(st student) *InfoBlock {
	s := st.row
	width := c.geom.PrintableWidth() - photoWidth - blockGap
	return &InfoBlock{
		Student:    st.index,
		RegisterNo: s.RegisterNo,
		Rows: [][]InfoField{
			{{Label: "NAME OF THE CANDIDATE", Value: s.Name}, {Label: "DATE OF BIRTH", Value: orDash(s.DOB)}},
			{{Label: "REGISTER NO", Value: s.RegisterNo}, {Label: "MONTH & YEAR OF EXAMINATION", Value: orDash(c.monthYear)}},
			{{Label: "PROGRAMME", Value: orDash(c.program(s))}, {Label: "FOLIO NUMBER", Value: orDash(s.FolioNo)}},
		},
		ColumnWidths: []float64{width * 0.22, width * 0.30, width * 0.22, width * 0.26},
		RowHeight:    cardInfoRow,
		Photo:        &Photo{Image: s.Photo, Width: photoWidth, Height: photoHeight},
		FontSize:     c.style.BodySize - 2,
	}
}

func (c *composer) program(s *StudentMarksheetRow) string {
	if s.Program != "" {
		return s.Program
	}
	return c.req.Info.Program
}

func (c *composer) gradeCardRows(cols []Column, st student) []TableRow {
	titleWidth := 0.0
	for _, col := range cols {
		if col.Key == ColCourseTitle {
			titleWidth = col.Width
		}
	}

	courses := c.layout.Courses()
	rows := make([]TableRow, 0, len(courses))
	for _, pc := range courses {
		course := pc.Course
		m, ok := st.row.mark(course.Code)

		cells := make([]Cell, len(cols))
		for i, col := range cols {
			cells[i] = gradeCardCell(col, course, m, ok)
		}

		lines := richtext.EstimateLines(course.Title, titleWidth-2, cardFontSize)
		h := math.Max(cardRowHeight, float64(lines)*lineHeight(cardFontSize)+1.5)
		rows = append(rows, TableRow{Student: st.index, Cells: cells, Height: h})
	}
	return rows
}

func gradeCardCell(col Column, course CourseColumn, m CourseMarkData, ok bool) Cell {
	cell := Cell{Align: col.Align, Text: "-"}
	switch col.Key {
	case ColSemester:
		sem := course.Semester
		if ok && m.Semester > 0 {
			sem = m.Semester
		}
		if sem > 0 {
			cell.Text = Roman(sem)
		}
	case ColPart:
		cell.Text = orDash(course.Part)
	case ColSubjectCode:
		cell.Text = course.Code
	case ColCourseTitle:
		cell.Text = orDash(course.Title)
	case ColCredit:
		credit := course.Credit
		if ok && m.Credit != nil {
			credit = *m.Credit
		}
		cell.Text = formatMax(credit)
	case ColESEMax:
		cell.Text = formatMax(course.ExternalMax)
	case ColCIAMax:
		cell.Text = formatMax(course.InternalMax)
	case ColTotalMax:
		total := course.TotalMax
		if total == 0 {
			total = course.InternalMax + course.ExternalMax
		}
		cell.Text = formatMax(total)
	}
	if !ok {
		return cell
	}

	switch col.Key {
	case ColESESecured:
		cell.Text = formatMark(m.External)
	case ColCIASecured:
		cell.Text = formatMark(m.Internal)
	case ColTotalSecured:
		cell.Text = formatMark(m.Total)
	case ColGradePoint:
		cell.Text = formatMark(m.GradePoint)
	case ColLetterGrade:
		cell.Text = orDash(m.LetterGrade)
	case ColResult:
		cell.Text = m.ResultStatus()
		cell.Color = resultColor(cell.Text)
		cell.Bold = true
	}
	return cell
}

func (c *composer) gradeCardSummary(st student) *SummaryBlock {
	s := st.row.Summary
	code := st.row.ProgramCode
	if code == "" {
		code = c.req.Info.ProgramCode
	}
	note := "Passing Minimum is 40%"
	if IsPostgraduate(code) {
		note = "Passing Minimum is 50%"
	}
	return &SummaryBlock{
		Student: st.index,
		Title:   "SUMMARY",
		Fields: []InfoField{
			{Label: "CREDITS EARNED", Value: formatMax(s.CreditsEarned)},
			{Label: "GPA", Value: formatGPA(s.GPA)},
			{Label: "CGPA", Value: formatGPA(s.CGPA)},
			{Label: "RESULT", Value: orDash(s.Result)},
		},
		Parts:     s.Parts,
		Note:      note,
		RowHeight: cardRowHeight,
		FontSize:  c.style.BodySize - 2,
	}
}
