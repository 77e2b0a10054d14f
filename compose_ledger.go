package marksheet

import "strconv"

// Ledger table geometry in millimetres and points.
const (
	ledgerHeaderRow = 5.0
	ledgerRowHeight = 6.0
	ledgerFontSize  = 6.0
)

// ledger lays every student out as one row of a single table. Each
// student's section still carries its own info, marks and summary.
func (c *composer) ledger(p *paginator) ([]Section, error) {
	cols := c.layout.Columns()
	header := ledgerHeader(cols)
	courses := make(map[string]CourseColumn)
	for _, pc := range c.layout.Courses() {
		courses[pc.Course.Code] = pc.Course
	}

	sections := make([]Section, 0, len(c.students))
	rows := make([]TableRow, 0, len(c.students))
	for serial, st := range c.students {
		row := ledgerRow(cols, courses, serial+1, st)
		rows = append(rows, row)

		sections = append(sections, Section{
			Student:    st.index,
			RegisterNo: st.row.RegisterNo,
			Info: &InfoBlock{
				Student:    st.index,
				RegisterNo: st.row.RegisterNo,
				Rows: [][]InfoField{{
					{Label: "REG NO", Value: st.row.RegisterNo},
					{Label: "STUDENT NAME", Value: st.row.Name},
				}},
				RowHeight: ledgerRowHeight,
				FontSize:  ledgerFontSize,
			},
			Marks: &TableBlock{
				Student:      st.index,
				Columns:      cols,
				Header:       header,
				HeaderHeight: 3 * ledgerHeaderRow,
				Rows:         []TableRow{row},
				FontSize:     ledgerFontSize,
			},
			Summary: ledgerSummary(st),
		})
	}

	table := &TableBlock{
		Student:      -1,
		Columns:      cols,
		Header:       header,
		HeaderHeight: 3 * ledgerHeaderRow,
		Rows:         rows,
		FontSize:     ledgerFontSize,
	}
	if err := p.placeTable(table, blockGap); err != nil {
		return nil, err
	}
	if sig := c.signatures(c.style.Signatures); sig != nil {
		if err := p.place(sig, 0); err != nil {
			return nil, err
		}
	}
	return sections, nil
}

// ledgerHeader builds the three header rows: column group bands merged
// across neighbouring courses of the same group, course codes, then
// sub-column keys. Fixed columns span all three rows.
func ledgerHeader(cols []Column) []HeaderCell {
	var cells []HeaderCell
	white := RGB{R: 255, G: 255, B: 255}

	var band *HeaderCell
	var course *HeaderCell
	flush := func() {
		if band != nil {
			cells = append(cells, *band)
			band = nil
		}
		if course != nil {
			cells = append(cells, *course)
			course = nil
		}
	}

	for _, col := range cols {
		if col.CourseCode == "" {
			flush()
			cells = append(cells, fixedHeaderCell(col, 3*ledgerHeaderRow))
			continue
		}

		if course != nil && course.Text != col.CourseCode {
			cells = append(cells, *course)
			course = nil
		}
		if course == nil {
			fill := GroupColor(col.Group)
			fill = lighten(fill)
			course = &HeaderCell{Text: col.CourseCode, X: col.X, Y: ledgerHeaderRow, Height: ledgerHeaderRow, Fill: &fill}
		}
		course.Width = col.X + col.Width - course.X

		label := GroupLabel(col.Group)
		if band != nil && band.Text != label {
			cells = append(cells, *band)
			band = nil
		}
		if band == nil {
			fill := GroupColor(col.Group)
			band = &HeaderCell{Text: label, X: col.X, Height: ledgerHeaderRow, Fill: &fill, Color: white}
		}
		band.Width = col.X + col.Width - band.X

		fill := headerFill
		cells = append(cells, HeaderCell{
			Text: col.Sub, X: col.X, Y: 2 * ledgerHeaderRow,
			Width: col.Width, Height: ledgerHeaderRow, Fill: &fill,
		})
	}
	flush()
	return cells
}

// lighten mixes a color halfway to white.
func lighten(c RGB) RGB {
	return RGB{R: (c.R + 255) / 2, G: (c.G + 255) / 2, B: (c.B + 255) / 2}
}

func ledgerRow(cols []Column, courses map[string]CourseColumn, serial int, st student) TableRow {
	s := st.row
	cells := make([]Cell, len(cols))
	for i, col := range cols {
		cell := Cell{Align: col.Align}
		switch {
		case col.CourseCode != "":
			m, ok := s.mark(col.CourseCode)
			cell.Text = "-"
			if ok {
				cell.Text, cell.Color = markCell(col.Sub, m, courses[col.CourseCode])
			}
		case col.Key == ColSerial:
			cell.Text = strconv.Itoa(serial)
		case col.Key == ColRegisterNo:
			cell.Text = s.RegisterNo
		case col.Key == ColName:
			cell.Text = s.Name
		case col.Key == ColSGPA:
			cell.Text = formatGPA(s.Summary.GPA)
		case col.Key == ColCGPA:
			cell.Text = formatGPA(s.Summary.CGPA)
		case col.Key == ColResult:
			cell.Text = orDash(s.Summary.Result)
			cell.Color = resultColor(s.Summary.Result)
			cell.Bold = true
		}
		cells[i] = cell
	}
	return TableRow{Student: st.index, Cells: cells, Height: ledgerRowHeight}
}

// markCell formats one sub-column of a course.
func markCell(sub string, m CourseMarkData, course CourseColumn) (string, RGB) {
	switch sub {
	case SubSemester:
		sem := m.Semester
		if sem == 0 {
			sem = course.Semester
		}
		if sem == 0 {
			return "-", ColorBlack
		}
		return Roman(sem), ColorBlack
	case SubInternal:
		return formatMark(m.Internal), ColorBlack
	case SubExternal:
		return formatMark(m.External), ColorBlack
	case SubTotal:
		return formatMark(m.Total), ColorBlack
	case SubResult:
		r := m.ResultStatus()
		return shortResult(r), resultColor(r)
	case SubGradePoint:
		return formatMark(m.GradePoint), ColorBlack
	case SubLetterGrade:
		return orDash(m.LetterGrade), ColorBlack
	}
	return "-", ColorBlack
}

func ledgerSummary(st student) *SummaryBlock {
	s := st.row.Summary
	return &SummaryBlock{
		Student: st.index,
		Fields: []InfoField{
			{Label: "CREDITS EARNED", Value: formatMax(s.CreditsEarned)},
			{Label: "SGPA", Value: formatGPA(s.GPA)},
			{Label: "CGPA", Value: formatGPA(s.CGPA)},
			{Label: "RESULT", Value: orDash(s.Result)},
		},
		Parts:     s.Parts,
		RowHeight: ledgerRowHeight,
		FontSize:  ledgerFontSize,
	}
}
